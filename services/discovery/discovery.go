package discovery

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/meghashyamc/lexfeat/logger"
)

// DefaultPattern matches C source files.
const DefaultPattern = `.*\.c$`

// Files lazily yields the regular files under root whose path relative to root
// matches pattern. Paths are relative and slash separated. An unreadable root or
// an invalid pattern yields nothing.
func Files(logger logger.Logger, root string, pattern string) iter.Seq[string] {
	if pattern == "" {
		pattern = DefaultPattern
	}

	return func(yield func(string) bool) {
		matcher, err := regexp.Compile(pattern)
		if err != nil {
			logger.Error("invalid file pattern", "pattern", pattern, "err", err.Error())
			return
		}

		root := filepath.Clean(root)
		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Error("could not walk through file or directory", "path", path, "err", err.Error())
				if path == root {
					return filepath.SkipAll
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !isRegularFile(logger, path, d) {
				return nil
			}

			relPath, err := filepath.Rel(root, path)
			if err != nil {
				logger.Warn("could not compute relative path", "root", root, "path", path, "err", err.Error())
				return nil
			}
			relPath = filepath.ToSlash(relPath)

			if !matcher.MatchString(relPath) {
				return nil
			}

			if !yield(relPath) {
				return filepath.SkipAll
			}

			return nil
		})
		if walkErr != nil {
			logger.Error("failed to list files", "root", root, "err", walkErr.Error())
		}
	}
}

// isRegularFile reports whether d is a regular file or a symlink to one.
// Symlinked directories are never followed.
func isRegularFile(logger logger.Logger, path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		logger.Warn("could not resolve symlink", "path", path, "err", err.Error())
		return false
	}

	return info.Mode().IsRegular()
}

// ListFiles collects Files into a slice. It never returns nil.
func ListFiles(logger logger.Logger, root string, pattern string) []string {
	files := slices.Collect(Files(logger, root, pattern))
	if files == nil {
		return []string{}
	}

	return files
}
