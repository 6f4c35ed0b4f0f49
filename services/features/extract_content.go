package features

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/meghashyamc/lexfeat/db/searchdb"
	"github.com/meghashyamc/lexfeat/services/lexer"
)

const maxFileSize = 10 * 1024 * 1024 // 10MB limit

type FileInfo struct {
	Path    string // Absolute path
	RelPath string // Path relative to the requested root
	Name    string
	Size    int64
	ModTime time.Time
}

type fileFeatures struct {
	file        FileInfo
	document    *searchdb.Document
	frequencies lexer.FrequencyMap
}

func (s *Service) extractFeatures(fileInfo FileInfo) (*fileFeatures, error) {
	content, err := readTextFile(fileInfo.Path)
	if err != nil {
		return nil, err
	}

	if s.options.StripComments {
		content = lexer.StripCommentsText(content)
	}

	frequencies := lexer.Tokenize(content, s.options.Policy)

	return &fileFeatures{
		file: fileInfo,
		document: &searchdb.Document{
			ID:         fileInfo.Path,
			Path:       fileInfo.Path,
			Name:       fileInfo.Name,
			Content:    content,
			Size:       fileInfo.Size,
			ModTime:    fileInfo.ModTime,
			TokenCount: frequencies.Total(),
		},
		frequencies: frequencies,
	}, nil
}

func readTextFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	// Larger files are truncated to their first maxFileSize bytes
	var content strings.Builder
	if _, err := io.Copy(&content, io.LimitReader(file, maxFileSize)); err != nil {
		return "", err
	}

	return content.String(), nil
}
