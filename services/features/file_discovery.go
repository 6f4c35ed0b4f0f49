package features

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/meghashyamc/lexfeat/db/kvdb"
	"github.com/meghashyamc/lexfeat/services/discovery"
)

// discoverModifiedFiles lists the files under rootPath matching pattern that were
// never processed or changed since they last were.
func (s *Service) discoverModifiedFiles(rootPath string, pattern string) []FileInfo {
	var modifiedFiles []FileInfo

	for relPath := range discovery.Files(s.logger, rootPath, pattern) {
		path := filepath.Join(rootPath, filepath.FromSlash(relPath))
		info, err := os.Stat(path)
		if err != nil {
			s.logger.Error("could not stat discovered file", "path", path, "err", err.Error())
			continue
		}

		if !s.shouldFileBeProcessed(path, info.ModTime()) {
			continue
		}

		modifiedFiles = append(modifiedFiles, FileInfo{
			Path:    path,
			RelPath: relPath,
			Name:    info.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return modifiedFiles
}

func (s *Service) shouldFileBeProcessed(path string, fileModTime time.Time) bool {

	metadata, err := s.getFileMetadata(path)
	if err != nil {
		var notFoundErr *kvdb.NotFoundError
		var invalidKeyErr *kvdb.InvalidKeyError

		switch {
		// Never processed
		case errors.As(err, &notFoundErr):
			return true
		case errors.As(err, &invalidKeyErr):
			s.logger.Error("invalid key for file path", "key", path, "err", err.Error())
			return true
		default:
			s.logger.Error("failed to get metadata", "path", path, "err", err.Error())
			return true
		}
	}

	return fileModTime.After(metadata.LastIndexed)
}

// getDeletedFiles returns processed files that no longer exist on disk.
func (s *Service) getDeletedFiles() ([]string, error) {
	allKeys, err := s.store.GetAllKeys(kvdb.FilesBucket)
	if err != nil {
		s.logger.Error("failed to get all keys from database", "err", err.Error())
		return nil, fmt.Errorf("failed to get all keys from database: %w", err)
	}

	var deletedFiles []string
	for _, key := range allKeys {
		if _, err := os.Stat(key); os.IsNotExist(err) {
			deletedFiles = append(deletedFiles, key)
		}
	}

	return deletedFiles, nil
}

func (s *Service) removeDeletedFiles(deletedFiles []string) error {
	if len(deletedFiles) == 0 {
		return nil
	}
	s.logger.Info("removing deleted files", "deleted_files", len(deletedFiles))
	if err := s.indexer.DeleteDocuments(deletedFiles); err != nil {
		s.logger.Error("failed to delete documents from search index", "err", err.Error())
		return fmt.Errorf("failed to delete documents from search index: %w", err)
	}

	for _, filePath := range deletedFiles {
		if err := s.store.Delete(kvdb.FilesBucket, filePath); err != nil {
			s.logger.Error("failed to delete file metadata", "path", filePath, "err", err.Error())
		}
		if err := s.store.Delete(kvdb.FeaturesBucket, filePath); err != nil {
			s.logger.Error("failed to delete file frequencies", "path", filePath, "err", err.Error())
		}
	}
	return nil
}

func (s *Service) setFileMetadata(path string, metadata kvdb.FileMetadata) error {
	data, err := json.Marshal(metadata)
	if err != nil {
		s.logger.Error("failed to marshal metadata", "path", path, "err", err.Error())
		return fmt.Errorf("failed to marshal metadata for %s: %w", path, err)
	}

	if err := s.store.Set(kvdb.FilesBucket, path, string(data)); err != nil {
		s.logger.Error("failed to set file metadata", "path", path, "err", err.Error())
		return err
	}

	return nil
}

func (s *Service) getFileMetadata(path string) (*kvdb.FileMetadata, error) {

	value, err := s.store.Get(kvdb.FilesBucket, path)
	if err != nil {
		return nil, err
	}

	var metadata kvdb.FileMetadata
	if err := json.Unmarshal([]byte(value), &metadata); err != nil {
		s.logger.Error("failed to unmarshal metadata", "path", path, "err", err.Error())
		return nil, fmt.Errorf("failed to unmarshal metadata for %s: %w", path, err)
	}

	return &metadata, nil
}
