package kvdb

import (
	"errors"
	"fmt"
	"time"
)

type Bucket string

const (
	// FilesBucket maps an absolute file path to its FileMetadata
	FilesBucket Bucket = "files"
	// FeaturesBucket maps an absolute file path to its frequency map
	FeaturesBucket Bucket = "features"
	// RequestsBucket maps a request ID to its progress
	RequestsBucket Bucket = "requests"
)

var allBuckets = []Bucket{FilesBucket, FeaturesBucket, RequestsBucket}

var (
	ErrNotFound   = errors.New("key not found")
	ErrInvalidKey = errors.New("invalid key")
)

type InvalidKeyError struct {
	Key    string
	Reason string
}
type NotFoundError struct {
	Key string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key %s: %s", e.Key, e.Reason)
}

func (e *InvalidKeyError) Is(target error) bool {
	return target == ErrInvalidKey
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("key not found: %s", e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type FileMetadata struct {
	LastIndexed time.Time `json:"last_indexed"`
	TokenCount  int       `json:"token_count"`
}
