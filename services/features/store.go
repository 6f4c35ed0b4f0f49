package features

import (
	"github.com/meghashyamc/lexfeat/db/kvdb"
	"github.com/meghashyamc/lexfeat/db/searchdb"
)

// MetadataStore holds per-file metadata, frequency maps and request progress.
type MetadataStore interface {
	Set(bucket kvdb.Bucket, key string, value string) error
	Get(bucket kvdb.Bucket, key string) (string, error)
	Delete(bucket kvdb.Bucket, key string) error
	GetAllKeys(bucket kvdb.Bucket) ([]string, error)
}

// Indexer represents the search database operations needed while extracting features
type Indexer interface {
	BuildIndex(documents []*searchdb.Document) error
	DeleteDocuments(documentIDs []string) error
}
