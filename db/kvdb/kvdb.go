package kvdb

type DB interface {
	Set(bucket Bucket, key string, value string) error
	Get(bucket Bucket, key string) (string, error)
	Delete(bucket Bucket, key string) error
	GetAllKeys(bucket Bucket) ([]string, error)
	Close() error
}
