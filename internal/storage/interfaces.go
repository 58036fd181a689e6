package storage

import "context"

// Storage is the persistence surface used for run artifacts and cached
// responses. Paths are relative; implementations confine them to a base
// directory.
type Storage interface {
	Save(ctx context.Context, path string, data []byte) error
	Load(ctx context.Context, path string) ([]byte, error)
	List(ctx context.Context, pattern string) ([]string, error)
	Delete(ctx context.Context, path string) error
}
