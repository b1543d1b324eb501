package repository

import (
	"context"

	"github.com/wattbuild/costreport-go/internal/domain/entity"
)

// CloudStorageRepository is the optional object-storage provider for cloud
// save, keyed by path strings.
type CloudStorageRepository interface {
	List(ctx context.Context, path string) ([]entity.StorageObject, error)
	Upload(ctx context.Context, path string, data []byte) error
	Download(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
	CreateFolder(ctx context.Context, path string) error
}
