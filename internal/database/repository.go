package database

import (
	"io"

	"github.com/ds124wfegd/imagecomposer/internal/pkg/storage"
)

// AssetRepository stores the downloaded assets of a single render request.
type AssetRepository interface {
	Save(id string, role string, data io.Reader) (int64, error)
	Open(id string, role string) (io.ReadCloser, error)
	Remove(id string, role string) error
	Exists(id string, role string) bool
}

type fileAssetRepository struct {
	storage storage.FileStorage
}
