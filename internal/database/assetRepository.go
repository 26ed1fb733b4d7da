package database

import (
	"io"

	"github.com/ds124wfegd/imagecomposer/internal/pkg/storage"
)

func NewAssetRepository(storage storage.FileStorage) AssetRepository {
	return &fileAssetRepository{storage: storage}
}

func (r *fileAssetRepository) Save(id string, role string, data io.Reader) (int64, error) {
	return r.storage.Save(assetName(id, role), data)
}

func (r *fileAssetRepository) Open(id string, role string) (io.ReadCloser, error) {
	return r.storage.Get(assetName(id, role))
}

func (r *fileAssetRepository) Remove(id string, role string) error {
	return r.storage.Delete(assetName(id, role))
}

func (r *fileAssetRepository) Exists(id string, role string) bool {
	return r.storage.Exists(assetName(id, role))
}

func assetName(id, role string) string {
	return id + "-" + role
}
