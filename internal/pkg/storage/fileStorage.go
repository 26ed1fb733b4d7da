package storage

import (
	"io"
	"os"
	"path/filepath"
)

// FileStorage keeps request scoped files under a single base directory.
type FileStorage interface {
	Save(path string, data io.Reader) (int64, error)
	Get(path string) (io.ReadCloser, error)
	Delete(path string) error
	Exists(path string) bool
}

type fileStorage struct {
	basePath string
}

func NewFileStorage(basePath string) (FileStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &fileStorage{basePath: basePath}, nil
}

func (s *fileStorage) Save(path string, data io.Reader) (int64, error) {
	fullPath := s.fullPath(path)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return 0, err
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(file, data)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	return n, err
}

func (s *fileStorage) Get(path string) (io.ReadCloser, error) {
	return os.Open(s.fullPath(path))
}

func (s *fileStorage) Delete(path string) error {
	return os.Remove(s.fullPath(path))
}

func (s *fileStorage) Exists(path string) bool {
	_, err := os.Stat(s.fullPath(path))
	return !os.IsNotExist(err)
}

func (s *fileStorage) fullPath(path string) string {
	return filepath.Join(s.basePath, filepath.Clean("/"+path))
}
