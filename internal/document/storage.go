package document

import (
	"io"
	"os"
	"path/filepath"
)

// DiskStorage writes uploaded files under a base directory.
type DiskStorage struct {
	baseDir string
}

func NewDiskStorage(baseDir string) (*DiskStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStorage{baseDir: baseDir}, nil
}

func (s *DiskStorage) path(name string) string {
	// stored names are generated UUIDs; Base strips anything else
	return filepath.Join(s.baseDir, filepath.Base(name))
}

func (s *DiskStorage) Save(name string, r io.Reader) (int64, error) {
	f, err := os.Create(s.path(name))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return io.Copy(f, r)
}

func (s *DiskStorage) Open(name string) (io.ReadCloser, error) {
	return os.Open(s.path(name))
}

func (s *DiskStorage) Remove(name string) error {
	return os.Remove(s.path(name))
}
