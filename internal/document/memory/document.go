// Package memory provides in-process document metadata and byte storage.
package memory

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/document"
)

type DocumentRepository struct {
	mu     sync.RWMutex
	docs   map[int64]document.Document
	nextID int64
}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		docs:   make(map[int64]document.Document),
		nextID: 1,
	}
}

func (r *DocumentRepository) Create(d *document.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d.ID = r.nextID
	r.nextID++
	r.docs[d.ID] = *d
	return nil
}

func (r *DocumentRepository) GetByID(id int64) (*document.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.docs[id]
	if !ok {
		return nil, internal.ErrDocumentNotFound
	}
	return &d, nil
}

func (r *DocumentRepository) ListByClaim(claimID int64) ([]*document.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*document.Document, 0)
	for _, d := range r.docs {
		if d.ClaimID == claimID {
			copied := d
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *DocumentRepository) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return internal.ErrDocumentNotFound
	}
	delete(r.docs, id)
	return nil
}

// FileStore keeps uploaded bytes in memory. Used with the memory backend
// and in tests.
type FileStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewFileStore() *FileStore {
	return &FileStore{files: make(map[string][]byte)}
}

func (s *FileStore) Save(name string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = data
	return int64(len(data)), nil
}

func (s *FileStore) Open(name string) (io.ReadCloser, error) {
	s.mu.RLock()
	data, ok := s.files[name]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("file %q not found", name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *FileStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[name]; !ok {
		return fmt.Errorf("file %q not found", name)
	}
	delete(s.files, name)
	return nil
}
