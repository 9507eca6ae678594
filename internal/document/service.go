package document

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/claim"
)

// ClaimReader is the slice of the claim service the document service needs:
// existence and ownership checks before accepting an upload.
type ClaimReader interface {
	GetClaim(id int64) (*claim.Claim, error)
}

// Storage persists file bytes under a stored name. Metadata lives in the
// repository; bytes live here.
type Storage interface {
	Save(name string, r io.Reader) (int64, error)
	Open(name string) (io.ReadCloser, error)
	Remove(name string) error
}

type ServiceAPI interface {
	Upload(ctx context.Context, dto UploadDTO, r io.Reader) (*Document, error)
	GetDocument(id int64) (*Document, error)
	ListForClaim(claimID int64) ([]*Document, error)
	Open(id int64) (*Document, io.ReadCloser, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo    Repository
	claims  ClaimReader
	storage Storage
	logger  *slog.Logger
}

func NewService(repo Repository, claims ClaimReader, storage Storage, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		claims:  claims,
		storage: storage,
		logger:  logger,
	}
}

// Upload validates the file, verifies the claim exists and stores bytes and
// metadata. The stored name is a fresh UUID with the original extension, so
// uploads can never collide or traverse paths.
func (s *Service) Upload(ctx context.Context, dto UploadDTO, r io.Reader) (*Document, error) {
	if err := ValidateFile(dto.FileName, dto.DeclaredSize); err != nil {
		return nil, err
	}

	if _, err := s.claims.GetClaim(dto.ClaimID); err != nil {
		return nil, internal.ErrClaimNotFound
	}

	storedName := uuid.NewString() + strings.ToLower(filepath.Ext(dto.FileName))

	written, err := s.storage.Save(storedName, io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, internal.NewInternalError("failed to store file", err)
	}
	if written > MaxFileSize {
		// Declared size lied; roll the bytes back.
		s.storage.Remove(storedName)
		return nil, ValidateFile(dto.FileName, written)
	}

	d := &Document{
		ClaimID:      dto.ClaimID,
		OriginalName: filepath.Base(dto.FileName),
		StoredName:   storedName,
		DocumentType: dto.DocumentType,
		Description:  dto.Description,
		SizeBytes:    written,
		ContentType:  dto.ContentType,
		UploadedBy:   dto.Uploader,
		UploadedAt:   time.Now(),
	}

	if err := s.repo.Create(d); err != nil {
		s.storage.Remove(storedName)
		return nil, internal.NewInternalError("failed to store document metadata", err)
	}

	s.logger.InfoContext(ctx, "document uploaded",
		"document_id", d.ID,
		"claim_id", dto.ClaimID,
		"original_name", d.OriginalName,
		"document_type", d.DocumentType,
		"size_bytes", written)

	return d, nil
}

func (s *Service) GetDocument(id int64) (*Document, error) {
	d, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrDocumentNotFound
	}
	return d, nil
}

func (s *Service) ListForClaim(claimID int64) ([]*Document, error) {
	return s.repo.ListByClaim(claimID)
}

// Open returns the metadata and a reader over the stored bytes. The caller
// owns the reader.
func (s *Service) Open(id int64) (*Document, io.ReadCloser, error) {
	d, err := s.GetDocument(id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.storage.Open(d.StoredName)
	if err != nil {
		return nil, nil, internal.NewInternalError("failed to open stored file", err)
	}
	return d, rc, nil
}

// Delete removes metadata first, then the bytes. A failed byte removal is
// logged but not surfaced; the document is already gone from listings.
func (s *Service) Delete(ctx context.Context, id int64) error {
	d, err := s.GetDocument(id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		return internal.NewInternalError("failed to delete document", err)
	}

	if err := s.storage.Remove(d.StoredName); err != nil {
		s.logger.WarnContext(ctx, "failed to remove stored file", "stored_name", d.StoredName, "error", err)
	}

	return nil
}
