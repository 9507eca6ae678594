package document

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/smkhize/claims-management/internal"
)

// MaxFileSize caps uploads at 5 MiB.
const MaxFileSize = 5 * 1024 * 1024

// allowedExtensions is the closed set of accepted upload types.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".png":  true,
	".docx": true,
	".xlsx": true,
}

// Document is a supporting file attached to a claim. StoredName is the
// server-side name; OriginalName is what the uploader called it.
type Document struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	ClaimID      int64     `json:"claim_id" gorm:"column:claim_id;index;not null"`
	OriginalName string    `json:"original_name" gorm:"column:original_name;not null"`
	StoredName   string    `json:"stored_name" gorm:"column:stored_name;uniqueIndex;not null"`
	DocumentType string    `json:"document_type" gorm:"column:document_type"`
	Description  string    `json:"description" gorm:"column:description"`
	SizeBytes    int64     `json:"size_bytes" gorm:"column:size_bytes"`
	ContentType  string    `json:"content_type" gorm:"column:content_type"`
	UploadedBy   string    `json:"uploaded_by" gorm:"column:uploaded_by"`
	UploadedAt   time.Time `json:"uploaded_at" gorm:"column:uploaded_at"`
}

func (Document) TableName() string {
	return "documents"
}

// ValidateFile checks name and size against the upload policy. Both checks
// run so the caller sees every problem at once.
func ValidateFile(filename string, size int64) error {
	var errs []internal.ValidationError

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		errs = append(errs, internal.ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("file type %q is not allowed; accepted types: pdf, jpg, png, docx, xlsx", ext),
			Code:    string(internal.ErrCodeInvalidFile),
		})
	}
	if size > MaxFileSize {
		errs = append(errs, internal.ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("file size %d exceeds the 5 MiB limit", size),
			Code:    string(internal.ErrCodeInvalidFile),
		})
	}
	if size <= 0 {
		errs = append(errs, internal.ValidationError{
			Field:   "file",
			Message: "file is empty",
			Code:    string(internal.ErrCodeInvalidFile),
		})
	}

	if len(errs) > 0 {
		return internal.NewValidationError("file validation failed", internal.ErrCodeInvalidFile).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

// Repository defines the data access methods for claim documents.
type Repository interface {
	Create(d *Document) error
	GetByID(id int64) (*Document, error)
	ListByClaim(claimID int64) ([]*Document, error)
	Delete(id int64) error
}
