package postgres

import (
	"gorm.io/gorm"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/document"
)

// DocumentRepository implements document.Repository using GORM.
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) document.Repository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(d *document.Document) error {
	return r.db.Create(d).Error
}

func (r *DocumentRepository) GetByID(id int64) (*document.Document, error) {
	var d document.Document
	err := r.db.Where("id = ?", id).First(&d).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrDocumentNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepository) ListByClaim(claimID int64) ([]*document.Document, error) {
	var docs []*document.Document
	err := r.db.Where("claim_id = ?", claimID).
		Order("id ASC").
		Find(&docs).Error
	return docs, err
}

func (r *DocumentRepository) Delete(id int64) error {
	res := r.db.Delete(&document.Document{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrDocumentNotFound
	}
	return nil
}
