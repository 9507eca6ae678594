package postgres

import (
	"gorm.io/gorm"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/claim"
)

// ClaimRepository implements claim.Repository using GORM.
type ClaimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) claim.Repository {
	return &ClaimRepository{db: db}
}

func (r *ClaimRepository) Create(c *claim.Claim) error {
	return r.db.Create(c).Error
}

func (r *ClaimRepository) GetByID(id int64) (*claim.Claim, error) {
	var c claim.Claim
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrClaimNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ClaimRepository) Update(c *claim.Claim) error {
	return r.db.Save(c).Error
}

func (r *ClaimRepository) List() ([]*claim.Claim, error) {
	var claims []*claim.Claim
	err := r.db.Order("id ASC").Find(&claims).Error
	return claims, err
}

func (r *ClaimRepository) ListByLecturer(name string) ([]*claim.Claim, error) {
	var claims []*claim.Claim
	err := r.db.Where("LOWER(lecturer_name) = LOWER(?)", name).
		Order("id ASC").
		Find(&claims).Error
	return claims, err
}

func (r *ClaimRepository) ListByStatus(status claim.Status) ([]*claim.Claim, error) {
	var claims []*claim.Claim
	err := r.db.Where("status = ?", status).
		Order("id ASC").
		Find(&claims).Error
	return claims, err
}

func (r *ClaimRepository) ListByPeriod(month, year int) ([]*claim.Claim, error) {
	var claims []*claim.Claim
	err := r.db.Where("month = ? AND year = ?", month, year).
		Order("id ASC").
		Find(&claims).Error
	return claims, err
}

func (r *ClaimRepository) ListApprovedUnpaid() ([]*claim.Claim, error) {
	var claims []*claim.Claim
	err := r.db.Where("status = ? AND paid_at IS NULL", claim.StatusApproved).
		Order("id ASC").
		Find(&claims).Error
	return claims, err
}

func (r *ClaimRepository) ListRecent(limit int) ([]*claim.Claim, error) {
	var claims []*claim.Claim
	q := r.db.Order("submitted_at DESC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&claims).Error
	return claims, err
}

func (r *ClaimRepository) CountByStatus(status claim.Status) (int64, error) {
	var n int64
	err := r.db.Model(&claim.Claim{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *ClaimRepository) HasClaimForPeriod(lecturer string, month, year int, excludeID int64) (bool, error) {
	var n int64
	err := r.db.Model(&claim.Claim{}).
		Where("LOWER(lecturer_name) = LOWER(?) AND month = ? AND year = ? AND id <> ?", lecturer, month, year, excludeID).
		Count(&n).Error
	return n > 0, err
}

// NextSequence allocates the next per-year code number from the stored
// maximum. Claims are never deleted, so the maximum only ever grows.
func (r *ClaimRepository) NextSequence(year int) (int64, error) {
	var maxSeq int64
	err := r.db.Model(&claim.Claim{}).
		Where("year = ?", year).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&maxSeq).Error
	if err != nil {
		return 0, err
	}
	return maxSeq + 1, nil
}
