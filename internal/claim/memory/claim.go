// Package memory provides the in-process claim store. It is the default
// backend: process-lifetime persistence guarded by a single RWMutex, with
// copies crossing the API boundary so callers never alias store state.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/claim"
)

type ClaimRepository struct {
	mu     sync.RWMutex
	claims map[int64]claim.Claim
	nextID int64
	// per-year code counters; never decremented, so codes stay unique even
	// though claims are never deleted anyway.
	sequences map[int]int64
}

func NewClaimRepository() *ClaimRepository {
	return &ClaimRepository{
		claims:    make(map[int64]claim.Claim),
		nextID:    1,
		sequences: make(map[int]int64),
	}
}

func (r *ClaimRepository) Create(c *claim.Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = r.nextID
	r.nextID++
	r.claims[c.ID] = *c
	return nil
}

func (r *ClaimRepository) GetByID(id int64) (*claim.Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.claims[id]
	if !ok {
		return nil, internal.ErrClaimNotFound
	}
	return &c, nil
}

func (r *ClaimRepository) Update(c *claim.Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.claims[c.ID]; !ok {
		return internal.ErrClaimNotFound
	}
	r.claims[c.ID] = *c
	return nil
}

func (r *ClaimRepository) List() ([]*claim.Claim, error) {
	return r.filter(func(claim.Claim) bool { return true }), nil
}

func (r *ClaimRepository) ListByLecturer(name string) ([]*claim.Claim, error) {
	return r.filter(func(c claim.Claim) bool {
		return strings.EqualFold(c.LecturerName, name)
	}), nil
}

func (r *ClaimRepository) ListByStatus(status claim.Status) ([]*claim.Claim, error) {
	return r.filter(func(c claim.Claim) bool { return c.Status == status }), nil
}

func (r *ClaimRepository) ListByPeriod(month, year int) ([]*claim.Claim, error) {
	return r.filter(func(c claim.Claim) bool {
		return c.Month == month && c.Year == year
	}), nil
}

func (r *ClaimRepository) ListApprovedUnpaid() ([]*claim.Claim, error) {
	return r.filter(func(c claim.Claim) bool {
		return c.Status == claim.StatusApproved && c.PaidAt == nil
	}), nil
}

// ListRecent returns the most recently submitted claims, newest first. Ties
// on the submission timestamp keep insertion order, so equal timestamps come
// back lowest ID first.
func (r *ClaimRepository) ListRecent(limit int) ([]*claim.Claim, error) {
	all := r.filter(func(claim.Claim) bool { return true })

	sort.Slice(all, func(i, j int) bool {
		if all[i].SubmittedAt.Equal(all[j].SubmittedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].SubmittedAt.After(all[j].SubmittedAt)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *ClaimRepository) CountByStatus(status claim.Status) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, c := range r.claims {
		if c.Status == status {
			n++
		}
	}
	return n, nil
}

// HasClaimForPeriod reports whether the lecturer already has a claim for the
// month and year. excludeID skips the claim itself on resubmission paths.
func (r *ClaimRepository) HasClaimForPeriod(lecturer string, month, year int, excludeID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.claims {
		if c.ID == excludeID {
			continue
		}
		if strings.EqualFold(c.LecturerName, lecturer) && c.Month == month && c.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (r *ClaimRepository) NextSequence(year int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sequences[year]++
	return r.sequences[year], nil
}

func (r *ClaimRepository) filter(keep func(claim.Claim) bool) []*claim.Claim {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*claim.Claim, 0)
	for _, c := range r.claims {
		if keep(c) {
			copied := c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
