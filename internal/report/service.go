package report

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/claim"
)

// RecentClaimsLimit caps the dashboard's latest-submissions list.
const RecentClaimsLimit = 10

// ClaimStore is the read-only slice of the claim repository reporting needs.
type ClaimStore interface {
	List() ([]*claim.Claim, error)
	ListByPeriod(month, year int) ([]*claim.Claim, error)
	ListApprovedUnpaid() ([]*claim.Claim, error)
	ListRecent(limit int) ([]*claim.Claim, error)
	CountByStatus(status claim.Status) (int64, error)
}

type ServiceAPI interface {
	Monthly(month, year int) (*MonthlyReport, error)
	Overview() (*Dashboard, error)
}

// Service computes management reports. Pure reads; it never mutates claims.
type Service struct {
	store  ClaimStore
	logger *slog.Logger
}

func NewService(store ClaimStore, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Monthly builds the report for one period. The month/year range checks
// mirror claim submission so reports and claims agree on valid periods.
func (s *Service) Monthly(month, year int) (*MonthlyReport, error) {
	if month < 1 || month > 12 {
		return nil, internal.NewValidationError("month must be between 1 and 12", internal.ErrCodeInvalidMonth)
	}
	if year < 2020 || year > 2030 {
		return nil, internal.NewValidationError("year must be between 2020 and 2030", internal.ErrCodeInvalidYear)
	}

	claims, err := s.store.ListByPeriod(month, year)
	if err != nil {
		return nil, internal.NewInternalError("failed to load claims for report", err)
	}

	r := &MonthlyReport{
		Month:         month,
		Year:          year,
		Claims:        claims,
		TotalClaims:   len(claims),
		CountByStatus: make(map[string]int),
		TotalAmount:   decimal.Zero,
		TotalTax:      decimal.Zero,
		TotalNet:      decimal.Zero,
		AmountByState: make(map[string]Money),
	}

	for _, c := range claims {
		status := string(c.Status)
		r.CountByStatus[status]++
		r.TotalAmount = r.TotalAmount.Add(c.TotalAmount)
		r.TotalTax = r.TotalTax.Add(c.TaxAmount)
		r.TotalNet = r.TotalNet.Add(c.NetAmount)

		m := r.AmountByState[status]
		m.Total = m.Total.Add(c.TotalAmount)
		m.Tax = m.Tax.Add(c.TaxAmount)
		m.Net = m.Net.Add(c.NetAmount)
		r.AmountByState[status] = m
	}

	return r, nil
}

// Overview builds the management dashboard.
func (s *Service) Overview() (*Dashboard, error) {
	d := &Dashboard{
		CountByStatus: make(map[string]int64),
		AwaitingTotal: decimal.Zero,
	}

	for _, status := range []claim.Status{claim.StatusSubmitted, claim.StatusApproved, claim.StatusRejected, claim.StatusPaid} {
		n, err := s.store.CountByStatus(status)
		if err != nil {
			return nil, internal.NewInternalError("failed to count claims", err)
		}
		d.CountByStatus[string(status)] = n
		d.TotalClaims += n
	}
	d.PendingReview = d.CountByStatus[string(claim.StatusSubmitted)]

	awaiting, err := s.store.ListApprovedUnpaid()
	if err != nil {
		return nil, internal.NewInternalError("failed to load payment queue", err)
	}
	d.AwaitingCount = len(awaiting)
	for _, c := range awaiting {
		d.AwaitingTotal = d.AwaitingTotal.Add(c.NetAmount)
	}

	recent, err := s.store.ListRecent(RecentClaimsLimit)
	if err != nil {
		return nil, internal.NewInternalError("failed to load recent claims", err)
	}
	d.RecentClaims = recent

	lecturers, err := s.activeLecturers()
	if err != nil {
		return nil, err
	}
	d.ActiveLecturers = lecturers

	return d, nil
}

// activeLecturers lists lecturers with at least one claim that is not in a
// terminal rejected state, sorted case-insensitively.
func (s *Service) activeLecturers() ([]string, error) {
	all, err := s.store.List()
	if err != nil {
		return nil, internal.NewInternalError("failed to load claims", err)
	}

	seen := make(map[string]string)
	for _, c := range all {
		if c.Status == claim.StatusRejected {
			continue
		}
		seen[strings.ToLower(c.LecturerName)] = c.LecturerName
	}

	out := make([]string, 0, len(seen))
	for _, name := range seen {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out, nil
}
