package report

import (
	"github.com/shopspring/decimal"

	"github.com/smkhize/claims-management/internal/claim"
)

// MonthlyReport summarises all claims for one month and year.
type MonthlyReport struct {
	Month         int              `json:"month"`
	Year          int              `json:"year"`
	Claims        []*claim.Claim   `json:"claims"`
	TotalClaims   int              `json:"total_claims"`
	CountByStatus map[string]int   `json:"count_by_status"`
	TotalAmount   decimal.Decimal  `json:"total_amount"`
	TotalTax      decimal.Decimal  `json:"total_tax"`
	TotalNet      decimal.Decimal  `json:"total_net"`
	AmountByState map[string]Money `json:"amount_by_status"`
}

// Money is a total/tax/net triple used inside report breakdowns.
type Money struct {
	Total decimal.Decimal `json:"total"`
	Tax   decimal.Decimal `json:"tax"`
	Net   decimal.Decimal `json:"net"`
}

// Dashboard is the management overview: lifecycle tallies, outstanding
// payment load and the latest submissions.
type Dashboard struct {
	TotalClaims     int64            `json:"total_claims"`
	CountByStatus   map[string]int64 `json:"count_by_status"`
	PendingReview   int64            `json:"pending_review"`
	AwaitingTotal   decimal.Decimal  `json:"awaiting_payment_total"`
	AwaitingCount   int              `json:"awaiting_payment_count"`
	RecentClaims    []*claim.Claim   `json:"recent_claims"`
	ActiveLecturers []string         `json:"active_lecturers"`
}
