package claim

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the closed set of claim lifecycle states. Transitions are
// monotonic: Submitted -> {Approved, Rejected}, Approved -> Paid. Rejected
// and Paid are terminal.
type Status string

const (
	StatusSubmitted Status = "Submitted"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusPaid      Status = "Paid"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusApproved, StatusRejected, StatusPaid:
		return true
	}
	return false
}

// Policy limits applied by automated validation and auto-approval.
var (
	MaxMonthlyHours       = decimal.NewFromInt(200)
	MaxHourlyRate         = decimal.NewFromInt(1000)
	MaxClaimTotal         = decimal.NewFromInt(50000)
	AutoApprovalThreshold = decimal.NewFromInt(5000)

	taxRate = decimal.NewFromFloat(0.15)
)

// AutoApprovalActor is the sentinel approver identity stamped on claims the
// system approves without human review. It is distinct from any account name
// so audit trails stay unambiguous.
const AutoApprovalActor = "System Auto-Approval"

// Claim is a lecturer's request for payment for teaching hours in a given
// month and year. Amounts are decimals to keep currency arithmetic exact.
type Claim struct {
	ID               int64           `json:"id" gorm:"primaryKey"`
	Code             string          `json:"code" gorm:"column:code;uniqueIndex;not null"`
	Seq              int64           `json:"-" gorm:"column:seq"`
	LecturerName     string          `json:"lecturer_name" gorm:"column:lecturer_name;not null"`
	Month            int             `json:"month" gorm:"column:month;not null"`
	Year             int             `json:"year" gorm:"column:year;not null"`
	HoursWorked      decimal.Decimal `json:"hours_worked" gorm:"column:hours_worked;type:decimal(8,2)"`
	HourlyRate       decimal.Decimal `json:"hourly_rate" gorm:"column:hourly_rate;type:decimal(10,2)"`
	TotalAmount      decimal.Decimal `json:"total_amount" gorm:"column:total_amount;type:decimal(12,2)"`
	TaxAmount        decimal.Decimal `json:"tax_amount" gorm:"column:tax_amount;type:decimal(12,2)"`
	NetAmount        decimal.Decimal `json:"net_amount" gorm:"column:net_amount;type:decimal(12,2)"`
	Description      string          `json:"description" gorm:"column:description"`
	Status           Status          `json:"status" gorm:"column:status;not null"`
	SubmittedAt      time.Time       `json:"submitted_at" gorm:"column:submitted_at"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty" gorm:"column:approved_at"`
	ApprovedBy       string          `json:"approved_by,omitempty" gorm:"column:approved_by"`
	RejectionReason  string          `json:"rejection_reason,omitempty" gorm:"column:rejection_reason"`
	PaymentReference string          `json:"payment_reference,omitempty" gorm:"column:payment_reference"`
	PaidAt           *time.Time      `json:"paid_at,omitempty" gorm:"column:paid_at"`
	Urgent           bool            `json:"urgent" gorm:"column:urgent"`
}

func (Claim) TableName() string {
	return "claims"
}

// ComputeAmounts derives total, tax and net from hours and rate. Must be
// called again whenever hours or rate change, before validation or storage.
func (c *Claim) ComputeAmounts() {
	c.TotalAmount = c.HoursWorked.Mul(c.HourlyRate).Round(2)
	c.TaxAmount = c.TotalAmount.Mul(taxRate).Round(2)
	c.NetAmount = c.TotalAmount.Sub(c.TaxAmount)
}

// WithinPolicyLimits reports whether the claim respects all fixed caps.
func (c *Claim) WithinPolicyLimits() bool {
	return c.HoursWorked.LessThanOrEqual(MaxMonthlyHours) &&
		c.HourlyRate.LessThanOrEqual(MaxHourlyRate) &&
		c.TotalAmount.LessThanOrEqual(MaxClaimTotal)
}

// CanBeReviewed reports whether a manual approve/reject is still possible.
func (c *Claim) CanBeReviewed() bool {
	return c.Status == StatusSubmitted
}

// CanBePaid reports whether the payment operation may run. A claim that
// already carries a payment timestamp is never payable again.
func (c *Claim) CanBePaid() bool {
	return c.Status == StatusApproved && c.PaidAt == nil
}

// EligibleForAutoApproval applies the automated approval policy: small
// enough total and within every policy cap. Claims that already left
// Submitted are never eligible, which makes repeated calls a no-op.
func (c *Claim) EligibleForAutoApproval() bool {
	return c.Status == StatusSubmitted &&
		c.TotalAmount.LessThanOrEqual(AutoApprovalThreshold) &&
		c.WithinPolicyLimits()
}

func (c *Claim) Approve(approver string, at time.Time) {
	c.Status = StatusApproved
	c.ApprovedAt = &at
	c.ApprovedBy = approver
}

func (c *Claim) Reject(reason string) {
	c.Status = StatusRejected
	c.RejectionReason = reason
}

func (c *Claim) MarkPaid(reference string, at time.Time) {
	c.Status = StatusPaid
	c.PaymentReference = reference
	c.PaidAt = &at
}

// FormatCode renders the human-readable claim code for a year and sequence
// number, e.g. CLM-2025-007.
func FormatCode(year int, seq int64) string {
	return fmt.Sprintf("CLM-%d-%03d", year, seq)
}

// FormatPaymentReference builds the deterministic payment reference: fixed
// prefix, payment date and the claim code. Unique as long as the same claim
// is not paid twice on one day, which the payable guard rules out.
func FormatPaymentReference(at time.Time, code string) string {
	return fmt.Sprintf("PAY-%s-%s", at.Format("20060102"), code)
}

// Repository defines the data access methods for claims. Claims are never
// deleted; the store is the audit trail.
type Repository interface {
	Create(c *Claim) error
	GetByID(id int64) (*Claim, error)
	Update(c *Claim) error
	List() ([]*Claim, error)
	ListByLecturer(name string) ([]*Claim, error)
	ListByStatus(status Status) ([]*Claim, error)
	ListByPeriod(month, year int) ([]*Claim, error)
	ListApprovedUnpaid() ([]*Claim, error)
	ListRecent(limit int) ([]*Claim, error)
	CountByStatus(status Status) (int64, error)
	HasClaimForPeriod(lecturer string, month, year int, excludeID int64) (bool, error)
	NextSequence(year int) (int64, error)
}
