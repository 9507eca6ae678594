package claim

import (
	"github.com/shopspring/decimal"

	"github.com/smkhize/claims-management/internal"
)

// SubmitClaimDTO is the transport shape for claim submission. Hours and rate
// accept JSON numbers or strings; decimal parsing covers both.
type SubmitClaimDTO struct {
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	HoursWorked decimal.Decimal `json:"hours_worked"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	Description string          `json:"description"`
	Urgent      bool            `json:"urgent"`
}

// Validate applies the input-range checks. Every field error is collected so
// a client can fix a bad form in a single round trip.
func (d SubmitClaimDTO) Validate() error {
	var errs []internal.ValidationError

	if d.Month < 1 || d.Month > 12 {
		errs = append(errs, internal.ValidationError{
			Field: "month", Message: "month must be between 1 and 12", Code: string(internal.ErrCodeInvalidMonth),
		})
	}
	if d.Year < 2020 || d.Year > 2030 {
		errs = append(errs, internal.ValidationError{
			Field: "year", Message: "year must be between 2020 and 2030", Code: string(internal.ErrCodeInvalidYear),
		})
	}
	if d.HoursWorked.LessThanOrEqual(decimal.Zero) || d.HoursWorked.GreaterThan(MaxMonthlyHours) {
		errs = append(errs, internal.ValidationError{
			Field: "hours_worked", Message: "hours worked must be between 1 and 200", Code: string(internal.ErrCodeInvalidHours),
		})
	}
	if d.HourlyRate.LessThanOrEqual(decimal.Zero) || d.HourlyRate.GreaterThan(MaxHourlyRate) {
		errs = append(errs, internal.ValidationError{
			Field: "hourly_rate", Message: "hourly rate must be between 1 and 1000", Code: string(internal.ErrCodeInvalidRate),
		})
	}

	if len(errs) > 0 {
		return internal.NewValidationError("claim validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

// RejectClaimDTO carries the optional rejection reason.
type RejectClaimDTO struct {
	Reason string `json:"reason"`
}

// BulkPaymentDTO lists the claims HR selected for payment.
type BulkPaymentDTO struct {
	ClaimIDs []int64 `json:"claim_ids"`
}

func (d BulkPaymentDTO) Validate() error {
	if len(d.ClaimIDs) == 0 {
		return internal.NewValidationError("claim_ids must not be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}
