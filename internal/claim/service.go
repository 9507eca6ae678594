package claim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/core/events"
)

// EventPublisher decouples the workflow engine from the bus implementation.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// ServiceAPI is the workflow engine surface the handlers depend on.
type ServiceAPI interface {
	SubmitClaim(ctx context.Context, lecturerName string, dto SubmitClaimDTO) (*Claim, error)
	GetClaim(id int64) (*Claim, error)
	ListAll() ([]*Claim, error)
	ListForLecturer(name string) ([]*Claim, error)
	ListPending() ([]*Claim, error)
	ApproveClaim(ctx context.Context, id int64, reviewer string) (*Claim, error)
	RejectClaim(ctx context.Context, id int64, reviewer, reason string) (*Claim, error)
	ProcessPayment(ctx context.Context, id int64) (*Claim, error)
	ProcessBulkPayments(ctx context.Context, ids []int64) (*BulkPaymentResult, error)
	PaymentQueue() ([]*Claim, error)
}

// BulkPaymentItem is the per-claim outcome of a bulk payment run.
type BulkPaymentItem struct {
	ClaimID    int64  `json:"claim_id"`
	Code       string `json:"code,omitempty"`
	Reference  string `json:"payment_reference,omitempty"`
	Processed  bool   `json:"processed"`
	SkipReason string `json:"skip_reason,omitempty"`
}

// BulkPaymentResult summarises a bulk run: which claims were paid, which
// were skipped and why, and the total amount moved.
type BulkPaymentResult struct {
	Items          []BulkPaymentItem `json:"items"`
	ProcessedCodes []string          `json:"processed_codes"`
	ProcessedCount int               `json:"processed_count"`
	SkippedCount   int               `json:"skipped_count"`
	TotalAmount    decimal.Decimal   `json:"total_amount"`
}

// Service is the claim workflow engine: submission, policy validation,
// auto-approval, manual review and payment processing.
type Service struct {
	repo   Repository
	bus    EventPublisher
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
		now:    time.Now,
	}
}

// SubmitClaim validates, computes amounts, runs the auto-approval gate and
// persists the claim. Validation rejects before anything is stored.
func (s *Service) SubmitClaim(ctx context.Context, lecturerName string, dto SubmitClaimDTO) (*Claim, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c := &Claim{
		LecturerName: lecturerName,
		Month:        dto.Month,
		Year:         dto.Year,
		HoursWorked:  dto.HoursWorked,
		HourlyRate:   dto.HourlyRate,
		Description:  dto.Description,
		Urgent:       dto.Urgent,
		Status:       StatusSubmitted,
		SubmittedAt:  s.now(),
	}
	c.ComputeAmounts()

	if violations, err := s.policyViolations(c); err != nil {
		return nil, internal.NewInternalError("failed to validate claim", err)
	} else if len(violations) > 0 {
		return nil, internal.NewPolicyError(violations)
	}

	seq, err := s.repo.NextSequence(c.Year)
	if err != nil {
		return nil, internal.NewInternalError("failed to allocate claim code", err)
	}
	c.Seq = seq
	c.Code = FormatCode(c.Year, seq)

	autoApproved := c.EligibleForAutoApproval()
	if autoApproved {
		c.Approve(AutoApprovalActor, s.now())
	}

	if err := s.repo.Create(c); err != nil {
		return nil, internal.NewInternalError("failed to store claim", err)
	}

	s.logger.InfoContext(ctx, "claim submitted",
		"claim_id", c.ID,
		"code", c.Code,
		"lecturer", c.LecturerName,
		"total_amount", c.TotalAmount.String(),
		"auto_approved", autoApproved)

	s.bus.Publish(ctx, events.NewClaimSubmittedEvent(c.ID, c.Code, c.LecturerName, autoApproved))
	if autoApproved {
		s.bus.Publish(ctx, events.NewClaimReviewedEvent(events.EventClaimAutoApproved, c.ID, c.Code, c.LecturerName, AutoApprovalActor, ""))
	}

	return c, nil
}

// policyViolations collects every broken policy rule. Callers get the full
// list, never just the first hit.
func (s *Service) policyViolations(c *Claim) ([]string, error) {
	var violations []string

	if c.HoursWorked.GreaterThan(MaxMonthlyHours) {
		violations = append(violations, fmt.Sprintf("hours worked (%s) exceeds the monthly maximum of %s", c.HoursWorked, MaxMonthlyHours))
	}
	if c.HourlyRate.GreaterThan(MaxHourlyRate) {
		violations = append(violations, fmt.Sprintf("hourly rate (%s) exceeds the maximum of %s", c.HourlyRate, MaxHourlyRate))
	}
	if c.TotalAmount.GreaterThan(MaxClaimTotal) {
		violations = append(violations, fmt.Sprintf("total amount (%s) exceeds the claim cap of %s", c.TotalAmount, MaxClaimTotal))
	}

	duplicate, err := s.repo.HasClaimForPeriod(c.LecturerName, c.Month, c.Year, c.ID)
	if err != nil {
		return nil, err
	}
	if duplicate {
		violations = append(violations, fmt.Sprintf("a claim for %d/%d already exists for this lecturer", c.Month, c.Year))
	}

	return violations, nil
}

func (s *Service) GetClaim(id int64) (*Claim, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrClaimNotFound
	}
	return c, nil
}

func (s *Service) ListAll() ([]*Claim, error) {
	return s.repo.List()
}

func (s *Service) ListForLecturer(name string) ([]*Claim, error) {
	return s.repo.ListByLecturer(name)
}

// ListPending returns claims still awaiting manual review.
func (s *Service) ListPending() ([]*Claim, error) {
	return s.repo.ListByStatus(StatusSubmitted)
}

// ApproveClaim performs a manual approval. Only claims still in Submitted
// can be approved; anything else is ErrClaimNotReviewable.
func (s *Service) ApproveClaim(ctx context.Context, id int64, reviewer string) (*Claim, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrClaimNotFound
	}
	if !c.CanBeReviewed() {
		return nil, internal.ErrClaimNotReviewable
	}

	c.Approve(reviewer, s.now())
	if err := s.repo.Update(c); err != nil {
		return nil, internal.NewInternalError("failed to update claim", err)
	}

	s.logger.InfoContext(ctx, "claim approved", "claim_id", c.ID, "code", c.Code, "reviewer", reviewer)
	s.bus.Publish(ctx, events.NewClaimReviewedEvent(events.EventClaimApproved, c.ID, c.Code, c.LecturerName, reviewer, ""))

	return c, nil
}

// RejectClaim performs a manual rejection. The reason is recorded verbatim
// and may be empty.
func (s *Service) RejectClaim(ctx context.Context, id int64, reviewer, reason string) (*Claim, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrClaimNotFound
	}
	if !c.CanBeReviewed() {
		return nil, internal.ErrClaimNotReviewable
	}

	c.Reject(reason)
	if err := s.repo.Update(c); err != nil {
		return nil, internal.NewInternalError("failed to update claim", err)
	}

	s.logger.InfoContext(ctx, "claim rejected", "claim_id", c.ID, "code", c.Code, "reviewer", reviewer, "reason", reason)
	s.bus.Publish(ctx, events.NewClaimReviewedEvent(events.EventClaimRejected, c.ID, c.Code, c.LecturerName, reviewer, reason))

	return c, nil
}

// ProcessPayment marks a single approved claim as paid and stamps the
// payment reference. The stored record only changes when the update
// succeeds, so a failed payment never leaves partial state behind.
func (s *Service) ProcessPayment(ctx context.Context, id int64) (*Claim, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrClaimNotFound
	}
	if !c.CanBePaid() {
		return nil, internal.ErrClaimNotPayable
	}

	paidAt := s.now()
	c.MarkPaid(FormatPaymentReference(paidAt, c.Code), paidAt)
	if err := s.repo.Update(c); err != nil {
		return nil, internal.NewInternalError("failed to update claim", err)
	}

	s.logger.InfoContext(ctx, "payment processed",
		"claim_id", c.ID,
		"code", c.Code,
		"net_amount", c.NetAmount.String(),
		"reference", c.PaymentReference)
	s.bus.Publish(ctx, events.NewClaimPaidEvent(c.ID, c.Code, c.LecturerName, c.TotalAmount.String(), c.PaymentReference))

	return c, nil
}

// ProcessBulkPayments pays each selected claim independently. Ineligible
// claims are skipped with a reason; they never abort the batch.
func (s *Service) ProcessBulkPayments(ctx context.Context, ids []int64) (*BulkPaymentResult, error) {
	result := &BulkPaymentResult{
		Items:       make([]BulkPaymentItem, 0, len(ids)),
		TotalAmount: decimal.Zero,
	}

	for _, id := range ids {
		paid, err := s.ProcessPayment(ctx, id)
		if err != nil {
			result.Items = append(result.Items, BulkPaymentItem{
				ClaimID:    id,
				Processed:  false,
				SkipReason: skipReason(err),
			})
			result.SkippedCount++
			continue
		}

		result.Items = append(result.Items, BulkPaymentItem{
			ClaimID:   paid.ID,
			Code:      paid.Code,
			Reference: paid.PaymentReference,
			Processed: true,
		})
		result.ProcessedCodes = append(result.ProcessedCodes, paid.Code)
		result.ProcessedCount++
		result.TotalAmount = result.TotalAmount.Add(paid.TotalAmount)
	}

	s.logger.InfoContext(ctx, "bulk payment run finished",
		"requested", len(ids),
		"processed", result.ProcessedCount,
		"skipped", result.SkippedCount,
		"total_amount", result.TotalAmount.String())

	return result, nil
}

func skipReason(err error) string {
	switch err {
	case internal.ErrClaimNotFound:
		return "claim not found"
	case internal.ErrClaimNotPayable:
		return "claim is not in an approved state"
	default:
		return err.Error()
	}
}

// PaymentQueue lists approved claims awaiting payment.
func (s *Service) PaymentQueue() ([]*Claim, error) {
	return s.repo.ListApprovedUnpaid()
}
