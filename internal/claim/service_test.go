package claim_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/claim"
	claimMemory "github.com/smkhize/claims-management/internal/claim/memory"
	"github.com/smkhize/claims-management/internal/core/events"
)

func TestClaim(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Claim Workflow Suite")
}

// recordingBus captures published events synchronously for assertions.
type recordingBus struct {
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) error {
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) typesSeen() []string {
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.EventType()
	}
	return out
}

var _ = Describe("Claim Service", func() {
	var (
		repo    *claimMemory.ClaimRepository
		bus     *recordingBus
		service *claim.Service
		ctx     context.Context
	)

	dto := func(hours, rate int64) claim.SubmitClaimDTO {
		return claim.SubmitClaimDTO{
			Month:       3,
			Year:        2025,
			HoursWorked: decimal.NewFromInt(hours),
			HourlyRate:  decimal.NewFromInt(rate),
			Description: "tutorials and marking",
		}
	}

	BeforeEach(func() {
		repo = claimMemory.NewClaimRepository()
		bus = &recordingBus{}
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = claim.NewService(repo, bus, lg)
		ctx = context.Background()
	})

	Describe("SubmitClaim", func() {
		It("stores a valid claim with computed amounts and a code", func() {
			c, err := service.SubmitClaim(ctx, "Thandi Mokoena", dto(40, 200))
			Expect(err).NotTo(HaveOccurred())

			Expect(c.ID).To(BeNumerically(">", 0))
			Expect(c.Code).To(Equal("CLM-2025-001"))
			Expect(c.Status).To(Equal(claim.StatusSubmitted))
			Expect(c.TotalAmount.StringFixed(2)).To(Equal("8000.00"))
			Expect(c.TaxAmount.StringFixed(2)).To(Equal("1200.00"))
			Expect(c.NetAmount.StringFixed(2)).To(Equal("6800.00"))
			Expect(c.SubmittedAt.IsZero()).To(BeFalse())
		})

		It("allocates sequential codes within a year", func() {
			first, err := service.SubmitClaim(ctx, "Thandi Mokoena", dto(40, 200))
			Expect(err).NotTo(HaveOccurred())

			second, err := service.SubmitClaim(ctx, "James van der Merwe", dto(30, 250))
			Expect(err).NotTo(HaveOccurred())

			Expect(first.Code).To(Equal("CLM-2025-001"))
			Expect(second.Code).To(Equal("CLM-2025-002"))
		})

		It("rejects out-of-range input with every field error listed", func() {
			bad := claim.SubmitClaimDTO{
				Month:       3,
				Year:        2025,
				HoursWorked: decimal.NewFromInt(250),
				HourlyRate:  decimal.NewFromInt(1500),
			}

			_, err := service.SubmitClaim(ctx, "Thandi Mokoena", bad)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			details, ok := appErr.Details.(internal.ValidationErrors)
			Expect(ok).To(BeTrue())
			Expect(details.Errors).To(HaveLen(2))
		})

		It("rejects claims whose total exceeds the cap as a policy violation", func() {
			// 200h at 300 is within field ranges but totals 60000
			_, err := service.SubmitClaim(ctx, "Thandi Mokoena", dto(200, 300))
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypePolicy))
		})

		It("rejects a second claim for the same lecturer and period", func() {
			_, err := service.SubmitClaim(ctx, "Thandi Mokoena", dto(40, 200))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.SubmitClaim(ctx, "Thandi Mokoena", dto(10, 100))
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodePolicyViolation))
		})

		It("allows the same period for a different lecturer", func() {
			_, err := service.SubmitClaim(ctx, "Thandi Mokoena", dto(40, 200))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.SubmitClaim(ctx, "James van der Merwe", dto(40, 200))
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("auto-approval", func() {
		It("approves small claims with the system sentinel", func() {
			c, err := service.SubmitClaim(ctx, "Thandi Mokoena", dto(40, 100))
			Expect(err).NotTo(HaveOccurred())

			Expect(c.Status).To(Equal(claim.StatusApproved))
			Expect(c.ApprovedBy).To(Equal(claim.AutoApprovalActor))
			Expect(c.ApprovedAt).NotTo(BeNil())
			Expect(bus.typesSeen()).To(ContainElement(events.EventClaimAutoApproved))
		})

		It("leaves larger claims awaiting manual review", func() {
			c, err := service.SubmitClaim(ctx, "Thandi Mokoena", dto(40, 200))
			Expect(err).NotTo(HaveOccurred())

			Expect(c.Status).To(Equal(claim.StatusSubmitted))
			Expect(c.ApprovedBy).To(BeEmpty())
			Expect(bus.typesSeen()).NotTo(ContainElement(events.EventClaimAutoApproved))
		})
	})

	Describe("manual review", func() {
		var pending *claim.Claim

		BeforeEach(func() {
			var err error
			pending, err = service.SubmitClaim(ctx, "Thandi Mokoena", dto(40, 200))
			Expect(err).NotTo(HaveOccurred())
			Expect(pending.Status).To(Equal(claim.StatusSubmitted))
		})

		It("approves a submitted claim and stamps the reviewer", func() {
			c, err := service.ApproveClaim(ctx, pending.ID, "Priya Naidoo")
			Expect(err).NotTo(HaveOccurred())

			Expect(c.Status).To(Equal(claim.StatusApproved))
			Expect(c.ApprovedBy).To(Equal("Priya Naidoo"))
			Expect(c.ApprovedAt).NotTo(BeNil())
		})

		It("rejects a submitted claim with the given reason", func() {
			c, err := service.RejectClaim(ctx, pending.ID, "Priya Naidoo", "hours not supported by timesheet")
			Expect(err).NotTo(HaveOccurred())

			Expect(c.Status).To(Equal(claim.StatusRejected))
			Expect(c.RejectionReason).To(Equal("hours not supported by timesheet"))
		})

		It("refuses to review a claim twice", func() {
			_, err := service.ApproveClaim(ctx, pending.ID, "Priya Naidoo")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ApproveClaim(ctx, pending.ID, "Sipho Dlamini")
			Expect(err).To(Equal(internal.ErrClaimNotReviewable))

			_, err = service.RejectClaim(ctx, pending.ID, "Sipho Dlamini", "")
			Expect(err).To(Equal(internal.ErrClaimNotReviewable))
		})

		It("returns not found for unknown claims", func() {
			_, err := service.ApproveClaim(ctx, 9999, "Priya Naidoo")
			Expect(err).To(Equal(internal.ErrClaimNotFound))
		})
	})

	Describe("ProcessPayment", func() {
		It("pays an approved claim and stamps the reference", func() {
			c, err := service.SubmitClaim(ctx, "Thandi Mokoena", dto(10, 100))
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Status).To(Equal(claim.StatusApproved))

			paid, err := service.ProcessPayment(ctx, c.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(paid.Status).To(Equal(claim.StatusPaid))
			Expect(paid.PaidAt).NotTo(BeNil())
			Expect(paid.PaymentReference).To(HavePrefix("PAY-"))
			Expect(paid.PaymentReference).To(HaveSuffix(paid.Code))
			Expect(bus.typesSeen()).To(ContainElement(events.EventClaimPaid))
		})

		It("refuses claims still awaiting review", func() {
			c, err := service.SubmitClaim(ctx, "Thandi Mokoena", dto(40, 200))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ProcessPayment(ctx, c.ID)
			Expect(err).To(Equal(internal.ErrClaimNotPayable))

			stored, err := service.GetClaim(c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(claim.StatusSubmitted))
			Expect(stored.PaymentReference).To(BeEmpty())
		})

		It("refuses to pay twice", func() {
			c, err := service.SubmitClaim(ctx, "Thandi Mokoena", dto(10, 100))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ProcessPayment(ctx, c.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ProcessPayment(ctx, c.ID)
			Expect(err).To(Equal(internal.ErrClaimNotPayable))
		})
	})

	Describe("ProcessBulkPayments", func() {
		It("pays eligible claims and skips the rest with reasons", func() {
			approved, err := service.SubmitClaim(ctx, "Thandi Mokoena", dto(10, 100))
			Expect(err).NotTo(HaveOccurred())
			Expect(approved.TotalAmount.StringFixed(2)).To(Equal("1000.00"))

			submitted, err := service.SubmitClaim(ctx, "James van der Merwe", dto(40, 200))
			Expect(err).NotTo(HaveOccurred())

			alreadyPaid, err := service.SubmitClaim(ctx, "Priya Naidoo", dto(20, 100))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.ProcessPayment(ctx, alreadyPaid.ID)
			Expect(err).NotTo(HaveOccurred())

			result, err := service.ProcessBulkPayments(ctx, []int64{approved.ID, submitted.ID, alreadyPaid.ID, 9999})
			Expect(err).NotTo(HaveOccurred())

			Expect(result.ProcessedCount).To(Equal(1))
			Expect(result.SkippedCount).To(Equal(3))
			Expect(result.ProcessedCodes).To(ConsistOf(approved.Code))
			Expect(result.TotalAmount.StringFixed(2)).To(Equal("1000.00"))

			Expect(result.Items).To(HaveLen(4))
			Expect(result.Items[1].SkipReason).NotTo(BeEmpty())
			Expect(result.Items[3].SkipReason).To(Equal("claim not found"))
		})
	})

	Describe("PaymentQueue", func() {
		It("lists approved unpaid claims only", func() {
			approved, err := service.SubmitClaim(ctx, "Thandi Mokoena", dto(10, 100))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.SubmitClaim(ctx, "James van der Merwe", dto(40, 200))
			Expect(err).NotTo(HaveOccurred())

			paid, err := service.SubmitClaim(ctx, "Priya Naidoo", dto(20, 100))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.ProcessPayment(ctx, paid.ID)
			Expect(err).NotTo(HaveOccurred())

			queue, err := service.PaymentQueue()
			Expect(err).NotTo(HaveOccurred())

			Expect(queue).To(HaveLen(1))
			Expect(queue[0].ID).To(Equal(approved.ID))
		})
	})
})
