package claim_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/smkhize/claims-management/internal/claim"
)

var _ = Describe("Claim", func() {
	newClaim := func(hours, rate int64) *claim.Claim {
		c := &claim.Claim{
			LecturerName: "Thandi Mokoena",
			Month:        3,
			Year:         2025,
			HoursWorked:  decimal.NewFromInt(hours),
			HourlyRate:   decimal.NewFromInt(rate),
			Status:       claim.StatusSubmitted,
			SubmittedAt:  time.Now(),
		}
		c.ComputeAmounts()
		return c
	}

	Describe("ComputeAmounts", func() {
		It("derives total, tax and net exactly", func() {
			c := newClaim(40, 100)

			Expect(c.TotalAmount.StringFixed(2)).To(Equal("4000.00"))
			Expect(c.TaxAmount.StringFixed(2)).To(Equal("600.00"))
			Expect(c.NetAmount.StringFixed(2)).To(Equal("3400.00"))
		})

		It("rounds fractional amounts to two decimal places", func() {
			c := &claim.Claim{
				HoursWorked: decimal.RequireFromString("37.5"),
				HourlyRate:  decimal.RequireFromString("123.45"),
			}
			c.ComputeAmounts()

			Expect(c.TotalAmount.StringFixed(2)).To(Equal("4629.38"))
			Expect(c.TaxAmount.StringFixed(2)).To(Equal("694.41"))
			Expect(c.NetAmount.Equal(c.TotalAmount.Sub(c.TaxAmount))).To(BeTrue())
		})
	})

	Describe("EligibleForAutoApproval", func() {
		It("accepts small claims within every cap", func() {
			Expect(newClaim(40, 100).EligibleForAutoApproval()).To(BeTrue())
		})

		It("rejects totals above the auto-approval threshold", func() {
			Expect(newClaim(40, 200).EligibleForAutoApproval()).To(BeFalse())
		})

		It("is a no-op for claims that already left Submitted", func() {
			c := newClaim(40, 100)
			c.Approve("Priya Naidoo", time.Now())
			Expect(c.EligibleForAutoApproval()).To(BeFalse())
		})
	})

	Describe("state guards", func() {
		It("allows review only for submitted claims", func() {
			c := newClaim(40, 100)
			Expect(c.CanBeReviewed()).To(BeTrue())

			c.Approve("Priya Naidoo", time.Now())
			Expect(c.CanBeReviewed()).To(BeFalse())
		})

		It("allows payment only for approved unpaid claims", func() {
			c := newClaim(40, 100)
			Expect(c.CanBePaid()).To(BeFalse())

			c.Approve("Priya Naidoo", time.Now())
			Expect(c.CanBePaid()).To(BeTrue())

			c.MarkPaid("PAY-20250301-CLM-2025-001", time.Now())
			Expect(c.CanBePaid()).To(BeFalse())
		})

		It("keeps rejected claims terminal", func() {
			c := newClaim(40, 100)
			c.Reject("missing timesheet")

			Expect(c.CanBeReviewed()).To(BeFalse())
			Expect(c.CanBePaid()).To(BeFalse())
			Expect(c.RejectionReason).To(Equal("missing timesheet"))
		})
	})

	Describe("FormatCode", func() {
		It("zero-pads the sequence to three digits", func() {
			Expect(claim.FormatCode(2025, 7)).To(Equal("CLM-2025-007"))
			Expect(claim.FormatCode(2025, 123)).To(Equal("CLM-2025-123"))
		})
	})

	Describe("FormatPaymentReference", func() {
		It("embeds the payment date and claim code", func() {
			at := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
			Expect(claim.FormatPaymentReference(at, "CLM-2025-007")).
				To(Equal("PAY-20250314-CLM-2025-007"))
		})
	})
})
