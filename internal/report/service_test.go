package report_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/claim"
	claimMemory "github.com/smkhize/claims-management/internal/claim/memory"
	"github.com/smkhize/claims-management/internal/report"
)

func TestReport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Suite")
}

var _ = Describe("Report Service", func() {
	var (
		repo    *claimMemory.ClaimRepository
		service *report.Service
	)

	seed := func(lecturer string, month, year int, hours, rate int64, status claim.Status) *claim.Claim {
		c := &claim.Claim{
			LecturerName: lecturer,
			Month:        month,
			Year:         year,
			HoursWorked:  decimal.NewFromInt(hours),
			HourlyRate:   decimal.NewFromInt(rate),
			Status:       claim.StatusSubmitted,
			SubmittedAt:  time.Now(),
		}
		c.ComputeAmounts()
		Expect(repo.Create(c)).To(Succeed())

		now := time.Now()
		switch status {
		case claim.StatusApproved:
			c.Approve("Priya Naidoo", now)
		case claim.StatusRejected:
			c.Reject("not supported")
		case claim.StatusPaid:
			c.Approve("Priya Naidoo", now)
			c.MarkPaid("PAY-20250301-TEST", now)
		}
		if status != claim.StatusSubmitted {
			Expect(repo.Update(c)).To(Succeed())
		}
		return c
	}

	BeforeEach(func() {
		repo = claimMemory.NewClaimRepository()
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = report.NewService(repo, lg)
	})

	Describe("Monthly", func() {
		It("tallies counts and amounts per status for the period", func() {
			seed("Thandi Mokoena", 3, 2025, 40, 200, claim.StatusSubmitted) // 8000
			seed("James van der Merwe", 3, 2025, 10, 100, claim.StatusApproved) // 1000
			seed("Priya Naidoo", 3, 2025, 20, 100, claim.StatusPaid) // 2000
			seed("Sipho Dlamini", 4, 2025, 10, 100, claim.StatusSubmitted) // other period

			rep, err := service.Monthly(3, 2025)
			Expect(err).NotTo(HaveOccurred())

			Expect(rep.TotalClaims).To(Equal(3))
			Expect(rep.CountByStatus["Submitted"]).To(Equal(1))
			Expect(rep.CountByStatus["Approved"]).To(Equal(1))
			Expect(rep.CountByStatus["Paid"]).To(Equal(1))

			Expect(rep.TotalAmount.StringFixed(2)).To(Equal("11000.00"))
			Expect(rep.TotalTax.StringFixed(2)).To(Equal("1650.00"))
			Expect(rep.TotalNet.StringFixed(2)).To(Equal("9350.00"))

			Expect(rep.AmountByState["Submitted"].Total.StringFixed(2)).To(Equal("8000.00"))
			Expect(rep.AmountByState["Paid"].Net.StringFixed(2)).To(Equal("1700.00"))
		})

		It("returns an empty report for a quiet period", func() {
			rep, err := service.Monthly(1, 2025)
			Expect(err).NotTo(HaveOccurred())

			Expect(rep.TotalClaims).To(Equal(0))
			Expect(rep.TotalAmount.StringFixed(2)).To(Equal("0.00"))
		})

		It("rejects out-of-range periods", func() {
			_, err := service.Monthly(13, 2025)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidMonth))
		})
	})

	Describe("Overview", func() {
		It("summarises lifecycle tallies and the payment queue", func() {
			seed("Thandi Mokoena", 3, 2025, 40, 200, claim.StatusSubmitted)
			seed("James van der Merwe", 3, 2025, 10, 100, claim.StatusApproved) // net 850
			seed("Priya Naidoo", 3, 2025, 20, 100, claim.StatusApproved)        // net 1700
			seed("Sipho Dlamini", 4, 2025, 10, 100, claim.StatusRejected)
			seed("Lerato Khumalo", 4, 2025, 10, 100, claim.StatusPaid)

			d, err := service.Overview()
			Expect(err).NotTo(HaveOccurred())

			Expect(d.TotalClaims).To(Equal(int64(5)))
			Expect(d.PendingReview).To(Equal(int64(1)))
			Expect(d.CountByStatus["Approved"]).To(Equal(int64(2)))
			Expect(d.CountByStatus["Rejected"]).To(Equal(int64(1)))

			Expect(d.AwaitingCount).To(Equal(2))
			Expect(d.AwaitingTotal.StringFixed(2)).To(Equal("2550.00"))

			Expect(d.RecentClaims).To(HaveLen(5))
		})

		It("lists lecturers with non-rejected claims, sorted", func() {
			seed("Thandi Mokoena", 3, 2025, 40, 200, claim.StatusSubmitted)
			seed("James van der Merwe", 3, 2025, 10, 100, claim.StatusApproved)
			seed("Sipho Dlamini", 4, 2025, 10, 100, claim.StatusRejected)

			d, err := service.Overview()
			Expect(err).NotTo(HaveOccurred())

			Expect(d.ActiveLecturers).To(Equal([]string{"James van der Merwe", "Thandi Mokoena"}))
		})
	})
})
