package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/claim"
)

func TestClaimRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ClaimRepository Suite")
}

var _ = Describe("ClaimRepository", func() {
	var (
		db   *gorm.DB
		repo claim.Repository
	)

	newClaim := func(lecturer string, month, year int, hours, rate int64, status claim.Status) *claim.Claim {
		c := &claim.Claim{
			LecturerName: lecturer,
			Month:        month,
			Year:         year,
			HoursWorked:  decimal.NewFromInt(hours),
			HourlyRate:   decimal.NewFromInt(rate),
			Status:       status,
			SubmittedAt:  time.Now(),
		}
		c.ComputeAmounts()

		seq, err := repo.NextSequence(year)
		Expect(err).NotTo(HaveOccurred())
		c.Seq = seq
		c.Code = claim.FormatCode(year, seq)

		Expect(repo.Create(c)).To(Succeed())
		return c
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&claim.Claim{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewClaimRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Create and GetByID", func() {
		It("round-trips a claim", func() {
			created := newClaim("Thandi Mokoena", 3, 2025, 40, 100, claim.StatusSubmitted)

			got, err := repo.GetByID(created.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(got.Code).To(Equal("CLM-2025-001"))
			Expect(got.TotalAmount.StringFixed(2)).To(Equal("4000.00"))
			Expect(got.Status).To(Equal(claim.StatusSubmitted))
		})

		It("returns the claim not found sentinel for unknown ids", func() {
			_, err := repo.GetByID(9999)
			Expect(err).To(Equal(internal.ErrClaimNotFound))
		})
	})

	Describe("NextSequence", func() {
		It("increments per year independently", func() {
			newClaim("Thandi Mokoena", 3, 2025, 40, 100, claim.StatusSubmitted)
			newClaim("James van der Merwe", 4, 2025, 40, 100, claim.StatusSubmitted)
			c := newClaim("Priya Naidoo", 1, 2026, 40, 100, claim.StatusSubmitted)

			seq, err := repo.NextSequence(2025)
			Expect(err).NotTo(HaveOccurred())
			Expect(seq).To(Equal(int64(3)))

			Expect(c.Code).To(Equal("CLM-2026-001"))
		})
	})

	Describe("HasClaimForPeriod", func() {
		It("matches lecturer case-insensitively and excludes the given id", func() {
			c := newClaim("Thandi Mokoena", 3, 2025, 40, 100, claim.StatusSubmitted)

			dup, err := repo.HasClaimForPeriod("thandi mokoena", 3, 2025, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(dup).To(BeTrue())

			dup, err = repo.HasClaimForPeriod("Thandi Mokoena", 3, 2025, c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(dup).To(BeFalse())

			dup, err = repo.HasClaimForPeriod("Thandi Mokoena", 4, 2025, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(dup).To(BeFalse())
		})
	})

	Describe("listings", func() {
		BeforeEach(func() {
			newClaim("Thandi Mokoena", 3, 2025, 40, 200, claim.StatusSubmitted)
			approved := newClaim("James van der Merwe", 3, 2025, 10, 100, claim.StatusApproved)
			paid := newClaim("Priya Naidoo", 4, 2025, 20, 100, claim.StatusApproved)

			now := time.Now()
			paid.MarkPaid(claim.FormatPaymentReference(now, paid.Code), now)
			Expect(repo.Update(paid)).To(Succeed())
			_ = approved
		})

		It("filters by status", func() {
			submitted, err := repo.ListByStatus(claim.StatusSubmitted)
			Expect(err).NotTo(HaveOccurred())
			Expect(submitted).To(HaveLen(1))
		})

		It("filters by period", func() {
			march, err := repo.ListByPeriod(3, 2025)
			Expect(err).NotTo(HaveOccurred())
			Expect(march).To(HaveLen(2))
		})

		It("lists approved claims that are not yet paid", func() {
			queue, err := repo.ListApprovedUnpaid()
			Expect(err).NotTo(HaveOccurred())
			Expect(queue).To(HaveLen(1))
			Expect(queue[0].LecturerName).To(Equal("James van der Merwe"))
		})

		It("counts by status", func() {
			n, err := repo.CountByStatus(claim.StatusPaid)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(1)))
		})

		It("lists recent claims with a limit", func() {
			recent, err := repo.ListRecent(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(recent).To(HaveLen(2))
		})

		It("keeps insertion order on identical submission timestamps", func() {
			at := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
			first := newClaim("Sipho Dlamini", 5, 2025, 10, 100, claim.StatusSubmitted)
			second := newClaim("Lerato Khumalo", 5, 2025, 12, 100, claim.StatusSubmitted)
			for _, c := range []*claim.Claim{first, second} {
				c.SubmittedAt = at
				Expect(repo.Update(c)).To(Succeed())
			}

			recent, err := repo.ListRecent(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(recent).To(HaveLen(5))
			Expect(recent[0].ID).To(Equal(first.ID))
			Expect(recent[1].ID).To(Equal(second.ID))
		})
	})
})
