package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/smkhize/claims-management/internal/claim"
	claimPostgres "github.com/smkhize/claims-management/internal/claim/postgres"
	"github.com/smkhize/claims-management/internal/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample accounts",
	Long:  `Seed the database with sample accounts for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := openGorm(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"notifications", "documents", "claims", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		accounts := []struct {
			Name  string
			Email string
			Role  user.Role
		}{
			{"Thandi Mokoena", "thandi.mokoena@university.ac.za", user.RoleLecturer},
			{"James van der Merwe", "james.vdmerwe@university.ac.za", user.RoleLecturer},
			{"Priya Naidoo", "priya.naidoo@university.ac.za", user.RoleProgrammeCoordinator},
			{"Sipho Dlamini", "sipho.dlamini@university.ac.za", user.RoleAcademicManager},
			{"Lerato Khumalo", "lerato.khumalo@university.ac.za", user.RoleHR},
		}

		for _, a := range accounts {
			if err := seedUser(db, a.Name, a.Email, string(hash), a.Role); err != nil {
				log.Fatalf("failed to seed user %s: %v", a.Email, err)
			}
		}

		if err := seedClaims(db); err != nil {
			log.Fatalf("failed to seed claims: %v", err)
		}

		fmt.Println("Sample data seeded successfully (password: password)")
	},
}

// seedClaims loads a handful of claims in different lifecycle states so the
// review queue, payment queue and reports have data out of the box.
func seedClaims(db *gorm.DB) error {
	repo := claimPostgres.NewClaimRepository(db)

	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM claims").Row().Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		fmt.Println("claims already present, skipping")
		return nil
	}

	now := time.Now()
	samples := []struct {
		Lecturer    string
		Month       int
		Hours, Rate int64
		Description string
		Status      claim.Status
	}{
		{"Thandi Mokoena", int(now.Month()), 40, 100, "Tutorial sessions", claim.StatusApproved},
		{"James van der Merwe", int(now.Month()), 60, 150, "Guest lectures and marking", claim.StatusSubmitted},
		{"Thandi Mokoena", int(now.Month()) - 1, 35, 100, "Tutorial sessions", claim.StatusPaid},
	}

	for _, s := range samples {
		month, year := s.Month, now.Year()
		if month < 1 {
			month, year = 12, year-1
		}

		c := &claim.Claim{
			LecturerName: s.Lecturer,
			Month:        month,
			Year:         year,
			HoursWorked:  decimal.NewFromInt(s.Hours),
			HourlyRate:   decimal.NewFromInt(s.Rate),
			Description:  s.Description,
			Status:       claim.StatusSubmitted,
			SubmittedAt:  now,
		}
		c.ComputeAmounts()

		seq, err := repo.NextSequence(year)
		if err != nil {
			return err
		}
		c.Seq = seq
		c.Code = claim.FormatCode(year, seq)

		switch s.Status {
		case claim.StatusApproved:
			c.Approve(claim.AutoApprovalActor, now)
		case claim.StatusPaid:
			c.Approve("Priya Naidoo", now)
			c.MarkPaid(claim.FormatPaymentReference(now, c.Code), now)
		}

		if err := repo.Create(c); err != nil {
			return err
		}
		fmt.Printf("Seeded claim: %s (%s, %s)\n", c.Code, c.LecturerName, c.Status)
	}

	return nil
}

func seedUser(db *gorm.DB, name, email, passwordHash string, role user.Role) error {
	var exists int
	if err := db.Raw("SELECT 1 FROM users WHERE email = ?", email).Row().Scan(&exists); err == nil {
		fmt.Printf("user %s already exists, skipping\n", email)
		return nil
	}

	err := db.Exec(
		"INSERT INTO users (name, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)",
		name, email, passwordHash, string(role),
	).Error
	if err != nil {
		return err
	}

	fmt.Printf("Seeded user: %s (%s)\n", email, role)
	return nil
}
