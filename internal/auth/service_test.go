package auth_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/auth"
	"github.com/smkhize/claims-management/internal/user"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

// stubDirectory backs the auth service with a fixed account.
type stubDirectory struct {
	account  *user.User
	password string
}

func (d *stubDirectory) FindByCredentials(email, password string) (*user.User, error) {
	if d.account != nil && d.account.Email == email && d.password == password {
		return d.account, nil
	}
	return nil, internal.ErrInvalidCredentials
}

func (d *stubDirectory) GetByID(id int64) (*user.User, error) {
	if d.account != nil && d.account.ID == id {
		return d.account, nil
	}
	return nil, internal.ErrUserNotFound
}

var _ = Describe("Auth Service", func() {
	var (
		service   *auth.Service
		directory *stubDirectory
	)

	const (
		accessSecret  = "test-access-secret-that-is-long-enough!"
		refreshSecret = "test-refresh-secret-that-is-long-enough"
	)

	BeforeEach(func() {
		directory = &stubDirectory{
			account: &user.User{
				ID:    42,
				Name:  "Thandi Mokoena",
				Email: "thandi.mokoena@university.ac.za",
				Role:  user.RoleLecturer,
			},
			password: "s3cret-pass",
		}

		tokenGen := auth.NewJWTTokenGenerator(accessSecret, refreshSecret, 15*time.Minute, 7*24*time.Hour)
		service = auth.NewService(directory, tokenGen)
	})

	Describe("Authenticate", func() {
		It("returns a token pair for valid credentials", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "thandi.mokoena@university.ac.za",
				Password: "s3cret-pass",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())
		})

		It("rejects bad credentials", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "thandi.mokoena@university.ac.za",
				Password: "wrong",
			})
			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("rejects an empty login form", func() {
			_, err := service.Authenticate(auth.LoginDTO{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("token validation", func() {
		It("round-trips claims through the access token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "thandi.mokoena@university.ac.za",
				Password: "s3cret-pass",
			})
			Expect(err).NotTo(HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal("42"))
			Expect(claims.Email).To(Equal("thandi.mokoena@university.ac.za"))
		})

		It("rejects garbage tokens", func() {
			_, err := service.ValidateAccessToken("not-a-token")
			Expect(err).To(Equal(internal.ErrInvalidToken))
		})
	})

	Describe("RefreshTokens", func() {
		It("issues a fresh pair from a valid refresh token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "thandi.mokoena@university.ac.za",
				Password: "s3cret-pass",
			})
			Expect(err).NotTo(HaveOccurred())

			renewed, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(renewed.AccessToken).NotTo(BeEmpty())
			Expect(renewed.RefreshToken).NotTo(BeEmpty())
		})

		It("rejects an expired token", func() {
			shortGen := auth.NewJWTTokenGenerator(accessSecret, refreshSecret, time.Millisecond, 7*24*time.Hour)
			shortService := auth.NewService(directory, shortGen)

			tokens, err := shortService.Authenticate(auth.LoginDTO{
				Email:    "thandi.mokoena@university.ac.za",
				Password: "s3cret-pass",
			})
			Expect(err).NotTo(HaveOccurred())

			time.Sleep(10 * time.Millisecond)

			_, err = shortService.ValidateAccessToken(tokens.AccessToken)
			Expect(err).To(Equal(internal.ErrTokenExpired))
		})
	})
})
