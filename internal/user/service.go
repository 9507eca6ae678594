package user

import (
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/smkhize/claims-management/internal"
)

// Service handles account directory business logic.
type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a new account. Email uniqueness is enforced here.
func (s *Service) Register(dto RegisterDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("registration validation failed", "error", err, "email", dto.Email)
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		s.logger.Warn("registration rejected: email already registered", "email", dto.Email)
		return nil, internal.ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: string(hash),
		Role:         Role(dto.Role),
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID, "email", u.Email, "role", u.Role)
	return u, nil
}

// FindByCredentials looks up an account by email and verifies the password.
func (s *Service) FindByCredentials(email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	return u, nil
}

func (s *Service) GetByID(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) GetByEmail(email string) (*User, error) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) List() ([]*User, error) {
	return s.repo.List()
}
