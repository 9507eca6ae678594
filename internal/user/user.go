package user

import "time"

// Role is the closed set of account roles. Keeping this a dedicated type (not
// a raw string) makes role checks exhaustive and typos unrepresentable.
type Role string

const (
	RoleLecturer             Role = "Lecturer"
	RoleProgrammeCoordinator Role = "ProgrammeCoordinator"
	RoleAcademicManager      Role = "AcademicManager"
	RoleHR                   Role = "HR"
)

func (r Role) Valid() bool {
	switch r {
	case RoleLecturer, RoleProgrammeCoordinator, RoleAcademicManager, RoleHR:
		return true
	}
	return false
}

// CanReviewClaims reports whether the role may manually approve or reject
// submitted claims.
func (r Role) CanReviewClaims() bool {
	return r == RoleProgrammeCoordinator || r == RoleAcademicManager
}

// CanProcessPayments reports whether the role may run payment processing.
func (r Role) CanProcessPayments() bool {
	return r == RoleHR
}

// CanViewReports reports whether the role may access management reporting.
func (r Role) CanViewReports() bool {
	return r.CanReviewClaims() || r == RoleHR
}

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"column:name;not null"`
	Email        string    `json:"email" gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         Role      `json:"role" gorm:"column:role;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
}

func (User) TableName() string {
	return "users"
}

// Repository defines the data access methods for the account directory.
type Repository interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	GetByName(name string) (*User, error)
	List() ([]*User, error)
}
