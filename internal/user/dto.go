package user

import (
	"strings"

	"github.com/smkhize/claims-management/internal"
)

// RegisterDTO is the transport shape for account registration.
type RegisterDTO struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Validate accumulates all field errors before returning.
func (d RegisterDTO) Validate() error {
	var errs []internal.ValidationError

	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, internal.ValidationError{
			Field: "name", Message: "name is required", Code: string(internal.ErrCodeValidationFailed),
		})
	}
	if strings.TrimSpace(d.Email) == "" || !strings.Contains(d.Email, "@") {
		errs = append(errs, internal.ValidationError{
			Field: "email", Message: "a valid email is required", Code: string(internal.ErrCodeValidationFailed),
		})
	}
	if !Role(d.Role).Valid() {
		errs = append(errs, internal.ValidationError{
			Field: "role", Message: "role must be Lecturer, ProgrammeCoordinator, AcademicManager or HR", Code: string(internal.ErrCodeValidationFailed),
		})
	}
	if d.Password == "" {
		errs = append(errs, internal.ValidationError{
			Field: "password", Message: "password is required", Code: string(internal.ErrCodeValidationFailed),
		})
	} else if d.Password != d.ConfirmPassword {
		errs = append(errs, internal.ValidationError{
			Field: "confirm_password", Message: "passwords do not match", Code: string(internal.ErrCodeValidationFailed),
		})
	}

	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}
