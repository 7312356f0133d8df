package auth

import (
	"strings"
	"unicode/utf8"

	errors "github.com/constituency-office/citizen-portal/internal"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpDTO struct {
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Name       string  `json:"name"`
	Phone      *string `json:"phone,omitempty"`
	NationalID *string `json:"national_id,omitempty"`
	AreaID     *int64  `json:"area_id,omitempty"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

type ForgotPasswordDTO struct {
	Email string `json:"email"`
}

type ResetPasswordDTO struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (d LoginDTO) Validate() *errors.AppError {
	if d.Email == "" {
		return errors.NewValidationFieldError("email", "email is required", errors.ErrCodeValidationFailed)
	}
	if d.Password == "" {
		return errors.NewValidationFieldError("password", "password is required", errors.ErrCodeValidationFailed)
	}
	return nil
}

// Validate runs entirely locally; a failing sign-up must not touch the
// database. The national id minimum matches the registry format.
func (d SignUpDTO) Validate() *errors.AppError {
	if d.Email == "" || !strings.Contains(d.Email, "@") {
		return errors.NewValidationFieldError("email", "a valid email is required", errors.ErrCodeValidationFailed)
	}
	if utf8.RuneCountInString(d.Password) < 8 {
		return errors.NewValidationFieldError("password", "password must be at least 8 characters", errors.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(d.Name) == "" {
		return errors.NewValidationFieldError("name", "name is required", errors.ErrCodeValidationFailed)
	}
	if d.NationalID != nil && *d.NationalID != "" && utf8.RuneCountInString(*d.NationalID) < 10 {
		return errors.NewValidationFieldError("national_id", "national id must be at least 10 digits", errors.ErrCodeInvalidNationalID)
	}
	return nil
}

func (d RefreshTokenDTO) Validate() *errors.AppError {
	if d.RefreshToken == "" {
		return errors.NewValidationFieldError("refresh_token", "refresh_token is required", errors.ErrCodeValidationFailed)
	}
	return nil
}

func (d ForgotPasswordDTO) Validate() *errors.AppError {
	if d.Email == "" {
		return errors.NewValidationFieldError("email", "email is required", errors.ErrCodeValidationFailed)
	}
	return nil
}

func (d ResetPasswordDTO) Validate() *errors.AppError {
	if d.Token == "" {
		return errors.NewValidationFieldError("token", "token is required", errors.ErrCodeValidationFailed)
	}
	if utf8.RuneCountInString(d.NewPassword) < 8 {
		return errors.NewValidationFieldError("new_password", "password must be at least 8 characters", errors.ErrCodeValidationFailed)
	}
	return nil
}
