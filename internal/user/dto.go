package user

import (
	"strings"
	"unicode/utf8"

	errors "github.com/constituency-office/citizen-portal/internal"
)

// UpdateProfileDTO is the self-service edit shape. Omitted fields are left
// untouched; national id changes go through support, not this endpoint.
type UpdateProfileDTO struct {
	Name            *string `json:"name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Gender          *string `json:"gender,omitempty"`
	MaritalStatus   *string `json:"marital_status,omitempty"`
	Address         *string `json:"address,omitempty"`
	AreaID          *int64  `json:"area_id,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

type UpdateJobTitleDTO struct {
	JobTitle string `json:"job_title"`
}

type UpdateRoleDTO struct {
	Role           string `json:"role"`
	AssignedAreaID *int64 `json:"assigned_area_id,omitempty"`
}

func (d UpdateProfileDTO) Validate() *errors.AppError {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return errors.NewValidationFieldError("name", "name cannot be empty", errors.ErrCodeValidationFailed)
	}
	if d.Gender != nil && *d.Gender != "" && *d.Gender != "male" && *d.Gender != "female" {
		return errors.NewValidationFieldError("gender", "gender must be male or female", errors.ErrCodeValidationFailed)
	}
	if d.Address != nil && utf8.RuneCountInString(*d.Address) > 500 {
		return errors.NewValidationFieldError("address", "address must be at most 500 characters", errors.ErrCodeValidationFailed)
	}
	return nil
}

func (d UpdateJobTitleDTO) Validate() *errors.AppError {
	if strings.TrimSpace(d.JobTitle) == "" {
		return errors.NewValidationFieldError("job_title", "job_title is required", errors.ErrCodeValidationFailed)
	}
	if utf8.RuneCountInString(d.JobTitle) > 100 {
		return errors.NewValidationFieldError("job_title", "job_title must be at most 100 characters", errors.ErrCodeValidationFailed)
	}
	return nil
}

func (d UpdateRoleDTO) Validate() *errors.AppError {
	if d.Role == "" {
		return errors.NewValidationFieldError("role", "role is required", errors.ErrCodeValidationFailed)
	}
	return nil
}
