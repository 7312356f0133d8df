package candidate

import (
	"time"

	errors "github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/internal/core/common/validation"
)

type UpsertProfileDTO struct {
	Name     string  `json:"name"`
	Title    string  `json:"title"`
	Bio      string  `json:"bio"`
	Program  *string `json:"program,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

type CreateAchievementDTO struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AchievedAt  *time.Time `json:"achieved_at,omitempty"`
	SortOrder   int        `json:"sort_order"`
}

type UpdateAchievementDTO struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	AchievedAt  *time.Time `json:"achieved_at,omitempty"`
	SortOrder   *int       `json:"sort_order,omitempty"`
}

func (d UpsertProfileDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().
		MaxLength(200, errors.ErrCodeValidationFailed)
	v.Field("title", d.Title).
		MaxLength(200, errors.ErrCodeValidationFailed)
	v.Field("bio", d.Bio).
		MaxLength(10000, errors.ErrCodeValidationFailed)
	return v.Validate()
}

func (d CreateAchievementDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().
		MaxLength(200, errors.ErrCodeValidationFailed)
	v.Field("description", d.Description).
		MaxLength(2000, errors.ErrCodeValidationFailed)
	return v.Validate()
}

func (d UpdateAchievementDTO) Validate() *errors.AppError {
	if d.Title != nil {
		v := validation.NewValidator()
		v.Field("title", *d.Title).Required().
			MaxLength(200, errors.ErrCodeValidationFailed)
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if d.Description != nil {
		v := validation.NewValidator()
		v.Field("description", *d.Description).
			MaxLength(2000, errors.ErrCodeValidationFailed)
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
