package news

import (
	"time"

	errors "github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/internal/core/common/validation"
)

type CreateNewsDTO struct {
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Summary   *string    `json:"summary,omitempty"`
	Type      string     `json:"type,omitempty"`
	Status    string     `json:"status,omitempty"`
	Pinned    bool       `json:"pinned"`
	Urgent    bool       `json:"urgent"`
	AreaID    *int64     `json:"area_id,omitempty"`
	ImageURL  *string    `json:"image_url,omitempty"`
	PublishAt *time.Time `json:"publish_at,omitempty"`
}

type UpdateNewsDTO struct {
	Title     *string    `json:"title,omitempty"`
	Content   *string    `json:"content,omitempty"`
	Summary   *string    `json:"summary,omitempty"`
	Type      *string    `json:"type,omitempty"`
	Status    *string    `json:"status,omitempty"`
	Pinned    *bool      `json:"pinned,omitempty"`
	Urgent    *bool      `json:"urgent,omitempty"`
	AreaID    *int64     `json:"area_id,omitempty"`
	ImageURL  *string    `json:"image_url,omitempty"`
	PublishAt *time.Time `json:"publish_at,omitempty"`
}

type ListQueryDTO struct {
	Type   string `json:"type,omitempty"`
	AreaID *int64 `json:"area_id,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

func (d CreateNewsDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().
		MinLength(3, errors.ErrCodeValidationFailed).
		MaxLength(200, errors.ErrCodeValidationFailed)
	v.Field("content", d.Content).Required().
		MaxLength(20000, errors.ErrCodeValidationFailed)
	if d.Type != "" {
		v.Field("type", d.Type).OneOf(
			[]string{TypeStatement, TypeEvent, TypeAnnouncement},
			errors.ErrCodeValidationFailed,
		)
	}
	if err := v.Validate(); err != nil {
		return err
	}

	if d.Status != "" && !IsValidStatus(d.Status) {
		return errors.NewValidationFieldError("status", "status must be draft, scheduled or published", errors.ErrCodeInvalidNewsStatus)
	}
	if d.Status == StatusScheduled && d.PublishAt == nil {
		return errors.NewValidationFieldError("publish_at", "scheduled items need a publish_at time", errors.ErrCodeInvalidNewsStatus)
	}
	return nil
}

func (d UpdateNewsDTO) Validate() *errors.AppError {
	if d.Title != nil {
		v := validation.NewValidator()
		v.Field("title", *d.Title).Required().
			MinLength(3, errors.ErrCodeValidationFailed).
			MaxLength(200, errors.ErrCodeValidationFailed)
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if d.Type != nil && !IsValidType(*d.Type) {
		return errors.NewValidationFieldError("type", "unknown news type", errors.ErrCodeValidationFailed)
	}
	if d.Status != nil && !IsValidStatus(*d.Status) {
		return errors.NewValidationFieldError("status", "status must be draft, scheduled or published", errors.ErrCodeInvalidNewsStatus)
	}
	if d.Status != nil && *d.Status == StatusScheduled && d.PublishAt == nil {
		return errors.NewValidationFieldError("publish_at", "scheduled items need a publish_at time", errors.ErrCodeInvalidNewsStatus)
	}
	return nil
}
