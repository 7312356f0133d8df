package request

import (
	"time"

	"github.com/google/uuid"

	errors "github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/internal/core/common/validation"
)

// AttachmentInput is raw upload content carried alongside a submission.
type AttachmentInput struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

type CreateRequestDTO struct {
	Subject        string            `json:"subject"`
	Description    string            `json:"description"`
	TypeID         int64             `json:"type_id"`
	AreaID         int64             `json:"area_id"`
	Location       *string           `json:"location,omitempty"`
	Priority       string            `json:"priority,omitempty"`
	IdempotencyKey *string           `json:"idempotency_key,omitempty"`
	Attachments    []AttachmentInput `json:"attachments,omitempty"`
}

type EditRequestDTO struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
	// UpdatedAt is the precondition: the row's timestamp as last seen by
	// the caller. A mismatch means someone else changed it first.
	UpdatedAt time.Time `json:"updated_at"`
}

type UpdatePriorityDTO struct {
	Priority  string    `json:"priority"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AssignDTO struct {
	AssigneeID *int64    `json:"assignee_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ReplyDTO struct {
	Message    string `json:"message"`
	IsInternal bool   `json:"is_internal"`
}

type ListQueryDTO struct {
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
	AreaID   *int64 `json:"area_id,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

func (d CreateRequestDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("subject", d.Subject).Required().
		MinLength(5, errors.ErrCodeInvalidSubject).
		MaxLength(200, errors.ErrCodeInvalidSubject)
	v.Field("description", d.Description).Required().
		MinLength(20, errors.ErrCodeInvalidDescription).
		MaxLength(2000, errors.ErrCodeInvalidDescription)
	v.Field("type_id", d.TypeID).Required()
	v.Field("area_id", d.AreaID).Required()
	if d.Priority != "" {
		v.Field("priority", d.Priority).OneOf(
			[]string{PriorityLow, PriorityMedium, PriorityHigh},
			errors.ErrCodeValidationFailed,
		)
	}
	if err := v.Validate(); err != nil {
		return err
	}

	if d.IdempotencyKey != nil {
		if _, err := uuid.Parse(*d.IdempotencyKey); err != nil {
			return errors.NewValidationFieldError("idempotency_key", "idempotency_key must be a uuid", errors.ErrCodeValidationFailed)
		}
	}
	return nil
}

func (d EditRequestDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("subject", d.Subject).Required().
		MinLength(5, errors.ErrCodeInvalidSubject).
		MaxLength(200, errors.ErrCodeInvalidSubject)
	v.Field("description", d.Description).Required().
		MinLength(20, errors.ErrCodeInvalidDescription).
		MaxLength(2000, errors.ErrCodeInvalidDescription)
	return v.Validate()
}

func (d UpdateStatusDTO) Validate() *errors.AppError {
	if !IsValidStatus(d.Status) {
		return errors.NewValidationFieldError("status", "unknown status", errors.ErrCodeValidationFailed)
	}
	if d.UpdatedAt.IsZero() {
		return errors.NewValidationFieldError("updated_at", "updated_at precondition is required", errors.ErrCodeValidationFailed)
	}
	return nil
}

func (d UpdatePriorityDTO) Validate() *errors.AppError {
	if !IsValidPriority(d.Priority) {
		return errors.NewValidationFieldError("priority", "priority must be low, medium or high", errors.ErrCodeValidationFailed)
	}
	if d.UpdatedAt.IsZero() {
		return errors.NewValidationFieldError("updated_at", "updated_at precondition is required", errors.ErrCodeValidationFailed)
	}
	return nil
}

func (d AssignDTO) Validate() *errors.AppError {
	if d.UpdatedAt.IsZero() {
		return errors.NewValidationFieldError("updated_at", "updated_at precondition is required", errors.ErrCodeValidationFailed)
	}
	return nil
}

func (d ReplyDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("message", d.Message).Required().
		MinLength(1, errors.ErrCodeValidationFailed).
		MaxLength(2000, errors.ErrCodeValidationFailed)
	return v.Validate()
}
