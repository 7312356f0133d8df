package request

import (
	"time"

	requestDatamodel "github.com/constituency-office/citizen-portal/internal/core/datamodel/request"
)

const (
	StatusNew        = "new"
	StatusInReview   = "in_review"
	StatusInProgress = "in_progress"
	StatusResponded  = "responded"
	StatusClosed     = "closed"
	StatusCancelled  = "cancelled"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	// EditWindow is how long after creation the owner may still edit the
	// subject and description.
	EditWindow = 6 * time.Hour
)

// allowedTransitions is the authority on status changes. Terminal states
// have no outgoing edges; cancellation is reachable from every live state.
var allowedTransitions = map[string]map[string]bool{
	StatusNew: {
		StatusInReview:   true,
		StatusInProgress: true,
		StatusResponded:  true,
		StatusClosed:     true,
		StatusCancelled:  true,
	},
	StatusInReview: {
		StatusInProgress: true,
		StatusResponded:  true,
		StatusClosed:     true,
		StatusCancelled:  true,
	},
	StatusInProgress: {
		StatusResponded: true,
		StatusClosed:    true,
		StatusCancelled: true,
	},
	StatusResponded: {
		StatusInProgress: true,
		StatusClosed:     true,
		StatusCancelled:  true,
	},
	StatusClosed:    {},
	StatusCancelled: {},
}

func IsValidStatus(s string) bool {
	_, ok := allowedTransitions[s]
	return ok
}

func IsValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Request struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	ReferenceNumber string    `json:"reference_number"`
	IdempotencyKey  *string   `json:"-"`
	Subject         string    `json:"subject"`
	Description     string    `json:"description"`
	Status          string    `json:"status"`
	Priority        string    `json:"priority"`
	TypeID          int64     `json:"type_id"`
	AreaID          int64     `json:"area_id"`
	AssigneeID      *int64    `json:"assignee_id,omitempty"`
	Location        *string   `json:"location,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (r *Request) IsTerminal() bool {
	return r.Status == StatusClosed || r.Status == StatusCancelled
}

// CanTransitionTo checks the edge in the transition table.
func (r *Request) CanTransitionTo(status string) bool {
	return allowedTransitions[r.Status][status]
}

// CanBeEditedBy reports whether the owner may still edit content: within
// the edit window and not terminal.
func (r *Request) CanBeEditedBy(userID int64, now time.Time) bool {
	if r.UserID != userID || r.IsTerminal() {
		return false
	}
	return now.Sub(r.CreatedAt) <= EditWindow
}

// CanBeCancelledBy has no time limit; only terminal states block it.
func (r *Request) CanBeCancelledBy(userID int64) bool {
	return r.UserID == userID && !r.IsTerminal()
}

type Reply struct {
	ID         int64     `json:"id"`
	RequestID  int64     `json:"request_id"`
	SenderID   int64     `json:"sender_id"`
	SenderRole string    `json:"sender_role"`
	Message    string    `json:"message"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

type Attachment struct {
	ID          int64     `json:"id"`
	RequestID   int64     `json:"request_id"`
	FileName    string    `json:"file_name"`
	FileURL     string    `json:"file_url"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Stats feeds the dashboard analytics cards.
type Stats struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByPriority map[string]int64 `json:"by_priority"`
	ByArea     map[int64]int64  `json:"by_area"`
}

func ToDataModel(r *Request) *requestDatamodel.Request {
	return &requestDatamodel.Request{
		ID:              r.ID,
		UserID:          r.UserID,
		ReferenceNumber: r.ReferenceNumber,
		IdempotencyKey:  r.IdempotencyKey,
		Subject:         r.Subject,
		Description:     r.Description,
		Status:          r.Status,
		Priority:        r.Priority,
		TypeID:          r.TypeID,
		AreaID:          r.AreaID,
		AssigneeID:      r.AssigneeID,
		Location:        r.Location,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func FromDataModel(r *requestDatamodel.Request) *Request {
	return &Request{
		ID:              r.ID,
		UserID:          r.UserID,
		ReferenceNumber: r.ReferenceNumber,
		IdempotencyKey:  r.IdempotencyKey,
		Subject:         r.Subject,
		Description:     r.Description,
		Status:          r.Status,
		Priority:        r.Priority,
		TypeID:          r.TypeID,
		AreaID:          r.AreaID,
		AssigneeID:      r.AssigneeID,
		Location:        r.Location,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*requestDatamodel.Request) []*Request {
	result := make([]*Request, len(rows))
	for i, r := range rows {
		result[i] = FromDataModel(r)
	}
	return result
}

func ReplyFromDataModel(r *requestDatamodel.Reply) *Reply {
	return &Reply{
		ID:         r.ID,
		RequestID:  r.RequestID,
		SenderID:   r.SenderID,
		SenderRole: r.SenderRole,
		Message:    r.Message,
		IsInternal: r.IsInternal,
		CreatedAt:  r.CreatedAt,
	}
}

func AttachmentFromDataModel(a *requestDatamodel.Attachment) *Attachment {
	return &Attachment{
		ID:          a.ID,
		RequestID:   a.RequestID,
		FileName:    a.FileName,
		FileURL:     a.FileURL,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		CreatedAt:   a.CreatedAt,
	}
}
