package request

import "time"

type Request struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	UserID          int64     `json:"user_id" gorm:"column:user_id;not null;index"`
	ReferenceNumber string    `json:"reference_number" gorm:"column:reference_number;uniqueIndex;not null"`
	IdempotencyKey  *string   `json:"-" gorm:"column:idempotency_key;uniqueIndex"`
	Subject         string    `json:"subject" gorm:"not null"`
	Description     string    `json:"description" gorm:"not null"`
	Status          string    `json:"status" gorm:"not null;default:new;index"`
	Priority        string    `json:"priority" gorm:"not null;default:medium"`
	TypeID          int64     `json:"type_id" gorm:"column:type_id;not null"`
	AreaID          int64     `json:"area_id" gorm:"column:area_id;not null;index"`
	AssigneeID      *int64    `json:"assignee_id,omitempty" gorm:"column:assignee_id;index"`
	Location        *string   `json:"location,omitempty" gorm:"column:location"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Request) TableName() string {
	return "requests"
}

// Reply rows are append-only; nothing in the application updates or
// deletes them.
type Reply struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	RequestID  int64     `json:"request_id" gorm:"column:request_id;not null;index"`
	SenderID   int64     `json:"sender_id" gorm:"column:sender_id;not null"`
	SenderRole string    `json:"sender_role" gorm:"column:sender_role;not null"`
	Message    string    `json:"message" gorm:"not null"`
	IsInternal bool      `json:"is_internal" gorm:"column:is_internal;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (Reply) TableName() string {
	return "replies"
}

type Attachment struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	RequestID   int64     `json:"request_id" gorm:"column:request_id;not null;index"`
	FileName    string    `json:"file_name" gorm:"column:file_name;not null"`
	FileURL     string    `json:"file_url" gorm:"column:file_url;not null"`
	ContentType string    `json:"content_type" gorm:"column:content_type"`
	SizeBytes   int64     `json:"size_bytes" gorm:"column:size_bytes"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (Attachment) TableName() string {
	return "attachments"
}
