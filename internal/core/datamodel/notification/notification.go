package notification

import "time"

type SystemNotification struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"column:user_id;not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	Message   string    `json:"message" gorm:"not null"`
	RequestID *int64    `json:"request_id,omitempty" gorm:"column:request_id"`
	IsRead    bool      `json:"is_read" gorm:"column:is_read;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (SystemNotification) TableName() string {
	return "system_notifications"
}
