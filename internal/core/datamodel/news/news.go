package news

import "time"

type News struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	Title     string     `json:"title" gorm:"not null"`
	Content   string     `json:"content" gorm:"not null"`
	Summary   *string    `json:"summary,omitempty" gorm:"column:summary"`
	Type      string     `json:"type" gorm:"not null;default:statement"`
	Status    string     `json:"status" gorm:"not null;default:draft;index"`
	Pinned    bool       `json:"pinned" gorm:"default:false"`
	Urgent    bool       `json:"urgent" gorm:"default:false"`
	AreaID    *int64     `json:"area_id,omitempty" gorm:"column:area_id"`
	ImageURL  *string    `json:"image_url,omitempty" gorm:"column:image_url"`
	PublishAt *time.Time `json:"publish_at,omitempty" gorm:"column:publish_at"`
	AuthorID  int64      `json:"author_id" gorm:"column:author_id;not null"`
	CreatedAt time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (News) TableName() string {
	return "news"
}
