package candidate

import "time"

// CandidateProfile holds the public biography content. A single row is
// expected; the repository treats it as a singleton.
type CandidateProfile struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Title     string    `json:"title"`
	Bio       string    `json:"bio"`
	Program   *string   `json:"program,omitempty" gorm:"column:program"`
	PhotoURL  *string   `json:"photo_url,omitempty" gorm:"column:photo_url"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (CandidateProfile) TableName() string {
	return "candidate_profile"
}

type CandidateAchievement struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	AchievedAt  *time.Time `json:"achieved_at,omitempty" gorm:"column:achieved_at"`
	SortOrder   int        `json:"sort_order" gorm:"column:sort_order;default:0"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (CandidateAchievement) TableName() string {
	return "candidate_achievements"
}
