package news

import (
	"time"

	newsDatamodel "github.com/constituency-office/citizen-portal/internal/core/datamodel/news"
)

const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusPublished = "published"

	TypeStatement    = "statement"
	TypeEvent        = "event"
	TypeAnnouncement = "announcement"
)

func IsValidStatus(s string) bool {
	return s == StatusDraft || s == StatusScheduled || s == StatusPublished
}

func IsValidType(t string) bool {
	return t == TypeStatement || t == TypeEvent || t == TypeAnnouncement
}

type News struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Summary   *string    `json:"summary,omitempty"`
	Type      string     `json:"type"`
	Status    string     `json:"status"`
	Pinned    bool       `json:"pinned"`
	Urgent    bool       `json:"urgent"`
	AreaID    *int64     `json:"area_id,omitempty"`
	ImageURL  *string    `json:"image_url,omitempty"`
	PublishAt *time.Time `json:"publish_at,omitempty"`
	AuthorID  int64      `json:"author_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsDue reports whether a scheduled item should be promoted to published.
func (n *News) IsDue(now time.Time) bool {
	return n.Status == StatusScheduled && n.PublishAt != nil && !n.PublishAt.After(now)
}

func ToDataModel(n *News) *newsDatamodel.News {
	return &newsDatamodel.News{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Summary:   n.Summary,
		Type:      n.Type,
		Status:    n.Status,
		Pinned:    n.Pinned,
		Urgent:    n.Urgent,
		AreaID:    n.AreaID,
		ImageURL:  n.ImageURL,
		PublishAt: n.PublishAt,
		AuthorID:  n.AuthorID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func FromDataModel(n *newsDatamodel.News) *News {
	return &News{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Summary:   n.Summary,
		Type:      n.Type,
		Status:    n.Status,
		Pinned:    n.Pinned,
		Urgent:    n.Urgent,
		AreaID:    n.AreaID,
		ImageURL:  n.ImageURL,
		PublishAt: n.PublishAt,
		AuthorID:  n.AuthorID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*newsDatamodel.News) []*News {
	result := make([]*News, len(rows))
	for i, n := range rows {
		result[i] = FromDataModel(n)
	}
	return result
}
