package candidate

import (
	"time"

	candidateDatamodel "github.com/constituency-office/citizen-portal/internal/core/datamodel/candidate"
)

// Profile is the public biography shown on the landing pages. A single
// row backs it; writes upsert rather than insert.
type Profile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Bio       string    `json:"bio"`
	Program   *string   `json:"program,omitempty"`
	PhotoURL  *string   `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Achievement struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AchievedAt  *time.Time `json:"achieved_at,omitempty"`
	SortOrder   int        `json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func ProfileFromDataModel(p *candidateDatamodel.CandidateProfile) *Profile {
	return &Profile{
		ID:        p.ID,
		Name:      p.Name,
		Title:     p.Title,
		Bio:       p.Bio,
		Program:   p.Program,
		PhotoURL:  p.PhotoURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (p *Profile) ToDataModel() *candidateDatamodel.CandidateProfile {
	return &candidateDatamodel.CandidateProfile{
		ID:        p.ID,
		Name:      p.Name,
		Title:     p.Title,
		Bio:       p.Bio,
		Program:   p.Program,
		PhotoURL:  p.PhotoURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func AchievementFromDataModel(a *candidateDatamodel.CandidateAchievement) *Achievement {
	return &Achievement{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		AchievedAt:  a.AchievedAt,
		SortOrder:   a.SortOrder,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (a *Achievement) ToDataModel() *candidateDatamodel.CandidateAchievement {
	return &candidateDatamodel.CandidateAchievement{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		AchievedAt:  a.AchievedAt,
		SortOrder:   a.SortOrder,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
