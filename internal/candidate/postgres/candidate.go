package postgres

import (
	"errors"
	"time"

	apperrors "github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/internal/candidate"
	candidatedm "github.com/constituency-office/citizen-portal/internal/core/datamodel/candidate"
	"gorm.io/gorm"
)

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

func (r *CandidateRepository) GetProfile() (*candidate.Profile, error) {
	var row candidatedm.CandidateProfile
	if err := r.db.Order("id ASC").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Candidate profile not found", apperrors.ErrCodeCandidateNotFound)
		}
		return nil, err
	}
	return candidate.ProfileFromDataModel(&row), nil
}

// UpsertProfile keeps the table a singleton: update the existing row if
// one exists, otherwise insert the first.
func (r *CandidateRepository) UpsertProfile(p *candidate.Profile) (*candidate.Profile, error) {
	var saved *candidatedm.CandidateProfile

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing candidatedm.CandidateProfile
		err := tx.Order("id ASC").First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			row := p.ToDataModel()
			row.CreatedAt = time.Now()
			row.UpdatedAt = row.CreatedAt
			if err := tx.Create(row).Error; err != nil {
				return err
			}
			saved = row
			return nil
		}

		updates := map[string]interface{}{
			"name":       p.Name,
			"title":      p.Title,
			"bio":        p.Bio,
			"program":    p.Program,
			"photo_url":  p.PhotoURL,
			"updated_at": time.Now(),
		}
		if err := tx.Model(&candidatedm.CandidateProfile{}).
			Where("id = ?", existing.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		var row candidatedm.CandidateProfile
		if err := tx.First(&row, existing.ID).Error; err != nil {
			return err
		}
		saved = &row
		return nil
	})
	if err != nil {
		return nil, err
	}

	return candidate.ProfileFromDataModel(saved), nil
}

func (r *CandidateRepository) ListAchievements() ([]*candidate.Achievement, error) {
	var rows []*candidatedm.CandidateAchievement
	if err := r.db.Order("sort_order ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	achievements := make([]*candidate.Achievement, len(rows))
	for i, row := range rows {
		achievements[i] = candidate.AchievementFromDataModel(row)
	}
	return achievements, nil
}

func (r *CandidateRepository) CreateAchievement(a *candidate.Achievement) error {
	row := a.ToDataModel()
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	a.ID = row.ID
	return nil
}

func (r *CandidateRepository) UpdateAchievement(id int64, dto candidate.UpdateAchievementDTO) (*candidate.Achievement, error) {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.AchievedAt != nil {
		updates["achieved_at"] = *dto.AchievedAt
	}
	if dto.SortOrder != nil {
		updates["sort_order"] = *dto.SortOrder
	}

	result := r.db.Model(&candidatedm.CandidateAchievement{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NewNotFoundError("Achievement not found", apperrors.ErrCodeCandidateNotFound)
	}

	var row candidatedm.CandidateAchievement
	if err := r.db.First(&row, id).Error; err != nil {
		return nil, err
	}
	return candidate.AchievementFromDataModel(&row), nil
}

func (r *CandidateRepository) DeleteAchievement(id int64) error {
	result := r.db.Delete(&candidatedm.CandidateAchievement{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Achievement not found", apperrors.ErrCodeCandidateNotFound)
	}
	return nil
}
