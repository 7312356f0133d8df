package postgres

import (
	"errors"
	"time"

	apperrors "github.com/constituency-office/citizen-portal/internal"
	newsdm "github.com/constituency-office/citizen-portal/internal/core/datamodel/news"
	"github.com/constituency-office/citizen-portal/internal/news"
	"gorm.io/gorm"
)

type NewsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

func (r *NewsRepository) Create(item *news.News) error {
	row := news.ToDataModel(item)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	item.ID = row.ID
	return nil
}

func (r *NewsRepository) GetByID(id int64) (*news.News, error) {
	var row newsdm.News
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("News item not found", apperrors.ErrCodeNewsNotFound)
		}
		return nil, err
	}
	return news.FromDataModel(&row), nil
}

func (r *NewsRepository) Update(id int64, dto news.UpdateNewsDTO) (*news.News, error) {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Content != nil {
		updates["content"] = *dto.Content
	}
	if dto.Summary != nil {
		updates["summary"] = *dto.Summary
	}
	if dto.Type != nil {
		updates["type"] = *dto.Type
	}
	if dto.Status != nil {
		updates["status"] = *dto.Status
	}
	if dto.Pinned != nil {
		updates["pinned"] = *dto.Pinned
	}
	if dto.Urgent != nil {
		updates["urgent"] = *dto.Urgent
	}
	if dto.AreaID != nil {
		updates["area_id"] = *dto.AreaID
	}
	if dto.ImageURL != nil {
		updates["image_url"] = *dto.ImageURL
	}
	if dto.PublishAt != nil {
		updates["publish_at"] = *dto.PublishAt
	}

	res := r.db.Model(&newsdm.News{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NewNotFoundError("News item not found", apperrors.ErrCodeNewsNotFound)
	}

	return r.GetByID(id)
}

func (r *NewsRepository) Delete(id int64) error {
	res := r.db.Delete(&newsdm.News{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError("News item not found", apperrors.ErrCodeNewsNotFound)
	}
	return nil
}

// ListPublished serves the public feed: pinned first, then newest.
func (r *NewsRepository) ListPublished(q news.ListQueryDTO) ([]*news.News, error) {
	tx := r.db.Where("status = ?", news.StatusPublished)
	tx = applyFilters(tx, q)

	var rows []*newsdm.News
	if err := tx.Order("pinned DESC, created_at DESC").
		Limit(q.Limit).Offset(q.Offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return news.FromDataModelSlice(rows), nil
}

func (r *NewsRepository) ListAll(q news.ListQueryDTO) ([]*news.News, error) {
	tx := applyFilters(r.db.Model(&newsdm.News{}), q)

	var rows []*newsdm.News
	if err := tx.Order("created_at DESC").
		Limit(q.Limit).Offset(q.Offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return news.FromDataModelSlice(rows), nil
}

func applyFilters(tx *gorm.DB, q news.ListQueryDTO) *gorm.DB {
	if q.Type != "" {
		tx = tx.Where("type = ?", q.Type)
	}
	if q.AreaID != nil {
		tx = tx.Where("area_id = ? OR area_id IS NULL", *q.AreaID)
	}
	return tx
}

// PublishDue promotes every scheduled row whose publish time has passed.
func (r *NewsRepository) PublishDue(now time.Time) (int64, error) {
	res := r.db.Model(&newsdm.News{}).
		Where("status = ? AND publish_at IS NOT NULL AND publish_at <= ?", news.StatusScheduled, now).
		Updates(map[string]interface{}{
			"status":     news.StatusPublished,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}
