package postgres

import (
	"errors"

	apperrors "github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/internal/area"
	areadm "github.com/constituency-office/citizen-portal/internal/core/datamodel/area"
	"gorm.io/gorm"
)

type AreaRepository struct {
	db *gorm.DB
}

func NewAreaRepository(db *gorm.DB) *AreaRepository {
	return &AreaRepository{db: db}
}

func (r *AreaRepository) GetActiveAreas() ([]*area.Area, error) {
	var rows []*areadm.Area
	if err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	areas := make([]*area.Area, len(rows))
	for i, row := range rows {
		areas[i] = area.AreaFromDataModel(row)
	}
	return areas, nil
}

func (r *AreaRepository) GetAreaByID(id int64) (*area.Area, error) {
	var row areadm.Area
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Area not found", apperrors.ErrCodeAreaNotFound)
		}
		return nil, err
	}
	return area.AreaFromDataModel(&row), nil
}

func (r *AreaRepository) GetActiveRequestTypes() ([]*area.RequestType, error) {
	var rows []*areadm.RequestType
	if err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	types := make([]*area.RequestType, len(rows))
	for i, row := range rows {
		types[i] = area.RequestTypeFromDataModel(row)
	}
	return types, nil
}

func (r *AreaRepository) GetRequestTypeByID(id int64) (*area.RequestType, error) {
	var row areadm.RequestType
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Request type not found", apperrors.ErrCodeInvalidRequestType)
		}
		return nil, err
	}
	return area.RequestTypeFromDataModel(&row), nil
}
