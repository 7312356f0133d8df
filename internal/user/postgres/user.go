package postgres

import (
	"errors"
	"time"

	apperrors "github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/internal/auth"
	profiledm "github.com/constituency-office/citizen-portal/internal/core/datamodel/profile"
	userdm "github.com/constituency-office/citizen-portal/internal/core/datamodel/user"
	"github.com/constituency-office/citizen-portal/internal/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetProfileByUserID(userID int64) (*user.Profile, error) {
	var p profiledm.Profile
	if err := r.db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&p), nil
}

// UpdateProfile applies only the fields present in the DTO and returns the
// fresh row.
func (r *Repository) UpdateProfile(userID int64, dto user.UpdateProfileDTO) (*user.Profile, error) {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Phone != nil {
		updates["phone"] = *dto.Phone
	}
	if dto.Gender != nil {
		updates["gender"] = *dto.Gender
	}
	if dto.MaritalStatus != nil {
		updates["marital_status"] = *dto.MaritalStatus
	}
	if dto.Address != nil {
		updates["address"] = *dto.Address
	}
	if dto.AreaID != nil {
		updates["area_id"] = *dto.AreaID
	}
	if dto.ProfileImageURL != nil {
		updates["profile_image_url"] = *dto.ProfileImageURL
	}

	res := r.db.Model(&profiledm.Profile{}).Where("user_id = ?", userID).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrProfileNotFound
	}

	if dto.Name != nil {
		// Keep the identity display name in sync with the profile.
		if err := r.db.Model(&userdm.User{}).Where("id = ?", userID).
			Update("name", *dto.Name).Error; err != nil {
			return nil, err
		}
	}

	return r.GetProfileByUserID(userID)
}

func (r *Repository) UpdateJobTitle(userID int64, jobTitle string) error {
	res := r.db.Model(&profiledm.Profile{}).Where("user_id = ?", userID).
		Updates(map[string]interface{}{"job_title": jobTitle, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

// ListTeamMembers returns every identity holding a staff-tier role row.
func (r *Repository) ListTeamMembers() ([]user.TeamMember, error) {
	type row struct {
		UserID         int64
		Name           string
		Email          string
		Role           string
		JobTitle       *string
		AssignedAreaID *int64
		IsActive       bool
		CreatedAt      time.Time
	}

	var rows []row
	err := r.db.Table("users").
		Select("users.id AS user_id, users.name, users.email, user_roles.role, profiles.job_title, user_roles.assigned_area_id, users.is_active, users.created_at").
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Joins("LEFT JOIN profiles ON profiles.user_id = users.id").
		Where("user_roles.role IN ?", []string{
			string(auth.RoleStaff), string(auth.RoleCandidate), string(auth.RoleAdmin),
		}).
		Order("users.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	members := make([]user.TeamMember, 0, len(rows))
	for _, rr := range rows {
		role, ok := auth.ParseRole(rr.Role)
		if !ok {
			role = auth.RoleCitizen
		}
		members = append(members, user.TeamMember{
			UserID:         rr.UserID,
			Name:           rr.Name,
			Email:          rr.Email,
			Role:           role,
			JobTitle:       rr.JobTitle,
			AssignedAreaID: rr.AssignedAreaID,
			IsActive:       rr.IsActive,
			CreatedAt:      rr.CreatedAt,
		})
	}
	return members, nil
}

// UpsertRole writes the single role row for the member, creating it when
// the identity never had one.
func (r *Repository) UpsertRole(userID int64, role auth.Role, assignedAreaID *int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing profiledm.UserRole
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			var count int64
			if err := tx.Model(&userdm.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return apperrors.ErrUserNotFound
			}
			return tx.Create(&profiledm.UserRole{
				UserID:         userID,
				Role:           string(role),
				AssignedAreaID: assignedAreaID,
			}).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&existing).Updates(map[string]interface{}{
			"role":             string(role),
			"assigned_area_id": assignedAreaID,
			"updated_at":       time.Now(),
		}).Error
	})
}

func (r *Repository) SetActive(userID int64, active bool) error {
	res := r.db.Model(&userdm.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"is_active": active, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
