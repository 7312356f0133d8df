package postgres

import (
	"errors"
	"time"

	apperrors "github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/internal/auth"
	profiledm "github.com/constituency-office/citizen-portal/internal/core/datamodel/profile"
	userdm "github.com/constituency-office/citizen-portal/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetPasswordForEmail(email string) (string, int64, error) {
	var u userdm.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", 0, auth.ErrInvalidCredentials
		}
		return "", 0, err
	}
	if u.PasswordHash == "" {
		// Federated identity without a local password.
		return "", 0, auth.ErrInvalidCredentials
	}
	return u.PasswordHash, u.ID, nil
}

// GetUserWithRole loads the identity joined with its role row. Identities
// without a role row fall back to citizen.
func (r *Repository) GetUserWithRole(userID int64) (*auth.User, error) {
	var u userdm.User
	if err := r.db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, auth.ErrUserInactive
	}

	role := auth.RoleCitizen
	var assignedAreaID *int64
	var roleRow profiledm.UserRole
	err := r.db.Where("user_id = ?", userID).First(&roleRow).Error
	if err == nil {
		if parsed, ok := auth.ParseRole(roleRow.Role); ok {
			role = parsed
		}
		assignedAreaID = roleRow.AssignedAreaID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &auth.User{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           role,
		AssignedAreaID: assignedAreaID,
	}, nil
}

func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&userdm.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// RegisterIdentity creates the user, profile and citizen role rows in one
// transaction so a half-registered identity can never exist.
func (r *Repository) RegisterIdentity(reg *auth.Registration) (int64, error) {
	var userID int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		u := userdm.User{
			Email:        reg.Email,
			Name:         reg.Name,
			PasswordHash: reg.PasswordHash,
			IsActive:     true,
		}
		if err := tx.Create(&u).Error; err != nil {
			return err
		}

		p := profiledm.Profile{
			UserID:     u.ID,
			Name:       reg.Name,
			Email:      &reg.Email,
			Phone:      reg.Phone,
			NationalID: reg.NationalID,
			AreaID:     reg.AreaID,
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}

		roleRow := profiledm.UserRole{
			UserID: u.ID,
			Role:   string(auth.RoleCitizen),
		}
		if err := tx.Create(&roleRow).Error; err != nil {
			return err
		}

		userID = u.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// GetOrCreateGoogleIdentity links a federated login to an existing account
// by google id, then by email, and provisions a fresh citizen identity when
// neither matches.
func (r *Repository) GetOrCreateGoogleIdentity(googleID, email, name string) (int64, error) {
	var u userdm.User
	err := r.db.Where("google_id = ?", googleID).First(&u).Error
	if err == nil {
		return u.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	err = r.db.Where("email = ?", email).First(&u).Error
	if err == nil {
		if updErr := r.db.Model(&u).Update("google_id", googleID).Error; updErr != nil {
			return 0, updErr
		}
		return u.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	var userID int64
	err = r.db.Transaction(func(tx *gorm.DB) error {
		nu := userdm.User{
			Email:    email,
			Name:     name,
			GoogleID: &googleID,
			IsActive: true,
		}
		if err := tx.Create(&nu).Error; err != nil {
			return err
		}
		if err := tx.Create(&profiledm.Profile{UserID: nu.ID, Name: name, Email: &email}).Error; err != nil {
			return err
		}
		if err := tx.Create(&profiledm.UserRole{UserID: nu.ID, Role: string(auth.RoleCitizen)}).Error; err != nil {
			return err
		}
		userID = nu.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func (r *Repository) GetUserIDByEmail(email string) (int64, error) {
	var u userdm.User
	if err := r.db.Where("email = ? AND is_active = ?", email, true).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrUserNotFound
		}
		return 0, err
	}
	return u.ID, nil
}

func (r *Repository) CreatePasswordReset(userID int64, tokenHash string, expiresAt time.Time) error {
	return r.db.Create(&userdm.PasswordReset{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	}).Error
}

// ConsumePasswordReset marks the token used and returns its owner. Expired
// or already-used tokens fail the lookup.
func (r *Repository) ConsumePasswordReset(tokenHash string, now time.Time) (int64, error) {
	var userID int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var pr userdm.PasswordReset
		if err := tx.Where("token_hash = ? AND used_at IS NULL AND expires_at > ?", tokenHash, now).First(&pr).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return auth.ErrResetTokenInvalid
			}
			return err
		}
		if err := tx.Model(&pr).Update("used_at", now).Error; err != nil {
			return err
		}
		userID = pr.UserID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func (r *Repository) UpdatePassword(userID int64, passwordHash string) error {
	return r.db.Model(&userdm.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		}).Error
}
