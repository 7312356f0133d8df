package profile

import "time"

// Profile is the one-to-one personal data record attached to an identity.
// Created minimally at sign-up and enriched later by the owner or by staff.
type Profile struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	UserID          int64     `json:"user_id" gorm:"column:user_id;uniqueIndex;not null"`
	Name            string    `json:"name" gorm:"not null"`
	Phone           *string   `json:"phone,omitempty" gorm:"column:phone"`
	Email           *string   `json:"email,omitempty" gorm:"column:email"`
	NationalID      *string   `json:"national_id,omitempty" gorm:"column:national_id"`
	Gender          *string   `json:"gender,omitempty" gorm:"column:gender"`
	JobTitle        *string   `json:"job_title,omitempty" gorm:"column:job_title"`
	MaritalStatus   *string   `json:"marital_status,omitempty" gorm:"column:marital_status"`
	Address         *string   `json:"address,omitempty" gorm:"column:address"`
	AreaID          *int64    `json:"area_id,omitempty" gorm:"column:area_id"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty" gorm:"column:profile_image_url"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Profile) TableName() string {
	return "profiles"
}

// UserRole assigns the permission tier. Exactly one row exists per identity
// once sign-up completes; the default tier is citizen.
type UserRole struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	UserID         int64     `json:"user_id" gorm:"column:user_id;uniqueIndex;not null"`
	Role           string    `json:"role" gorm:"not null;default:citizen"`
	AssignedAreaID *int64    `json:"assigned_area_id,omitempty" gorm:"column:assigned_area_id"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
