package user

import (
	"time"

	"github.com/constituency-office/citizen-portal/internal/auth"
	profileDatamodel "github.com/constituency-office/citizen-portal/internal/core/datamodel/profile"
)

// Profile is the personal data record shown on the member screens.
type Profile struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Name            string    `json:"name"`
	Phone           *string   `json:"phone,omitempty"`
	Email           *string   `json:"email,omitempty"`
	NationalID      *string   `json:"national_id,omitempty"`
	Gender          *string   `json:"gender,omitempty"`
	JobTitle        *string   `json:"job_title,omitempty"`
	MaritalStatus   *string   `json:"marital_status,omitempty"`
	Address         *string   `json:"address,omitempty"`
	AreaID          *int64    `json:"area_id,omitempty"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Me is the identity snapshot returned by GET /users/me: profile plus the
// current role, re-read from the database on every call.
type Me struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           auth.Role `json:"role"`
	AssignedAreaID *int64    `json:"assigned_area_id,omitempty"`
	Profile        *Profile  `json:"profile,omitempty"`
}

// TeamMember is a row in the admin team console.
type TeamMember struct {
	UserID         int64     `json:"user_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           auth.Role `json:"role"`
	JobTitle       *string   `json:"job_title,omitempty"`
	AssignedAreaID *int64    `json:"assigned_area_id,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func FromDataModel(p *profileDatamodel.Profile) *Profile {
	return &Profile{
		ID:              p.ID,
		UserID:          p.UserID,
		Name:            p.Name,
		Phone:           p.Phone,
		Email:           p.Email,
		NationalID:      p.NationalID,
		Gender:          p.Gender,
		JobTitle:        p.JobTitle,
		MaritalStatus:   p.MaritalStatus,
		Address:         p.Address,
		AreaID:          p.AreaID,
		ProfileImageURL: p.ProfileImageURL,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func ToDataModel(p *Profile) *profileDatamodel.Profile {
	return &profileDatamodel.Profile{
		ID:              p.ID,
		UserID:          p.UserID,
		Name:            p.Name,
		Phone:           p.Phone,
		Email:           p.Email,
		NationalID:      p.NationalID,
		Gender:          p.Gender,
		JobTitle:        p.JobTitle,
		MaritalStatus:   p.MaritalStatus,
		Address:         p.Address,
		AreaID:          p.AreaID,
		ProfileImageURL: p.ProfileImageURL,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
