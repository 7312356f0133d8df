package user

import (
	"log/slog"

	errors "github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/internal/auth"
)

type RepositoryAPI interface {
	GetProfileByUserID(userID int64) (*Profile, error)
	UpdateProfile(userID int64, dto UpdateProfileDTO) (*Profile, error)
	UpdateJobTitle(userID int64, jobTitle string) error
	ListTeamMembers() ([]TeamMember, error)
	UpsertRole(userID int64, role auth.Role, assignedAreaID *int64) error
	SetActive(userID int64, active bool) error
}

type ServiceAPI interface {
	GetMe(actor *auth.User) (*Me, error)
	UpdateMyProfile(actor *auth.User, dto UpdateProfileDTO) (*Profile, error)
	UpdateMemberJobTitle(actor *auth.User, memberID int64, dto UpdateJobTitleDTO) error
	ListTeam(actor *auth.User) ([]TeamMember, error)
	ChangeRole(actor *auth.User, memberID int64, dto UpdateRoleDTO) error
	SetMemberActive(actor *auth.User, memberID int64, active bool) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetMe re-reads profile and role so the caller always sees the current
// tier, not the one baked into the token.
func (s *Service) GetMe(actor *auth.User) (*Me, error) {
	if actor == nil {
		return nil, errors.ErrUserNotFound
	}

	profile, err := s.repo.GetProfileByUserID(actor.ID)
	if err != nil {
		if appErr, ok := errors.IsAppError(err); ok && appErr.Code == errors.ErrCodeProfileNotFound {
			// Profile row missing is tolerated; identity still resolves.
			profile = nil
		} else {
			return nil, err
		}
	}

	return &Me{
		ID:             actor.ID,
		Email:          actor.Email,
		Name:           actor.Name,
		Role:           actor.Role,
		AssignedAreaID: actor.AssignedAreaID,
		Profile:        profile,
	}, nil
}

func (s *Service) UpdateMyProfile(actor *auth.User, dto UpdateProfileDTO) (*Profile, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.repo.UpdateProfile(actor.ID, dto)
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "user_id", actor.ID)
	return profile, nil
}

// UpdateMemberJobTitle is the administrative edit staff performs on a
// colleague's record. Only the job title is writable this way.
func (s *Service) UpdateMemberJobTitle(actor *auth.User, memberID int64, dto UpdateJobTitleDTO) error {
	if !actor.Can(auth.CapEditMemberProfile) {
		return errors.NewForbiddenError("not allowed to edit member profiles", errors.ErrCodeMissingCapability)
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	if err := s.repo.UpdateJobTitle(memberID, dto.JobTitle); err != nil {
		return err
	}

	s.logger.Info("member job title updated", "member_id", memberID, "by", actor.ID)
	return nil
}

func (s *Service) ListTeam(actor *auth.User) ([]TeamMember, error) {
	if !actor.Can(auth.CapManageTeam) {
		return nil, errors.NewForbiddenError("not allowed to manage the team", errors.ErrCodeMissingCapability)
	}
	return s.repo.ListTeamMembers()
}

// ChangeRole reassigns a member's tier. Admins cannot change their own
// role; that would make it possible to lock the last admin out.
func (s *Service) ChangeRole(actor *auth.User, memberID int64, dto UpdateRoleDTO) error {
	if !actor.Can(auth.CapManageTeam) {
		return errors.NewForbiddenError("not allowed to manage the team", errors.ErrCodeMissingCapability)
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	role, ok := auth.ParseRole(dto.Role)
	if !ok {
		return errors.NewValidationError("unknown role", errors.ErrCodeInvalidRole)
	}
	if memberID == actor.ID {
		return errors.NewValidationError("cannot change your own role", errors.ErrCodeInvalidRole)
	}

	if err := s.repo.UpsertRole(memberID, role, dto.AssignedAreaID); err != nil {
		return err
	}

	s.logger.Info("role changed", "member_id", memberID, "role", role, "by", actor.ID)
	return nil
}

func (s *Service) SetMemberActive(actor *auth.User, memberID int64, active bool) error {
	if !actor.Can(auth.CapManageTeam) {
		return errors.NewForbiddenError("not allowed to manage the team", errors.ErrCodeMissingCapability)
	}
	if memberID == actor.ID {
		return errors.NewValidationError("cannot deactivate your own account", errors.ErrCodeValidationFailed)
	}

	if err := s.repo.SetActive(memberID, active); err != nil {
		return err
	}

	s.logger.Info("member active flag changed", "member_id", memberID, "active", active, "by", actor.ID)
	return nil
}
