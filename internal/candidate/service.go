package candidate

import (
	"log/slog"
	"time"

	errors "github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/internal/auth"
)

type RepositoryAPI interface {
	GetProfile() (*Profile, error)
	UpsertProfile(p *Profile) (*Profile, error)
	ListAchievements() ([]*Achievement, error)
	CreateAchievement(a *Achievement) error
	UpdateAchievement(id int64, dto UpdateAchievementDTO) (*Achievement, error)
	DeleteAchievement(id int64) error
}

type ServiceAPI interface {
	GetProfile() (*Profile, error)
	UpsertProfile(actor *auth.User, dto UpsertProfileDTO) (*Profile, error)
	ListAchievements() ([]*Achievement, error)
	CreateAchievement(actor *auth.User, dto CreateAchievementDTO) (*Achievement, error)
	UpdateAchievement(actor *auth.User, id int64, dto UpdateAchievementDTO) (*Achievement, error)
	DeleteAchievement(actor *auth.User, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// GetProfile is the public biography read. No actor required.
func (s *Service) GetProfile() (*Profile, error) {
	return s.repo.GetProfile()
}

func (s *Service) UpsertProfile(actor *auth.User, dto UpsertProfileDTO) (*Profile, error) {
	if !actor.Can(auth.CapManageCandidateContent) {
		return nil, errors.NewForbiddenError("not allowed to manage candidate content", errors.ErrCodeMissingCapability)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	profile := &Profile{
		Name:      dto.Name,
		Title:     dto.Title,
		Bio:       dto.Bio,
		Program:   dto.Program,
		PhotoURL:  dto.PhotoURL,
		UpdatedAt: s.now(),
	}

	saved, err := s.repo.UpsertProfile(profile)
	if err != nil {
		s.logger.Error("failed to save candidate profile", "error", err, "actor_id", actor.ID)
		return nil, errors.NewInternalError("failed to save candidate profile", err)
	}

	s.logger.Info("candidate profile saved", "actor_id", actor.ID)
	return saved, nil
}

// ListAchievements is public and ordered by sort_order.
func (s *Service) ListAchievements() ([]*Achievement, error) {
	return s.repo.ListAchievements()
}

func (s *Service) CreateAchievement(actor *auth.User, dto CreateAchievementDTO) (*Achievement, error) {
	if !actor.Can(auth.CapManageCandidateContent) {
		return nil, errors.NewForbiddenError("not allowed to manage candidate content", errors.ErrCodeMissingCapability)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	achievement := &Achievement{
		Title:       dto.Title,
		Description: dto.Description,
		AchievedAt:  dto.AchievedAt,
		SortOrder:   dto.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateAchievement(achievement); err != nil {
		s.logger.Error("failed to create achievement", "error", err, "actor_id", actor.ID)
		return nil, errors.NewInternalError("failed to create achievement", err)
	}

	s.logger.Info("achievement created", "achievement_id", achievement.ID, "actor_id", actor.ID)
	return achievement, nil
}

func (s *Service) UpdateAchievement(actor *auth.User, id int64, dto UpdateAchievementDTO) (*Achievement, error) {
	if !actor.Can(auth.CapManageCandidateContent) {
		return nil, errors.NewForbiddenError("not allowed to manage candidate content", errors.ErrCodeMissingCapability)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	achievement, err := s.repo.UpdateAchievement(id, dto)
	if err != nil {
		return nil, err
	}

	s.logger.Info("achievement updated", "achievement_id", id, "actor_id", actor.ID)
	return achievement, nil
}

func (s *Service) DeleteAchievement(actor *auth.User, id int64) error {
	if !actor.Can(auth.CapManageCandidateContent) {
		return errors.NewForbiddenError("not allowed to manage candidate content", errors.ErrCodeMissingCapability)
	}

	if err := s.repo.DeleteAchievement(id); err != nil {
		return err
	}

	s.logger.Info("achievement deleted", "achievement_id", id, "actor_id", actor.ID)
	return nil
}
