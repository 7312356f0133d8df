package news

import (
	"log/slog"
	"time"

	errors "github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/internal/auth"
)

type RepositoryAPI interface {
	Create(item *News) error
	GetByID(id int64) (*News, error)
	Update(id int64, dto UpdateNewsDTO) (*News, error)
	Delete(id int64) error
	ListPublished(q ListQueryDTO) ([]*News, error)
	ListAll(q ListQueryDTO) ([]*News, error)
	PublishDue(now time.Time) (int64, error)
}

type ServiceAPI interface {
	Create(actor *auth.User, dto CreateNewsDTO) (*News, error)
	Update(actor *auth.User, id int64, dto UpdateNewsDTO) (*News, error)
	Delete(actor *auth.User, id int64) error
	GetByID(actor *auth.User, id int64) (*News, error)
	ListPublic(q ListQueryDTO) ([]*News, error)
	ListAll(actor *auth.User, q ListQueryDTO) ([]*News, error)
	PublishDueScheduled() (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) Create(actor *auth.User, dto CreateNewsDTO) (*News, error) {
	if !actor.Can(auth.CapManageNews) {
		return nil, errors.NewForbiddenError("not allowed to manage news", errors.ErrCodeMissingCapability)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	newsType := dto.Type
	if newsType == "" {
		newsType = TypeStatement
	}
	status := dto.Status
	if status == "" {
		status = StatusDraft
	}

	now := s.now()
	item := &News{
		Title:     dto.Title,
		Content:   dto.Content,
		Summary:   dto.Summary,
		Type:      newsType,
		Status:    status,
		Pinned:    dto.Pinned,
		Urgent:    dto.Urgent,
		AreaID:    dto.AreaID,
		ImageURL:  dto.ImageURL,
		PublishAt: dto.PublishAt,
		AuthorID:  actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(item); err != nil {
		s.logger.Error("failed to create news item", "error", err, "author_id", actor.ID)
		return nil, errors.NewInternalError("failed to create news item", err)
	}

	s.logger.Info("news item created", "news_id", item.ID, "status", item.Status, "author_id", actor.ID)
	return item, nil
}

func (s *Service) Update(actor *auth.User, id int64, dto UpdateNewsDTO) (*News, error) {
	if !actor.Can(auth.CapManageNews) {
		return nil, errors.NewForbiddenError("not allowed to manage news", errors.ErrCodeMissingCapability)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	item, err := s.repo.Update(id, dto)
	if err != nil {
		return nil, err
	}

	s.logger.Info("news item updated", "news_id", id, "actor_id", actor.ID)
	return item, nil
}

func (s *Service) Delete(actor *auth.User, id int64) error {
	if !actor.Can(auth.CapManageNews) {
		return errors.NewForbiddenError("not allowed to manage news", errors.ErrCodeMissingCapability)
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.logger.Info("news item deleted", "news_id", id, "actor_id", actor.ID)
	return nil
}

// GetByID hides unpublished items from readers without the manage grant.
func (s *Service) GetByID(actor *auth.User, id int64) (*News, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if item.Status != StatusPublished {
		if actor == nil || !actor.Can(auth.CapManageNews) {
			return nil, errors.NewNotFoundError("News item not found", errors.ErrCodeNewsNotFound)
		}
	}

	return item, nil
}

// ListPublic is the unauthenticated feed: published only, pinned first.
func (s *Service) ListPublic(q ListQueryDTO) ([]*News, error) {
	return s.repo.ListPublished(q)
}

func (s *Service) ListAll(actor *auth.User, q ListQueryDTO) ([]*News, error) {
	if !actor.Can(auth.CapManageNews) {
		return nil, errors.NewForbiddenError("not allowed to manage news", errors.ErrCodeMissingCapability)
	}
	return s.repo.ListAll(q)
}

// PublishDueScheduled promotes scheduled items whose publish time passed.
// The worker calls it on a ticker.
func (s *Service) PublishDueScheduled() (int64, error) {
	promoted, err := s.repo.PublishDue(s.now())
	if err != nil {
		s.logger.Error("scheduled news sweep failed", "error", err)
		return 0, err
	}

	if promoted > 0 {
		s.logger.Info("scheduled news published", "count", promoted)
	}
	return promoted, nil
}
