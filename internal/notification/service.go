package notification

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/internal/auth"
	"github.com/constituency-office/citizen-portal/internal/core/events"
)

type RepositoryAPI interface {
	CreateBatch(notifications []*Notification) error
	ListByUser(userID int64, limit, offset int) ([]*Notification, error)
	CountUnread(userID int64) (int64, error)
	MarkRead(userID, notificationID int64) error
	MarkAllRead(userID int64) error
	GetStaffTierUserIDs() ([]int64, error)
}

type ServiceAPI interface {
	ListMine(actor *auth.User, limit, offset int) ([]*Notification, error)
	UnreadCount(actor *auth.User) (int64, error)
	MarkRead(actor *auth.User, notificationID int64) error
	MarkAllRead(actor *auth.User) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// RegisterEventHandlers wires the fanout to the bus. Handler failures are
// logged by the bus and never fail the originating submission.
func (s *Service) RegisterEventHandlers(bus *events.EventBus) {
	bus.Subscribe(events.RequestCreatedEventType, s.handleRequestCreated)
	bus.Subscribe(events.RequestAssignedEventType, s.handleRequestAssigned)
}

// handleRequestCreated inserts one row per staff-tier identity so the new
// submission shows up on every dashboard.
func (s *Service) handleRequestCreated(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	requestID, _ := data["request_id"].(int64)
	reference, _ := data["reference_number"].(string)
	areaName, _ := data["area_name"].(string)

	recipients, err := s.repo.GetStaffTierUserIDs()
	if err != nil {
		return fmt.Errorf("failed to resolve notification recipients: %w", err)
	}
	if len(recipients) == 0 {
		return nil
	}

	message := fmt.Sprintf("A new request %s was submitted", reference)
	if areaName != "" {
		message = fmt.Sprintf("A new request %s was submitted in %s", reference, areaName)
	}

	batch := make([]*Notification, 0, len(recipients))
	for _, userID := range recipients {
		batch = append(batch, &Notification{
			UserID:    userID,
			Title:     "New citizen request",
			Message:   message,
			RequestID: &requestID,
		})
	}

	if err := s.repo.CreateBatch(batch); err != nil {
		return fmt.Errorf("failed to store notifications: %w", err)
	}

	s.logger.Info("notification fanout complete",
		"request_id", requestID,
		"recipients", len(recipients))
	return nil
}

func (s *Service) handleRequestAssigned(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	requestID, _ := data["request_id"].(int64)
	reference, _ := data["reference_number"].(string)
	assigneeID, _ := data["assignee_id"].(int64)
	if assigneeID == 0 {
		return nil
	}

	return s.repo.CreateBatch([]*Notification{{
		UserID:    assigneeID,
		Title:     "Request assigned to you",
		Message:   fmt.Sprintf("Request %s was assigned to you", reference),
		RequestID: &requestID,
	}})
}

func (s *Service) ListMine(actor *auth.User, limit, offset int) ([]*Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUser(actor.ID, limit, offset)
}

func (s *Service) UnreadCount(actor *auth.User) (int64, error) {
	return s.repo.CountUnread(actor.ID)
}

func (s *Service) MarkRead(actor *auth.User, notificationID int64) error {
	if err := s.repo.MarkRead(actor.ID, notificationID); err != nil {
		return errors.NewNotFoundError("Notification not found", errors.ErrCodeNotifNotFound)
	}
	return nil
}

func (s *Service) MarkAllRead(actor *auth.User) error {
	return s.repo.MarkAllRead(actor.ID)
}
