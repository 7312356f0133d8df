package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/constituency-office/citizen-portal/internal/auth"
	"github.com/constituency-office/citizen-portal/internal/core/events"
	"github.com/constituency-office/citizen-portal/pkg/logger"
)

func TestNotification(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Notification Module Suite")
}

type mockNotificationRepository struct {
	stored     []*Notification
	recipients []int64
	failBatch  bool
}

func (m *mockNotificationRepository) CreateBatch(notifications []*Notification) error {
	if m.failBatch {
		return errors.New("insert failed")
	}
	m.stored = append(m.stored, notifications...)
	return nil
}

func (m *mockNotificationRepository) ListByUser(userID int64, limit, offset int) ([]*Notification, error) {
	var out []*Notification
	for _, n := range m.stored {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotificationRepository) CountUnread(userID int64) (int64, error) {
	var count int64
	for _, n := range m.stored {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepository) MarkRead(userID, notificationID int64) error {
	for _, n := range m.stored {
		if n.ID == notificationID && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return errors.New("not found")
}

func (m *mockNotificationRepository) MarkAllRead(userID int64) error {
	for _, n := range m.stored {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepository) GetStaffTierUserIDs() ([]int64, error) {
	return m.recipients, nil
}

var _ = ginkgo.Describe("NotificationService", func() {
	var (
		service *Service
		repo    *mockNotificationRepository
		ctx     context.Context
	)

	ginkgo.BeforeEach(func() {
		repo = &mockNotificationRepository{recipients: []int64{2, 3}}
		service = NewService(repo, logger.NewTestLogger())
		ctx = context.Background()
	})

	ginkgo.Describe("request.created fanout", func() {
		ginkgo.It("should insert one row per staff-tier identity", func() {
			event := events.NewRequestCreatedEvent(42, "REQ-ABC", 7, "Central District")
			err := service.handleRequestCreated(ctx, event)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.stored).To(gomega.HaveLen(2))
			gomega.Expect(*repo.stored[0].RequestID).To(gomega.Equal(int64(42)))
			gomega.Expect(repo.stored[0].Message).To(gomega.ContainSubstring("REQ-ABC"))
			gomega.Expect(repo.stored[0].Message).To(gomega.ContainSubstring("Central District"))
		})

		ginkgo.It("should do nothing when there are no recipients", func() {
			repo.recipients = nil
			event := events.NewRequestCreatedEvent(42, "REQ-ABC", 7, "")
			err := service.handleRequestCreated(ctx, event)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.stored).To(gomega.BeEmpty())
		})

		ginkgo.It("should surface storage failures to the bus for logging", func() {
			repo.failBatch = true
			event := events.NewRequestCreatedEvent(42, "REQ-ABC", 7, "")
			err := service.handleRequestCreated(ctx, event)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("request.assigned", func() {
		ginkgo.It("should notify only the assignee", func() {
			event := events.NewRequestAssignedEvent(42, "REQ-ABC", 5)
			err := service.handleRequestAssigned(ctx, event)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.stored).To(gomega.HaveLen(1))
			gomega.Expect(repo.stored[0].UserID).To(gomega.Equal(int64(5)))
		})
	})

	ginkgo.Describe("reading", func() {
		ginkgo.BeforeEach(func() {
			repo.stored = []*Notification{
				{ID: 1, UserID: 2, Title: "a"},
				{ID: 2, UserID: 2, Title: "b", IsRead: true},
				{ID: 3, UserID: 3, Title: "c"},
			}
		})

		ginkgo.It("should list only the caller's notifications", func() {
			actor := &auth.User{ID: 2, Role: auth.RoleStaff}
			list, err := service.ListMine(actor, 20, 0)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(list).To(gomega.HaveLen(2))
		})

		ginkgo.It("should count unread", func() {
			actor := &auth.User{ID: 2, Role: auth.RoleStaff}
			count, err := service.UnreadCount(actor)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(count).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("should not mark another user's notification", func() {
			actor := &auth.User{ID: 2, Role: auth.RoleStaff}
			err := service.MarkRead(actor, 3)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})
})
