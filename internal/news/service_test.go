package news

import (
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	apperrors "github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/internal/auth"
	"github.com/constituency-office/citizen-portal/pkg/logger"
)

func TestNews(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "News Module Suite")
}

type mockNewsRepository struct {
	items  map[int64]*News
	nextID int64
}

func newMockNewsRepository() *mockNewsRepository {
	return &mockNewsRepository{items: map[int64]*News{}, nextID: 1}
}

func (m *mockNewsRepository) Create(item *News) error {
	item.ID = m.nextID
	m.nextID++
	m.items[item.ID] = item
	return nil
}

func (m *mockNewsRepository) GetByID(id int64) (*News, error) {
	if item, ok := m.items[id]; ok {
		return item, nil
	}
	return nil, apperrors.NewNotFoundError("News item not found", apperrors.ErrCodeNewsNotFound)
}

func (m *mockNewsRepository) Update(id int64, dto UpdateNewsDTO) (*News, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("News item not found", apperrors.ErrCodeNewsNotFound)
	}
	if dto.Title != nil {
		item.Title = *dto.Title
	}
	if dto.Status != nil {
		item.Status = *dto.Status
	}
	if dto.Pinned != nil {
		item.Pinned = *dto.Pinned
	}
	return item, nil
}

func (m *mockNewsRepository) Delete(id int64) error {
	if _, ok := m.items[id]; !ok {
		return apperrors.NewNotFoundError("News item not found", apperrors.ErrCodeNewsNotFound)
	}
	delete(m.items, id)
	return nil
}

func (m *mockNewsRepository) ListPublished(q ListQueryDTO) ([]*News, error) {
	var out []*News
	for _, item := range m.items {
		if item.Status == StatusPublished {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockNewsRepository) ListAll(q ListQueryDTO) ([]*News, error) {
	var out []*News
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *mockNewsRepository) PublishDue(now time.Time) (int64, error) {
	var promoted int64
	for _, item := range m.items {
		if item.IsDue(now) {
			item.Status = StatusPublished
			promoted++
		}
	}
	return promoted, nil
}

var _ = ginkgo.Describe("NewsService", func() {
	var (
		service *Service
		repo    *mockNewsRepository
		citizen *auth.User
		staff   *auth.User
	)

	ginkgo.BeforeEach(func() {
		repo = newMockNewsRepository()
		service = NewService(repo, logger.NewTestLogger())
		citizen = &auth.User{ID: 1, Role: auth.RoleCitizen}
		staff = &auth.User{ID: 2, Role: auth.RoleStaff}
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("should default to a statement draft", func() {
			item, err := service.Create(staff, CreateNewsDTO{
				Title:   "Road works on 5th avenue",
				Content: "Resurfacing starts Monday and lasts two weeks.",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(item.Type).To(gomega.Equal(TypeStatement))
			gomega.Expect(item.Status).To(gomega.Equal(StatusDraft))
			gomega.Expect(item.AuthorID).To(gomega.Equal(staff.ID))
		})

		ginkgo.It("should forbid citizens", func() {
			_, err := service.Create(citizen, CreateNewsDTO{Title: "Title", Content: "Content"})
			appErr, ok := apperrors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(apperrors.ErrorTypeForbidden))
		})

		ginkgo.It("should require publish_at on scheduled items", func() {
			_, err := service.Create(staff, CreateNewsDTO{
				Title:   "Scheduled update",
				Content: "Goes out later.",
				Status:  StatusScheduled,
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("GetByID", func() {
		ginkgo.It("should hide drafts from readers without the manage grant", func() {
			item, err := service.Create(staff, CreateNewsDTO{Title: "Draft item", Content: "Not yet public."})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.GetByID(citizen, item.ID)
			gomega.Expect(err).To(gomega.HaveOccurred())

			_, err = service.GetByID(nil, item.ID)
			gomega.Expect(err).To(gomega.HaveOccurred())

			got, err := service.GetByID(staff, item.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(got.ID).To(gomega.Equal(item.ID))
		})

		ginkgo.It("should serve published items to anyone", func() {
			item, err := service.Create(staff, CreateNewsDTO{
				Title:   "Published item",
				Content: "Everyone can read this.",
				Status:  StatusPublished,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			got, err := service.GetByID(nil, item.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(got.ID).To(gomega.Equal(item.ID))
		})
	})

	ginkgo.Describe("PublishDueScheduled", func() {
		ginkgo.It("should promote due items and leave future ones alone", func() {
			past := time.Now().Add(-time.Hour)
			future := time.Now().Add(time.Hour)

			due, err := service.Create(staff, CreateNewsDTO{
				Title: "Due item", Content: "Should publish now.",
				Status: StatusScheduled, PublishAt: &past,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			notDue, err := service.Create(staff, CreateNewsDTO{
				Title: "Future item", Content: "Publishes later.",
				Status: StatusScheduled, PublishAt: &future,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			promoted, err := service.PublishDueScheduled()
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(promoted).To(gomega.Equal(int64(1)))
			gomega.Expect(repo.items[due.ID].Status).To(gomega.Equal(StatusPublished))
			gomega.Expect(repo.items[notDue.ID].Status).To(gomega.Equal(StatusScheduled))
		})
	})

	ginkgo.Describe("ListAll", func() {
		ginkgo.It("should be restricted to the staff tier", func() {
			_, err := service.ListAll(citizen, ListQueryDTO{})
			appErr, ok := apperrors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(apperrors.ErrorTypeForbidden))
		})
	})
})
