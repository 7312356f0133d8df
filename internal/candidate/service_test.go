package candidate

import (
	"testing"

	apperrors "github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/internal/auth"
	"github.com/constituency-office/citizen-portal/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCandidate(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Candidate Suite")
}

type mockCandidateRepository struct {
	profile      *Profile
	achievements map[int64]*Achievement
	nextID       int64
}

func newMockCandidateRepository() *mockCandidateRepository {
	return &mockCandidateRepository{
		achievements: make(map[int64]*Achievement),
		nextID:       1,
	}
}

func (m *mockCandidateRepository) GetProfile() (*Profile, error) {
	if m.profile == nil {
		return nil, apperrors.NewNotFoundError("Candidate profile not found", apperrors.ErrCodeCandidateNotFound)
	}
	return m.profile, nil
}

func (m *mockCandidateRepository) UpsertProfile(p *Profile) (*Profile, error) {
	if m.profile != nil {
		p.ID = m.profile.ID
		p.CreatedAt = m.profile.CreatedAt
	} else {
		p.ID = 1
	}
	m.profile = p
	return p, nil
}

func (m *mockCandidateRepository) ListAchievements() ([]*Achievement, error) {
	out := make([]*Achievement, 0, len(m.achievements))
	for _, a := range m.achievements {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockCandidateRepository) CreateAchievement(a *Achievement) error {
	a.ID = m.nextID
	m.nextID++
	m.achievements[a.ID] = a
	return nil
}

func (m *mockCandidateRepository) UpdateAchievement(id int64, dto UpdateAchievementDTO) (*Achievement, error) {
	a, ok := m.achievements[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Achievement not found", apperrors.ErrCodeCandidateNotFound)
	}
	if dto.Title != nil {
		a.Title = *dto.Title
	}
	if dto.Description != nil {
		a.Description = *dto.Description
	}
	if dto.SortOrder != nil {
		a.SortOrder = *dto.SortOrder
	}
	return a, nil
}

func (m *mockCandidateRepository) DeleteAchievement(id int64) error {
	if _, ok := m.achievements[id]; !ok {
		return apperrors.NewNotFoundError("Achievement not found", apperrors.ErrCodeCandidateNotFound)
	}
	delete(m.achievements, id)
	return nil
}

var _ = Describe("Candidate Service", func() {
	var (
		repo    *mockCandidateRepository
		service *Service

		candidateActor *auth.User
		adminActor     *auth.User
		staffActor     *auth.User
		citizenActor   *auth.User
	)

	BeforeEach(func() {
		repo = newMockCandidateRepository()
		service = NewService(repo, logger.NewTestLogger())

		candidateActor = &auth.User{ID: 1, Role: auth.RoleCandidate}
		adminActor = &auth.User{ID: 2, Role: auth.RoleAdmin}
		staffActor = &auth.User{ID: 3, Role: auth.RoleStaff}
		citizenActor = &auth.User{ID: 4, Role: auth.RoleCitizen}
	})

	Describe("UpsertProfile", func() {
		It("creates the profile on first save", func() {
			profile, err := service.UpsertProfile(candidateActor, UpsertProfileDTO{
				Name:  "Layla Hassan",
				Title: "Candidate for District 4",
				Bio:   "Twenty years of community work.",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(profile.ID).To(Equal(int64(1)))
			Expect(profile.Name).To(Equal("Layla Hassan"))
		})

		It("overwrites the existing row instead of adding a second", func() {
			_, err := service.UpsertProfile(adminActor, UpsertProfileDTO{Name: "First"})
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.UpsertProfile(adminActor, UpsertProfileDTO{Name: "Second"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ID).To(Equal(int64(1)))
			Expect(updated.Name).To(Equal("Second"))
		})

		It("rejects staff and citizens", func() {
			for _, actor := range []*auth.User{staffActor, citizenActor} {
				_, err := service.UpsertProfile(actor, UpsertProfileDTO{Name: "Nope"})
				Expect(err).To(HaveOccurred())

				appErr, ok := err.(*apperrors.AppError)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(apperrors.ErrCodeMissingCapability))
			}
		})

		It("requires a name", func() {
			_, err := service.UpsertProfile(candidateActor, UpsertProfileDTO{Name: ""})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetProfile", func() {
		It("is readable without an actor", func() {
			_, err := service.UpsertProfile(candidateActor, UpsertProfileDTO{Name: "Layla Hassan"})
			Expect(err).NotTo(HaveOccurred())

			profile, err := service.GetProfile()
			Expect(err).NotTo(HaveOccurred())
			Expect(profile.Name).To(Equal("Layla Hassan"))
		})

		It("returns not found before first save", func() {
			_, err := service.GetProfile()
			Expect(err).To(HaveOccurred())

			appErr, ok := err.(*apperrors.AppError)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeCandidateNotFound))
		})
	})

	Describe("Achievements", func() {
		It("creates and lists achievements", func() {
			created, err := service.CreateAchievement(candidateActor, CreateAchievementDTO{
				Title:     "New clinic opened",
				SortOrder: 2,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).NotTo(BeZero())

			achievements, err := service.ListAchievements()
			Expect(err).NotTo(HaveOccurred())
			Expect(achievements).To(HaveLen(1))
		})

		It("rejects creation without the manage grant", func() {
			_, err := service.CreateAchievement(staffActor, CreateAchievementDTO{Title: "Nope"})
			Expect(err).To(HaveOccurred())

			appErr, ok := err.(*apperrors.AppError)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeMissingCapability))
		})

		It("updates selected fields only", func() {
			created, err := service.CreateAchievement(adminActor, CreateAchievementDTO{
				Title:       "Original",
				Description: "Kept as-is",
			})
			Expect(err).NotTo(HaveOccurred())

			newTitle := "Renamed"
			updated, err := service.UpdateAchievement(adminActor, created.ID, UpdateAchievementDTO{Title: &newTitle})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Title).To(Equal("Renamed"))
			Expect(updated.Description).To(Equal("Kept as-is"))
		})

		It("deletes an achievement and rejects unknown ids", func() {
			created, err := service.CreateAchievement(adminActor, CreateAchievementDTO{Title: "Gone soon"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteAchievement(adminActor, created.ID)).To(Succeed())

			err = service.DeleteAchievement(adminActor, created.ID)
			Expect(err).To(HaveOccurred())
		})
	})
})
