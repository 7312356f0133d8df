package area

import (
	"testing"

	apperrors "github.com/constituency-office/citizen-portal/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestArea(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Area Suite")
}

type mockAreaRepository struct {
	areas map[int64]*Area
	types map[int64]*RequestType
}

func newMockAreaRepository() *mockAreaRepository {
	return &mockAreaRepository{
		areas: make(map[int64]*Area),
		types: make(map[int64]*RequestType),
	}
}

func (m *mockAreaRepository) GetActiveAreas() ([]*Area, error) {
	var out []*Area
	for _, a := range m.areas {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAreaRepository) GetAreaByID(id int64) (*Area, error) {
	a, ok := m.areas[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Area not found", apperrors.ErrCodeAreaNotFound)
	}
	return a, nil
}

func (m *mockAreaRepository) GetActiveRequestTypes() ([]*RequestType, error) {
	var out []*RequestType
	for _, t := range m.types {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockAreaRepository) GetRequestTypeByID(id int64) (*RequestType, error) {
	t, ok := m.types[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Request type not found", apperrors.ErrCodeInvalidRequestType)
	}
	return t, nil
}

var _ = Describe("Area Service", func() {
	var (
		repo    *mockAreaRepository
		service *Service
	)

	BeforeEach(func() {
		repo = newMockAreaRepository()
		repo.areas[1] = &Area{ID: 1, Name: "Central District", IsActive: true}
		repo.areas[2] = &Area{ID: 2, Name: "Old Harbour", IsActive: false}
		repo.types[10] = &RequestType{ID: 10, Name: "Road maintenance", IsActive: true}
		repo.types[11] = &RequestType{ID: 11, Name: "Retired type", IsActive: false}
		service = NewService(repo)
	})

	Describe("GetAreas", func() {
		It("returns only active areas as lean responses", func() {
			areas, err := service.GetAreas()
			Expect(err).NotTo(HaveOccurred())
			Expect(areas).To(HaveLen(1))
			Expect(areas[0].ID).To(Equal(int64(1)))
			Expect(areas[0].Name).To(Equal("Central District"))
		})
	})

	Describe("GetRequestTypes", func() {
		It("returns only active request types", func() {
			types, err := service.GetRequestTypes()
			Expect(err).NotTo(HaveOccurred())
			Expect(types).To(HaveLen(1))
			Expect(types[0].Name).To(Equal("Road maintenance"))
		})
	})

	Describe("GetAreaName", func() {
		It("resolves an area name by id", func() {
			name, err := service.GetAreaName(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("Central District"))
		})

		It("returns an error for an unknown area", func() {
			_, err := service.GetAreaName(999)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ValidateReference", func() {
		It("accepts a live type and area pair", func() {
			Expect(service.ValidateReference(10, 1)).To(Succeed())
		})

		It("rejects an unknown request type", func() {
			err := service.ValidateReference(999, 1)
			Expect(err).To(HaveOccurred())

			appErr, ok := err.(*apperrors.AppError)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidRequestType))
		})

		It("rejects a retired request type", func() {
			err := service.ValidateReference(11, 1)
			Expect(err).To(HaveOccurred())

			appErr, ok := err.(*apperrors.AppError)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidRequestType))
		})

		It("rejects an inactive area", func() {
			err := service.ValidateReference(10, 2)
			Expect(err).To(HaveOccurred())

			appErr, ok := err.(*apperrors.AppError)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidArea))
		})
	})
})
