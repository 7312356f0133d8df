package area

import (
	errors "github.com/constituency-office/citizen-portal/internal"
)

type RepositoryAPI interface {
	GetActiveAreas() ([]*Area, error)
	GetAreaByID(id int64) (*Area, error)
	GetActiveRequestTypes() ([]*RequestType, error)
	GetRequestTypeByID(id int64) (*RequestType, error)
}

type ServiceAPI interface {
	GetAreas() ([]AreaResponse, error)
	GetRequestTypes() ([]RequestTypeResponse, error)
	GetAreaName(areaID int64) (string, error)
	ValidateReference(typeID, areaID int64) error
}

type Service struct {
	repo RepositoryAPI
}

func NewService(repo RepositoryAPI) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetAreas() ([]AreaResponse, error) {
	areas, err := s.repo.GetActiveAreas()
	if err != nil {
		return nil, err
	}

	responses := make([]AreaResponse, len(areas))
	for i, a := range areas {
		responses[i] = a.ToResponse()
	}
	return responses, nil
}

func (s *Service) GetRequestTypes() ([]RequestTypeResponse, error) {
	types, err := s.repo.GetActiveRequestTypes()
	if err != nil {
		return nil, err
	}

	responses := make([]RequestTypeResponse, len(types))
	for i, t := range types {
		responses[i] = t.ToResponse()
	}
	return responses, nil
}

// GetAreaName feeds event payloads; unknown areas come back as an error
// the caller may ignore.
func (s *Service) GetAreaName(areaID int64) (string, error) {
	a, err := s.repo.GetAreaByID(areaID)
	if err != nil {
		return "", err
	}
	return a.Name, nil
}

// ValidateReference checks that a submission points at a live area and
// request type.
func (s *Service) ValidateReference(typeID, areaID int64) error {
	t, err := s.repo.GetRequestTypeByID(typeID)
	if err != nil || !t.IsActive {
		return errors.NewValidationFieldError("type_id", "unknown request type", errors.ErrCodeInvalidRequestType)
	}

	a, err := s.repo.GetAreaByID(areaID)
	if err != nil || !a.IsActive {
		return errors.NewValidationFieldError("area_id", "unknown area", errors.ErrCodeInvalidArea)
	}

	return nil
}
