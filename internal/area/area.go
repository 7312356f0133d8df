package area

import (
	"time"

	areaDatamodel "github.com/constituency-office/citizen-portal/internal/core/datamodel/area"
)

type Area struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RequestType struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AreaResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type AreasResponse struct {
	Areas []AreaResponse `json:"areas"`
}

type RequestTypeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type RequestTypesResponse struct {
	RequestTypes []RequestTypeResponse `json:"request_types"`
}

func (a *Area) ToResponse() AreaResponse {
	return AreaResponse{ID: a.ID, Name: a.Name}
}

func (t *RequestType) ToResponse() RequestTypeResponse {
	return RequestTypeResponse{ID: t.ID, Name: t.Name}
}

func AreaFromDataModel(a *areaDatamodel.Area) *Area {
	return &Area{
		ID:        a.ID,
		Name:      a.Name,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func RequestTypeFromDataModel(t *areaDatamodel.RequestType) *RequestType {
	return &RequestType{
		ID:        t.ID,
		Name:      t.Name,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
