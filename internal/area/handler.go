package area

import (
	"net/http"

	"github.com/constituency-office/citizen-portal/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetAreas is public: the sign-up form needs it before authentication.
func (h *Handler) GetAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.Service.GetAreas()
	if err != nil {
		h.Logger.Error("GetAreas: failed to get areas", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to get areas")
		return
	}

	h.WriteJSON(w, http.StatusOK, AreasResponse{Areas: areas})
}

func (h *Handler) GetRequestTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Service.GetRequestTypes()
	if err != nil {
		h.Logger.Error("GetRequestTypes: failed to get request types", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to get request types")
		return
	}

	h.WriteJSON(w, http.StatusOK, RequestTypesResponse{RequestTypes: types})
}
