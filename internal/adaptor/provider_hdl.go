package adaptor

import (
	"net/http"

	"support-directory/internal/data/entity"
	"support-directory/internal/dto/request"
	"support-directory/internal/usecase"
	"support-directory/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ProviderHandler struct {
	service usecase.ProviderService
	log     *zap.Logger
}

func NewProviderHandler(service usecase.ProviderService, log *zap.Logger) *ProviderHandler {
	return &ProviderHandler{
		service: service,
		log:     log.With(zap.String("handler", "provider")),
	}
}

// List handles GET /api/admin/providers
func (h *ProviderHandler) List(w http.ResponseWriter, r *http.Request) {
	req, err := listRequestFromQuery(r)
	if err != nil {
		handleServiceError(w, h.log, err, "list providers")
		return
	}
	h.list(w, r, req)
}

// Search handles POST /api/admin/providers/search
func (h *ProviderHandler) Search(w http.ResponseWriter, r *http.Request) {
	req, ok := bodyListRequest(w, r)
	if !ok {
		return
	}
	h.list(w, r, req)
}

func (h *ProviderHandler) list(w http.ResponseWriter, r *http.Request, req *request.ListRequest) {
	page, err := h.service.ListProviders(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list providers")
		return
	}
	utils.ResponseSuccess(w, "success", page)
}

// Get handles GET /api/admin/providers/{id}
func (h *ProviderHandler) Get(w http.ResponseWriter, r *http.Request) {
	provider, err := h.service.GetProvider(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get provider")
		return
	}
	utils.ResponseSuccess(w, "success", provider)
}

// Create handles POST /api/admin/providers
func (h *ProviderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.ProviderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	provider, err := h.service.CreateProvider(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create provider")
		return
	}
	utils.ResponseCreated(w, "Provider created", provider)
}

// Update handles PATCH /api/admin/providers/{id}
func (h *ProviderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.ProviderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	provider, err := h.service.UpdateProvider(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update provider")
		return
	}
	utils.ResponseSuccess(w, "Provider updated", provider)
}

// Delete handles DELETE /api/admin/providers/{id}
func (h *ProviderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProvider(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete provider")
		return
	}
	utils.ResponseSuccess(w, "Provider deleted", nil)
}

// SetStatus handles POST /api/admin/providers/{id}/status
func (h *ProviderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req request.StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.setStatus(w, r, &req)
}

// StatusShortcut serves POST /{id}/approve and friends. The body may carry
// notes and is otherwise optional.
func (h *ProviderHandler) StatusShortcut(status entity.ProviderStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := request.StatusRequest{}
		if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
			return
		}
		req.Status = string(status)
		h.setStatus(w, r, &req)
	}
}

func (h *ProviderHandler) setStatus(w http.ResponseWriter, r *http.Request, req *request.StatusRequest) {
	provider, err := h.service.SetProviderStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, h.log, err, "set provider status")
		return
	}
	utils.ResponseSuccess(w, "Provider status updated", provider)
}
