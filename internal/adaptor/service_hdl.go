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

type ServiceHandler struct {
	service usecase.DirectoryService
	log     *zap.Logger
}

func NewServiceHandler(service usecase.DirectoryService, log *zap.Logger) *ServiceHandler {
	return &ServiceHandler{
		service: service,
		log:     log.With(zap.String("handler", "service")),
	}
}

// List handles GET /api/admin/services
func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	req, err := listRequestFromQuery(r)
	if err != nil {
		handleServiceError(w, h.log, err, "list services")
		return
	}
	h.list(w, r, req)
}

// Search handles POST /api/admin/services/search
func (h *ServiceHandler) Search(w http.ResponseWriter, r *http.Request) {
	req, ok := bodyListRequest(w, r)
	if !ok {
		return
	}
	h.list(w, r, req)
}

func (h *ServiceHandler) list(w http.ResponseWriter, r *http.Request, req *request.ListRequest) {
	page, err := h.service.ListServices(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list services")
		return
	}
	utils.ResponseSuccess(w, "success", page)
}

// Get handles GET /api/admin/services/{id}
func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	service, err := h.service.GetService(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get service")
		return
	}
	utils.ResponseSuccess(w, "success", service)
}

// Create handles POST /api/admin/services
func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.ServiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	service, err := h.service.CreateService(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create service")
		return
	}
	utils.ResponseCreated(w, "Service created", service)
}

// Update handles PATCH /api/admin/services/{id}
func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.ServiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	service, err := h.service.UpdateService(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update service")
		return
	}
	utils.ResponseSuccess(w, "Service updated", service)
}

// Delete handles DELETE /api/admin/services/{id}
func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteService(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete service")
		return
	}
	utils.ResponseSuccess(w, "Service deleted", nil)
}

// SetStatus handles POST /api/admin/services/{id}/status
func (h *ServiceHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req request.StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.setStatus(w, r, &req)
}

// StatusShortcut serves POST /{id}/approve and friends. The body may carry
// notes and is otherwise optional.
func (h *ServiceHandler) StatusShortcut(status entity.ServiceStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := request.StatusRequest{}
		if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
			return
		}
		req.Status = string(status)
		h.setStatus(w, r, &req)
	}
}

func (h *ServiceHandler) setStatus(w http.ResponseWriter, r *http.Request, req *request.StatusRequest) {
	service, err := h.service.SetServiceStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, h.log, err, "set service status")
		return
	}
	utils.ResponseSuccess(w, "Service status updated", service)
}
