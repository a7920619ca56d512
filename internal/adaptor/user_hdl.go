package adaptor

import (
	"net/http"

	"support-directory/internal/dto/request"
	"support-directory/internal/usecase"
	"support-directory/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// List handles GET /api/admin/users?admins_only=true
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	req, err := listRequestFromQuery(r)
	if err != nil {
		handleServiceError(w, h.log, err, "list users")
		return
	}
	h.list(w, r, req)
}

// Search handles POST /api/admin/users/search
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	req, ok := bodyListRequest(w, r)
	if !ok {
		return
	}
	h.list(w, r, req)
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request, req *request.ListRequest) {
	page, err := h.service.ListUsers(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list users")
		return
	}
	utils.ResponseSuccess(w, "success", page)
}

// Create handles POST /api/admin/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	user, err := h.service.CreateAccount(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create account")
		return
	}
	utils.ResponseCreated(w, "Account created", user)
}

// Update handles PATCH /api/admin/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.UpdateAccount(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update account")
		return
	}
	utils.ResponseSuccess(w, "Account updated", user)
}

// Delete handles DELETE /api/admin/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAccount(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete account")
		return
	}
	utils.ResponseSuccess(w, "Account deleted", nil)
}
