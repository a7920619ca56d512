package adaptor

import (
	"net/http"

	"support-directory/internal/dto/request"
	"support-directory/internal/usecase"
	"support-directory/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	service usecase.CategoryService
	log     *zap.Logger
}

func NewCategoryHandler(service usecase.CategoryService, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		log:     log.With(zap.String("handler", "category")),
	}
}

// List handles GET /api/admin/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	req, err := listRequestFromQuery(r)
	if err != nil {
		handleServiceError(w, h.log, err, "list categories")
		return
	}

	page, err := h.service.ListCategories(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list categories")
		return
	}
	utils.ResponseSuccess(w, "success", page)
}

// Create handles POST /api/admin/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.service.CreateCategory(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create category")
		return
	}
	utils.ResponseCreated(w, "Category created", category)
}

// Update handles PATCH /api/admin/categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update category")
		return
	}
	utils.ResponseSuccess(w, "Category updated", category)
}

// Delete handles DELETE /api/admin/categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete category")
		return
	}
	utils.ResponseSuccess(w, "Category deleted", nil)
}
