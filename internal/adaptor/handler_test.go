package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"support-directory/internal/data/entity"
	"support-directory/internal/dto/request"
	"support-directory/internal/dto/response"
	"support-directory/internal/identity"
	"support-directory/pkg/apperr"
	"support-directory/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.Invalid("name is required"), http.StatusBadRequest},
		{"not found", apperr.NotFound("service"), http.StatusNotFound},
		{"unknown identifier", apperr.New(apperr.CodeUnknownIdentifier, "no account matches that username"), http.StatusUnauthorized},
		{"forbidden", apperr.Forbidden("role moderator may not delete service"), http.StatusForbidden},
		{"unauthenticated", apperr.Unauthenticated(), http.StatusUnauthorized},
		{"configuration", apperr.Unconfigured("database"), http.StatusServiceUnavailable},
		{"rate limited", apperr.New(apperr.CodeRateLimited, "Too many attempts, try again later"), http.StatusTooManyRequests},
		{"backend", apperr.Wrap(errors.New("dial tcp: refused"), apperr.CodeBackend, "list services"), http.StatusBadGateway},
		{"bad credentials", apperr.Wrap(identity.ErrInvalidCredentials, apperr.CodeBackend, "sign in failed"), http.StatusUnauthorized},
		{"plain error", errors.New("boom"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handleServiceError(w, zap.NewNop(), tt.err, "test")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestBackendErrorHidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	handleServiceError(w, zap.NewNop(), apperr.Wrap(errors.New(`pq: relation "services" does not exist`), apperr.CodeBackend, "list services"), "list services")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "list services")
	assert.NotContains(t, w.Body.String(), "relation")
}

func TestListRequestFromQuery(t *testing.T) {
	categoryID := uuid.NewString()
	r := httptest.NewRequest(http.MethodGet, "/api/admin/services?page=2&page_size=10&status=approved&category="+categoryID+"&search=ignored", nil)

	req, err := listRequestFromQuery(r)
	require.NoError(t, err)
	require.NotNil(t, req.Page)
	require.NotNil(t, req.PageSize)
	assert.Equal(t, 2, *req.Page)
	assert.Equal(t, 10, *req.PageSize)
	assert.Equal(t, "approved", req.Status)
	assert.Equal(t, categoryID, req.Category)
	assert.Empty(t, req.Search)

	_, err = listRequestFromQuery(httptest.NewRequest(http.MethodGet, "/?page=two", nil))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

type stubDirectory struct {
	listReq   *request.ListRequest
	statusReq *request.StatusRequest
	statusID  string
	err       error
}

func (s *stubDirectory) ListServices(_ context.Context, req *request.ListRequest) (*response.Paginated[response.ServiceResponse], error) {
	s.listReq = req
	if s.err != nil {
		return nil, s.err
	}
	w := utils.BuildPagination(req.Page, req.PageSize)
	return response.NewPaginated([]response.ServiceResponse{{Name: "Cityview"}}, w, 2), nil
}

func (s *stubDirectory) GetService(_ context.Context, id string) (*response.ServiceResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &response.ServiceResponse{Name: "Cityview"}, nil
}

func (s *stubDirectory) CreateService(_ context.Context, req *request.ServiceRequest) (*response.ServiceResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &response.ServiceResponse{Name: *req.Name, Status: entity.ServicePending}, nil
}

func (s *stubDirectory) UpdateService(context.Context, string, *request.ServiceRequest) (*response.ServiceResponse, error) {
	return nil, s.err
}

func (s *stubDirectory) DeleteService(context.Context, string) error {
	return s.err
}

func (s *stubDirectory) SetServiceStatus(_ context.Context, id string, req *request.StatusRequest) (*response.ServiceResponse, error) {
	s.statusID, s.statusReq = id, req
	if s.err != nil {
		return nil, s.err
	}
	return &response.ServiceResponse{Status: entity.ServiceStatus(req.Status)}, nil
}

func serviceRouter(stub *stubDirectory) http.Handler {
	h := NewServiceHandler(stub, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/services", h.List)
	r.Post("/services/search", h.Search)
	r.Post("/services", h.Create)
	r.Get("/services/{id}", h.Get)
	r.Delete("/services/{id}", h.Delete)
	r.Post("/services/{id}/approve", h.StatusShortcut(entity.ServiceApproved))
	return r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestServiceHandlerList(t *testing.T) {
	stub := &stubDirectory{}
	w := httptest.NewRecorder()
	serviceRouter(stub).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/services?page=1&page_size=1&status=approved", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "approved", stub.listReq.Status)

	data := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.EqualValues(t, 2, data["count"])
	assert.EqualValues(t, 2, data["total_pages"])
	assert.EqualValues(t, 2, data["next"])
	assert.Nil(t, data["previous"])
}

func TestServiceHandlerSearchBody(t *testing.T) {
	stub := &stubDirectory{}
	w := httptest.NewRecorder()
	serviceRouter(stub).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/services/search", strings.NewReader(`{"search":"calm","page":1}`)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "calm", stub.listReq.Search)
}

func TestServiceHandlerCreate(t *testing.T) {
	w := httptest.NewRecorder()
	serviceRouter(&stubDirectory{}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/services", strings.NewReader(`{"name":"Harbour House"}`)))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	serviceRouter(&stubDirectory{}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/services", strings.NewReader(`{"name":`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServiceHandlerApproveShortcut(t *testing.T) {
	stub := &stubDirectory{}
	id := uuid.NewString()

	w := httptest.NewRecorder()
	serviceRouter(stub).ServeHTTP(w, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/services/%s/approve", id), strings.NewReader(`{"notes":"verified"}`)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, stub.statusID)
	assert.Equal(t, "approved", stub.statusReq.Status)
	require.NotNil(t, stub.statusReq.Notes)
	assert.Equal(t, "verified", *stub.statusReq.Notes)

	w = httptest.NewRecorder()
	serviceRouter(stub).ServeHTTP(w, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/services/%s/approve", id), nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServiceHandlerErrors(t *testing.T) {
	w := httptest.NewRecorder()
	serviceRouter(&stubDirectory{err: apperr.NotFound("service")}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/services/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	serviceRouter(&stubDirectory{err: apperr.Forbidden("role moderator may not delete service")}).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/services/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, false, decodeEnvelope(t, w)["status"])
}
