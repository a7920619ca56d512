package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"support-directory/internal/dto/request"
	"support-directory/internal/identity"
	"support-directory/pkg/apperr"
	"support-directory/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps a usecase error code onto an HTTP response.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch apperr.CodeOf(err) {
	case apperr.CodeValidation:
		log.Warn(operation+" failed - validation", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case apperr.CodeNotFound:
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, publicMessage(err))

	case apperr.CodeUnknownIdentifier:
		log.Warn(operation+" failed - unknown identifier", zap.Error(err))
		utils.ResponseUnauthorized(w, publicMessage(err))

	case apperr.CodeAuthorization:
		if errors.Is(err, apperr.ErrUnauthenticated) {
			utils.ResponseUnauthorized(w, "Authentication required")
			return
		}
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, publicMessage(err))

	case apperr.CodeRateLimited:
		log.Warn(operation+" failed - rate limited", zap.Error(err))
		utils.ResponseTooManyRequests(w, publicMessage(err))

	case apperr.CodeConfiguration:
		log.Error(operation+" failed - not configured", zap.Error(err))
		utils.ResponseUnavailable(w, publicMessage(err))

	default:
		if errors.Is(err, identity.ErrInvalidCredentials) {
			log.Warn(operation+" failed - invalid credentials")
			utils.ResponseUnauthorized(w, "Invalid credentials")
			return
		}
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseBadGateway(w, publicMessage(err))
	}
}

// publicMessage drops the wrapped cause so driver errors stay in the logs.
func publicMessage(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Internal server error"
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// listRequestFromQuery reads page, page_size, status, category and
// admins_only. Search is only accepted in a request body.
func listRequestFromQuery(r *http.Request) (*request.ListRequest, error) {
	query := r.URL.Query()
	req := &request.ListRequest{
		Status:     query.Get("status"),
		Category:   query.Get("category"),
		AdminsOnly: query.Get("admins_only") == "true",
	}

	for key, dst := range map[string]**int{"page": &req.Page, "page_size": &req.PageSize} {
		value := query.Get(key)
		if value == "" {
			continue
		}
		n := utils.ParseInt(value)
		if n == nil {
			return nil, apperr.Newf(apperr.CodeValidation, "%s must be a number", key)
		}
		*dst = n
	}

	return req, nil
}

func bodyListRequest(w http.ResponseWriter, r *http.Request) (*request.ListRequest, bool) {
	var req request.ListRequest
	if r.ContentLength == 0 {
		return &req, true
	}
	if !decodeJSON(w, r, &req) {
		return nil, false
	}
	return &req, true
}
