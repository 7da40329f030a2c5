// Package handler provides shared HTTP response helpers for the API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/castell/luxora/internal/domain"
	"github.com/castell/luxora/internal/middleware"
	"github.com/castell/luxora/internal/telemetry"
)

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EPAYMENT:
		return http.StatusPaymentRequired
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.ENOTIMPL:
		return http.StatusNotImplemented
	case domain.EINTERNAL:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse writes a structured JSON error response. The status and
// message come from the domain error code; internal errors are logged in
// full but returned with a generic message.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)
	status := ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"status", status,
	}
	if status >= 500 {
		logger.Error("request failed", attrs...)
		telemetry.CaptureError(err, map[string]interface{}{
			"request_id": middleware.GetRequestID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
		})
	} else {
		logger.Info("request rejected", attrs...)
	}

	writeError(w, status, errorDetail{Code: code, Message: message})
}

// ValidationErrorResponse writes a 400 response carrying per-field messages.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, message string, fields map[string]string) {
	middleware.GetLogger(r.Context()).Info("request rejected",
		"code", domain.EINVALID,
		"status", http.StatusBadRequest,
		"fields", len(fields),
	)

	writeError(w, http.StatusBadRequest, errorDetail{
		Code:    domain.EINVALID,
		Message: message,
		Fields:  fields,
	})
}

// NotFoundResponse writes a generic 404 response.
func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.ENOTFOUND, "", "The requested resource was not found"))
}

// InternalErrorResponse logs err and writes a generic 500 response.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	ErrorResponse(w, r, domain.Internal(err, "", "An unexpected error occurred"))
}

func writeError(w http.ResponseWriter, status int, detail errorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: detail})
}
