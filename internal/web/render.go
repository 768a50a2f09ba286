package web

import (
	"encoding/json"
	"net/http"

	"github.com/hpungsan/seodraft/internal/errors"
	"github.com/hpungsan/seodraft/internal/logger"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
	Details map[string]any   `json:"details,omitempty"`
}

// statusFor maps an error code to its HTTP status. Only this layer knows about HTTP.
func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrInvalidInput:
		return http.StatusBadRequest
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrUpstream, errors.ErrEmptyGeneration:
		return http.StatusBadGateway
	case errors.ErrTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError writes the error envelope. Details of storage and unknown
// errors stay in the log.
func renderError(w http.ResponseWriter, log logger.Logger, err error) {
	dErr := errors.From(err)
	status := statusFor(dErr.Code)

	payload := errorPayload{Code: dErr.Code, Message: dErr.Message}
	switch dErr.Code {
	case errors.ErrStorage, errors.ErrUnknown:
		log.Error("request failed", logger.String("code", string(dErr.Code)), logger.Error(err))
	default:
		payload.Details = dErr.Details
	}

	renderJSON(w, status, errorBody{Error: payload})
}
