package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/John-Robertt/mihomo-override/internal/fetch"
	"github.com/John-Robertt/mihomo-override/internal/model"
	"github.com/John-Robertt/mihomo-override/internal/profile"
	"github.com/John-Robertt/mihomo-override/internal/render"
	"github.com/John-Robertt/mihomo-override/internal/sub"
	"github.com/John-Robertt/mihomo-override/internal/sub/ss"
)

// APIError is used by the HTTP layer for request validation and a few
// HTTP-specific errors.
type APIError struct {
	Status   int
	AppError model.AppError
	Cause    error
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.AppError.Code, e.AppError.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.AppError.Code, e.AppError.Message, e.Cause)
}

func (e *APIError) Unwrap() error { return e.Cause }

func requestError(code, message, hint string) error {
	return &APIError{
		Status: http.StatusBadRequest,
		AppError: model.AppError{
			Code:    code,
			Message: message,
			Stage:   "validate_request",
			Hint:    hint,
		},
	}
}

// errorResponse maps err to a status and payload.
func errorResponse(err error) (int, model.AppError) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status, ae.AppError
	}

	var fe *fetch.FetchError
	if errors.As(err, &fe) {
		return fe.Status, fe.AppError
	}

	// Content errors => 422.
	var pe *sub.ParseError
	if errors.As(err, &pe) {
		return http.StatusUnprocessableEntity, pe.AppError
	}
	var se *ss.ParseError
	if errors.As(err, &se) {
		return http.StatusUnprocessableEntity, se.AppError
	}
	var ppe *profile.ParseError
	if errors.As(err, &ppe) {
		return http.StatusUnprocessableEntity, ppe.AppError
	}
	var re *render.RenderError
	if errors.As(err, &re) {
		if re.AppError.Stage == "validate_request" {
			return http.StatusBadRequest, re.AppError
		}
		return http.StatusUnprocessableEntity, re.AppError
	}

	return http.StatusInternalServerError, model.AppError{
		Code:    "INTERNAL_ERROR",
		Message: "服务端内部错误",
		Stage:   "internal",
		Hint:    err.Error(),
	}
}

func (s *server) writeErr(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	status, app := errorResponse(err)
	s.metrics.appError(app.Stage, app.Code)
	if status >= http.StatusInternalServerError {
		s.opt.Logger.WithError(err).WithField("stage", app.Stage).Error("convert failed")
	}
	WriteError(w, status, app)
}

// WriteError writes the JSON error body. Error responses are never cached.
func WriteError(w http.ResponseWriter, status int, e model.AppError) {
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: e})
}
