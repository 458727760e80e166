package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/John-Robertt/mihomo-override/internal/fetch"
	"github.com/John-Robertt/mihomo-override/internal/model"
	"github.com/John-Robertt/mihomo-override/internal/render"
	"github.com/John-Robertt/mihomo-override/internal/sub/ss"
)

func TestWriteError_JSONShapeAndHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, http.StatusUnprocessableEntity, model.AppError{
		Code:    "SUB_PARSE_ERROR",
		Message: "invalid ss line",
		Stage:   "parse_sub",
		URL:     "https://example.com/sub",
		Line:    123,
		Snippet: "ss://???",
		Hint:    "expected: ss://<userinfo>@host:port#name",
	})

	if got, want := rr.Code, http.StatusUnprocessableEntity; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
	if got, want := rr.Header().Get("Content-Type"), "application/json; charset=utf-8"; got != want {
		t.Fatalf("Content-Type = %q, want %q", got, want)
	}

	if got := rr.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("Cache-Control = %q, want no-store", got)
	}

	e := decodeError(t, rr)
	if e.Code != "SUB_PARSE_ERROR" {
		t.Fatalf("code = %q, want %q", e.Code, "SUB_PARSE_ERROR")
	}
	if e.Stage != "parse_sub" {
		t.Fatalf("stage = %q, want %q", e.Stage, "parse_sub")
	}
	if e.Line != 123 {
		t.Fatalf("line = %d, want %d", e.Line, 123)
	}
}

func TestErrorResponse_StatusByType(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		stage  string
	}{
		{"request", requestError("INVALID_ARGUMENT", "bad", ""), http.StatusBadRequest, "validate_request"},
		{"fetch", &fetch.FetchError{Status: http.StatusGatewayTimeout, AppError: model.AppError{Code: "FETCH_TIMEOUT", Stage: "fetch_sub"}}, http.StatusGatewayTimeout, "fetch_sub"},
		{"wrapped ss", fmt.Errorf("sub 1: %w", &ss.ParseError{AppError: model.AppError{Code: "SUB_PARSE_ERROR", Stage: "parse_sub"}}), http.StatusUnprocessableEntity, "parse_sub"},
		{"render request", &render.RenderError{AppError: model.AppError{Code: "INVALID_ARGUMENT", Stage: "validate_request"}}, http.StatusBadRequest, "validate_request"},
		{"render", &render.RenderError{AppError: model.AppError{Code: "RENDER_ERROR", Stage: "render"}}, http.StatusUnprocessableEntity, "render"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, app := errorResponse(tc.err)
			if status != tc.status {
				t.Fatalf("status = %d, want %d", status, tc.status)
			}
			if app.Stage != tc.stage {
				t.Fatalf("stage = %q, want %q", app.Stage, tc.stage)
			}
		})
	}
}
