package httpapi

import (
	"net/http"
	"testing"
)

func TestMux_Healthz(t *testing.T) {
	rr := do(t, NewMux(), http.MethodGet, "/healthz", nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "ok\n" {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}
}

func TestMux_MethodNotAllowed(t *testing.T) {
	rr := do(t, NewMux(), http.MethodPost, "/sub", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d, want=%d", rr.Code, http.StatusMethodNotAllowed)
	}
}

func TestMux_Sub_MissingSubscription(t *testing.T) {
	rr := do(t, NewMux(), http.MethodGet, "/sub", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want=%d body=%s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
	if e := decodeError(t, rr); e.Code != "INVALID_ARGUMENT" || e.Stage != "validate_request" {
		t.Fatalf("error=%+v", e)
	}
}
