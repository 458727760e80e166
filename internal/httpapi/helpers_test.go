package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/John-Robertt/mihomo-override/internal/model"
)

const clashSub = `proxies:
  - {name: "香港 01", type: ss, server: hk1.example.com, port: 8388, cipher: aes-128-gcm, password: p}
  - {name: "香港 02", type: ss, server: hk2.example.com, port: 8388, cipher: aes-128-gcm, password: p}
  - {name: "日本 01 0.5x", type: ss, server: jp1.example.com, port: 8388, cipher: aes-128-gcm, password: p}
  - {name: "US Home-Broadband-01", type: ss, server: us1.example.com, port: 8388, cipher: aes-128-gcm, password: p}
`

// ssSub is a raw ss:// list with one Singapore endpoint.
const ssSub = "ss://YWVzLTEyOC1nY206cGFzc3dvcmQ=@sg.example.com:8388#SG%2001\n"

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/clash.yaml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, clashSub)
	})
	mux.HandleFunc("/ss.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, ssSub)
	})
	mux.HandleFunc("/empty.yaml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "proxies: []\n")
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestServer(opt Options) *server {
	if opt.Logger == nil {
		opt.Logger = quietLogger()
	}
	if opt.Registry == nil {
		opt.Registry = prometheus.NewRegistry()
	}
	return newServer(opt)
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rd)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) model.AppError {
	t.Helper()
	var resp model.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v\nbody=%q", err, rr.Body.String())
	}
	return resp.Error
}
