package httpapi

import "net/http"

type server struct {
	opt     Options
	metrics *metricsSet
}

func newServer(opt Options) *server {
	opt = opt.withDefaults()
	return &server{opt: opt, metrics: newMetricsSet(opt.Registry)}
}

func NewMux() *http.ServeMux {
	return NewMuxWithOptions(Options{})
}

func NewMuxWithOptions(opt Options) *http.ServeMux {
	return newServer(opt).mux()
}

func (s *server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteText(w, http.StatusOK, "ok\n")
	})
	mux.Handle("GET /metrics", s.metrics.handler())
	mux.HandleFunc("GET /sub", s.handleSub)
	mux.HandleFunc("POST /api/convert", s.handleConvert)
	return mux
}

func WriteText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
