package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/klauspost/compress/gzhttp"
	log "github.com/sirupsen/logrus"
)

// NewHandler returns the production handler: mux, access log, metrics and
// gzip. Tests can use NewMux directly to avoid noisy logs.
func NewHandler() http.Handler {
	return NewHandlerWithOptions(Options{})
}

func NewHandlerWithOptions(opt Options) http.Handler {
	s := newServer(opt)
	return gzhttp.GzipHandler(s.observe(s.mux()))
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (w *statusWriter) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}

		pattern := r.Pattern
		if pattern == "" {
			// Unmatched requests share one label to keep cardinality low.
			pattern = "(unmatched)"
		}
		dur := time.Since(start)
		s.metrics.requests.WithLabelValues(pattern, strconv.Itoa(status)).Inc()
		s.metrics.duration.WithLabelValues(pattern).Observe(dur.Seconds())

		// Never log the query string: subscription URLs carry tokens.
		if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
			return
		}
		s.opt.Logger.WithFields(log.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"pattern": pattern,
			"status":  status,
			"dur":     dur.Round(time.Millisecond).String(),
			"bytes":   sw.bytes,
		}).Info("http")
	})
}
