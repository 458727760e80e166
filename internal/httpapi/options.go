package httpapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/John-Robertt/mihomo-override/internal/fetch"
	"github.com/John-Robertt/mihomo-override/internal/profile"
)

// Options controls HTTP API runtime behavior.
type Options struct {
	// ConvertTimeout bounds a single conversion (fetch + parse + compile +
	// render).
	ConvertTimeout time.Duration

	// FetchTimeout is the per-subscription HTTP timeout. Ignored when Cache
	// is set.
	FetchTimeout time.Duration

	// MaxSubs caps the distinct subscription URLs of one request.
	MaxSubs int

	// Profile supplies default args and subscriptions. nil means an empty
	// profile.
	Profile *profile.Watcher

	// Cache is shared by every request. nil builds one from the profile's
	// cache_ttl.
	Cache *fetch.Cache

	// Registry receives the service metrics and is served on /metrics.
	Registry *prometheus.Registry

	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.ConvertTimeout <= 0 {
		o.ConvertTimeout = 60 * time.Second
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = fetch.DefaultTimeout
	}
	if o.MaxSubs <= 0 {
		o.MaxSubs = 16
	}
	if o.Profile == nil {
		o.Profile = profile.Static(&profile.Profile{
			Version:  1,
			Args:     map[string]any{},
			CacheTTL: profile.DefaultCacheTTL,
		})
	}
	if o.Cache == nil {
		o.Cache = fetch.NewCache(o.Profile.Get().CacheTTL, fetch.Options{Timeout: o.FetchTimeout})
	}
	if o.Registry == nil {
		o.Registry = prometheus.NewRegistry()
	}
	if o.Logger == nil {
		o.Logger = log.StandardLogger()
	}
	return o
}
