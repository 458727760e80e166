package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	"github.com/John-Robertt/mihomo-override/internal/fetch"
	"github.com/John-Robertt/mihomo-override/internal/httpapi"
	"github.com/John-Robertt/mihomo-override/internal/profile"
)

const defaultListen = "127.0.0.1:25500"

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	listen := fs.String("listen", envOr("MIHOMO_OVERRIDE_LISTEN", defaultListen), "HTTP 监听地址")
	profilePath := fs.String("profile", os.Getenv("MIHOMO_OVERRIDE_PROFILE"), "预设 profile 文件（可选，修改后自动重载）")
	readHeaderTimeout := fs.Duration("read-header-timeout", 5*time.Second, "HTTP ReadHeaderTimeout（请求头读取超时）")
	convertTimeout := fs.Duration("convert-timeout", 60*time.Second, "单次转换的总超时（包含远程拉取）")
	fetchTimeout := fs.Duration("fetch-timeout", fetch.DefaultTimeout, "单次订阅拉取的超时（每个 URL 一次请求）")
	shutdownTimeout := fs.Duration("shutdown-timeout", 10*time.Second, "收到退出信号后的优雅退出等待时间")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var prof *profile.Watcher
	if *profilePath != "" {
		w, err := profile.Watch(*profilePath)
		if err != nil {
			return err
		}
		defer w.Close()
		prof = w
		log.WithField("path", *profilePath).Info("profile loaded")
	}

	var cache *fetch.Cache
	if prof != nil {
		cache = fetch.NewCache(prof.Get().CacheTTL, fetch.Options{Timeout: *fetchTimeout})
		prof.OnChange(func(old, new *profile.Profile) {
			// Subscriptions or args may have changed; start from fresh bodies.
			cache.Flush()
			if old.CacheTTL != new.CacheTTL {
				log.Warn("cache_ttl changes take effect after restart")
			}
		})
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &http.Server{
		Addr: *listen,
		Handler: httpapi.NewHandlerWithOptions(httpapi.Options{
			ConvertTimeout: *convertTimeout,
			FetchTimeout:   *fetchTimeout,
			Profile:        prof,
			Cache:          cache,
			Registry:       reg,
		}),
		ReadHeaderTimeout: *readHeaderTimeout,
	}

	log.Infof("listening on http://%s", *listen)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")

		shCtx, cancel := context.WithTimeout(context.Background(), *shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			log.WithError(err).Warn("graceful shutdown failed")
			_ = srv.Close()
		}

		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
