// Command mihomo-override generates mihomo configurations from proxy
// subscriptions, either as an HTTP service or one-shot from a file.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const usage = `usage: mihomo-override <command> [flags]

commands:
  serve        run the HTTP service (default)
  render       compile a local endpoint file
  healthcheck  probe a running service's /healthz
`

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()
	setupLogging(os.Getenv("LOG_LEVEL"))

	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}
	switch cmd {
	case "serve":
		return runServe(args)
	case "render":
		return runRender(args, stdout, stderr)
	case "healthcheck":
		return runHealthcheckCmd(args)
	case "help":
		_, _ = io.WriteString(stdout, usage)
		return nil
	default:
		_, _ = io.WriteString(stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func setupLogging(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.WithField("LOG_LEVEL", level).Warn("unknown log level; using info")
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
