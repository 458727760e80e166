// Package profile loads the preset file that supplies default flag args and
// subscriptions to the HTTP service.
package profile

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/John-Robertt/mihomo-override/internal/flags"
	"github.com/John-Robertt/mihomo-override/internal/model"
)

type Profile struct {
	Version int

	// Args are defaults; request args override them key by key.
	Args          map[string]any
	PublicBaseURL string

	// Subscriptions are fetched by GET /sub when the request names none.
	Subscriptions []string
	CacheTTL      time.Duration
}

// DefaultCacheTTL applies when cache_ttl is absent.
const DefaultCacheTTL = 5 * time.Minute

type ParseError struct {
	AppError model.AppError
	Cause    error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.AppError.Code, e.AppError.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.AppError.Code, e.AppError.Message, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

type rawProfile struct {
	Version       int            `yaml:"version"`
	Args          map[string]any `yaml:"args"`
	PublicBaseURL string         `yaml:"public_base_url"`
	Subscriptions []string       `yaml:"subscriptions"`
	CacheTTL      string         `yaml:"cache_ttl"`
}

// Load reads and parses the profile at path.
func Load(path string) (*Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{
			AppError: model.AppError{
				Code:    "PROFILE_READ_ERROR",
				Message: "无法读取 profile 文件",
				Stage:   "parse_profile",
				URL:     path,
			},
			Cause: err,
		}
	}
	return Parse(path, string(b))
}

// Parse decodes a profile strictly: unknown fields, duplicate keys and
// unknown args are errors. source only labels errors.
func Parse(source, content string) (*Profile, error) {
	invalid := func(message, snippet string, cause error) error {
		return &ParseError{
			AppError: model.AppError{
				Code:    "PROFILE_VALIDATE_ERROR",
				Message: message,
				Stage:   "parse_profile",
				URL:     source,
				Snippet: snippet,
			},
			Cause: cause,
		}
	}

	var rp rawProfile
	if err := yaml.UnmarshalWithOptions([]byte(content), &rp, yaml.Strict()); err != nil {
		return nil, &ParseError{
			AppError: model.AppError{
				Code:    "PROFILE_PARSE_ERROR",
				Message: "profile YAML 解析失败",
				Stage:   "parse_profile",
				URL:     source,
				Snippet: truncateSnippet(content, 200),
			},
			Cause: err,
		}
	}

	if rp.Version != 1 {
		return nil, invalid("profile version 必须为 1", "", nil)
	}

	for k := range rp.Args {
		if !slices.Contains(flags.Keys, k) {
			return nil, invalid(fmt.Sprintf("args 不支持的键：%s", k), k, nil)
		}
	}

	publicBaseURL := strings.TrimSpace(rp.PublicBaseURL)
	if publicBaseURL != "" {
		if err := validatePublicBaseURL(publicBaseURL); err != nil {
			return nil, invalid("public_base_url 不合法", publicBaseURL, err)
		}
	}

	subs := make([]string, 0, len(rp.Subscriptions))
	for _, s := range rp.Subscriptions {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if err := validateHTTPURL(s); err != nil {
			return nil, invalid("subscriptions 中的 URL 不合法", s, err)
		}
		if !slices.Contains(subs, s) {
			subs = append(subs, s)
		}
	}

	ttl := DefaultCacheTTL
	if raw := strings.TrimSpace(rp.CacheTTL); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return nil, invalid("cache_ttl 必须是非负时长，例如 5m", raw, err)
		}
		ttl = d
	}

	args := make(map[string]any, len(rp.Args))
	for k, v := range rp.Args {
		args[k] = v
	}
	return &Profile{
		Version:       rp.Version,
		Args:          args,
		PublicBaseURL: publicBaseURL,
		Subscriptions: subs,
		CacheTTL:      ttl,
	}, nil
}

func validateHTTPURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	if u == nil || !u.IsAbs() || u.Host == "" {
		return errors.New("url must be absolute")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("scheme must be http/https")
	}
	return nil
}

func validatePublicBaseURL(s string) error {
	if err := validateHTTPURL(s); err != nil {
		return err
	}
	u, _ := url.Parse(s)
	if u.RawQuery != "" || u.Fragment != "" {
		return errors.New("public_base_url must not contain query/fragment")
	}
	return nil
}

func truncateSnippet(s string, max int) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	return s[:max]
}
