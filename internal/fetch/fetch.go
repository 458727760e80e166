// Package fetch downloads subscription bodies over http/https with size,
// redirect and timeout limits, and caches them by URL.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/John-Robertt/mihomo-override/internal/model"
)

const stage = "fetch_sub"

const (
	DefaultTimeout      = 15 * time.Second
	DefaultMaxBytes     = 5 * 1024 * 1024
	DefaultMaxRedirects = 5
)

type Options struct {
	Timeout      time.Duration // default 15s
	MaxBytes     int64         // default 5 MiB
	MaxRedirects int           // default 5
	UserAgent    string        // default "mihomo-override"

	// Client overrides the HTTP client; CheckRedirect and Timeout are still
	// applied to a copy of it.
	Client *http.Client
}

func (o Options) withDefaults() Options {
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxBytes == 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.MaxRedirects == 0 {
		o.MaxRedirects = DefaultMaxRedirects
	}
	if o.UserAgent == "" {
		o.UserAgent = "mihomo-override"
	}
	return o
}

type FetchError struct {
	Status   int
	AppError model.AppError
	Cause    error
}

func (e *FetchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.AppError.Code, e.AppError.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.AppError.Code, e.AppError.Message, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

var (
	errTooManyRedirects   = errors.New("too many redirects")
	errRedirectBadScheme  = errors.New("redirect target scheme is not http/https")
	errInvalidURLOrScheme = errors.New("invalid url or scheme")
)

func fail(rawURL string, status int, code, message string, cause error) *FetchError {
	return &FetchError{
		Status: status,
		AppError: model.AppError{
			Code:    code,
			Message: message,
			Stage:   stage,
			URL:     rawURL,
		},
		Cause: cause,
	}
}

func timedOut(err error) bool {
	var ne net.Error
	return (errors.As(err, &ne) && ne.Timeout()) || errors.Is(err, context.DeadlineExceeded)
}

// Text fetches rawURL with default options.
func Text(ctx context.Context, rawURL string) (string, error) {
	return TextWithOptions(ctx, rawURL, Options{})
}

// TextWithOptions fetches rawURL and returns its body as UTF-8 text.
func TextWithOptions(ctx context.Context, rawURL string, opt Options) (string, error) {
	opt = opt.withDefaults()
	if opt.MaxBytes <= 0 {
		return "", fail(rawURL, http.StatusBadRequest, "INVALID_ARGUMENT", "响应大小上限必须大于 0", nil)
	}

	u, err := url.Parse(rawURL)
	if err != nil || u == nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fail(rawURL, http.StatusBadRequest, "INVALID_ARGUMENT", "仅允许 http/https URL",
			errors.Join(errInvalidURLOrScheme, err))
	}

	client := &http.Client{Transport: http.DefaultTransport}
	if opt.Client != nil {
		c := *opt.Client
		client = &c
	}
	client.Timeout = opt.Timeout
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		// 1st redirect => len(via)==1.
		if len(via) > opt.MaxRedirects {
			return errTooManyRedirects
		}
		if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
			return errRedirectBadScheme
		}
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fail(rawURL, http.StatusBadRequest, "INVALID_ARGUMENT", "请求 URL 不合法", err)
	}
	req.Header.Set("User-Agent", opt.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		switch {
		case errors.Is(err, errTooManyRedirects):
			return "", fail(rawURL, http.StatusBadGateway, "FETCH_FAILED",
				fmt.Sprintf("重定向次数超过上限（>%d）", opt.MaxRedirects), err)
		case errors.Is(err, errRedirectBadScheme):
			return "", fail(rawURL, http.StatusBadRequest, "INVALID_ARGUMENT", "重定向目标仅允许 http/https", err)
		case timedOut(err):
			return "", fail(rawURL, http.StatusGatewayTimeout, "FETCH_TIMEOUT", "拉取订阅超时", err)
		default:
			return "", fail(rawURL, http.StatusBadGateway, "FETCH_FAILED", "拉取订阅失败", err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fail(rawURL, http.StatusBadGateway, "FETCH_FAILED",
			fmt.Sprintf("上游返回非 2xx 状态码：%d", resp.StatusCode), nil)
	}

	// Read one byte past the limit to detect overflow.
	body, err := io.ReadAll(io.LimitReader(resp.Body, opt.MaxBytes+1))
	if err != nil {
		if timedOut(err) {
			return "", fail(rawURL, http.StatusGatewayTimeout, "FETCH_TIMEOUT", "拉取订阅超时", err)
		}
		return "", fail(rawURL, http.StatusBadGateway, "FETCH_FAILED", "读取上游响应失败", err)
	}
	if int64(len(body)) > opt.MaxBytes {
		return "", fail(rawURL, http.StatusUnprocessableEntity, "TOO_LARGE",
			fmt.Sprintf("订阅内容过大（>%d bytes）", opt.MaxBytes), nil)
	}
	if !utf8.Valid(body) {
		return "", fail(rawURL, http.StatusUnprocessableEntity, "FETCH_INVALID_UTF8", "订阅内容不是合法 UTF-8 文本", nil)
	}
	return string(body), nil
}
