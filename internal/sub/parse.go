// Package sub turns subscription bodies into endpoints. Three formats are
// recognised: Clash/mihomo YAML with a top-level proxies list, JSON or JSONC
// (an object with proxies, or a bare array), and ss:// lists.
package sub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/muhammadmuzzammil1998/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/John-Robertt/mihomo-override/internal/model"
	"github.com/John-Robertt/mihomo-override/internal/sub/ss"
)

const bom = "\uFEFF"

type Format string

const (
	FormatClash Format = "clash"
	FormatJSON  Format = "json"
	FormatSS    Format = "ss"
)

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

// Detect guesses the format of content. Anything that is neither JSON nor a
// YAML document with proxies is treated as an ss:// list, raw or base64.
func Detect(content string) Format {
	s := strings.TrimSpace(strings.TrimPrefix(content, bom))
	switch {
	case strings.HasPrefix(s, "{"), strings.HasPrefix(s, "["),
		strings.HasPrefix(s, "//"), strings.HasPrefix(s, "/*"):
		return FormatJSON
	case strings.HasPrefix(s, "proxies:"), strings.Contains(s, "\nproxies:"):
		return FormatClash
	default:
		return FormatSS
	}
}

// Parse decodes content in its detected format. sourceURL only labels
// errors.
func Parse(sourceURL, content string) ([]model.Endpoint, error) {
	switch Detect(content) {
	case FormatJSON:
		return parseJSON(sourceURL, content)
	case FormatClash:
		return parseClash(sourceURL, content)
	default:
		return ss.ParseSubscriptionText(sourceURL, content)
	}
}

func parseClash(sourceURL, content string) ([]model.Endpoint, error) {
	var doc struct {
		Proxies []model.Endpoint `yaml:"proxies"`
	}
	if err := yaml.Unmarshal([]byte(strings.TrimPrefix(content, bom)), &doc); err != nil {
		return nil, newParseError(sourceURL, "SUB_PARSE_ERROR", "订阅 YAML 解析失败", err)
	}
	return checkEndpoints(sourceURL, doc.Proxies)
}

func parseJSON(sourceURL, content string) ([]model.Endpoint, error) {
	raw := bytes.TrimSpace(jsonc.ToJSON([]byte(strings.TrimPrefix(content, bom))))

	var eps []model.Endpoint
	if bytes.HasPrefix(raw, []byte("[")) {
		if err := json.Unmarshal(raw, &eps); err != nil {
			return nil, newParseError(sourceURL, "SUB_PARSE_ERROR", "订阅 JSON 解析失败", err)
		}
	} else {
		var doc struct {
			Proxies []model.Endpoint `json:"proxies"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, newParseError(sourceURL, "SUB_PARSE_ERROR", "订阅 JSON 解析失败", err)
		}
		eps = doc.Proxies
	}
	return checkEndpoints(sourceURL, eps)
}

func checkEndpoints(sourceURL string, eps []model.Endpoint) ([]model.Endpoint, error) {
	if len(eps) == 0 {
		return nil, newParseError(sourceURL, "SUB_PARSE_ERROR", "订阅中没有任何可用节点", nil)
	}
	return eps, nil
}

func newParseError(sourceURL, code, message string, cause error) error {
	return &ParseError{
		AppError: model.AppError{
			Code:    code,
			Message: message,
			Stage:   "parse_sub",
			URL:     sourceURL,
		},
		Cause: cause,
	}
}
