// Package render serializes a compiled document for the client, either as
// mihomo YAML or as JSON with the same key order.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/John-Robertt/mihomo-override/internal/model"
)

type Target string

const (
	TargetClash Target = "clash"
	TargetJSON  Target = "json"
)

// ParseTarget accepts the target names and a few aliases. The empty string
// selects TargetClash.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clash", "mihomo", "clashmeta", "meta", "yaml":
		return TargetClash, nil
	case "json":
		return TargetJSON, nil
	default:
		return "", &RenderError{
			AppError: model.AppError{
				Code:    "UNSUPPORTED_TARGET",
				Message: fmt.Sprintf("不支持的 target：%s", s),
				Stage:   "validate_request",
				Hint:    "supported: clash, json",
			},
		}
	}
}

// ContentType is the HTTP content type of rendered output.
func (t Target) ContentType() string {
	if t == TargetJSON {
		return "application/json; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Ext is the file extension used for downloads.
func (t Target) Ext() string {
	if t == TargetJSON {
		return ".json"
	}
	return ".yaml"
}

type RenderError struct {
	AppError model.AppError
	Cause    error
}

func (e *RenderError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.AppError.Code, e.AppError.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.AppError.Code, e.AppError.Message, e.Cause)
}

func (e *RenderError) Unwrap() error { return e.Cause }

func Render(target Target, doc *model.Document) ([]byte, error) {
	if doc == nil {
		return nil, &RenderError{
			AppError: model.AppError{
				Code:    "INVALID_ARGUMENT",
				Message: "render input 不能为空",
				Stage:   "render",
			},
		}
	}
	tree := documentTree(doc)

	var (
		out []byte
		err error
	)
	switch target {
	case TargetClash:
		out, err = encodeYAML(tree)
	case TargetJSON:
		out, err = encodeJSON(tree)
	default:
		return nil, &RenderError{
			AppError: model.AppError{
				Code:    "UNSUPPORTED_TARGET",
				Message: fmt.Sprintf("不支持的 target：%s", target),
				Stage:   "render",
			},
		}
	}
	if err != nil {
		return nil, &RenderError{
			AppError: model.AppError{
				Code:    "RENDER_ERROR",
				Message: "配置序列化失败",
				Stage:   "render",
			},
			Cause: err,
		}
	}
	return out, nil
}

func encodeYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
