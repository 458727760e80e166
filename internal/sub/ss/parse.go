// Package ss decodes ss:// subscription lists (SIP002 and the legacy
// all-base64 form) into mihomo endpoints.
package ss

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/John-Robertt/mihomo-override/internal/model"
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

const snippetMax = 200

// ParseSubscriptionText parses an ss:// list, either raw or base64 encoded,
// into endpoints with mihomo attributes.
func ParseSubscriptionText(sourceURL string, content string) ([]model.Endpoint, error) {
	whole := line{src: sourceURL}

	s := strings.TrimSpace(strings.TrimPrefix(content, "\uFEFF"))
	if s == "" {
		return nil, whole.fail("SUB_PARSE_ERROR", "订阅内容为空", "", nil)
	}
	if !strings.Contains(s, "ss://") {
		decoded, err := decodeBase64(stripSpace(s))
		if err == nil && !utf8.Valid(decoded) {
			err = errors.New("decoded subscription is not valid utf-8")
		}
		if err != nil {
			whole.text = s
			return nil, whole.fail("SUB_BASE64_DECODE_ERROR", "订阅 base64 解码失败", "", err)
		}
		s = strings.TrimSpace(strings.TrimPrefix(string(decoded), "\uFEFF"))
		if s == "" {
			return nil, whole.fail("SUB_PARSE_ERROR", "订阅内容为空", "", nil)
		}
	}

	var out []model.Endpoint
	for i, text := range strings.Split(s, "\n") {
		l := line{src: sourceURL, no: i + 1, text: text}
		text = strings.TrimSpace(text)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if !strings.HasPrefix(text, "ss://") {
			return nil, l.fail("SUB_UNSUPPORTED_SCHEME", "仅支持 ss:// 协议", "expected: ss://...", nil)
		}
		n, err := l.decode(text)
		if err != nil {
			return nil, err
		}
		e, err := n.endpoint()
		if err != nil {
			return nil, l.fail("UNSUPPORTED_PLUGIN", err.Error(), "example: ?plugin=simple-obfs;obfs=tls;obfs-host=example.com", nil)
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, whole.fail("SUB_PARSE_ERROR", "订阅中没有任何可用节点", "", nil)
	}
	return out, nil
}

// line is one subscription line; it stamps errors with its position.
type line struct {
	src  string
	no   int
	text string
}

func (l line) fail(code, message, hint string, cause error) error {
	snippet := strings.NewReplacer("\r", "", "\n", "").Replace(l.text)
	if len(snippet) > snippetMax {
		snippet = snippet[:snippetMax]
	}
	return &ParseError{
		AppError: model.AppError{
			Code:    code,
			Message: message,
			Stage:   "parse_sub",
			URL:     l.src,
			Line:    l.no,
			Snippet: snippet,
			Hint:    hint,
		},
		Cause: cause,
	}
}

func (l line) bad(message string, cause error) error {
	return l.fail("SUB_PARSE_ERROR", message, "", cause)
}

// decode handles both shapes:
//
//	ss://<b64(cipher:password)>@host:port[/][?plugin=...][#name]
//	ss://<b64(cipher:password@host:port)>[#name]
func (l line) decode(s string) (node, error) {
	var n node

	body, frag, hasFrag := strings.Cut(s, "#")
	if hasFrag {
		name, err := url.PathUnescape(frag)
		if err != nil {
			return node{}, l.bad("节点名称 URL 解码失败", err)
		}
		n.Name = strings.TrimSpace(name)
		if strings.ContainsAny(n.Name, "\r\n\x00") {
			return node{}, l.fail("SUB_PARSE_ERROR", "节点名称包含非法控制字符", `forbidden: \r \n \0`, nil)
		}
	}

	body, query, hasQuery := strings.Cut(body, "?")
	if hasQuery && query != "" {
		if err := l.plugin(query, &n); err != nil {
			return node{}, err
		}
	}

	rest := strings.TrimPrefix(body, "ss://")
	if rest == "" {
		return node{}, l.bad("ss:// 后缺少内容", nil)
	}

	var creds, hostPort string
	if user, host, ok := strings.Cut(rest, "@"); ok {
		if user == "" || host == "" {
			return node{}, l.bad("ss uri 格式不合法", nil)
		}
		if i := strings.IndexByte(host, '/'); i >= 0 {
			if host[i:] != "/" {
				return node{}, l.bad("ss uri path 不支持（仅允许空或 /）", nil)
			}
			host = host[:i]
		}
		b, err := decodeBase64(user)
		if err != nil {
			return node{}, l.bad("ss userinfo base64 解码失败", err)
		}
		creds, hostPort = string(b), host
	} else {
		b, err := decodeBase64(rest)
		if err != nil {
			return node{}, l.bad("ss base64 解码失败", err)
		}
		at := strings.LastIndexByte(string(b), '@')
		if at < 0 {
			return node{}, l.bad("ss base64 解码结果缺少 @ 分隔符", nil)
		}
		creds, hostPort = string(b[:at]), string(b[at+1:])
	}

	if !utf8.ValidString(creds) {
		return node{}, l.bad("cipher:password 不是合法 UTF-8", nil)
	}
	cipher, password, ok := strings.Cut(creds, ":")
	cipher, password = strings.TrimSpace(cipher), strings.TrimSpace(password)
	if !ok || cipher == "" || password == "" {
		return node{}, l.bad("缺少 cipher:password", nil)
	}
	if strings.ContainsAny(cipher+password, "\r\n\x00") {
		return node{}, l.bad("cipher 或 password 包含非法控制字符", nil)
	}
	n.Cipher, n.Password = cipher, password

	server, port, err := splitHostPort(hostPort)
	if err != nil {
		return node{}, l.bad("服务器地址或端口不合法", err)
	}
	n.Server, n.Port = server, port
	return n, nil
}

// plugin reads the query. Only "plugin" is accepted, and only '&' separates
// parameters because the plugin value itself uses ';'.
func (l line) plugin(query string, n *node) error {
	var value string
	seen := false
	for _, part := range strings.Split(query, "&") {
		if part == "" {
			continue
		}
		kRaw, vRaw, ok := strings.Cut(part, "=")
		if !ok {
			return l.bad("query 参数必须是 key=value 形式", nil)
		}
		k, err := url.PathUnescape(kRaw)
		if err != nil {
			return l.bad("query 参数解码失败", err)
		}
		v, err := url.PathUnescape(vRaw)
		if err != nil {
			return l.bad("query 参数解码失败", err)
		}
		if k != "plugin" {
			return l.fail("SUB_PARSE_ERROR", "出现未知 query 参数（仅支持 plugin）", "only allow: plugin", nil)
		}
		if seen {
			return l.bad("重复的 plugin 参数", nil)
		}
		value, seen = v, true
	}
	if !seen {
		return nil
	}

	segs := strings.Split(value, ";")
	n.PluginName = strings.TrimSpace(segs[0])
	if n.PluginName == "" {
		return l.bad("plugin 名称不能为空", nil)
	}
	for _, seg := range segs[1:] {
		if seg == "" {
			continue
		}
		k, v, ok := strings.Cut(seg, "=")
		k = strings.TrimSpace(k)
		switch {
		case !ok && k == "tls":
			// bare v2ray-plugin flag
			n.PluginOpts = append(n.PluginOpts, kv{Key: "tls"})
		case !ok:
			return l.bad("plugin 选项必须是 k=v 形式", nil)
		case k == "":
			return l.bad("plugin 选项 key 不能为空", nil)
		default:
			n.PluginOpts = append(n.PluginOpts, kv{Key: k, Value: v})
		}
	}
	return nil
}

func splitHostPort(s string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return "", 0, err
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return "", 0, errors.New("empty host")
	}
	port, err := strconv.Atoi(strings.TrimSpace(portStr))
	if err != nil {
		return "", 0, err
	}
	if port < 1 || port > 65535 {
		return "", 0, errors.New("port out of range")
	}
	return host, port, nil
}

var encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.URLEncoding,
	base64.RawStdEncoding,
	base64.RawURLEncoding,
}

// decodeBase64 accepts padded, unpadded, standard and URL-safe alphabets.
func decodeBase64(s string) ([]byte, error) {
	var lastErr error
	for _, enc := range encodings {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)
}
