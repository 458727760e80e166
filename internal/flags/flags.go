// Package flags coerces a loosely typed argument bag into the fixed flag set
// the compiler runs on. Coercion never fails: malformed values fall back to
// their zero value.
package flags

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Recognised argument keys.
const (
	KeyLoadBalance = "loadbalance"
	KeyFull        = "full"
	KeyKeepAlive   = "keepalive"
	KeyFakeIP      = "fakeip"
	KeyQUIC        = "quic"
	KeyThreshold   = "threshold"
)

// Keys lists every recognised key in a stable order.
var Keys = []string{KeyLoadBalance, KeyFull, KeyKeepAlive, KeyFakeIP, KeyQUIC, KeyThreshold}

// Set is the resolved flag set.
type Set struct {
	LoadBalance      bool
	FullConfig       bool
	KeepAliveEnabled bool
	FakeIPEnabled    bool
	QUICEnabled      bool
	CountryThreshold int

	// Always true; kept so downstream code reads them like any other flag.
	IPv6Enabled    bool
	RegionsEnabled bool
}

// Resolve coerces args into a Set. Unknown keys are ignored.
func Resolve(args map[string]any) Set {
	return Set{
		LoadBalance:      Bool(args[KeyLoadBalance]),
		FullConfig:       Bool(args[KeyFull]),
		KeepAliveEnabled: Bool(args[KeyKeepAlive]),
		FakeIPEnabled:    Bool(args[KeyFakeIP]),
		QUICEnabled:      Bool(args[KeyQUIC]),
		CountryThreshold: Int(args[KeyThreshold]),
		IPv6Enabled:      true,
		RegionsEnabled:   true,
	}
}

// Bool reports whether v is a native true, or a string equal to "1" or
// case-insensitively to "true".
func Bool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "1" || strings.EqualFold(b, "true")
	default:
		return false
	}
}

// Int coerces v into a non-negative integer. Strings contribute their
// leading base-10 integer prefix ("7abc" is 7); floats truncate.
func Int(v any) int {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint:
		n = clampUint(uint64(x))
	case uint32:
		n = int64(x)
	case uint64:
		n = clampUint(x)
	case float32:
		n = truncFloat(float64(x))
	case float64:
		n = truncFloat(x)
	case interface{ Int64() (int64, error) }:
		// json.Number
		if i, err := x.Int64(); err == nil {
			n = i
		} else if s, ok := v.(interface{ String() string }); ok {
			n = leadingInt(s.String())
		}
	case string:
		n = leadingInt(x)
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

func clampUint(u uint64) int64 {
	if u > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(u)
}

func truncFloat(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	if f <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(f)
}

// leadingInt parses an optional sign and the digits that follow it, after
// leading whitespace. Anything without digits yields 0.
func leadingInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		// out of range
		if s[0] == '-' {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return n
}

// FromQuery turns query parameters into an argument bag, keeping the first
// value of every recognised key.
func FromQuery(q url.Values) map[string]any {
	out := make(map[string]any, len(Keys))
	for _, k := range Keys {
		if vs, ok := q[k]; ok && len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}

// Merge returns base overlaid with override. Neither input is modified.
func Merge(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// Args renders s back into an argument bag, e.g. for echoing the effective
// flags in diagnostics.
func (s Set) Args() map[string]any {
	return map[string]any{
		KeyLoadBalance: s.LoadBalance,
		KeyFull:        s.FullConfig,
		KeyKeepAlive:   s.KeepAliveEnabled,
		KeyFakeIP:      s.FakeIPEnabled,
		KeyQUIC:        s.QUICEnabled,
		KeyThreshold:   s.CountryThreshold,
	}
}
