package flags

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_CoercionTable(t *testing.T) {
	cases := []struct {
		name string
		args map[string]any
		want Set
	}{
		{name: "empty", args: nil, want: Set{IPv6Enabled: true, RegionsEnabled: true}},
		{name: "string one", args: map[string]any{"loadbalance": "1"}, want: Set{LoadBalance: true, IPv6Enabled: true, RegionsEnabled: true}},
		{name: "string false", args: map[string]any{"loadbalance": "false"}, want: Set{IPv6Enabled: true, RegionsEnabled: true}},
		{name: "mixed case true", args: map[string]any{"full": "TrUe"}, want: Set{FullConfig: true, IPv6Enabled: true, RegionsEnabled: true}},
		{name: "native bool", args: map[string]any{"fakeip": true, "quic": false}, want: Set{FakeIPEnabled: true, IPv6Enabled: true, RegionsEnabled: true}},
		{name: "number is not bool", args: map[string]any{"keepalive": 1}, want: Set{IPv6Enabled: true, RegionsEnabled: true}},
		{name: "threshold non numeric", args: map[string]any{"threshold": "abc"}, want: Set{IPv6Enabled: true, RegionsEnabled: true}},
		{name: "threshold numeric", args: map[string]any{"threshold": "7"}, want: Set{CountryThreshold: 7, IPv6Enabled: true, RegionsEnabled: true}},
		{name: "unknown key", args: map[string]any{"regions": "false", "ipv6": "false"}, want: Set{IPv6Enabled: true, RegionsEnabled: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve(tc.args))
		})
	}
}

func TestBool(t *testing.T) {
	for _, v := range []any{true, "true", "TRUE", "1"} {
		assert.True(t, Bool(v), "%#v", v)
	}
	for _, v := range []any{false, "", "0", "yes", " true", "1 ", 1, 1.0, nil, []string{"true"}} {
		assert.False(t, Bool(v), "%#v", v)
	}
}

func TestInt(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{nil, 0},
		{"", 0},
		{"7", 7},
		{"  12", 12},
		{"7abc", 7},
		{"+3", 3},
		{"-4", 0},
		{"abc7", 0},
		{"3.9", 3},
		{3, 3},
		{int64(-2), 0},
		{2.9, 2},
		{float32(5.5), 5},
		{json.Number("8"), 8},
		{json.Number("8.5"), 8},
		{true, 0},
		{"99999999999999999999999", 2147483647},
	}
	for _, tc := range cases {
		if got := Int(tc.in); got != tc.want {
			t.Fatalf("Int(%#v)=%d, want=%d", tc.in, got, tc.want)
		}
	}
}

func TestFromQueryAndMerge(t *testing.T) {
	q, err := url.ParseQuery("threshold=2&threshold=5&fakeip=1&url=https://x&target=clash")
	require.NoError(t, err)

	bag := FromQuery(q)
	assert.Equal(t, map[string]any{"threshold": "2", "fakeip": "1"}, bag)

	base := map[string]any{"threshold": 3, "quic": true}
	merged := Merge(base, bag)
	assert.Equal(t, "2", merged["threshold"])
	assert.Equal(t, true, merged["quic"])
	assert.Equal(t, 3, base["threshold"], "base must not be modified")

	s := Resolve(merged)
	assert.Equal(t, 2, s.CountryThreshold)
	assert.True(t, s.FakeIPEnabled)
	assert.True(t, s.QUICEnabled)
}

func TestSetArgs_RoundTrip(t *testing.T) {
	s := Set{LoadBalance: true, QUICEnabled: true, CountryThreshold: 4, IPv6Enabled: true, RegionsEnabled: true}
	assert.Equal(t, s, Resolve(s.Args()))
}
