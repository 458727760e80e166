package httpapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/John-Robertt/mihomo-override/internal/catalog"
	"github.com/John-Robertt/mihomo-override/internal/profile"
)

type renderedDoc struct {
	Proxies []struct {
		Name string `yaml:"name" json:"name"`
		Type string `yaml:"type" json:"type"`
	} `yaml:"proxies" json:"proxies"`
	Groups []struct {
		Name    string   `yaml:"name" json:"name"`
		Type    string   `yaml:"type" json:"type"`
		Proxies []string `yaml:"proxies" json:"proxies"`
	} `yaml:"proxy-groups" json:"proxy-groups"`
	Rules     []string `yaml:"rules" json:"rules"`
	KeepAlive *bool    `yaml:"disable-keep-alive" json:"disable-keep-alive"`
}

func (d renderedDoc) proxyNames() []string {
	var out []string
	for _, p := range d.Proxies {
		out = append(out, p.Name)
	}
	return out
}

func (d renderedDoc) groupNames() []string {
	var out []string
	for _, g := range d.Groups {
		out = append(out, g.Name)
	}
	return out
}

func subURL(up string, paths ...string) string {
	q := url.Values{}
	for _, p := range paths {
		q.Add("url", up+p)
	}
	return q.Encode()
}

func TestE2E_Sub_ClashYAML(t *testing.T) {
	up := newUpstream(t)
	s := newTestServer(Options{})

	rr := do(t, s.mux(), http.MethodGet, "/sub?"+subURL(up.URL, "/clash.yaml", "/ss.txt"), nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), `filename="mihomo.yaml"`)

	var doc renderedDoc
	require.NoError(t, yaml.Unmarshal(rr.Body.Bytes(), &doc))

	assert.Equal(t, []string{"香港 01", "香港 02", "日本 01 0.5x", "US Home-Broadband-01", "SG 01"}, doc.proxyNames())

	names := doc.groupNames()
	assert.Contains(t, names, catalog.CountryGroupName("香港"))
	assert.Contains(t, names, catalog.CountryGroupName("新加坡"))
	assert.NotContains(t, names, catalog.CountryGroupName("日本"), "special endpoints never form a country group")
	assert.Contains(t, names, catalog.GroupLanding)
	assert.Contains(t, names, catalog.GroupLowCost)
	assert.NotContains(t, names, catalog.GroupHighSpeed)
	assert.Equal(t, catalog.GroupGlobal, names[len(names)-1])

	require.NotEmpty(t, doc.Rules)
	assert.Equal(t, "AND,((DST-PORT,443),(NETWORK,UDP)),REJECT", doc.Rules[0])
	assert.True(t, strings.HasPrefix(doc.Rules[len(doc.Rules)-1], "MATCH,"))
	assert.Nil(t, doc.KeepAlive, "general keys only with full=1")
}

func TestE2E_Sub_QueryFlags(t *testing.T) {
	up := newUpstream(t)
	s := newTestServer(Options{})

	rr := do(t, s.mux(), http.MethodGet, "/sub?"+subURL(up.URL, "/clash.yaml", "/ss.txt")+"&threshold=2&quic=true&full=1&keepalive=1&filename="+url.QueryEscape("我的配置"), nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var doc renderedDoc
	require.NoError(t, yaml.Unmarshal(rr.Body.Bytes(), &doc))

	names := doc.groupNames()
	assert.Contains(t, names, catalog.CountryGroupName("香港"))
	assert.NotContains(t, names, catalog.CountryGroupName("新加坡"), "one endpoint is below threshold 2")
	assert.NotEqual(t, "AND,((DST-PORT,443),(NETWORK,UDP)),REJECT", doc.Rules[0])
	require.NotNil(t, doc.KeepAlive)
	assert.False(t, *doc.KeepAlive)

	cd := rr.Header().Get("Content-Disposition")
	assert.Contains(t, cd, `filename="我的配置.yaml"`)
	assert.Contains(t, cd, "filename*=UTF-8''"+pctEncode("我的配置.yaml"))
}

func TestE2E_Convert_JSONMatchesYAML(t *testing.T) {
	up := newUpstream(t)
	s := newTestServer(Options{})
	h := s.mux()

	yamlRR := do(t, h, http.MethodGet, "/sub?"+subURL(up.URL, "/clash.yaml"), nil)
	require.Equal(t, http.StatusOK, yamlRR.Code, yamlRR.Body.String())
	var fromYAML renderedDoc
	require.NoError(t, yaml.Unmarshal(yamlRR.Body.Bytes(), &fromYAML))

	jsonRR := do(t, h, http.MethodPost, "/api/convert", map[string]any{
		"target": "json",
		"subs":   []string{up.URL + "/clash.yaml"},
	})
	require.Equal(t, http.StatusOK, jsonRR.Code, jsonRR.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", jsonRR.Header().Get("Content-Type"))
	assert.Contains(t, jsonRR.Header().Get("Content-Disposition"), `filename="mihomo.json"`)

	var fromJSON renderedDoc
	require.NoError(t, json.Unmarshal(jsonRR.Body.Bytes(), &fromJSON))
	assert.Equal(t, fromYAML, fromJSON)
}

func TestE2E_Convert_InlineProxiesAndJSONC(t *testing.T) {
	s := newTestServer(Options{})
	body := `{
  // inline endpoints only
  "proxies": [
    {"name": "HK 01", "type": "ss", "server": "a.example.com", "port": 443},
    {"name": "HK 01", "type": "ss", "server": "b.example.com", "port": 443},
    {"name": "GIA 专线 LA", "type": "ss", "server": "c.example.com", "port": 443}
  ],
  /* loose flag values */
  "args": {"loadbalance": true, "threshold": 1}
}`
	rr := do(t, s.mux(), http.MethodPost, "/api/convert", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var doc renderedDoc
	require.NoError(t, yaml.Unmarshal(rr.Body.Bytes(), &doc))
	assert.Equal(t, []string{"HK 01", "HK 01-2", "GIA 专线 LA"}, doc.proxyNames())

	names := doc.groupNames()
	assert.Contains(t, names, catalog.GroupHighSpeed)
	for _, g := range doc.Groups {
		if g.Name == catalog.GroupAutoSelect {
			assert.Equal(t, "load-balance", g.Type)
		}
	}
}

func TestE2E_ProfileDefaults(t *testing.T) {
	up := newUpstream(t)
	s := newTestServer(Options{
		Profile: profile.Static(&profile.Profile{
			Version:       1,
			Args:          map[string]any{"threshold": 5, "quic": "1"},
			Subscriptions: []string{up.URL + "/clash.yaml"},
		}),
	})
	h := s.mux()

	rr := do(t, h, http.MethodGet, "/sub", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var doc renderedDoc
	require.NoError(t, yaml.Unmarshal(rr.Body.Bytes(), &doc))
	assert.NotContains(t, doc.groupNames(), catalog.CountryGroupName("香港"), "profile threshold 5 applies")

	// Request args override the profile key by key.
	rr = do(t, h, http.MethodGet, "/sub?threshold=1", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	doc = renderedDoc{}
	require.NoError(t, yaml.Unmarshal(rr.Body.Bytes(), &doc))
	assert.Contains(t, doc.groupNames(), catalog.CountryGroupName("香港"))
	assert.NotEqual(t, "AND,((DST-PORT,443),(NETWORK,UDP)),REJECT", doc.Rules[0], "profile quic still applies")
}

func TestE2E_Errors(t *testing.T) {
	up := newUpstream(t)
	s := newTestServer(Options{})
	h := s.mux()

	cases := []struct {
		name   string
		method string
		target string
		body   any
		status int
		stage  string
		code   string
	}{
		{"bad target", http.MethodGet, "/sub?target=quanx&" + subURL(up.URL, "/clash.yaml"), nil, http.StatusBadRequest, "validate_request", "UNSUPPORTED_TARGET"},
		{"repeated target", http.MethodGet, "/sub?target=clash&target=json&" + subURL(up.URL, "/clash.yaml"), nil, http.StatusBadRequest, "validate_request", "INVALID_ARGUMENT"},
		{"empty url", http.MethodGet, "/sub?url=", nil, http.StatusBadRequest, "validate_request", "INVALID_ARGUMENT"},
		{"bad filename", http.MethodGet, "/sub?filename=a/b&" + subURL(up.URL, "/clash.yaml"), nil, http.StatusBadRequest, "validate_request", "INVALID_ARGUMENT"},
		{"upstream status", http.MethodGet, "/sub?" + subURL(up.URL, "/gone"), nil, http.StatusBadGateway, "fetch_sub", "FETCH_FAILED"},
		{"bad scheme", http.MethodGet, "/sub?url=" + url.QueryEscape("file:///etc/passwd"), nil, http.StatusBadRequest, "fetch_sub", "INVALID_ARGUMENT"},
		{"no endpoints", http.MethodGet, "/sub?" + subURL(up.URL, "/empty.yaml"), nil, http.StatusUnprocessableEntity, "parse_sub", "SUB_PARSE_ERROR"},
		{"unknown json field", http.MethodPost, "/api/convert", `{"mode": "config"}`, http.StatusBadRequest, "validate_request", "INVALID_ARGUMENT"},
		{"two json documents", http.MethodPost, "/api/convert", `{} {}`, http.StatusBadRequest, "validate_request", "INVALID_ARGUMENT"},
		{"empty post", http.MethodPost, "/api/convert", `{}`, http.StatusBadRequest, "validate_request", "INVALID_ARGUMENT"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rr := do(t, h, c.method, c.target, c.body)
			if rr.Code != c.status {
				t.Fatalf("status=%d, want=%d body=%s", rr.Code, c.status, rr.Body.String())
			}
			e := decodeError(t, rr)
			if e.Stage != c.stage || e.Code != c.code {
				t.Fatalf("stage/code=%s/%s, want=%s/%s", e.Stage, e.Code, c.stage, c.code)
			}
		})
	}
}
