package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDeriveHealthzURL_FromListenAddr(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"127.0.0.1:25500", "http://127.0.0.1:25500/healthz"},
		{"0.0.0.0:25500", "http://127.0.0.1:25500/healthz"},
		{":25500", "http://127.0.0.1:25500/healthz"},
		{"25500", "http://127.0.0.1:25500/healthz"},
		{"[::]:25500", "http://127.0.0.1:25500/healthz"},
		{"http://127.0.0.1:25500", "http://127.0.0.1:25500/healthz"},
	}
	for _, tt := range tests {
		got, err := deriveHealthzURL(tt.in)
		if err != nil {
			t.Fatalf("deriveHealthzURL(%q) unexpected err: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("deriveHealthzURL(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRunHealthcheck_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}))
	defer ts.Close()

	if err := runHealthcheck(ts.URL+"/healthz", 200*time.Millisecond); err != nil {
		t.Fatalf("runHealthcheck unexpected err: %v", err)
	}
}

func TestRunHealthcheck_StatusNotOK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	err := runHealthcheck(ts.URL, 200*time.Millisecond)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "unexpected status") {
		t.Fatalf("err=%q, want contains %q", err.Error(), "unexpected status")
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"frobnicate"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "usage:")
}

const nodes = `proxies:
  - {name: "香港 01", type: ss, server: a.example.com, port: 443, cipher: aes-128-gcm, password: p}
  - {name: "香港 02", type: ss, server: b.example.com, port: 443, cipher: aes-128-gcm, password: p}
  - {name: "日本 01", type: ss, server: c.example.com, port: 443, cipher: aes-128-gcm, password: p}
`

func TestRender_File(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "nodes.yaml")
	argsFile := filepath.Join(dir, "args.jsonc")
	out := filepath.Join(dir, "out.yaml")
	require.NoError(t, os.WriteFile(in, []byte(nodes), 0o644))
	require.NoError(t, os.WriteFile(argsFile, []byte("{\n  // two per country\n  \"threshold\": 2\n}\n"), 0o644))

	var stdout, stderr bytes.Buffer
	err := run([]string{"render", "-in", in, "-args", argsFile, "-set", "full=1", "-out", out, "-stats"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "countries (raw): 香港=2, 日本=1")
	assert.Contains(t, stderr.String(), "country groups: 香港节点\n")

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "mixed-port", "full=1 adds general keys")
	assert.Contains(t, doc, "proxy-groups")
}

func TestRender_SetOverridesArgsAndJSON(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "nodes.yaml")
	require.NoError(t, os.WriteFile(in, []byte(nodes), 0o644))

	var stdout, stderr bytes.Buffer
	err := run([]string{"render", "-in", in, "-target", "json", "-set", "threshold=3"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.True(t, strings.HasPrefix(stdout.String(), "{"))
	assert.NotContains(t, stdout.String(), "香港节点")
}

func TestRender_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Error(t, run([]string{"render"}, &stdout, &stderr))
	assert.Error(t, run([]string{"render", "-in", "nope.yaml"}, &stdout, &stderr))
	assert.Error(t, run([]string{"render", "-in", "x", "-target", "surge"}, &stdout, &stderr))
	assert.Error(t, run([]string{"render", "-in", "x", "-set", "novalue"}, &stdout, &stderr))
}
