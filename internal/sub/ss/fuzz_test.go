package ss

import "testing"

func FuzzParseSubscriptionText(f *testing.F) {
	seed := []string{
		"",
		"   \n",
		"# comment\nss://YWVzLTEyOC1nY206cGFzcw==@example.com:8388#Node%201\n",
		"ss://YWVzLTEyOC1nY206cGFzc3dvcmQ=@example.com:8388#A\n",
		"ss://YWVzLTEyOC1nY206cGFzcw==@example.com:8388/?plugin=simple-obfs%3Bobfs%3Dtls%3Bobfs-host%3Dexample.com#obfs\n",
		"ss://YWVzLTEyOC1nY206cGFzcw==@example.com:443/?plugin=v2ray-plugin%3Btls%3Bhost%3Dcdn.example.com#ws\n",
		"ss://YWVzLTEyOC1nY206cGFzcw==@[::1]:8388#ipv6\n",
	}
	for _, s := range seed {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, content string) {
		eps, err := ParseSubscriptionText("https://example.com/sub", content)
		if err != nil {
			return
		}

		if len(eps) == 0 {
			t.Fatalf("endpoints empty on nil error")
		}
		for _, e := range eps {
			if e.Name == "" {
				t.Fatalf("empty name")
			}
			if v, _ := e.Attr("type"); v != "ss" {
				t.Fatalf("unexpected type: %v", v)
			}
			if v, _ := e.Attr("server"); v == "" {
				t.Fatalf("empty server")
			}
			port, _ := e.Attr("port")
			if p, ok := port.(int); !ok || p < 1 || p > 65535 {
				t.Fatalf("port out of range: %v", port)
			}
			for _, key := range []string{"cipher", "password"} {
				if v, _ := e.Attr(key); v == "" {
					t.Fatalf("empty %s", key)
				}
			}
		}
	})
}
