package sub

import (
	"fmt"
	"strings"

	"github.com/John-Robertt/mihomo-override/internal/catalog"
	"github.com/John-Robertt/mihomo-override/internal/model"
)

// Names the client reserves for built-in policies; compared case-insensitively.
var builtin = map[string]struct{}{
	model.ActionDirect:     {},
	model.ActionReject:     {},
	model.ActionRejectDrop: {},
	"PASS":                 {},
	"COMPATIBLE":           {},
	"GLOBAL":               {},
}

// groupNames share the proxy namespace in the rendered document.
var groupNames = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, n := range catalog.GroupNames() {
		m[n] = struct{}{}
	}
	return m
}()

func reserved(name string) bool {
	if _, ok := builtin[strings.ToUpper(name)]; ok {
		return true
	}
	_, ok := groupNames[name]
	return ok
}

// Normalize makes endpoint names usable as group members while keeping
// input order: names are trimmed and exact duplicates (same name and
// attributes) are dropped. A name that is already taken or reserved gets a
// "-N" suffix starting at 2. The input slice is not modified.
func Normalize(in []model.Endpoint) []model.Endpoint {
	seen := make(map[string]struct{}, len(in))
	used := make(map[string]struct{}, len(in))
	out := make([]model.Endpoint, 0, len(in))

	for _, e := range in {
		e.Name = strings.Join(strings.Fields(e.Name), " ")
		key := dedupKey(e)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		base := e.Name
		if base == "" {
			base = addressName(e)
		}
		name := base
		if _, taken := used[name]; taken || reserved(name) {
			for n := 2; ; n++ {
				try := fmt.Sprintf("%s-%d", base, n)
				if _, ok := used[try]; !ok {
					name = try
					break
				}
			}
		}
		used[name] = struct{}{}
		e.Name = name
		out = append(out, e)
	}
	return out
}

func addressName(e model.Endpoint) string {
	server, _ := e.Attr("server")
	port, _ := e.Attr("port")
	if server == nil {
		return "node"
	}
	return fmt.Sprintf("%v:%v", server, port)
}

func dedupKey(e model.Endpoint) string {
	var b strings.Builder
	b.WriteString(e.Name)
	for _, a := range e.Attrs {
		b.WriteByte('\n')
		b.WriteString(a.Key)
		b.WriteByte('=')
		fmt.Fprintf(&b, "%v", a.Value)
	}
	return b.String()
}
