package ss

import (
	"errors"
	"fmt"
	"strings"

	"github.com/John-Robertt/mihomo-override/internal/model"
)

type kv struct {
	Key   string
	Value string
}

// node is one decoded ss:// URI before it is mapped to mihomo attributes.
type node struct {
	Name       string
	Server     string
	Port       int
	Cipher     string
	Password   string
	PluginName string
	PluginOpts []kv
}

func (n node) opt(key string) string {
	for _, o := range n.PluginOpts {
		if strings.TrimSpace(o.Key) == key {
			return strings.TrimSpace(o.Value)
		}
	}
	return ""
}

// endpoint maps n to the attribute layout mihomo expects for ss proxies.
// Only the obfs and v2ray-plugin families have a mihomo equivalent.
func (n node) endpoint() (model.Endpoint, error) {
	attrs := []model.Attr{
		{Key: "type", Value: "ss"},
		{Key: "server", Value: n.Server},
		{Key: "port", Value: n.Port},
		{Key: "cipher", Value: strings.ToLower(n.Cipher)},
		{Key: "password", Value: n.Password},
		{Key: "udp", Value: true},
	}

	switch n.PluginName {
	case "":
	case "simple-obfs", "obfs-local":
		mode := n.opt("obfs")
		if mode == "" {
			return model.Endpoint{}, errors.New("simple-obfs/obfs-local 缺少必需选项 obfs=<mode>")
		}
		opts := map[string]any{"mode": mode}
		if host := n.opt("obfs-host"); host != "" {
			opts["host"] = host
		}
		attrs = append(attrs, model.Attr{Key: "plugin", Value: "obfs"}, model.Attr{Key: "plugin-opts", Value: opts})
	case "v2ray-plugin":
		opts := map[string]any{"mode": "websocket"}
		if host := n.opt("host"); host != "" {
			opts["host"] = host
		}
		if path := n.opt("path"); path != "" {
			opts["path"] = path
		}
		for _, o := range n.PluginOpts {
			if strings.TrimSpace(o.Key) == "tls" && strings.TrimSpace(o.Value) == "" {
				opts["tls"] = true
			}
		}
		attrs = append(attrs, model.Attr{Key: "plugin", Value: "v2ray-plugin"}, model.Attr{Key: "plugin-opts", Value: opts})
	default:
		return model.Endpoint{}, fmt.Errorf("不支持的 SS plugin：%s", n.PluginName)
	}

	name := n.Name
	if name == "" {
		name = fmt.Sprintf("%s:%d", n.Server, n.Port)
	}
	return model.Endpoint{Name: name, Attrs: attrs}, nil
}
