package render

import (
	"github.com/John-Robertt/mihomo-override/internal/model"
	"github.com/John-Robertt/mihomo-override/internal/rules"
)

// documentTree lays out doc in client key order: transport settings first
// (when present), then proxies, groups, providers, rules, sniffer, dns and
// geo data.
func documentTree(doc *model.Document) omap {
	var m omap
	if g := doc.General; g != nil {
		m = m.set("mixed-port", g.MixedPort).
			set("redir-port", g.RedirPort).
			set("tproxy-port", g.TProxyPort).
			set("routing-mark", g.RoutingMark).
			set("allow-lan", g.AllowLAN).
			set("ipv6", g.IPv6).
			set("mode", g.Mode).
			set("unified-delay", g.UnifiedDelay).
			set("tcp-concurrent", g.TCPConcurrent).
			set("find-process-mode", g.FindProcessMode).
			set("log-level", g.LogLevel).
			set("geodata-loader", g.GeodataLoader).
			set("external-controller", g.ExternalController).
			set("disable-keep-alive", g.DisableKeepAlive).
			set("profile", omap{}.set("store-selected", g.StoreSelected))
	}

	proxies := doc.Proxies
	if proxies == nil {
		proxies = []model.Endpoint{}
	}
	groups := make([]omap, 0, len(doc.Groups))
	for _, g := range doc.Groups {
		groups = append(groups, groupTree(g))
	}
	providers := omap{}
	for _, p := range doc.RuleProviders {
		providers = providers.set(p.Name, omap{}.
			set("type", p.Type).
			set("behavior", p.Behavior).
			set("format", p.Format).
			set("interval", p.IntervalSec).
			set("url", p.URL))
	}

	return m.set("proxies", proxies).
		set("proxy-groups", groups).
		set("rule-providers", providers).
		set("rules", rules.FormatAll(doc.Rules)).
		set("sniffer", snifferTree(doc.Sniffer)).
		set("dns", dnsTree(doc.DNS)).
		set("geodata-mode", doc.GeodataMode).
		set("geox-url", omap{}.
			set("geoip", doc.GeoX.GeoIP).
			set("geosite", doc.GeoX.GeoSite).
			set("mmdb", doc.GeoX.MMDB).
			set("asn", doc.GeoX.ASN))
}

func groupTree(g model.Group) omap {
	m := omap{}.set("name", g.Name).set("type", string(g.Kind))
	if g.Icon != "" {
		m = m.set("icon", g.Icon)
	}
	// Filtered groups get their members from the client; a static group
	// always carries the key, even when empty.
	if len(g.Members) > 0 || g.Filter == nil {
		members := g.Members
		if members == nil {
			members = []string{}
		}
		m = m.set("proxies", members)
	}
	if f := g.Filter; f != nil {
		if f.IncludeAll {
			m = m.set("include-all", true)
		}
		if f.Pattern != "" {
			m = m.set("filter", f.Pattern)
		}
		if f.ExcludePattern != "" {
			m = m.set("exclude-filter", f.ExcludePattern)
		}
	}
	if g.Strategy != "" {
		m = m.set("strategy", g.Strategy)
	}
	if p := g.Probe; p != nil {
		m = m.set("url", p.URL)
		if p.IntervalSec > 0 {
			m = m.set("interval", p.IntervalSec).
				set("tolerance", p.ToleranceMS).
				set("lazy", p.Lazy)
		}
	}
	return m
}

func snifferTree(s model.Sniffer) omap {
	sniff := omap{}
	for _, p := range s.Sniff {
		sniff = sniff.set(p.Name, omap{}.set("ports", p.Ports))
	}
	return omap{}.
		set("enable", s.Enable).
		set("force-dns-mapping", s.ForceDNSMapping).
		set("override-destination", s.OverrideDestination).
		set("sniff", sniff).
		set("skip-domain", s.SkipDomain)
}

func dnsTree(d model.DNS) omap {
	m := omap{}.
		set("enable", d.Enable).
		set("listen", d.Listen).
		set("ipv6", d.IPv6).
		set("prefer-h3", d.PreferH3).
		set("respect-rules", d.RespectRules).
		set("enhanced-mode", d.EnhancedMode)
	if d.FakeIPRange != "" {
		m = m.set("fake-ip-range", d.FakeIPRange)
	}
	if d.FakeIPFilterMode != "" {
		m = m.set("fake-ip-filter-mode", d.FakeIPFilterMode)
	}
	if len(d.FakeIPFilter) > 0 {
		m = m.set("fake-ip-filter", d.FakeIPFilter)
	}
	return m.set("default-nameserver", d.DefaultNameserver).
		set("nameserver", d.Nameserver).
		set("proxy-server-nameserver", d.ProxyServerNameserver).
		set("direct-nameserver", d.DirectNameserver)
}
