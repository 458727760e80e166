// Package compiler assembles the mihomo document from classified endpoints
// and a resolved flag set. Everything here is pure: no I/O and no shared
// mutable state, so identical inputs always yield identical documents.
package compiler

import (
	"github.com/John-Robertt/mihomo-override/internal/catalog"
	"github.com/John-Robertt/mihomo-override/internal/classify"
	"github.com/John-Robertt/mihomo-override/internal/flags"
	"github.com/John-Robertt/mihomo-override/internal/model"
)

// Result is the composed document plus the classification that shaped it.
type Result struct {
	Document     model.Document
	Capabilities classify.Capabilities

	// RawCountries counts every non-landing endpoint. It drives nothing and
	// is kept for diagnostics.
	RawCountries []classify.Bucket
	// Countries is the threshold bucket over non-special endpoints.
	Countries []classify.Bucket
	// CountryGroups are the countries that received a group.
	CountryGroups []CountryGroup
}

// Compile builds the document with the default patterns.
func Compile(endpoints []model.Endpoint, f flags.Set) *Result {
	return CompileWith(classify.Default(), endpoints, f)
}

// CompileWith is Compile with explicit patterns.
func CompileWith(p *classify.Patterns, endpoints []model.Endpoint, f flags.Set) *Result {
	caps := p.Detect(endpoints)

	var countries []CountryGroup
	if f.RegionsEnabled {
		countries = CountryGroups(p, endpoints, f.CountryThreshold)
	}

	groups := AssembleGroups(GroupInput{
		Caps:        caps,
		Lists:       BuildLists(caps),
		Countries:   countries,
		LoadBalance: f.LoadBalance,
	})

	doc := model.Document{
		Proxies:       append([]model.Endpoint(nil), endpoints...),
		Groups:        groups,
		RuleProviders: catalog.RuleProviders(),
		Rules:         BuildRules(f.QUICEnabled),
		Sniffer:       catalog.Sniffer(),
		DNS:           BuildDNS(f),
		GeodataMode:   true,
		GeoX:          catalog.GeoX(),
	}
	if f.FullConfig {
		doc.General = general(f)
	}

	return &Result{
		Document:      doc,
		Capabilities:  caps,
		RawCountries:  p.Buckets(endpoints, classify.ExcludeLanding),
		Countries:     p.Buckets(endpoints, classify.ExcludeSpecial),
		CountryGroups: countries,
	}
}

func general(f flags.Set) *model.General {
	return &model.General{
		MixedPort:          7890,
		RedirPort:          7892,
		TProxyPort:         7893,
		RoutingMark:        7894,
		AllowLAN:           true,
		IPv6:               f.IPv6Enabled,
		Mode:               "rule",
		UnifiedDelay:       true,
		TCPConcurrent:      true,
		FindProcessMode:    "off",
		LogLevel:           "info",
		GeodataLoader:      "standard",
		ExternalController: ":9999",
		DisableKeepAlive:   !f.KeepAliveEnabled,
		StoreSelected:      true,
	}
}
