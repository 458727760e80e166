package compiler

import (
	"slices"

	"github.com/John-Robertt/mihomo-override/internal/catalog"
	"github.com/John-Robertt/mihomo-override/internal/classify"
	"github.com/John-Robertt/mihomo-override/internal/model"
)

const (
	standardIntervalSec = 60
	fallbackIntervalSec = 180
	toleranceMS         = 20

	strategyConsistentHashing = "consistent-hashing"
)

func standardProbe() *model.Probe {
	return &model.Probe{URL: catalog.ProbeURL, IntervalSec: standardIntervalSec, ToleranceMS: toleranceMS}
}

func fallbackProbe() *model.Probe {
	return &model.Probe{URL: catalog.ProbeURL, IntervalSec: fallbackIntervalSec, ToleranceMS: toleranceMS}
}

func fold(src string) string { return "(?i)" + src }

// CountryGroup is a country that passed both creation gates.
type CountryGroup struct {
	Country string
	Members []string
}

// Name is the proxy-group name of c.
func (c CountryGroup) Name() string { return catalog.CountryGroupName(c.Country) }

// CountryGroups applies the two-stage gate: a country needs at least
// threshold non-special endpoints in its bucket, and a non-empty member list
// once members are resolved against the whole endpoint set.
func CountryGroups(p *classify.Patterns, endpoints []model.Endpoint, threshold int) []CountryGroup {
	var out []CountryGroup
	for _, b := range p.Buckets(endpoints, classify.ExcludeSpecial) {
		if b.Count < threshold {
			continue
		}
		members := p.Members(endpoints, b.Country)
		if len(members) == 0 {
			continue
		}
		out = append(out, CountryGroup{Country: b.Country, Members: members})
	}
	return out
}

// GroupInput is everything the assembler needs. Caps gates both the
// capability groups and every list entry naming them.
type GroupInput struct {
	Caps        classify.Capabilities
	Lists       Lists
	Countries   []CountryGroup
	LoadBalance bool
}

func (in GroupInput) countryNames() []string {
	out := make([]string, 0, len(in.Countries))
	for _, c := range in.Countries {
		out = append(out, c.Name())
	}
	return out
}

func (in GroupInput) hasCountry(country string) bool {
	return slices.ContainsFunc(in.Countries, func(c CountryGroup) bool { return c.Country == country })
}

// groupBuilder appends groups in structural order; gated groups are only
// appended when their gate holds.
type groupBuilder struct {
	groups []model.Group
}

func (b *groupBuilder) add(g model.Group) {
	if g.Icon == "" {
		g.Icon = catalog.GroupIcon(g.Name)
	}
	b.groups = append(b.groups, g)
}

func (b *groupBuilder) addIf(gate bool, g model.Group) {
	if gate {
		b.add(g)
	}
}

func (b *groupBuilder) names() []string {
	out := make([]string, 0, len(b.groups))
	for _, g := range b.groups {
		out = append(out, g.Name)
	}
	return out
}

func selectGroup(name string, members []string) model.Group {
	return model.Group{Name: name, Kind: model.KindSelect, Members: members}
}

// AssembleGroups builds the full proxy-group hierarchy.
func AssembleGroups(in GroupInput) []model.Group {
	caps, lists := in.Caps, in.Lists
	countries := in.countryNames()

	usName := catalog.CountryGroupName("美国")
	ai := nameList{}.
		addIf(caps.Landing, catalog.GroupLanding).
		addIf(caps.HighSpeed, catalog.GroupHighSpeed).
		addIf(in.hasCountry("美国"), usName).
		add(catalog.GroupManual)

	bilibili := nameList{}.add(catalog.GroupDirect)
	for _, c := range []string{"香港", "澳门", "台湾"} {
		bilibili = bilibili.addIf(in.hasCountry(c), catalog.CountryGroupName(c))
	}

	streaming := nameList{}.
		add(catalog.GroupSelect, catalog.GroupAutoSelect).
		addIf(caps.HighSpeed, catalog.GroupHighSpeed).
		add(catalog.GroupManual)

	functional := nameList{}.
		add(catalog.GroupSelect, catalog.GroupAutoSelect).
		addIf(caps.HighSpeed, catalog.GroupHighSpeed).
		addIf(caps.LowCost, catalog.GroupLowCost).
		add(countries...).
		add(catalog.GroupManual, catalog.GroupDirect)

	var b groupBuilder
	b.add(selectGroup(catalog.GroupSelect, lists.Selector))
	b.add(selectGroup(catalog.GroupAI, ai))
	b.add(selectGroup(catalog.GroupYouTube, nameList(lists.Proxies).without(catalog.GroupDirect)))
	b.add(selectGroup(catalog.GroupBilibili, bilibili))
	b.add(selectGroup(catalog.GroupStreaming, streaming))
	for _, name := range []string{catalog.GroupSocial, catalog.GroupTech, catalog.GroupPayments, catalog.GroupGaming} {
		b.add(selectGroup(name, slices.Clone(functional)))
	}
	b.add(selectGroup(catalog.GroupSSH, slices.Clone(streaming)))
	b.add(selectGroup(catalog.GroupStatic, []string{catalog.GroupStaticFailover, catalog.GroupManual, catalog.GroupDirect}))
	b.add(selectGroup(catalog.GroupAdBlock, []string{model.ActionReject, model.ActionRejectDrop, catalog.GroupDirect}))

	b.add(model.Group{
		Name:    catalog.GroupFallback,
		Kind:    model.KindFallback,
		Members: lists.Fallback,
		Probe:   fallbackProbe(),
	})
	b.add(model.Group{
		Name: catalog.GroupStaticFailover,
		Kind: model.KindFallback,
		Members: nameList{}.
			addIf(caps.UltraLowCost, catalog.GroupUltraLowCost).
			addIf(caps.LowCost, catalog.GroupLowCost).
			add(catalog.GroupAutoSelect),
		Probe: fallbackProbe(),
	})

	auto := model.Group{Name: catalog.GroupAutoSelect, Kind: model.KindLoadBalance, Members: countries}
	if !in.LoadBalance {
		auto.Kind = model.KindURLTest
		auto.Probe = standardProbe()
	}
	b.add(auto)

	for _, c := range in.Countries {
		b.add(model.Group{
			Name:    c.Name(),
			Icon:    catalog.CountryIcon(c.Country),
			Kind:    model.KindURLTest,
			Members: c.Members,
			Probe:   standardProbe(),
		})
	}

	b.addIf(caps.Landing, model.Group{
		Name:    catalog.GroupFrontProxy,
		Kind:    model.KindSelect,
		Members: nameList(lists.Selector).without(catalog.GroupLanding, catalog.GroupFallback),
		Filter:  &model.Filter{IncludeAll: true, ExcludePattern: fold(classify.LandingSource)},
	})
	b.addIf(caps.Landing, model.Group{
		Name:   catalog.GroupLanding,
		Kind:   model.KindSelect,
		Filter: &model.Filter{IncludeAll: true, Pattern: fold(classify.LandingSource)},
	})
	b.addIf(caps.HighSpeed, model.Group{
		Name:   catalog.GroupHighSpeed,
		Kind:   model.KindURLTest,
		Probe:  standardProbe(),
		Filter: &model.Filter{IncludeAll: true, Pattern: fold(classify.HighSpeedSource)},
	})
	b.addIf(caps.LowCost, model.Group{
		Name:     catalog.GroupLowCost,
		Kind:     model.KindLoadBalance,
		Strategy: strategyConsistentHashing,
		Probe:    &model.Probe{URL: catalog.ProbeURL},
		Filter:   &model.Filter{IncludeAll: true, Pattern: fold(classify.LowCostSource)},
	})
	b.addIf(caps.UltraLowCost, model.Group{
		Name:   catalog.GroupUltraLowCost,
		Kind:   model.KindURLTest,
		Probe:  &model.Probe{URL: catalog.ProbeURL},
		Filter: &model.Filter{IncludeAll: true, Pattern: fold(classify.UltraLowCostSource)},
	})

	b.add(model.Group{Name: catalog.GroupManual, Kind: model.KindSelect, Filter: &model.Filter{IncludeAll: true}})
	b.add(selectGroup(catalog.GroupDirect, []string{model.ActionDirect}))

	// GLOBAL lists every group above; it is taken before GLOBAL itself is
	// appended.
	b.add(model.Group{
		Name:    catalog.GroupGlobal,
		Kind:    model.KindSelect,
		Members: b.names(),
		Filter:  &model.Filter{IncludeAll: true},
	})
	return b.groups
}

