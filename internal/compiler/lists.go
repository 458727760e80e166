package compiler

import (
	"slices"

	"github.com/John-Robertt/mihomo-override/internal/catalog"
	"github.com/John-Robertt/mihomo-override/internal/classify"
)

// Lists are the base candidate lists shared by several groups. Order is
// client-side priority, not just membership.
type Lists struct {
	Selector      []string
	Proxies       []string
	ProxiesDirect []string
	Fallback      []string
}

// nameList is an appending builder: entries whose gate is false are never
// stored.
type nameList []string

func (l nameList) add(names ...string) nameList {
	return append(l, names...)
}

func (l nameList) addIf(gate bool, name string) nameList {
	if !gate {
		return l
	}
	return append(l, name)
}

func (l nameList) without(names ...string) nameList {
	out := make(nameList, 0, len(l))
	for _, n := range l {
		if !slices.Contains(names, n) {
			out = append(out, n)
		}
	}
	return out
}

// BuildLists builds the four base lists for the given capabilities.
func BuildLists(caps classify.Capabilities) Lists {
	return Lists{
		Selector: nameList{}.
			add(catalog.GroupFallback).
			addIf(caps.Landing, catalog.GroupLanding).
			add(catalog.GroupAutoSelect).
			addIf(caps.HighSpeed, catalog.GroupHighSpeed).
			addIf(caps.LowCost, catalog.GroupLowCost).
			add(catalog.GroupManual, catalog.GroupDirect),
		Proxies: nameList{}.
			add(catalog.GroupSelect, catalog.GroupAutoSelect).
			addIf(caps.HighSpeed, catalog.GroupHighSpeed).
			addIf(caps.LowCost, catalog.GroupLowCost).
			add(catalog.GroupManual, catalog.GroupDirect),
		ProxiesDirect: nameList{}.
			add(catalog.GroupDirect, catalog.GroupAutoSelect).
			addIf(caps.HighSpeed, catalog.GroupHighSpeed).
			addIf(caps.LowCost, catalog.GroupLowCost).
			add(catalog.GroupSelect, catalog.GroupManual),
		Fallback: nameList{}.
			addIf(caps.LowCost, catalog.GroupLowCost).
			add(catalog.GroupAutoSelect, catalog.GroupManual, catalog.GroupDirect),
	}
}
