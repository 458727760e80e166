// Package classify sorts endpoint names into capability classes and
// priority-ordered country buckets. All predicates are pure; a *Patterns is
// immutable once built and safe for concurrent use.
package classify

import (
	"regexp"
	"sync"

	"github.com/John-Robertt/mihomo-override/internal/catalog"
	"github.com/John-Robertt/mihomo-override/internal/model"
)

// Pattern family sources, without the case-insensitive flag.
const (
	LandingSource      = `家宽|家庭|家庭宽带|商宽|商业宽带|星链|Starlink|落地|Home|Residential|Broadband|Landing`
	HighSpeedSource    = `高速专线|专线|GIA|CMI|9929|CN2`
	LowCostSource      = `0\.[0-5]|低倍率|省流|大流量|实验性`
	UltraLowCostSource = `0\.01`
)

// Tag is a bit set of capability classes. Classes overlap.
type Tag uint8

const (
	TagLanding Tag = 1 << iota
	TagHighSpeed
	TagLowCost
	TagUltraLowCost
)

// Has reports whether all bits of o are set in t.
func (t Tag) Has(o Tag) bool { return t&o == o }

// Special reports whether t carries Landing, HighSpeed or LowCost.
func (t Tag) Special() bool { return t&(TagLanding|TagHighSpeed|TagLowCost) != 0 }

// Bucket is the number of endpoints whose first matching country is Country.
type Bucket struct {
	Country string
	Count   int
}

// Exclusion selects which endpoints a bucket pass skips.
type Exclusion int

const (
	// ExcludeNone counts every endpoint.
	ExcludeNone Exclusion = iota
	// ExcludeLanding skips landing endpoints (the raw bucket).
	ExcludeLanding
	// ExcludeSpecial skips every special endpoint (the threshold bucket).
	ExcludeSpecial
)

// Capabilities records which capability classes occur anywhere in an
// endpoint set. Each field gates both a capability group and every list
// entry that references it.
type Capabilities struct {
	Landing      bool
	HighSpeed    bool
	LowCost      bool
	UltraLowCost bool
}

type countryPattern struct {
	name string
	re   *regexp.Regexp
}

// Patterns holds the compiled pattern families and the ordered country
// table.
type Patterns struct {
	landing      *regexp.Regexp
	highSpeed    *regexp.Regexp
	lowCost      *regexp.Regexp
	ultraLowCost *regexp.Regexp
	countries    []countryPattern
}

var (
	defaultOnce     sync.Once
	defaultPatterns *Patterns
)

// Default returns the patterns built from the fixed families and
// catalog.Countries. It is compiled on first use and shared afterwards.
func Default() *Patterns {
	defaultOnce.Do(func() {
		defaultPatterns = New(catalog.Countries())
	})
	return defaultPatterns
}

// New compiles the pattern families together with the given country table.
// Country patterns are matched case-insensitively in slice order. It panics
// on an invalid pattern, as the tables are compiled-in constants.
func New(countries []catalog.Country) *Patterns {
	p := &Patterns{
		landing:      mustCompileFold(LandingSource),
		highSpeed:    mustCompileFold(HighSpeedSource),
		lowCost:      mustCompileFold(LowCostSource),
		ultraLowCost: mustCompileFold(UltraLowCostSource),
		countries:    make([]countryPattern, 0, len(countries)),
	}
	for _, c := range countries {
		p.countries = append(p.countries, countryPattern{name: c.Name, re: mustCompileFold(c.Pattern)})
	}
	return p
}

func mustCompileFold(src string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + src)
}

// Tags classifies one name.
func (p *Patterns) Tags(name string) Tag {
	var t Tag
	if p.landing.MatchString(name) {
		t |= TagLanding
	}
	if p.highSpeed.MatchString(name) {
		t |= TagHighSpeed
	}
	if p.lowCost.MatchString(name) {
		t |= TagLowCost
	}
	if p.ultraLowCost.MatchString(name) {
		t |= TagUltraLowCost
	}
	return t
}

// IsSpecial reports whether name matches the Landing, HighSpeed or LowCost
// family. UltraLowCost alone does not make a name special.
func (p *Patterns) IsSpecial(name string) bool {
	return p.landing.MatchString(name) || p.highSpeed.MatchString(name) || p.lowCost.MatchString(name)
}

// Country returns the first country, in table order, whose pattern matches
// name.
func (p *Patterns) Country(name string) (string, bool) {
	for _, c := range p.countries {
		if c.re.MatchString(name) {
			return c.name, true
		}
	}
	return "", false
}

func (p *Patterns) excluded(name string, ex Exclusion) bool {
	switch ex {
	case ExcludeLanding:
		return p.landing.MatchString(name)
	case ExcludeSpecial:
		return p.IsSpecial(name)
	default:
		return false
	}
}

// Buckets counts the endpoints not skipped by ex per first-matching
// country. The result follows the country table order and omits countries
// with no match.
func (p *Patterns) Buckets(endpoints []model.Endpoint, ex Exclusion) []Bucket {
	counts := make([]int, len(p.countries))
	for _, e := range endpoints {
		if p.excluded(e.Name, ex) {
			continue
		}
		for i, c := range p.countries {
			if c.re.MatchString(e.Name) {
				counts[i]++
				break
			}
		}
	}
	var out []Bucket
	for i, n := range counts {
		if n > 0 {
			out = append(out, Bucket{Country: p.countries[i].name, Count: n})
		}
	}
	return out
}

// Members returns, in input order, the names of endpoints that are not
// special and whose first matching country is country.
func (p *Patterns) Members(endpoints []model.Endpoint, country string) []string {
	var out []string
	for _, e := range endpoints {
		if p.IsSpecial(e.Name) {
			continue
		}
		if c, ok := p.Country(e.Name); ok && c == country {
			out = append(out, e.Name)
		}
	}
	return out
}

// Detect reports which capability classes occur in endpoints.
func (p *Patterns) Detect(endpoints []model.Endpoint) Capabilities {
	var caps Capabilities
	for _, e := range endpoints {
		t := p.Tags(e.Name)
		caps.Landing = caps.Landing || t.Has(TagLanding)
		caps.HighSpeed = caps.HighSpeed || t.Has(TagHighSpeed)
		caps.LowCost = caps.LowCost || t.Has(TagLowCost)
		caps.UltraLowCost = caps.UltraLowCost || t.Has(TagUltraLowCost)
	}
	return caps
}
