package model

type GroupKind string

const (
	KindSelect      GroupKind = "select"
	KindURLTest     GroupKind = "url-test"
	KindFallback    GroupKind = "fallback"
	KindLoadBalance GroupKind = "load-balance"
)

// Terminal actions that may appear in member lists and rule targets.
const (
	ActionDirect     = "DIRECT"
	ActionReject     = "REJECT"
	ActionRejectDrop = "REJECT-DROP"
)

type Group struct {
	Name string
	Icon string
	Kind GroupKind

	// Members are group names, endpoint names or terminal actions, in
	// priority order.
	Members []string

	// Probe is set for health-checked kinds.
	Probe *Probe

	// Filter makes the client compute extra members from the full endpoint
	// universe at load time.
	Filter *Filter

	// Strategy is only meaningful for load-balance groups.
	Strategy string
}

type Probe struct {
	URL string

	// IntervalSec == 0 means only the URL is emitted.
	IntervalSec int
	ToleranceMS int
	Lazy        bool
}

type Filter struct {
	IncludeAll     bool
	Pattern        string
	ExcludePattern string
}
