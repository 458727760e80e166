package model

// Document is the complete mihomo configuration produced for one request.
type Document struct {
	// General is only set when the full transport-level block is requested.
	General *General

	Proxies       []Endpoint
	Groups        []Group
	RuleProviders []RuleProvider
	Rules         []Rule
	Sniffer       Sniffer
	DNS           DNS
	GeodataMode   bool
	GeoX          GeoX
}

type General struct {
	MixedPort          int
	RedirPort          int
	TProxyPort         int
	RoutingMark        int
	AllowLAN           bool
	IPv6               bool
	Mode               string
	UnifiedDelay       bool
	TCPConcurrent      bool
	FindProcessMode    string
	LogLevel           string
	GeodataLoader      string
	ExternalController string
	DisableKeepAlive   bool
	StoreSelected      bool
}

type RuleProvider struct {
	Name        string
	Type        string // "http"
	Behavior    string // "domain" | "ipcidr" | "classical"
	Format      string // "mrs" | "yaml" | "text"
	IntervalSec int
	URL         string
}

type Sniffer struct {
	Enable              bool
	ForceDNSMapping     bool
	OverrideDestination bool
	Sniff               []SniffProtocol
	SkipDomain          []string
}

type SniffProtocol struct {
	Name  string // "TLS" | "HTTP" | "QUIC"
	Ports []int
}

type DNS struct {
	Enable       bool
	Listen       string
	IPv6         bool
	PreferH3     bool
	RespectRules bool
	EnhancedMode string // "redir-host" | "fake-ip"

	// fake-ip only
	FakeIPRange      string
	FakeIPFilterMode string
	FakeIPFilter     []string

	DefaultNameserver     []string
	Nameserver            []string
	ProxyServerNameserver []string
	DirectNameserver      []string
}

type GeoX struct {
	GeoIP   string
	GeoSite string
	MMDB    string
	ASN     string
}
