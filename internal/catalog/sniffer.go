package catalog

import "github.com/John-Robertt/mihomo-override/internal/model"

// Sniffer returns the fixed sniffer block.
func Sniffer() model.Sniffer {
	return model.Sniffer{
		Enable:              true,
		ForceDNSMapping:     true,
		OverrideDestination: false,
		Sniff: []model.SniffProtocol{
			{Name: "TLS", Ports: []int{443, 8443}},
			{Name: "HTTP", Ports: []int{80, 8080, 8880}},
			{Name: "QUIC", Ports: []int{443, 8443}},
		},
		SkipDomain: []string{"Mijia Cloud", "dlg.io.mi.com", "+.push.apple.com"},
	}
}

// GeoX returns the geo-data download locations.
func GeoX() model.GeoX {
	return model.GeoX{
		GeoIP:   "https://cdn.jsdelivr.net/gh/Loyalsoldier/v2ray-rules-dat@release/geoip.dat",
		GeoSite: "https://cdn.jsdelivr.net/gh/Loyalsoldier/v2ray-rules-dat@release/geosite.dat",
		MMDB:    "https://cdn.jsdelivr.net/gh/Loyalsoldier/geoip@release/Country.mmdb",
		ASN:     "https://cdn.jsdelivr.net/gh/Loyalsoldier/geoip@release/GeoLite2-ASN.mmdb",
	}
}
