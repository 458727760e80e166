package compiler

import (
	"slices"
	"strings"

	"github.com/John-Robertt/mihomo-override/internal/flags"
	"github.com/John-Robertt/mihomo-override/internal/model"
)

const (
	dnsListen       = ":1053"
	fakeIPRange     = "28.0.0.1/8"
	fakeIPBlacklist = "blacklist"
)

var (
	defaultNameservers  = []string{"119.29.29.29", "180.184.1.1"}
	foreignNameservers  = []string{"https://dns.google/dns-query", "https://dns.cloudflare.com/dns-query"}
	domesticNameservers = []string{"https://doh.pub/dns-query", "https://223.5.5.5/dns-query#h3=true"}

	// Domains in these rule-sets get real addresses even in fake-ip mode.
	fakeIPExemptSets = []string{
		"fakeip_filter_domain", "game_cn_domain", "bank_cn_domain", "wechat_domain",
		"ai_cn_domain", "NetEaseMusic_domain", "fcm_domain", "alibaba_domain",
		"media_cn_domain", "xiaomi_domain", "steam_cn_domain", "pt_cn_domain",
		"public-tracker_domain", "115_domain", "aliyun_domain", "direct_domain",
		"apple_cn_domain", "apple_firmware_domain", "iptv_domain", "private_domain",
		"cn_domain",
	}
)

// BuildDNS returns the redir-host block, or the fake-ip block when
// FakeIPEnabled is set.
func BuildDNS(f flags.Set) model.DNS {
	d := model.DNS{
		Enable:                true,
		Listen:                dnsListen,
		IPv6:                  f.IPv6Enabled,
		PreferH3:              false,
		RespectRules:          true,
		EnhancedMode:          "redir-host",
		DefaultNameserver:     slices.Clone(defaultNameservers),
		Nameserver:            slices.Clone(foreignNameservers),
		ProxyServerNameserver: slices.Clone(domesticNameservers),
		DirectNameserver:      slices.Clone(domesticNameservers),
	}
	if f.FakeIPEnabled {
		d.EnhancedMode = "fake-ip"
		d.FakeIPRange = fakeIPRange
		d.FakeIPFilterMode = fakeIPBlacklist
		d.FakeIPFilter = []string{"rule-set:" + strings.Join(fakeIPExemptSets, ",")}
	}
	return d
}
