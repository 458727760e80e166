// Package catalog holds the fixed lookup tables the compiler consumes by
// name: group names and icons, the country table, the rule-provider
// catalogue, sniffer settings and geo-data URLs.
package catalog

import (
	"maps"
	"slices"
)

// Group names shared by the candidate lists, the group assembler and the
// rule table.
const (
	GroupSelect       = "选择代理"
	GroupAutoSelect   = "自动选择"
	GroupManual       = "手动选择"
	GroupFallback     = "故障转移"
	GroupDirect       = "直连"
	GroupLanding      = "落地节点"
	GroupLowCost      = "低倍率节点"
	GroupUltraLowCost = "超低倍率节点"
	GroupHighSpeed    = "高速专线"
	GroupFrontProxy   = "前置代理"
	GroupGlobal       = "GLOBAL"

	GroupAI             = "AI"
	GroupYouTube        = "YouTube"
	GroupBilibili       = "Bilibili"
	GroupStreaming      = "流媒体"
	GroupSocial         = "通讯社交"
	GroupTech           = "科技服务"
	GroupPayments       = "支付购物"
	GroupGaming         = "游戏娱乐"
	GroupSSH            = "SSH(22端口)"
	GroupStatic         = "静态资源"
	GroupStaticFailover = "静态资源故障转移"
	GroupAdBlock        = "广告拦截"
)

// CountryGroupSuffix is appended to a country name to form its group name.
const CountryGroupSuffix = "节点"

// CountryGroupName returns the group name for country.
func CountryGroupName(country string) string {
	return country + CountryGroupSuffix
}

// GroupNames lists every name the assembler can give a group, including a
// group for each country in the table. Sorted.
func GroupNames() []string {
	names := slices.Collect(maps.Keys(groupIcons))
	for _, c := range countries {
		names = append(names, CountryGroupName(c.Name))
	}
	slices.Sort(names)
	return names
}

// ProbeURL is the health-check target of every probed group.
const ProbeURL = "https://cp.cloudflare.com/generate_204"

const iconBase = "https://cdn.jsdelivr.net/gh/Koolson/Qure@master/IconSet/Color/"

// IconGlobal is used for groups without a dedicated icon.
const IconGlobal = iconBase + "Global.png"

var groupIcons = map[string]string{
	GroupSelect:         iconBase + "Proxy.png",
	GroupAI:             iconBase + "ChatGPT.png",
	GroupYouTube:        iconBase + "YouTube.png",
	GroupBilibili:       iconBase + "bilibili.png",
	GroupStreaming:      iconBase + "Streaming.png",
	GroupSocial:         iconBase + "Telegram.png",
	GroupTech:           iconBase + "Google.png",
	GroupPayments:       iconBase + "PayPal.png",
	GroupGaming:         iconBase + "Game.png",
	GroupSSH:            iconBase + "Server.png",
	GroupStatic:         iconBase + "Cloudflare.png",
	GroupAdBlock:        iconBase + "AdBlack.png",
	GroupFallback:       iconBase + "Bypass.png",
	GroupStaticFailover: iconBase + "Bypass.png",
	GroupAutoSelect:     IconGlobal,
	GroupFrontProxy:     iconBase + "Area.png",
	GroupLanding:        iconBase + "Airport.png",
	GroupHighSpeed:      iconBase + "Rocket.png",
	GroupLowCost:        iconBase + "Lab.png",
	GroupUltraLowCost:   iconBase + "Lab.png",
	GroupManual:         iconBase + "Static.png",
	GroupDirect:         iconBase + "Direct.png",
	GroupGlobal:         IconGlobal,
}

// GroupIcon returns the icon URL of a fixed group, or IconGlobal.
func GroupIcon(name string) string {
	if icon, ok := groupIcons[name]; ok {
		return icon
	}
	return IconGlobal
}
