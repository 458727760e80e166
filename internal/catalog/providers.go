package catalog

import "github.com/John-Robertt/mihomo-override/internal/model"

const (
	providerInterval = 86400
	metaGeo          = "https://raw.githubusercontent.com/MetaCubeX/meta-rules-dat/"
	lanlanRules      = "https://raw.githubusercontent.com/Lanlan13-14/Rules/refs/heads/main/rules/"
)

func domainSet(name, url string) model.RuleProvider {
	return model.RuleProvider{Name: name, Type: "http", Behavior: "domain", Format: "mrs", IntervalSec: providerInterval, URL: url}
}

func ipSet(name, url string) model.RuleProvider {
	return model.RuleProvider{Name: name, Type: "http", Behavior: "ipcidr", Format: "mrs", IntervalSec: providerInterval, URL: url}
}

var ruleProviders = []model.RuleProvider{
	domainSet("banAd_domain", lanlanRules + "Domain/banAd_mini.mrs"),
	domainSet("private_domain", metaGeo + "meta/geo/geosite/private.mrs"),
	domainSet("bank_cn_domain", metaGeo + "refs/heads/meta/geo/geosite/category-bank-cn.mrs"),
	domainSet("xiaomi_domain", metaGeo + "refs/heads/meta/geo/geosite/xiaomi.mrs"),
	domainSet("biliintl_domain", metaGeo + "refs/heads/meta/geo/geosite/bilibili%40!cn.mrs"),
	domainSet("bilibili_domain", metaGeo + "refs/heads/meta/geo/geosite/bilibili.mrs"),
	domainSet("bahamut_domain", metaGeo + "refs/heads/meta/geo/geosite/bahamut.mrs"),
	domainSet("spotify_domain", metaGeo + "refs/heads/meta/geo/geosite/spotify.mrs"),
	domainSet("steam_cn_domain", metaGeo + "refs/heads/meta/geo/geosite/steam%40cn.mrs"),
	domainSet("steamcdn_domain", lanlanRules + "Domain/Steam-domain.mrs"),
	domainSet("steam_domain", metaGeo + "refs/heads/meta/geo/geosite/steam.mrs"),
	domainSet("ai!cn_domain", "https://github.com/MetaCubeX/meta-rules-dat/raw/refs/heads/meta/geo/geosite/category-ai-!cn.mrs"),
	domainSet("openai_domain", metaGeo + "refs/heads/meta/geo/geosite/openai.mrs"),
	domainSet("youtube_domain", metaGeo + "meta/geo/geosite/youtube.mrs"),
	domainSet("google_domain", lanlanRules + "Domain/google.mrs"),
	domainSet("github_domain", metaGeo + "meta/geo/geosite/github.mrs"),
	domainSet("telegram_domain", metaGeo + "meta/geo/geosite/telegram.mrs"),
	domainSet("netflix_domain", metaGeo + "meta/geo/geosite/netflix.mrs"),
	domainSet("paypal_domain", metaGeo + "meta/geo/geosite/paypal.mrs"),
	domainSet("onedrive_domain", metaGeo + "meta/geo/geosite/onedrive.mrs"),
	domainSet("microsoft_domain", metaGeo + "meta/geo/geosite/microsoft.mrs"),
	domainSet("apple_firmware_domain", lanlanRules + "Domain/applefirmware.mrs"),
	domainSet("apple_domain", metaGeo + "meta/geo/geosite/apple.mrs"),
	domainSet("speedtest_domain", metaGeo + "meta/geo/geosite/ookla-speedtest.mrs"),
	domainSet("tiktok_domain", metaGeo + "meta/geo/geosite/tiktok.mrs"),
	domainSet("gfw_domain", metaGeo + "meta/geo/geosite/gfw.mrs"),
	domainSet("geolocation-!cn", metaGeo + "meta/geo/geosite/geolocation-!cn.mrs"),
	domainSet("cn_domain", metaGeo + "meta/geo/geosite/cn.mrs"),
	domainSet("media_cn_domain", metaGeo + "refs/heads/meta/geo/geosite/category-media-cn.mrs"),
	domainSet("media!cn_domain", metaGeo + "refs/heads/meta/geo/geosite/category-social-media-!cn.mrs"),
	domainSet("Cloudflare_domain", metaGeo + "refs/heads/meta/geo/geosite/cloudflare.mrs"),
	domainSet("gitbook_domain", metaGeo + "refs/heads/meta/geo/geosite/gitbook.mrs"),
	domainSet("disney_domain", metaGeo + "refs/heads/meta/geo/geosite/disney.mrs"),
	domainSet("hbo_domain", metaGeo + "refs/heads/meta/geo/geosite/hbo.mrs"),
	domainSet("primevideo_domain", metaGeo + "refs/heads/meta/geo/geosite/primevideo.mrs"),
	domainSet("NetEaseMusic_domain", lanlanRules + "Domain/NetEaseMusic-domain.mrs"),
	domainSet("Amazon_domain", metaGeo + "refs/heads/meta/geo/geosite/amazon.mrs"),
	domainSet("Shopee_domain", metaGeo + "refs/heads/meta/geo/geosite/shopee.mrs"),
	domainSet("ebay_domain", metaGeo + "refs/heads/meta/geo/geosite/ebay.mrs"),
	domainSet("appleTV_domain", lanlanRules + "Domain/appletv.mrs"),
	domainSet("Epic_domain", metaGeo + "refs/heads/meta/geo/geosite/epicgames.mrs"),
	domainSet("EA_domain", metaGeo + "refs/heads/meta/geo/geosite/ea.mrs"),
	domainSet("Blizzard_domain", metaGeo + "refs/heads/meta/geo/geosite/blizzard.mrs"),
	domainSet("UBI_domain", lanlanRules + "Domain/ubi.mrs"),
	domainSet("Sony_domain", metaGeo + "refs/heads/meta/geo/geosite/sony.mrs"),
	domainSet("Nintendo_domain", metaGeo + "refs/heads/meta/geo/geosite/nintendo.mrs"),
	domainSet("facebook_domain", metaGeo + "refs/heads/meta/geo/geosite/facebook.mrs"),
	domainSet("whatsapp_domain", metaGeo + "refs/heads/meta/geo/geosite/whatsapp.mrs"),
	domainSet("instagram_domain", metaGeo + "refs/heads/meta/geo/geosite/instagram.mrs"),
	domainSet("threads_domain", metaGeo + "refs/heads/meta/geo/geosite/threads.mrs"),
	domainSet("meta_domain", metaGeo + "refs/heads/meta/geo/geosite/meta.mrs"),
	domainSet("Wise_domain", metaGeo + "refs/heads/meta/geo/geosite/wise.mrs"),
	domainSet("ifast_domain", metaGeo + "refs/heads/meta/geo/geosite/ifast.mrs"),
	domainSet("line_domain", metaGeo + "refs/heads/meta/geo/geosite/line.mrs"),
	domainSet("talkatone_domain", lanlanRules + "Domain/Talkatone-domain.mrs"),
	domainSet("Shopify_domain", metaGeo + "refs/heads/meta/geo/geosite/shopify.mrs"),
	domainSet("signal_domain", metaGeo + "refs/heads/meta/geo/geosite/signal.mrs"),
	domainSet("wechat_domain", lanlanRules + "Domain/WeChat.mrs"),
	domainSet("proxy_domain", lanlanRules + "Domain/proxy.mrs"),
	domainSet("direct_domain", lanlanRules + "Domain/direct.mrs"),
	domainSet("apple_cn_domain", metaGeo + "refs/heads/meta/geo/geosite/apple%40cn.mrs"),
	domainSet("alibaba_domain", metaGeo + "refs/heads/meta/geo/geosite/alibaba.mrs"),
	domainSet("ai_cn_domain", metaGeo + "refs/heads/meta/geo/geosite/category-ai-cn.mrs"),
	domainSet("discord_domain", metaGeo + "refs/heads/meta/geo/geosite/discord.mrs"),
	domainSet("fcm_domain", metaGeo + "refs/heads/meta/geo/geosite/googlefcm.mrs"),
	domainSet("emby_domain", lanlanRules + "Domain/emby.mrs"),
	domainSet("pt_cn_domain", metaGeo + "refs/heads/meta/geo/geosite/category-pt.mrs"),
	domainSet("public-tracker_domain", metaGeo + "refs/heads/meta/geo/geosite/category-public-tracker.mrs"),
	domainSet("115_domain", metaGeo + "refs/heads/meta/geo/geosite/115.mrs"),
	domainSet("aliyun_domain", metaGeo + "refs/heads/meta/geo/geosite/aliyun.mrs"),
	domainSet("twitch_domain", metaGeo + "refs/heads/meta/geo/geosite/twitch.mrs"),
	domainSet("porn_domain", metaGeo + "refs/heads/meta/geo/geosite/category-porn.mrs"),
	domainSet("iptv_domain", lanlanRules + "Domain/iptv.mrs"),
	domainSet("googlevpn_domain", lanlanRules + "Domain/googleVPN.mrs"),
	domainSet("ai_domain", lanlanRules + "Domain/ai.mrs"),
	domainSet("TVB_domain", lanlanRules + "Domain/tvb.mrs"),
	domainSet("game_cn_domain", metaGeo + "refs/heads/meta/geo/geosite/category-games%40cn.mrs"),
	domainSet("fakeip_filter_domain", lanlanRules + "Domain/fakeip-filter.mrs"),
	ipSet("bilibili_ip", metaGeo + "refs/heads/meta/geo-lite/geoip/bilibili.mrs"),
	ipSet("cn_ip", metaGeo + "meta/geo/geoip/cn.mrs"),
	ipSet("google_ip", metaGeo + "meta/geo/geoip/google.mrs"),
	ipSet("telegram_ip", metaGeo + "meta/geo/geoip/telegram.mrs"),
	ipSet("netflix_ip", metaGeo + "meta/geo/geoip/netflix.mrs"),
	ipSet("Amazon_ip", lanlanRules + "IP/amazon-ip.mrs"),
	ipSet("facebook_ip", metaGeo + "refs/heads/meta/geo/geoip/facebook.mrs"),
	ipSet("twitter_ip", metaGeo + "refs/heads/meta/geo/geoip/twitter.mrs"),
	ipSet("private_ip", metaGeo + "refs/heads/meta/geo/geoip/private.mrs"),
	ipSet("talkatone_ip", lanlanRules + "IP/Talkatone-ip.mrs"),
	ipSet("steamcdn_ip", lanlanRules + "IP/steamCDN-ip.mrs"),
	ipSet("NetEaseMusic_ip", lanlanRules + "IP/NetEaseMusic-ip.mrs"),
	ipSet("emby_ip", lanlanRules + "IP/emby-ip.mrs"),
	ipSet("google_asn_cn", lanlanRules + "IP/AS24424.mrs"),
	ipSet("discord_asn", lanlanRules + "IP/AS49544.mrs"),
	ipSet("wechat_asn", lanlanRules + "IP/AS132203.mrs"),
}

// RuleProviders returns the rule-provider catalogue in declared order.
func RuleProviders() []model.RuleProvider {
	return append([]model.RuleProvider(nil), ruleProviders...)
}

// HasRuleProvider reports whether name is part of the catalogue.
func HasRuleProvider(name string) bool {
	for _, p := range ruleProviders {
		if p.Name == name {
			return true
		}
	}
	return false
}
