package compiler

import (
	"github.com/John-Robertt/mihomo-override/internal/model"
	"github.com/John-Robertt/mihomo-override/internal/rules"
)

// rejectQUIC drops UDP/443 so clients fall back to TCP when the transport
// cannot relay QUIC.
const rejectQUIC = "AND,((DST-PORT,443),(NETWORK,UDP)),REJECT"

// baseRules is evaluated first-match-wins; the order is significant.
var baseRules = rules.MustParse(
	"RULE-SET,banAd_domain,广告拦截",
	"RULE-SET,wechat_domain,直连",
	"RULE-SET,wechat_asn,直连,no-resolve",
	"RULE-SET,speedtest_domain,科技服务",
	"RULE-SET,Cloudflare_domain,选择代理",
	"RULE-SET,Wise_domain,支付购物",
	"RULE-SET,paypal_domain,支付购物",
	"RULE-SET,proxy_domain,选择代理",
	"RULE-SET,ai!cn_domain,AI",
	"RULE-SET,ai_domain,AI",
	"RULE-SET,openai_domain,AI",
	"RULE-SET,biliintl_domain,流媒体",
	"RULE-SET,bilibili_domain,Bilibili",
	"RULE-SET,bilibili_ip,Bilibili,no-resolve",
	"RULE-SET,bahamut_domain,流媒体",
	"RULE-SET,bank_cn_domain,直连",
	"RULE-SET,ai_cn_domain,直连",
	"RULE-SET,direct_domain,直连",
	"RULE-SET,alibaba_domain,直连",
	"RULE-SET,115_domain,直连",
	"RULE-SET,aliyun_domain,直连",
	"RULE-SET,github_domain,科技服务",
	"RULE-SET,gitbook_domain,科技服务",
	"RULE-SET,googlevpn_domain,科技服务",
	"RULE-SET,youtube_domain,YouTube",
	"RULE-SET,fcm_domain,科技服务",
	"RULE-SET,google_domain,科技服务",
	"RULE-SET,google_asn_cn,科技服务,no-resolve",
	"RULE-SET,google_ip,科技服务,no-resolve",
	"RULE-SET,onedrive_domain,科技服务",
	"RULE-SET,microsoft_domain,科技服务",
	"RULE-SET,telegram_domain,通讯社交",
	"RULE-SET,telegram_ip,通讯社交,no-resolve",
	"RULE-SET,line_domain,通讯社交",
	"RULE-SET,talkatone_domain,通讯社交",
	"RULE-SET,talkatone_ip,通讯社交,no-resolve",
	"RULE-SET,discord_domain,通讯社交",
	"RULE-SET,discord_asn,通讯社交,no-resolve",
	"RULE-SET,signal_domain,通讯社交",
	"RULE-SET,iptv_domain,直连",
	"RULE-SET,private_domain,直连",
	"RULE-SET,xiaomi_domain,直连",
	"RULE-SET,steam_cn_domain,直连",
	"RULE-SET,steamcdn_domain,直连",
	"RULE-SET,steamcdn_ip,直连,no-resolve",
	"RULE-SET,NetEaseMusic_domain,直连",
	"RULE-SET,NetEaseMusic_ip,直连,no-resolve",
	"RULE-SET,pt_cn_domain,直连",
	"RULE-SET,public-tracker_domain,直连",
	"RULE-SET,media_cn_domain,直连",
	"RULE-SET,appleTV_domain,流媒体",
	"RULE-SET,apple_cn_domain,直连",
	"RULE-SET,apple_firmware_domain,直连",
	"RULE-SET,apple_domain,直连",
	"RULE-SET,tiktok_domain,流媒体",
	"RULE-SET,netflix_domain,流媒体",
	"RULE-SET,netflix_ip,流媒体,no-resolve",
	"RULE-SET,disney_domain,流媒体",
	"RULE-SET,hbo_domain,流媒体",
	"RULE-SET,primevideo_domain,流媒体",
	"RULE-SET,emby_domain,流媒体",
	"RULE-SET,emby_ip,流媒体,no-resolve",
	"RULE-SET,spotify_domain,流媒体",
	"RULE-SET,facebook_domain,通讯社交",
	"RULE-SET,whatsapp_domain,通讯社交",
	"RULE-SET,instagram_domain,通讯社交",
	"RULE-SET,threads_domain,通讯社交",
	"RULE-SET,meta_domain,通讯社交",
	"RULE-SET,facebook_ip,通讯社交,no-resolve",
	"RULE-SET,twitch_domain,流媒体",
	"RULE-SET,porn_domain,流媒体",
	"RULE-SET,TVB_domain,流媒体",
	"RULE-SET,media!cn_domain,流媒体",
	"RULE-SET,twitter_ip,通讯社交,no-resolve",
	"RULE-SET,steam_domain,游戏娱乐",
	"RULE-SET,Epic_domain,游戏娱乐",
	"RULE-SET,EA_domain,游戏娱乐",
	"RULE-SET,Blizzard_domain,游戏娱乐",
	"RULE-SET,UBI_domain,游戏娱乐",
	"RULE-SET,Sony_domain,游戏娱乐",
	"RULE-SET,Nintendo_domain,游戏娱乐",
	"RULE-SET,ifast_domain,直连",
	"RULE-SET,Amazon_domain,支付购物",
	"RULE-SET,Amazon_ip,支付购物,no-resolve",
	"RULE-SET,Shopee_domain,支付购物",
	"RULE-SET,Shopify_domain,支付购物",
	"RULE-SET,ebay_domain,支付购物",
	"RULE-SET,gfw_domain,选择代理",
	"RULE-SET,geolocation-!cn,选择代理",
	"RULE-SET,cn_domain,直连",
	"RULE-SET,private_ip,直连,no-resolve",
	"RULE-SET,cn_ip,直连,no-resolve",
	"MATCH,选择代理",
)

var quicRule = rules.MustParse(rejectQUIC)[0]

// BuildRules returns the rule list. Without QUIC support the UDP/443
// rejection is prepended ahead of every rule-set.
func BuildRules(quic bool) []model.Rule {
	out := make([]model.Rule, 0, len(baseRules)+1)
	if !quic {
		out = append(out, quicRule)
	}
	return append(out, baseRules...)
}
