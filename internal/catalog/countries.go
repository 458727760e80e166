package catalog

// Country is one row of the priority-ordered country table.
type Country struct {
	Name    string
	Pattern string // case-insensitive, without the (?i) prefix
	Icon    string
}

// countries is iterated in declared order; the first matching row wins.
var countries = []Country{
	{Name: "香港", Pattern: `香港|港|HK|hk|Hong Kong|HongKong|hongkong|🇭🇰`, Icon: iconBase + "Hong_Kong.png"},
	{Name: "澳门", Pattern: `澳门|MO|Macau|🇲🇴`, Icon: iconBase + "Macao.png"},
	{Name: "台湾", Pattern: `台|新北|彰化|TW|Taiwan|🇹🇼`, Icon: iconBase + "Taiwan.png"},
	{Name: "新加坡", Pattern: `新加坡|坡|狮城|SG|Singapore|🇸🇬`, Icon: iconBase + "Singapore.png"},
	{Name: "日本", Pattern: `日本|川日|东京|大阪|泉日|埼玉|沪日|深日|JP|Japan|🇯🇵`, Icon: iconBase + "Japan.png"},
	{Name: "韩国", Pattern: `KR|Korea|KOR|首尔|韩|韓|🇰🇷`, Icon: iconBase + "Korea.png"},
	{Name: "美国", Pattern: `美国|美|US|United States|🇺🇸`, Icon: iconBase + "United_States.png"},
	{Name: "加拿大", Pattern: `加拿大|Canada|CA|🇨🇦`, Icon: iconBase + "Canada.png"},
	{Name: "英国", Pattern: `英国|United Kingdom|UK|伦敦|London|🇬🇧`, Icon: iconBase + "United_Kingdom.png"},
	{Name: "澳大利亚", Pattern: `澳洲|澳大利亚|AU|Australia|🇦🇺`, Icon: iconBase + "Australia.png"},
	{Name: "德国", Pattern: `德国|德|DE|Germany|🇩🇪`, Icon: iconBase + "Germany.png"},
	{Name: "法国", Pattern: `法国|法|FR|France|🇫🇷`, Icon: iconBase + "France.png"},
	{Name: "俄罗斯", Pattern: `俄罗斯|俄|RU|Russia|🇷🇺`, Icon: iconBase + "Russia.png"},
	{Name: "泰国", Pattern: `泰国|泰|TH|Thailand|🇹🇭`, Icon: iconBase + "Thailand.png"},
	{Name: "印度", Pattern: `印度|IN|India|🇮🇳`, Icon: iconBase + "India.png"},
	{Name: "马来西亚", Pattern: `马来西亚|马来|MY|Malaysia|🇲🇾`, Icon: iconBase + "Malaysia.png"},
}

// Countries returns a copy of the ordered country table.
func Countries() []Country {
	return append([]Country(nil), countries...)
}

// CountryIcon returns the icon of country, or IconGlobal when unknown.
func CountryIcon(name string) string {
	for _, c := range countries {
		if c.Name == name {
			return c.Icon
		}
	}
	return IconGlobal
}
