package catalog

import (
	"regexp"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountries_PatternsCompileAndNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Countries() {
		_, err := regexp.Compile("(?i)" + c.Pattern)
		require.NoError(t, err, c.Name)
		assert.False(t, seen[c.Name], "duplicate country %s", c.Name)
		seen[c.Name] = true
		assert.Equal(t, c.Icon, CountryIcon(c.Name))
	}
	assert.Equal(t, "香港", Countries()[0].Name)
	assert.Equal(t, IconGlobal, CountryIcon("火星"))
}

func TestCountries_ReturnsCopy(t *testing.T) {
	c := Countries()
	c[0].Name = "changed"
	assert.Equal(t, "香港", Countries()[0].Name)
}

func TestRuleProviders_UniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range RuleProviders() {
		assert.False(t, seen[p.Name], "duplicate provider %s", p.Name)
		seen[p.Name] = true
		assert.Contains(t, []string{"domain", "ipcidr"}, p.Behavior)
		assert.Equal(t, "mrs", p.Format)
	}
	assert.True(t, HasRuleProvider("fakeip_filter_domain"))
	assert.False(t, HasRuleProvider("nope"))
}

func TestGroupIcon_Fallback(t *testing.T) {
	assert.Equal(t, IconGlobal, GroupIcon("unknown"))
	assert.NotEqual(t, IconGlobal, GroupIcon(GroupSelect))
	assert.Equal(t, "香港节点", CountryGroupName("香港"))
}

func TestGroupNames_CoversFixedAndCountryGroups(t *testing.T) {
	names := GroupNames()
	assert.True(t, slices.IsSorted(names))
	for _, want := range []string{GroupSelect, GroupAutoSelect, GroupDirect, GroupGlobal, GroupStaticFailover, CountryGroupName("香港")} {
		assert.Contains(t, names, want)
	}
	assert.Len(t, names, len(groupIcons)+len(countries))
}
