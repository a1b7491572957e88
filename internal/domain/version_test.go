package domain

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameVersionCompare(t *testing.T) {
	tests := []struct {
		a, b GameVersion
		want int
	}{
		{"1.2.0", "1.10.0", -1},
		{"v2.0.0", "1.9.9", 1},
		{"1.0.0-rc1", "1.0.0", -1},
		{"1.0.0", "1.0.0", 0},
		{"abc123", "1.0.0", -1},
		{"1.0.0", "abc123", 1},
		{"abc123", "abd000", -1},
	}

	for _, tt := range tests {
		t.Run(string(tt.a)+"_"+string(tt.b), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Compare(tt.b))
		})
	}
}

func TestGameVersionSemverEquivalentKeysStayDistinct(t *testing.T) {
	assert.NotEqual(t, 0, GameVersion("1.0").Compare("v1.0.0"))
}

func TestGameVersionSorting(t *testing.T) {
	versions := []GameVersion{"0.10.0", "nightly", "0.9.1", "0.2.0"}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Less(versions[j]) })
	assert.Equal(t, []GameVersion{"nightly", "0.2.0", "0.9.1", "0.10.0"}, versions)
}

func TestInstallationKindString(t *testing.T) {
	assert.Equal(t, "Downloading 1/100", Downloading(1, 100).String())
	assert.Equal(t, "Failed: checksum", Failed("checksum").String())
	assert.Equal(t, "Discovered", Discovered().String())
}
