package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/claimstats/internal/model"
)

func TestBaseClaim(t *testing.T) {
	tests := []struct {
		claim  string
		want   string
		wantOK bool
	}{
		{"65-158035-1", "65-158035", true},
		{"65-158035-12", "65-158035", true},
		{"A-B-C-D", "A-B-C", true},
		{"65-158035", "", false},
		{"158035", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := BaseClaim(tt.claim)
		assert.Equal(t, tt.want, got, tt.claim)
		assert.Equal(t, tt.wantOK, ok, tt.claim)
	}
}

func member(claim string, reserves int64) model.PackMember {
	return model.PackMember{ClaimNumber: claim, Coverage: "BI", Reserves: decimal.NewFromInt(reserves)}
}

func TestGroupMultiPacks_Ordering(t *testing.T) {
	summary := GroupMultiPacks([]model.PackMember{
		member("10-100-2", 100),
		member("10-100-1", 100),
		member("20-200-1", 5000),
		member("20-200-2", 5000),
		member("30-300-1", 10),
		member("30-300-2", 10),
		member("30-300-3", 10),
		member("40-400-1", 99999), // single: not a pack
		member("50-500", 99999),   // ungroupable
	})

	require.Len(t, summary.Groups, 3)
	assert.Equal(t, "30-300", summary.Groups[0].BaseClaim, "largest pack first")
	assert.Equal(t, "20-200", summary.Groups[1].BaseClaim, "then by reserves")
	assert.Equal(t, "10-100", summary.Groups[2].BaseClaim)
	assert.Equal(t, "10-100-1", summary.Groups[2].Claims[0].ClaimNumber)

	seen := map[string]string{}
	for _, g := range summary.Groups {
		assert.Equal(t, g.PackSize, len(g.Claims))
		assert.GreaterOrEqual(t, g.PackSize, 2)
		for _, c := range g.Claims {
			prev, dup := seen[c.ClaimNumber]
			assert.False(t, dup, "%s in %s and %s", c.ClaimNumber, prev, g.BaseClaim)
			seen[c.ClaimNumber] = g.BaseClaim
		}
	}

	require.Len(t, summary.BySize, 2)
	assert.Equal(t, 2, summary.BySize[0].PackSize)
	assert.Equal(t, 2, summary.BySize[0].Groups)
	assert.Equal(t, 4, summary.BySize[0].Claims)
	assert.True(t, decimal.NewFromInt(10200).Equal(summary.BySize[0].Reserves))
	assert.Equal(t, 3, summary.BySize[1].PackSize)
	assert.Equal(t, 1, summary.BySize[1].Groups)
}

func TestGroupMultiPacks_Empty(t *testing.T) {
	summary := GroupMultiPacks(nil)
	assert.Empty(t, summary.Groups)
	assert.Empty(t, summary.BySize)
}
