package imageproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name         string
		byteSize     int64
		tier         Tier
		maxDimension int
		quality      float64
	}{
		{"tiny", 1 << 10, TierNone, 0, 1.0},
		{"exactly 500KiB", 500 << 10, TierNone, 0, 1.0},
		{"just over 500KiB", 500<<10 + 1, TierLight, 1200, 0.9},
		{"exactly 1MiB", 1 << 20, TierLight, 1200, 0.9},
		{"just over 1MiB", 1<<20 + 1, TierStandard, 1000, 0.8},
		{"exactly 3MiB", 3 << 20, TierStandard, 1000, 0.8},
		{"just over 3MiB", 3<<20 + 1, TierAggressive, 800, 0.7},
		{"huge", 50 << 20, TierAggressive, 800, 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectStrategy(tt.byteSize)
			assert.Equal(t, tt.tier, got.Tier)
			assert.Equal(t, tt.maxDimension, got.MaxDimension)
			assert.Equal(t, tt.quality, got.Quality)
		})
	}
}
