package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"empty", "", 0},
		{"plain decimal", "2.5", 2.5},
		{"whitespace", "  1.5 ", 1.5},
		{"thousands suffix", "500K", 500_000},
		{"millions suffix", "10M", 10_000_000},
		{"billions suffix", "1.2B", 1_200_000_000},
		{"lowercase suffix", "50m", 50_000_000},
		{"comma separated", "1,000,000", 1_000_000},
		{"percent stays bare", "30%", 30},
		{"large percent stays bare", "300%", 300},
		{"garbage", "n/a", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseNumeric(tt.input), 1e-9)
		})
	}
}

func TestParseRatio(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"empty", "", 0},
		{"percent divides", "300%", 3.0},
		{"small percent", "2%", 0.02},
		{"plain decimal passes through", "0.05", 0.05},
		{"suffix still works", "1K", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, parseRatio(tt.input), 1e-9)
		})
	}
}

// The asymmetric percent rule: IgnitionRVOL/IgnitionDeltaPct are consumed
// as ratios, the remaining percent fields as bare percentages.
func TestNormalizeAsymmetricPercents(t *testing.T) {
	spec := Normalize(map[string]string{
		"Name":             "test",
		"IgnitionRVOL":     "300%",
		"IgnitionDeltaPct": "2%",
		"MinSIpct":         "300%",
		"MinBorrowFeePct":  "20%",
	})

	assert.InDelta(t, 3.0, spec.IgnitionRVOL, 1e-9)
	assert.InDelta(t, 0.02, spec.IgnitionDeltaPct, 1e-9)
	assert.InDelta(t, 300.0, spec.MinShortInterestPct, 1e-9)
	assert.InDelta(t, 20.0, spec.MinBorrowFeePct, 1e-9)
}

func TestNormalizeFullSpec(t *testing.T) {
	spec := Normalize(map[string]string{
		"Name":             "squeeze-hunter",
		"IsDefault":        "true",
		"PriceMin":         "1",
		"PriceMax":         "20",
		"MinAvgVol10D":     "500K",
		"MinRVOLBase":      "1.5",
		"MinRVOLActive":    "2",
		"IgnitionRVOL":     "250%",
		"IgnitionDeltaPct": "3%",
		"BreakoutDistPct":  "0.05",
		"MaxFloatM":        "50M",
		"MinSIpct":         "15%",
		"MinDaysToCover":   "1",
		"MinBorrowFeePct":  "10%",
		"Horizon":          "1-5d",
		"ScalePlan":        "1/3 at T1",
	})

	assert.Equal(t, "squeeze-hunter", spec.Name)
	assert.True(t, spec.IsDefault)
	assert.InDelta(t, 1.0, spec.PriceMin, 1e-9)
	assert.InDelta(t, 20.0, spec.PriceMax, 1e-9)
	assert.InDelta(t, 500_000, spec.MinAvgVol10D, 1e-9)
	assert.InDelta(t, 1.5, spec.MinRVOLBase, 1e-9)
	assert.InDelta(t, 2.0, spec.MinRVOLActive, 1e-9)
	assert.InDelta(t, 2.5, spec.IgnitionRVOL, 1e-9)
	assert.InDelta(t, 0.03, spec.IgnitionDeltaPct, 1e-9)
	assert.InDelta(t, 0.05, spec.BreakoutDistPct, 1e-9)
	// "50M" is a share count, stored in millions for the float gate
	assert.InDelta(t, 50, spec.MaxFloatM, 1e-9)
	assert.InDelta(t, 15.0, spec.MinShortInterestPct, 1e-9)
	assert.InDelta(t, 1.0, spec.MinDaysToCover, 1e-9)
	assert.InDelta(t, 10.0, spec.MinBorrowFeePct, 1e-9)
	assert.Equal(t, "1-5d", spec.Horizon)
	assert.Equal(t, "1/3 at T1", spec.ScalePlan)
}

func TestNormalizeEmptyFieldsDefaultToZero(t *testing.T) {
	spec := Normalize(map[string]string{"Name": "sparse"})

	assert.Equal(t, "sparse", spec.Name)
	assert.Zero(t, spec.PriceMin)
	assert.Zero(t, spec.IgnitionRVOL)
	assert.Zero(t, spec.MaxFloatM)
	assert.False(t, spec.IsDefault)
}
