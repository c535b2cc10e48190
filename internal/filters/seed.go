package filters

import (
	"context"
	"fmt"

	"github.com/wonny/ignition/internal/contracts"
)

// Presets returns the shipped filter parameter sets.
//
// squeeze-hunter is the fundamentals-heavy gate (float, short interest,
// days to cover, borrow fee) and the default; momentum-base is the simple
// price/volume/RVOL gate — its fundamentals thresholds are zero, which
// disables those checks entirely.
func Presets() []contracts.FilterSpec {
	return []contracts.FilterSpec{
		{
			Name:      "squeeze-hunter",
			IsDefault: true,

			PriceMin:     1.0,
			PriceMax:     20.0,
			MinAvgVol10D: 500_000,
			MinRVOLBase:  1.5,

			MinRVOLActive:    2.0,
			IgnitionRVOL:     3.0,
			IgnitionDeltaPct: 0.03,
			BreakoutDistPct:  0.05,

			MaxFloatM:           50,
			MinShortInterestPct: 15,
			MinDaysToCover:      1,
			MinBorrowFeePct:     10,

			Horizon:   "1-5 days",
			ScalePlan: "1/3 at T1, 1/3 at T2, runner to stretch",
		},
		{
			Name:      "momentum-base",
			IsDefault: false,

			PriceMin:     2.0,
			PriceMax:     100.0,
			MinAvgVol10D: 1_000_000,
			MinRVOLBase:  1.2,

			MinRVOLActive:    1.8,
			IgnitionRVOL:     2.5,
			IgnitionDeltaPct: 0.02,
			BreakoutDistPct:  0.03,

			// Fundamentals gate disabled
			MaxFloatM:           0,
			MinShortInterestPct: 0,
			MinDaysToCover:      0,
			MinBorrowFeePct:     0,

			Horizon:   "intraday-2 days",
			ScalePlan: "1/2 at T1, 1/2 at T2",
		},
	}
}

// SeedDefaults installs the shipped presets, overwriting same-named
// filters but leaving user-created ones alone.
func SeedDefaults(ctx context.Context, store contracts.FilterStore) error {
	for _, preset := range Presets() {
		spec := preset
		if err := store.Save(ctx, &spec); err != nil {
			return fmt.Errorf("seed filter %s: %w", spec.Name, err)
		}
	}
	return nil
}
