package filters

import (
	"strconv"
	"strings"

	"github.com/wonny/ignition/internal/contracts"
)

// ParseNumeric converts heterogeneous textual number inputs to float64:
// trailing K/M/B multiplies by 1e3/1e6/1e9, a trailing % is stripped with
// the value kept as a bare percentage (30% -> 30), empty or unparseable
// input yields 0.
func ParseNumeric(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")

	if strings.HasSuffix(s, "%") {
		return parseFloat(strings.TrimSuffix(s, "%"))
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "K"), strings.HasSuffix(s, "k"):
		multiplier = 1e3
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "M"), strings.HasSuffix(s, "m"):
		multiplier = 1e6
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "B"), strings.HasSuffix(s, "b"):
		multiplier = 1e9
		s = s[:len(s)-1]
	}

	return parseFloat(s) * multiplier
}

// parseRatio is ParseNumeric for the two ratio-consumed fields: a
// trailing % divides by 100 (300% -> 3.0) because the result is compared
// directly against ChangePct / DistanceToHighPct ratios. 이 비대칭은
// 소비 방식 차이 때문이며 반드시 유지해야 함.
func parseRatio(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if strings.HasSuffix(s, "%") {
		return parseFloat(strings.TrimSuffix(s, "%")) / 100
	}
	return ParseNumeric(s)
}

// parseFloatMillions normalizes the float cap to millions of shares, the
// unit the qualification gate compares against. A K/M/B suffix denotes an
// absolute share count ("50M" -> 50); a bare number is already millions.
func parseFloatMillions(raw string) float64 {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasSuffix(s, "K"), strings.HasSuffix(s, "k"),
		strings.HasSuffix(s, "M"), strings.HasSuffix(s, "m"),
		strings.HasSuffix(s, "B"), strings.HasSuffix(s, "b"):
		return ParseNumeric(s) / 1e6
	default:
		return ParseNumeric(s)
	}
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// Normalize builds a FilterSpec from raw textual fields. Keys are matched
// case-insensitively; unknown keys are ignored.
func Normalize(raw map[string]string) contracts.FilterSpec {
	get := func(keys ...string) string {
		for _, k := range keys {
			for rk, rv := range raw {
				if strings.EqualFold(rk, k) {
					return rv
				}
			}
		}
		return ""
	}

	return contracts.FilterSpec{
		Name:         strings.TrimSpace(get("Name")),
		IsDefault:    strings.EqualFold(strings.TrimSpace(get("IsDefault", "Default")), "true"),
		PriceMin:     ParseNumeric(get("PriceMin")),
		PriceMax:     ParseNumeric(get("PriceMax")),
		MinAvgVol10D: ParseNumeric(get("MinAvgVol10D", "MinAvgVol")),
		MinRVOLBase:  ParseNumeric(get("MinRVOLBase", "MinRVOL")),

		MinRVOLActive: ParseNumeric(get("MinRVOLActive")),

		// Ratio-consumed fields: "300%" -> 3.0, "2%" -> 0.02
		IgnitionRVOL:     parseRatio(get("IgnitionRVOL")),
		IgnitionDeltaPct: parseRatio(get("IgnitionDeltaPct", "IgnitionDelta")),

		// Entered as a plain ratio ("0.05"); a stray % still parses bare
		BreakoutDistPct: ParseNumeric(get("BreakoutDistPct", "BreakoutDist")),

		MaxFloatM:           parseFloatMillions(get("MaxFloatM", "MaxFloat")),
		MinShortInterestPct: ParseNumeric(get("MinShortInterestPct", "MinSIpct")),
		MinDaysToCover:      ParseNumeric(get("MinDaysToCover", "MinDTC")),
		MinBorrowFeePct:     ParseNumeric(get("MinBorrowFeePct", "MinBorrowFee")),

		Horizon:   strings.TrimSpace(get("Horizon", "HorizonText")),
		ScalePlan: strings.TrimSpace(get("ScalePlan", "ScalePlanText")),
	}
}
