// Package scoring combines timing signals, provider tag, and the real
// address's SMTP reply code into a pattern label, numeric score, and
// categorical status, via an additive weight ladder with a provider-specific
// overlay on top.
package scoring

import (
	"math"
	"strconv"

	"mailprobe/internal/provider"
	"mailprobe/internal/types"
)

// Input is everything the scorer needs to reach a decision.
type Input struct {
	Decoy1Time *float64
	Decoy2Time *float64
	RealTime   *float64
	Confidence float64
	Entropy    int
	Provider   string
	RealCode   *int
}

// Output is the scorer's decision.
type Output struct {
	Pattern     string
	Score       float64
	Status      types.Status
	Deliverable bool
}

const (
	patternNoData      = "no_data"
	patternFlat        = "flat_pattern"
	patternStrongDelay = "strong_delay"
	patternSemiFlat    = "semi_flat"
	patternUnclear     = "unclear"
)

// Score runs the degenerate case, the decoy-2 default, the pattern label
// table, the continuous base score, the ESP overlay, and the final status
// thresholds.
func Score(in Input) Output {
	if in.Decoy1Time == nil || in.RealTime == nil {
		return Output{Pattern: patternNoData, Score: 0, Status: types.StatusInvalid, Deliverable: false}
	}

	decoy1 := *in.Decoy1Time
	decoy2 := decoy1
	if in.Decoy2Time != nil {
		decoy2 = *in.Decoy2Time
	}
	real := *in.RealTime

	avgFake := (decoy1 + decoy2) / 2
	gapFakes := math.Abs(decoy1 - decoy2)
	gapReal := math.Abs(real - avgFake)

	pattern := classifyPattern(gapFakes, gapReal, real, avgFake)

	base := minRatio(gapReal/80, 1)*40 +
		(1-minRatio(gapFakes/100, 1))*20 +
		minRatio(in.Confidence/0.35, 1)*20 +
		minRatio(float64(in.Entropy)/3, 1)*10

	score := math.Min(99, roundTo2(base))

	score, pattern = applyESPOverlay(in.Provider, in.RealCode, score, pattern)

	status, deliverable := decide(score)
	return Output{Pattern: pattern, Score: score, Status: status, Deliverable: deliverable}
}

func classifyPattern(gapFakes, gapReal, real, avgFake float64) string {
	switch {
	case gapFakes < 20 && gapReal < 20:
		return patternFlat
	case gapReal > 60 && real > avgFake:
		return patternStrongDelay
	case gapFakes < 25 && gapReal >= 20 && gapReal <= 50:
		return patternSemiFlat
	default:
		return patternUnclear
	}
}

func applyESPOverlay(prov string, realCode *int, score float64, pattern string) (float64, string) {
	if provider.IsESPOverlay(prov) && realCode != nil {
		switch *realCode {
		case 250, 450, 451, 452:
			return 99, smtpPattern(*realCode, "valid")
		case 550:
			return 10, smtpPattern(*realCode, "invalid")
		default:
			return score, smtpPattern(*realCode, "unclear")
		}
	}

	if prov == provider.Google {
		switch pattern {
		case patternStrongDelay:
			return math.Max(score, 90), pattern
		case patternFlat:
			return math.Min(score, 40), pattern
		}
	}

	return score, pattern
}

func smtpPattern(code int, suffix string) string {
	return "smtp_" + strconv.Itoa(code) + "_" + suffix
}

func decide(score float64) (types.Status, bool) {
	switch {
	case score >= 80:
		return types.StatusValid, true
	case score >= 55:
		return types.StatusRisky, false
	default:
		return types.StatusInvalid, false
	}
}

func minRatio(v, max float64) float64 {
	if v < max {
		return v
	}
	return max
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
