// Package verifier orchestrates syntax check → MX → probe → analyze →
// score into a single verification result.
package verifier

import (
	"context"
	"regexp"
	"strings"

	"mailprobe/internal/disposable"
	"mailprobe/internal/mxcache"
	"mailprobe/internal/provider"
	"mailprobe/internal/scoring"
	"mailprobe/internal/smtpprobe"
	"mailprobe/internal/timing"
	"mailprobe/internal/types"
)

var syntaxRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Verifier wires together the MX resolver and SMTP prober behind the single
// VerifyEmail operation.
type Verifier struct {
	Resolver *mxcache.Resolver
	Prober   *smtpprobe.Prober
}

// New builds a Verifier from its two network-facing collaborators.
func New(resolver *mxcache.Resolver, prober *smtpprobe.Prober) *Verifier {
	return &Verifier{Resolver: resolver, Prober: prober}
}

// VerifyEmail runs the full pipeline for a single address: normalize,
// syntax-validate, resolve MX, probe, analyze timing, score. It never
// returns an error — every outcome, including network failure, is encoded
// in the returned Result's Reason/Status fields, so callers never have to
// translate a verification failure into an exception.
func (v *Verifier) VerifyEmail(ctx context.Context, email string) types.Result {
	normalized := strings.TrimSpace(email)
	result := types.Result{Email: normalized}

	if !syntaxRe.MatchString(normalized) {
		return terminal(result, types.ReasonBadSyntax)
	}

	domain := normalized[strings.LastIndex(normalized, "@")+1:]

	if disposable.Is(domain) {
		return terminal(result, types.ReasonDisposableDomain)
	}

	localPart := normalized[:strings.LastIndex(normalized, "@")]
	result.RoleAccount = isRoleAccount(localPart)
	result.LocalPartEntropy = digitRatio(localPart)

	mxHosts, err := v.Resolver.Resolve(ctx, domain)
	if err != nil {
		return terminal(result, types.ReasonMXError(err.Error()))
	}
	if len(mxHosts) == 0 {
		return terminal(result, types.ReasonNoMX)
	}
	result.MX = mxHosts

	prov := provider.Classify(mxHosts[0])
	result.Provider = prov

	probes := v.Prober.Probe(ctx, mxHosts[0], normalized, domain, true)
	decoy1Latency, realLatency, decoy2Latency := lift(&result, probes)

	timingResult := timing.Analyze(toTimingProbes(probes))

	result.TimingDelta = types.IntPtr(timingResult.Delta)
	result.AvgLatency = timingResult.AvgLatency
	result.Entropy = types.IntPtr(timingResult.Entropy)
	result.Confidence = types.Float64Ptr(timingResult.Confidence)

	scored := scoring.Score(scoring.Input{
		Decoy1Time: decoy1Latency,
		Decoy2Time: decoy2Latency,
		RealTime:   realLatency,
		Confidence: timingResult.Confidence,
		Entropy:    timingResult.Entropy,
		Provider:   prov,
		RealCode:   result.RealCode,
	})

	result.Pattern = scored.Pattern
	result.Score = scored.Score
	result.Status = scored.Status
	result.Deliverable = scored.Deliverable
	result.Reason = types.ReasonPatternAnalysis

	return result
}

// terminal fills in the shared shape of a result reached before any SMTP
// probing happened: all probe/timing fields absent, Score 0.
func terminal(result types.Result, reason types.Reason) types.Result {
	result.Status = types.StatusInvalid
	result.Deliverable = false
	result.Score = 0
	result.Pattern = "no_data"
	result.Reason = reason
	return result
}

// lift copies the SMTP prober's 0-3 probe records into the result's
// Fake1/Real/Fake2 fields and returns the raw millisecond latencies the
// scorer needs (full precision; the result fields themselves are rounded to
// integer ms). The connect sentinel (sole record when present) leaves every
// field absent.
func lift(result *types.Result, probes []types.ProbeRecord) (decoy1, real, decoy2 *float64) {
	if len(probes) == 1 && probes[0].IsSentinel() {
		return nil, nil, nil
	}
	if len(probes) > 0 {
		result.Fake1Code = probes[0].Code
		result.Fake1Time = msToIntPtr(probes[0].LatencyMs)
		decoy1 = probes[0].LatencyMs
	}
	if len(probes) > 1 {
		result.RealCode = probes[1].Code
		result.RealTime = msToIntPtr(probes[1].LatencyMs)
		real = probes[1].LatencyMs
	}
	if len(probes) > 2 {
		result.Fake2Code = probes[2].Code
		result.Fake2Time = msToIntPtr(probes[2].LatencyMs)
		decoy2 = probes[2].LatencyMs
	}
	return decoy1, real, decoy2
}

func toTimingProbes(probes []types.ProbeRecord) []timing.Probe {
	if len(probes) == 1 && probes[0].IsSentinel() {
		return nil
	}
	out := make([]timing.Probe, 0, len(probes))
	for _, p := range probes {
		out = append(out, timing.Probe{Code: p.Code, LatencyMs: p.LatencyMs})
	}
	return out
}

func msToIntPtr(ms *float64) *int {
	if ms == nil {
		return nil
	}
	v := int(*ms)
	return &v
}

func isRoleAccount(localPart string) bool {
	_, ok := roleAccounts[strings.ToLower(localPart)]
	return ok
}

var roleAccounts = map[string]struct{}{
	"admin": {}, "support": {}, "info": {}, "sales": {},
	"contact": {}, "help": {}, "office": {}, "marketing": {},
	"billing": {}, "abuse": {}, "postmaster": {},
	"noreply": {}, "no-reply": {}, "webmaster": {}, "hostmaster": {},
}

// digitRatio is the fraction of a local part's characters that are digits —
// a cheap signal for auto-generated or burner-style addresses.
func digitRatio(s string) float64 {
	if s == "" {
		return 0
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return float64(digits) / float64(len(s))
}
