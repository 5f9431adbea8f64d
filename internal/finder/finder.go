// Package finder tries each generated pattern in order against the single
// verifier and returns the first address that comes back valid and
// deliverable, short-circuiting the rest.
package finder

import (
	"context"
	"log/slog"

	"mailprobe/internal/pattern"
	"mailprobe/internal/types"
)

// Verifier is the single-address operation the finder tries sequentially.
type Verifier interface {
	VerifyEmail(ctx context.Context, email string) types.Result
}

// Find cleans fullName/domain, generates candidate patterns, and verifies
// them one at a time in priority order, returning the first address whose
// Result is both Deliverable and Status "valid". It returns (nil, false)
// if no pattern could be generated at all (caller should treat that as a
// bad request), and (nil, true) if every pattern was tried but none
// qualified.
func Find(ctx context.Context, v Verifier, logger *slog.Logger, fullName, domain string) (found *string, ok bool) {
	patterns := pattern.GeneratePatterns(fullName, domain)
	if len(patterns) == 0 {
		return nil, false
	}

	if logger != nil {
		logger.Info("trying patterns", "count", len(patterns), "name", fullName, "domain", domain)
	}

	for _, candidate := range patterns {
		result := v.VerifyEmail(ctx, candidate)

		if result.Status == types.StatusValid && result.Deliverable {
			if logger != nil {
				logger.Info("found deliverable address", "email", candidate)
			}
			addr := candidate
			return &addr, true
		}
	}

	return nil, true
}
