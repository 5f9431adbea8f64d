// Package bulk runs the single verifier across many addresses with a
// bounded worker pool, preserving input order in the output.
package bulk

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"mailprobe/internal/types"
)

var syntaxRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Verifier is the single-address operation the bulk pool fans out over.
type Verifier interface {
	VerifyEmail(ctx context.Context, email string) types.Result
}

// VerifyBulk pre-filters empty/malformed addresses, verifies the remainder
// through a pool of at most maxWorkers goroutines, and returns one result
// per surviving address in its original input order. A panic or error
// inside a single worker never aborts the batch — it is converted into an
// Result with Status "error" and Reason "exception:<detail>".
func VerifyBulk(ctx context.Context, v Verifier, emails []string, maxWorkers int) []types.Result {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	surviving := make([]string, 0, len(emails))
	for _, e := range emails {
		trimmed := strings.TrimSpace(e)
		if trimmed == "" {
			continue
		}
		if !syntaxRe.MatchString(trimmed) {
			continue
		}
		surviving = append(surviving, trimmed)
	}

	results := make([]types.Result, len(surviving))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxWorkers)

	for i, email := range surviving {
		i, email := i, email
		group.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					results[i] = errorResult(email, fmt.Sprintf("%v", r))
				}
			}()
			results[i] = v.VerifyEmail(groupCtx, email)
			return nil
		})
	}

	// errgroup's context is only cancelled by a returned error; this pool
	// never returns one (panics are converted above), so Wait simply blocks
	// until every worker has filled in its slot.
	_ = group.Wait()

	return results
}

func errorResult(email, detail string) types.Result {
	return types.Result{
		Email:       email,
		Status:      types.StatusError,
		Deliverable: false,
		Score:       0,
		Pattern:     "no_data",
		Reason:      types.ReasonException(detail),
	}
}
