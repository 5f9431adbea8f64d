package finder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"mailprobe/internal/types"
)

// scriptedVerifier returns a canned Result per address and records the call
// order, so tests can assert the finder stops at the first deliverable hit.
type scriptedVerifier struct {
	byEmail map[string]types.Result
	calls   []string
}

func (s *scriptedVerifier) VerifyEmail(ctx context.Context, email string) types.Result {
	s.calls = append(s.calls, email)
	if r, ok := s.byEmail[email]; ok {
		return r
	}
	return types.Result{Email: email, Status: types.StatusInvalid, Deliverable: false}
}

func TestFindStopsAtFirstDeliverable(t *testing.T) {
	v := &scriptedVerifier{byEmail: map[string]types.Result{
		"jane.doe@acme.com": {Status: types.StatusValid, Deliverable: true},
	}}

	found, ok := Find(context.Background(), v, nil, "Jane Doe", "acme.com")

	assert.True(t, ok)
	assert.NotNil(t, found)
	assert.Equal(t, "jane.doe@acme.com", *found)
	// jane@acme.com, doe@acme.com, j.doe@acme.com come before jane.doe@acme.com
	// in the generated order; the finder must have tried exactly those plus
	// the hit, not continued past it.
	assert.Equal(t, []string{"jane@acme.com", "doe@acme.com", "j.doe@acme.com", "jane.doe@acme.com"}, v.calls)
}

func TestFindReturnsNilWhenNoneQualify(t *testing.T) {
	v := &scriptedVerifier{byEmail: map[string]types.Result{}}

	found, ok := Find(context.Background(), v, nil, "Jane Doe", "acme.com")

	assert.True(t, ok)
	assert.Nil(t, found)
	assert.Len(t, v.calls, 8)
}

func TestFindRejectsRiskyStatus(t *testing.T) {
	// Deliverable=true with a non-"valid" status must not satisfy the finder.
	v := &scriptedVerifier{byEmail: map[string]types.Result{
		"jane@acme.com": {Status: types.StatusRisky, Deliverable: true},
	}}

	found, ok := Find(context.Background(), v, nil, "Jane Doe", "acme.com")

	assert.True(t, ok)
	assert.Nil(t, found)
}

func TestFindNoPatterns(t *testing.T) {
	v := &scriptedVerifier{byEmail: map[string]types.Result{}}

	found, ok := Find(context.Background(), v, nil, "???", "acme.com")

	assert.False(t, ok)
	assert.Nil(t, found)
	assert.Empty(t, v.calls)
}
