package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"mailprobe/internal/types"
)

// scriptedVerifier returns per-email results from a map, defaulting to an
// invalid/non-deliverable result for anything not listed.
type scriptedVerifier struct {
	byEmail map[string]types.Result
}

func (s *scriptedVerifier) VerifyEmail(ctx context.Context, email string) types.Result {
	if r, ok := s.byEmail[email]; ok {
		return r
	}
	return types.Result{Email: email, Status: types.StatusInvalid}
}

func newTestApp(v emailVerifier) *app {
	return &app{verifier: v, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestHomeHandlerReturnsJSON(t *testing.T) {
	a := newTestApp(&scriptedVerifier{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	a.homeHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email Finder API is live")
}

func TestFindHandlerRejectsNonPOST(t *testing.T) {
	a := newTestApp(&scriptedVerifier{})
	req := httptest.NewRequest(http.MethodGet, "/find", nil)
	rec := httptest.NewRecorder()

	a.findHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestFindHandlerRejectsInvalidJSON(t *testing.T) {
	a := newTestApp(&scriptedVerifier{})
	req := httptest.NewRequest(http.MethodPost, "/find", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()

	a.findHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindHandlerRejectsInvalidDomain(t *testing.T) {
	a := newTestApp(&scriptedVerifier{})
	body, _ := json.Marshal(findRequest{FullName: "Jane Doe", Domain: "not a domain"})
	req := httptest.NewRequest(http.MethodPost, "/find", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	a.findHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindHandlerRejectsUngenerableName(t *testing.T) {
	a := newTestApp(&scriptedVerifier{})
	body, _ := json.Marshal(findRequest{FullName: "", Domain: "acme.com"})
	req := httptest.NewRequest(http.MethodPost, "/find", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	a.findHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindHandlerReturnsFirstDeliverablePattern(t *testing.T) {
	stub := &scriptedVerifier{byEmail: map[string]types.Result{
		"jane.doe@acme.com": {Status: types.StatusValid, Deliverable: true},
	}}
	a := newTestApp(stub)
	body, _ := json.Marshal(findRequest{FullName: "Jane Doe", Domain: "acme.com"})
	req := httptest.NewRequest(http.MethodPost, "/find", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	a.findHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got findResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotNil(t, got.Found)
	assert.Equal(t, "jane.doe@acme.com", *got.Found)
}

func TestFindHandlerReturnsNullWhenNoneQualify(t *testing.T) {
	a := newTestApp(&scriptedVerifier{})
	body, _ := json.Marshal(findRequest{FullName: "Jane Doe", Domain: "acme.com"})
	req := httptest.NewRequest(http.MethodPost, "/find", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	a.findHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got findResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Nil(t, got.Found)
}
