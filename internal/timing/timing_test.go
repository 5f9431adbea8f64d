package timing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }
func ptrI(v int) *int        { return &v }

func TestAnalyzeNoLatencies(t *testing.T) {
	result := Analyze([]Probe{{}, {}})
	assert.Equal(t, 0, result.Delta)
	assert.Nil(t, result.AvgLatency)
	assert.Equal(t, 1, result.Entropy)
	assert.Equal(t, 0.00, result.Confidence)
}

func TestAnalyzeSingleProbe(t *testing.T) {
	result := Analyze([]Probe{{Code: ptrI(250), LatencyMs: ptr(42)}})
	assert.Equal(t, 0, result.Delta)
	assert.NotNil(t, result.AvgLatency)
	assert.Equal(t, 42, *result.AvgLatency)
	assert.Equal(t, 1, result.Entropy)
}

func TestAnalyzeWideDeltaRaisesConfidence(t *testing.T) {
	probes := []Probe{
		{Code: ptrI(250), LatencyMs: ptr(50)},
		{Code: ptrI(550), LatencyMs: ptr(300)},
	}
	result := Analyze(probes)
	assert.Equal(t, 250, result.Delta)
	assert.Equal(t, 2, result.Entropy)
	assert.Equal(t, 0.30, result.Confidence) // 0.25 (delta>120) + 0.05 (entropy>1)
}

func TestAnalyzeConfidenceClampedAt035(t *testing.T) {
	probes := []Probe{
		{Code: ptrI(250), LatencyMs: ptr(0)},
		{Code: ptrI(550), LatencyMs: ptr(1000)},
	}
	result := Analyze(probes)
	assert.LessOrEqual(t, result.Confidence, 0.35)
}

func TestAnalyzeSameCodeLowersEntropy(t *testing.T) {
	probes := []Probe{
		{Code: ptrI(250), LatencyMs: ptr(40)},
		{Code: ptrI(250), LatencyMs: ptr(45)},
		{Code: ptrI(250), LatencyMs: ptr(42)},
	}
	result := Analyze(probes)
	assert.Equal(t, 1, result.Entropy)
}
