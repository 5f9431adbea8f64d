// Package types holds the data model shared by every stage of the
// verification pipeline: the probe record, the terminal reason tags, and
// the verification result that the single verifier, the bulk verifier, and
// the finder all produce.
package types

import "fmt"

// Status is the categorical deliverability decision the scorer assigns.
type Status string

const (
	StatusValid   Status = "valid"
	StatusRisky   Status = "risky"
	StatusInvalid Status = "invalid"
	StatusError   Status = "error"
)

// Reason is a short terminal tag explaining how a result was reached.
type Reason string

const (
	ReasonBadSyntax        Reason = "bad_syntax"
	ReasonDisposableDomain Reason = "disposable_domain"
	ReasonNoMX             Reason = "no_mx"
	ReasonPatternAnalysis  Reason = "pattern_analysis"
)

// ReasonMXError builds the "mx_error:<cause>" tag for a DNS resolution failure.
func ReasonMXError(cause string) Reason {
	return Reason("mx_error:" + cause)
}

// ReasonException builds the "exception:<cause>" tag used by the bulk
// verifier when a worker recovers from an unexpected failure.
func ReasonException(cause string) Reason {
	return Reason(fmt.Sprintf("exception:%s", cause))
}

// ConnectSentinelAddress marks a probe sequence that never got past the TCP/
// SMTP handshake. When present it is always the sole record in the sequence.
const ConnectSentinelAddress = "__connect__"

// ProbeRecord is one RCPT TO attempt: the address used, the SMTP reply code
// (absent on failure), and the elapsed time in milliseconds (absent only for
// the connect sentinel).
type ProbeRecord struct {
	Address   string
	Code      *int
	LatencyMs *float64
}

// IsSentinel reports whether this record is the connect-failure sentinel.
func (p ProbeRecord) IsSentinel() bool {
	return p.Address == ConnectSentinelAddress
}

// Result is the single record emitted per verification call, per the data
// model: created once, never mutated after return.
type Result struct {
	Email string   `json:"email"`
	MX    []string `json:"MX"`

	Provider string `json:"Provider"`

	Fake1Code *int `json:"Fake1_Code"`
	Fake1Time *int `json:"Fake1_Time"`
	RealCode  *int `json:"Real_Code"`
	RealTime  *int `json:"Real_Time"`
	Fake2Code *int `json:"Fake2_Code"`
	Fake2Time *int `json:"Fake2_Time"`

	TimingDelta *int     `json:"Timing_Delta"`
	Entropy     *int     `json:"Entropy"`
	AvgLatency  *int     `json:"Avg_Latency"`
	Confidence  *float64 `json:"Confidence"`

	Pattern     string  `json:"Pattern"`
	Score       float64 `json:"Score"`
	Status      Status  `json:"Status"`
	Deliverable bool    `json:"Deliverable"`
	Reason      Reason  `json:"Reason"`

	// Informational local-part hygiene signals. Not wired into Score/Status:
	// they're surfaced for reporting consumers but never feed the decision.
	RoleAccount      bool    `json:"role_account"`
	LocalPartEntropy float64 `json:"local_part_entropy"`
}

// IntPtr is a small helper for building result fields from probe data.
func IntPtr(v int) *int { return &v }

// Float64Ptr mirrors IntPtr for the Confidence field.
func Float64Ptr(v float64) *float64 { return &v }
