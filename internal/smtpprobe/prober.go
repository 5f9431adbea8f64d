// Package smtpprobe opens a single SMTP session to a chosen MX host and
// issues a scripted HELO/MAIL FROM/RCPT TO sequence, capturing reply code
// and latency for a decoy address, the real address, and optionally a
// second decoy.
package smtpprobe

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"net/smtp"
	"time"

	"mailprobe/internal/proxy"
	"mailprobe/internal/types"
)

const smtpPort = "25"

const decoyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
const decoyLocalPartLen = 8

// Prober runs the decoy/real/decoy probe dialog against a single MX host.
type Prober struct {
	Dialer     *proxy.Dialer
	Timeout    time.Duration
	Pause      time.Duration
	HeloDomain string
	MailFrom   string
}

// Probe opens one SMTP session to mxHost and returns 2-3 probe records for
// targetEmail at targetDomain, in fixed order: decoy1, real, optional
// decoy2. If ctx is cancelled during an inter-probe pause, it returns the
// records captured so far. If the session cannot be established, it returns
// the single connect-failure sentinel record.
func (p *Prober) Probe(ctx context.Context, mxHost, targetEmail, targetDomain string, adaptive bool) []types.ProbeRecord {
	dialCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	conn, err := p.Dialer.DialContext(dialCtx, "tcp", mxHost+":"+smtpPort, p.Timeout)
	if err != nil {
		return []types.ProbeRecord{{Address: types.ConnectSentinelAddress}}
	}

	deadline := time.Now().Add(p.Timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	conn.SetDeadline(deadline)

	client, err := smtp.NewClient(conn, mxHost)
	if err != nil {
		conn.Close()
		return []types.ProbeRecord{{Address: types.ConnectSentinelAddress}}
	}
	defer client.Close()

	// HELO/MAIL FROM failures are non-fatal; proceed to RCPT TO regardless.
	_ = client.Hello(p.HeloDomain)
	_ = client.Mail(p.MailFrom)

	records := make([]types.ProbeRecord, 0, 3)

	decoy1 := randomLocalPart() + "@" + targetDomain
	rec1, _ := rcpt(client, decoy1)
	records = append(records, rec1)

	if !p.sleepPause(ctx) {
		return records
	}

	recReal := p.rcptReal(ctx, client, targetEmail)
	records = append(records, recReal)

	if adaptive && shouldSkipSecondDecoy(rec1, recReal) {
		_ = client.Quit()
		return records
	}

	if !p.sleepPause(ctx) {
		return records
	}

	decoy2 := randomLocalPart() + "@" + targetDomain
	rec3, _ := rcpt(client, decoy2)
	records = append(records, rec3)

	_ = client.Quit()
	return records
}

// shouldSkipSecondDecoy implements the adaptive-skip rule: skip decoy#2 if
// the real address's code is one of the "looks deliverable or deferred"
// codes and its timing deviates from decoy#1 by more than 60ms.
func shouldSkipSecondDecoy(decoy1, real types.ProbeRecord) bool {
	if real.Code == nil {
		return false
	}
	switch *real.Code {
	case 250, 450, 451, 452:
	default:
		return false
	}
	if decoy1.LatencyMs == nil || real.LatencyMs == nil {
		return false
	}
	return math.Abs(*real.LatencyMs-*decoy1.LatencyMs) > 60
}

// rcptReal issues RCPT TO for the real target address, retrying once after
// a short backoff if the first attempt looks like a transient rate-limit
// rejection rather than a hard bounce. Only the final attempt is recorded —
// the probe count and order stay fixed regardless of the retry.
func (p *Prober) rcptReal(ctx context.Context, client *smtp.Client, targetEmail string) types.ProbeRecord {
	rec, transient := rcpt(client, targetEmail)
	if !transient {
		return rec
	}

	select {
	case <-time.After(300 * time.Millisecond):
	case <-ctx.Done():
		return rec
	}

	rec, _ = rcpt(client, targetEmail)
	return rec
}

// rcpt issues a single RCPT TO command and captures its reply code and
// elapsed time. Timing is measured around the RCPT TO call only. The second
// return value reports whether the failure looks transient (rate-limit/
// greylist) rather than a hard bounce, so callers can decide to retry.
func rcpt(client *smtp.Client, addr string) (types.ProbeRecord, bool) {
	start := time.Now()
	err := client.Rcpt(addr)
	elapsed := time.Since(start)

	ms := math.Round(float64(elapsed.Microseconds())/10) / 100
	rec := types.ProbeRecord{Address: addr, LatencyMs: &ms}

	if code, ok := replyCode(err); ok {
		rec.Code = types.IntPtr(code)
	}

	transient := IsTransientError(err) && !IsNoSuchUserError(err)
	return rec, transient
}

// sleepPause blocks for the configured inter-probe pause, returning false if
// ctx is cancelled first.
func (p *Prober) sleepPause(ctx context.Context) bool {
	select {
	case <-time.After(p.Pause):
		return true
	case <-ctx.Done():
		return false
	}
}

// randomLocalPart draws decoyLocalPartLen lowercase alphanumeric characters
// uniformly at random from crypto/rand, so concurrent probes are vanishingly
// unlikely to collide.
func randomLocalPart() string {
	// Bytes at or above limit are discarded so that every alphabet character
	// is equally likely.
	const limit = 256 - 256%len(decoyAlphabet)
	b := make([]byte, decoyLocalPartLen)
	out := make([]byte, 0, decoyLocalPartLen)
	for len(out) < decoyLocalPartLen {
		if _, err := rand.Read(b); err != nil {
			// crypto/rand failing is effectively unrecoverable system state; fall
			// back to a fixed-but-unlikely-to-exist local part rather than panic.
			return "x7k2m9qz"
		}
		for _, v := range b {
			if int(v) < limit && len(out) < decoyLocalPartLen {
				out = append(out, decoyAlphabet[int(v)%len(decoyAlphabet)])
			}
		}
	}
	return string(out)
}

// DecoyAddress is exposed for tests that need to assert on the shape of a
// generated decoy without duplicating the alphabet/length constants.
func DecoyAddress(domain string) string {
	return fmt.Sprintf("%s@%s", randomLocalPart(), domain)
}
