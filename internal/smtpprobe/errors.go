package smtpprobe

import (
	"errors"
	"net/textproto"
	"strings"
)

// IsNoSuchUserError determines whether err means the mailbox genuinely does
// not exist, as opposed to a transient/blocking failure. Block/policy
// keywords are checked first so a server explicitly complaining about
// reputation or rate limits is never mistaken for a hard bounce.
func IsNoSuchUserError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	blockKeywords := []string{
		"spam", "block", "banned", "blacklisted", "ip", "policy",
		"relay", "access denied", "rejected by network", "unauthenticated",
		"sender", "reputation", "spf", "dmarc", "dkim", "quota",
		"rate limit", "temporarily", "reverse dns", "ptr", "helo",
		"spamhaus", "barracuda", "sorbs", "client host rejected",
		"not permitted", "connection refused", "timeout", "greylist",
	}
	for _, kw := range blockKeywords {
		if strings.Contains(errStr, kw) {
			return false
		}
	}

	if strings.Contains(errStr, "5.1.1") || strings.Contains(errStr, "5.1.0") {
		return true
	}

	keywords := []string{
		"does not exist", "user unknown", "no such user",
		"recipient rejected", "not found", "invalid mailbox",
		"not a valid mailbox", "mailbox unavailable", "unrouteable address",
		"no mailbox here", "unknown user", "bad destination",
		"address rejected",
	}
	for _, kw := range keywords {
		if strings.Contains(errStr, kw) {
			return true
		}
	}

	var textErr *textproto.Error
	if errors.As(err, &textErr) {
		return textErr.Code == 550 || textErr.Code == 551
	}

	return false
}

// IsTransientError reports whether err looks like a rate-limit/greylist
// style temporary failure rather than a hard bounce — used to decide
// whether the real-address RCPT TO is worth retrying once.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}

	var textErr *textproto.Error
	if errors.As(err, &textErr) {
		switch textErr.Code {
		case 450, 451, 452:
			return true
		}
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "450") ||
		strings.Contains(errStr, "451") ||
		strings.Contains(errStr, "452") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "greylist")
}

// replyCode extracts the SMTP reply code from an RCPT TO error, if any. A
// nil error (success) is always code 250.
func replyCode(err error) (int, bool) {
	if err == nil {
		return 250, true
	}
	var textErr *textproto.Error
	if errors.As(err, &textErr) {
		return textErr.Code, true
	}
	return 0, false
}
