// Package disposable short-circuits verification for known burner-email
// domains before any network I/O runs.
package disposable

import "strings"

var domains = map[string]struct{}{
	"temp-mail.org":     {},
	"10minutemail.com":  {},
	"guerrillamail.com": {},
	"mailinator.com":    {},
	"yopmail.com":       {},
	"throwawaymail.com": {},
	"tempmail.net":      {},
	"sharklasers.com":   {},
	"dispostable.com":   {},
}

// Is reports whether domain is a known disposable-mail provider.
func Is(domain string) bool {
	_, ok := domains[strings.ToLower(domain)]
	return ok
}
