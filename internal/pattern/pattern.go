// Package pattern cleans a free-form name and domain and expands them into
// a fixed, deduplicated list of candidate local-part patterns.
package pattern

import (
	"errors"
	"regexp"
	"strings"
)

var (
	nameCleanRe   = regexp.MustCompile(`[^a-zA-Z\s]+`)
	domainCleanRe = regexp.MustCompile(`[^a-z0-9.\-]`)
)

// ErrInvalidDomain is returned by CleanDomain when the cleaned string has no
// dot left in it, or is empty.
var ErrInvalidDomain = errors.New("invalid domain")

// CleanName strips anything but letters and whitespace, lowercases, and
// splits on whitespace into tokens. An all-punctuation or empty input
// yields a nil slice.
func CleanName(name string) []string {
	cleaned := strings.ToLower(strings.TrimSpace(nameCleanRe.ReplaceAllString(name, "")))
	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// CleanDomain lowercases, drops a leading "@", strips characters outside
// [a-z0-9.-], and rejects the result if it has no dot left.
func CleanDomain(domain string) (string, error) {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = strings.TrimPrefix(d, "@")
	d = domainCleanRe.ReplaceAllString(d, "")
	if d == "" || !strings.Contains(d, ".") {
		return "", ErrInvalidDomain
	}
	return d, nil
}

// GeneratePatterns produces the 8 canonical local-part@domain candidates in
// a fixed priority order, skipping any pattern whose required name
// component is missing, and deduplicating while preserving first
// occurrence. fullName is cleaned internally via CleanName; domain is
// assumed already cleaned by the caller. Returns nil if fullName yields no
// usable name tokens.
func GeneratePatterns(fullName, domain string) []string {
	parts := CleanName(fullName)
	if len(parts) == 0 {
		return nil
	}

	first := parts[0]
	last := ""
	if len(parts) > 1 {
		last = parts[len(parts)-1]
	}

	var fi, li string
	if first != "" {
		fi = first[:1]
	}
	if last != "" {
		li = last[:1]
	}

	candidates := make([]string, 0, 8)
	candidates = append(candidates, first+"@"+domain)
	if last != "" {
		candidates = append(candidates, last+"@"+domain)
	}
	if last != "" && fi != "" {
		candidates = append(candidates, fi+"."+last+"@"+domain)
	}
	if last != "" {
		candidates = append(candidates, first+"."+last+"@"+domain)
	}
	if li != "" {
		candidates = append(candidates, first+"."+li+"@"+domain)
	}
	if last != "" {
		candidates = append(candidates, first+last+"@"+domain)
	}
	if last != "" {
		candidates = append(candidates, last+first+"@"+domain)
	}
	if fi != "" && li != "" {
		candidates = append(candidates, fi+li+"@"+domain)
	}

	seen := make(map[string]struct{}, len(candidates))
	ordered := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		ordered = append(ordered, c)
	}
	return ordered
}
