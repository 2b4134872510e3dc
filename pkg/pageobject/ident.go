// pkg/pageobject/ident.go
package pageobject

import (
	"hash/fnv"
	"regexp"
	"strconv"
	"strings"
)

var (
	testIDRe = regexp.MustCompile(`data-testid[~^$*|]?=\s*["']?([^"'\]]+)`)
	nameRe   = regexp.MustCompile(`\bname\s*[~^$*|]?=\s*["']?([^"'\]]+)`)
)

// SelectorIdent derives a stable, syntactically valid identifier from a
// selector string. The function is pure and total: the same selector
// always yields the same identifier.
func SelectorIdent(selector string) string {
	if m := testIDRe.FindStringSubmatch(selector); m != nil {
		return normalizeIdent(m[1])
	}

	if strings.HasPrefix(selector, "#") {
		return normalizeIdent(strings.TrimPrefix(selector, "#"))
	}

	if m := nameRe.FindStringSubmatch(selector); m != nil {
		return normalizeIdent(m[1])
	}

	if strings.HasPrefix(selector, ".") {
		first := strings.TrimPrefix(selector, ".")
		if i := strings.IndexByte(first, '.'); i >= 0 {
			first = first[:i]
		}
		return normalizeIdent(first)
	}

	sanitized := sanitizeIdent(selector)
	if len(sanitized) > 20 {
		sanitized = sanitized[:20]
	}
	sanitized = strings.Trim(sanitized, "_")
	if sanitized != "" {
		return sanitized
	}

	// Hash fallback keeps even pathological selectors addressable.
	h := fnv.New32a()
	h.Write([]byte(selector))
	return "element_" + lastDigits(h.Sum32(), 4)
}

// normalizeIdent lowercases and converts hyphens and dots to underscores.
func normalizeIdent(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, ".", "_")
	s = sanitizeIdent(s)
	s = strings.Trim(s, "_")
	if s == "" {
		return "element"
	}
	return s
}

// sanitizeIdent lowercases and replaces every non-alphanumeric rune with
// an underscore, collapsing runs.
func sanitizeIdent(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(s) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_':
			if r == '_' {
				if lastUnderscore {
					continue
				}
				lastUnderscore = true
			} else {
				lastUnderscore = false
			}
			b.WriteRune(r)
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return b.String()
}

// lastDigits renders the trailing n decimal digits of v, zero padded.
func lastDigits(v uint32, n int) string {
	s := strconv.FormatUint(uint64(v), 10)
	for len(s) < n {
		s = "0" + s
	}
	return s[len(s)-n:]
}

// paramKeywords maps selector substrings to canonical parameter names, in
// priority order.
var paramKeywords = []struct {
	substr string
	name   string
}{
	{"username", "username"},
	{"email", "email"},
	{"password", "password"},
	{"user", "username"},
	{"pass", "password"},
	{"name", "name"},
	{"phone", "phone"},
	{"search", "search"},
}

// paramName picks a parameter name for a Fill/Type action by keyword
// matching its selector.
func paramName(selector string) string {
	lower := strings.ToLower(selector)
	for _, kw := range paramKeywords {
		if strings.Contains(lower, kw.substr) {
			return kw.name
		}
	}
	return "text"
}
