// pkg/pageobject/pageobject.go
package pageobject

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/flowgen/flowgen/pkg/action"
)

// UnknownURL is the sentinel for a page object whose actions were never
// preceded by a navigation.
const UnknownURL = "unknown"

// MethodParameter represents one argument of a page method, sourced from a
// Fill/Type action.
type MethodParameter struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// PageMethod represents a named, parameterized grouping of actions within
// a page object.
type PageMethod struct {
	Name    string            `json:"name"`
	Actions []action.Action   `json:"actions"`
	Params  []MethodParameter `json:"params,omitempty"`
}

// PageObject represents one synthesized unit of a recorded flow: the
// actions observed on a single page, its deduplicated selectors, and the
// methods extracted from them.
type PageObject struct {
	Name    string          `json:"name"`
	URL     string          `json:"url"`
	Actions []action.Action `json:"actions"`

	// Selectors maps derived identifier to raw selector; SelectorNames
	// preserves insertion order so rendering stays deterministic.
	Selectors     map[string]string `json:"selectors"`
	SelectorNames []string          `json:"selector_names"`

	Methods []PageMethod `json:"methods"`

	identBySelector map[string]string
}

// Ident returns the field identifier assigned to a raw selector on this
// page, falling back to the pure derivation when the selector was never
// collected.
func (po *PageObject) Ident(selector string) string {
	if id, ok := po.identBySelector[selector]; ok {
		return id
	}
	return SelectorIdent(selector)
}

// Extract groups a flat finalized action log into page objects. Navigate
// actions with a known URL open page boundaries; a log with no navigation
// at all yields exactly one page with the unknown-URL sentinel. An empty
// log yields nil.
func Extract(actions []action.Action) []*PageObject {
	var pages []*PageObject
	var buf []action.Action
	currentURL := ""

	flush := func() {
		if len(buf) == 0 {
			return
		}
		if currentURL == "" {
			// No page boundary seen yet; keep buffering so the
			// degenerate case below can claim these actions.
			return
		}
		pages = append(pages, build(currentURL, buf))
		buf = nil
	}

	for _, a := range actions {
		if a.Kind == action.Navigate && a.URL != "" {
			flush()
			if currentURL == "" {
				// Actions observed before the first navigation stay
				// with the page it opens.
				buf = append(buf, a)
			} else {
				buf = []action.Action{a}
			}
			currentURL = a.URL
			continue
		}
		buf = append(buf, a)
	}

	if len(buf) > 0 && currentURL != "" {
		pages = append(pages, build(currentURL, buf))
		buf = nil
	}

	if len(pages) == 0 && len(actions) > 0 {
		pages = append(pages, build(UnknownURL, actions))
	}

	return pages
}

// build assembles one page object: name derivation, selector collection,
// and method extraction.
func build(pageURL string, actions []action.Action) *PageObject {
	po := &PageObject{
		Name:            deriveName(pageURL),
		URL:             pageURL,
		Actions:         append([]action.Action(nil), actions...),
		Selectors:       make(map[string]string),
		identBySelector: make(map[string]string),
	}

	for _, a := range actions {
		if a.Kind == action.Navigate || a.Selector == "" {
			continue
		}
		if _, seen := po.identBySelector[a.Selector]; seen {
			continue
		}
		id := uniqueIdent(po.Selectors, a.Selector)
		po.Selectors[id] = a.Selector
		po.SelectorNames = append(po.SelectorNames, id)
		po.identBySelector[a.Selector] = id
	}

	po.Methods = extractMethods(po, actions)
	return po
}

// uniqueIdent derives the selector identifier, appending a numeric suffix
// when two distinct selectors reduce to the same name.
func uniqueIdent(taken map[string]string, selector string) string {
	id := SelectorIdent(selector)
	if _, exists := taken[id]; !exists {
		return id
	}
	for n := 2; ; n++ {
		candidate := id + "_" + strconv.Itoa(n)
		if _, exists := taken[candidate]; !exists {
			return candidate
		}
	}
}

// PageName derives the class name for a page URL. Exposed for callers
// that name artifacts after pages without synthesizing them.
func PageName(pageURL string) string {
	return deriveName(pageURL)
}

// deriveName turns a page URL into a class name: root paths become
// "HomePage", the unknown sentinel becomes "MainPage", path segments are
// capitalized and concatenated, and unparseable URLs fall back to
// "UnknownPage".
func deriveName(pageURL string) string {
	if pageURL == UnknownURL || pageURL == "" {
		return "MainPage"
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return "UnknownPage"
	}

	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "HomePage"
	}

	var b strings.Builder
	for _, seg := range strings.Split(path, "/") {
		b.WriteString(capitalizeSegment(seg))
	}
	if b.Len() == 0 {
		return "HomePage"
	}
	return b.String() + "Page"
}

// capitalizeSegment title-cases the alphanumeric runs of one path segment,
// so "my-account" becomes "MyAccount".
func capitalizeSegment(seg string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range seg {
		if !isAlphanumeric(r) {
			upperNext = true
			continue
		}
		if upperNext && r >= 'a' && r <= 'z' {
			r = r - 'a' + 'A'
		}
		b.WriteRune(r)
		upperNext = false
	}
	return b.String()
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
