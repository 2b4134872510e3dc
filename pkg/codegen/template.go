// pkg/codegen/template.go
package codegen

import (
	"strings"

	"github.com/flowgen/flowgen/pkg/action"
)

// Template renders the intermediate document in one target framework's
// syntax. Implementations are pure: no I/O, no shared state.
type Template interface {
	Framework() string
	FileExtension() string
	// Render produces a complete source file for the document.
	Render(doc *Document, o Options) string
	// Stmt renders a single statement at zero indentation with the plain
	// page handle in scope.
	Stmt(st Stmt, o Options) string
}

var registry = []Template{
	&playwrightSyncTemplate{},
	&pytestTemplate{},
	newTypescript(),
	newJavascript(),
	&robotTemplate{},
}

// Lookup selects the template for a framework identifier. Unknown
// identifiers fall back to the synchronous Playwright template so
// generation never fails outright.
func Lookup(framework string) Template {
	for _, t := range registry {
		if t.Framework() == framework {
			return t
		}
	}
	return registry[0]
}

// Frameworks lists the registered framework identifiers.
func Frameworks() []string {
	out := make([]string, len(registry))
	for i, t := range registry {
		out[i] = t.Framework()
	}
	return out
}

// Skeleton generates test-file boilerplate that navigates to url and
// leaves a marked insertion point for subsequent actions.
func Skeleton(url string, o Options) string {
	tmpl := Lookup(o.Framework)
	return tmpl.Render(&Document{URL: url, Body: []Stmt{{Kind: StmtMarker}}}, o)
}

// ActionSnippet generates one statement performing the action kind on the
// selector. Unknown kinds default to click.
func ActionSnippet(selector string, kind action.Kind, value string, o Options) string {
	tmpl := Lookup(o.Framework)
	a := action.Action{Kind: kind, Selector: selector, Value: value}
	if kind == action.Navigate {
		a.URL = value
	}
	return tmpl.Stmt(Stmt{Kind: StmtAction, Action: &a}, o)
}

// AssertionSnippet generates one assertion statement. Boolean-valued kinds
// choose the positive or negated form based on expected == "true".
func AssertionSnippet(selector string, kind AssertionKind, expected string, o Options) string {
	tmpl := Lookup(o.Framework)
	return tmpl.Stmt(Stmt{
		Kind:     StmtAssert,
		Selector: selector,
		Assert:   kind,
		Expected: expected,
	}, o)
}

// lineWriter accumulates indented source lines.
type lineWriter struct {
	b    strings.Builder
	unit string
}

func newLineWriter(o Options) *lineWriter {
	return &lineWriter{unit: o.IndentUnit()}
}

func (w *lineWriter) line(level int, s string) {
	if s != "" {
		w.b.WriteString(strings.Repeat(w.unit, level))
		w.b.WriteString(s)
	}
	w.b.WriteByte('\n')
}

func (w *lineWriter) blank() {
	w.b.WriteByte('\n')
}

func (w *lineWriter) String() string {
	return w.b.String()
}

// splitPair splits an "name=value" or "name: value" expectation into its
// two halves, used by attribute and css assertions.
func splitPair(expected string) (string, string) {
	for _, sep := range []string{"=", ":"} {
		if i := strings.Index(expected, sep); i >= 0 {
			return strings.TrimSpace(expected[:i]), strings.TrimSpace(expected[i+1:])
		}
	}
	return expected, ""
}
