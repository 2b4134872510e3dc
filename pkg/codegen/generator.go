// pkg/codegen/generator.go
package codegen

import (
	"regexp"
	"strings"

	"github.com/flowgen/flowgen/pkg/action"
	"github.com/flowgen/flowgen/pkg/pageobject"
)

// Mode selects how a recorded action log is rendered.
type Mode string

const (
	// ModeFlat renders one comment plus one statement per action.
	ModeFlat Mode = "flat"
	// ModePageObject renders a class per synthesized page plus a driver
	// test invoking its methods.
	ModePageObject Mode = "page-object"
	// ModeParameterized hoists Fill/Type/Navigate actions into reusable
	// functions called with the captured values.
	ModeParameterized Mode = "parameterized"
)

// ParseMode maps a string to a rendering mode, defaulting to flat.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePageObject:
		return ModePageObject
	case ModeParameterized:
		return ModeParameterized
	default:
		return ModeFlat
	}
}

// Generator renders frozen action logs as source text. It is stateless
// beyond its template and options and may be shared across goroutines.
type Generator struct {
	tmpl Template
	opts Options
}

// NewGenerator selects the template for the configured framework.
func NewGenerator(opts Options) *Generator {
	return &Generator{tmpl: Lookup(opts.Framework), opts: opts}
}

// Framework returns the resolved framework identifier.
func (g *Generator) Framework() string {
	return g.tmpl.Framework()
}

// Generate renders the action log in the requested mode. The output is
// deterministic: the same frozen log and options yield byte-identical
// text.
func (g *Generator) Generate(acts []action.Action, mode Mode) string {
	var doc *Document
	switch mode {
	case ModePageObject:
		doc = buildPageObjectDoc(acts)
	case ModeParameterized:
		doc = buildParameterizedDoc(acts)
	default:
		doc = buildFlatDoc(acts)
	}
	return g.tmpl.Render(doc, g.opts)
}

var filenameRe = regexp.MustCompile(`[^a-z0-9]+`)

// Filename derives a sanitized file name for generated output.
func (g *Generator) Filename(base string) string {
	name := strings.ToLower(strings.TrimSpace(base))
	name = filenameRe.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if len(name) > 50 {
		name = name[:50]
		if i := strings.LastIndex(name, "-"); i > 0 {
			name = name[:i]
		}
	}
	if name == "" {
		name = "recorded-flow"
	}
	return name + g.tmpl.FileExtension()
}

// waitWrapped brackets one action statement with its wait statements:
// navigations get a trailing network-idle wait, other actions get a
// selector-visible wait before and, when network activity was inferred, a
// network-idle wait after. The ordering is a fixed contract.
func waitWrapped(a action.Action, valueVar string) []Stmt {
	act := a
	var out []Stmt

	if act.Kind == action.Navigate {
		out = append(out, Stmt{Kind: StmtAction, Action: &act, ValueVar: valueVar})
		out = append(out, Stmt{Kind: StmtWaitIdle})
		return out
	}

	if act.NeedsSelectorWait {
		out = append(out, Stmt{Kind: StmtWaitVisible, Selector: act.Selector})
	}
	out = append(out, Stmt{Kind: StmtAction, Action: &act, ValueVar: valueVar})
	if act.HasNetworkActivity {
		out = append(out, Stmt{Kind: StmtWaitIdle})
	}
	return out
}

// describe renders the comment line preceding an action statement.
func describe(a action.Action) string {
	switch a.Kind {
	case action.Navigate:
		return "Navigate to " + a.URL
	case action.Fill, action.Type:
		return "Enter " + quoteIfShort(a.Value) + "into " + a.Selector
	case action.Press:
		return "Press " + a.Value + " on " + a.Selector
	case action.Select:
		return "Select " + quoteIfShort(a.Value) + "in " + a.Selector
	default:
		verb := string(a.Kind)
		if verb != "" {
			verb = strings.ToUpper(verb[:1]) + verb[1:]
		}
		return verb + " " + a.Selector
	}
}

func quoteIfShort(v string) string {
	if v == "" || len(v) > 40 {
		return ""
	}
	return "\"" + v + "\" "
}

func buildFlatDoc(acts []action.Action) *Document {
	doc := &Document{}
	for _, a := range acts {
		doc.Body = append(doc.Body, Stmt{Kind: StmtComment, Text: describe(a)})
		doc.Body = append(doc.Body, waitWrapped(a, "")...)
	}
	return doc
}

func buildPageObjectDoc(acts []action.Action) *Document {
	doc := &Document{}

	for _, po := range pageobject.Extract(acts) {
		decl := Decl{Kind: DeclPageClass, Page: po}
		for _, m := range po.Methods {
			md := MethodDecl{Name: m.Name, Params: paramNames(m.Params)}
			inputIdx := 0
			for _, a := range m.Actions {
				varName := ""
				if a.Kind.IsInput() && inputIdx < len(m.Params) {
					varName = m.Params[inputIdx].Name
					inputIdx++
				}
				md.Body = append(md.Body, waitWrapped(a, varName)...)
			}
			decl.Methods = append(decl.Methods, md)
		}
		doc.Prelude = append(doc.Prelude, decl)

		recv := instanceVar(po.Name)
		doc.Body = append(doc.Body, Stmt{Kind: StmtNewInstance, Recv: recv, Class: po.Name})
		if po.URL != pageobject.UnknownURL {
			nav := action.Action{Kind: action.Navigate, URL: po.URL}
			doc.Body = append(doc.Body, waitWrapped(nav, "")...)
		}
		for _, m := range po.Methods {
			args := make([]Arg, len(m.Params))
			for i, p := range m.Params {
				args[i] = Arg{Literal: p.Value}
			}
			doc.Body = append(doc.Body, Stmt{
				Kind:  StmtMethodCall,
				Recv:  recv,
				Class: po.Name,
				Func:  m.Name,
				Args:  args,
			})
		}
	}

	return doc
}

func buildParameterizedDoc(acts []action.Action) *Document {
	doc := &Document{}
	defined := make(map[string]bool)

	for _, a := range acts {
		doc.Body = append(doc.Body, Stmt{Kind: StmtComment, Text: describe(a)})

		switch {
		case a.Kind.IsInput():
			name := string(a.Kind) + "_" + pageobject.SelectorIdent(a.Selector)
			if !defined[name] {
				defined[name] = true
				doc.Prelude = append(doc.Prelude, Decl{
					Kind:   DeclFunction,
					Name:   name,
					Params: []string{"value"},
					Body:   waitWrapped(helperBodyAction(a), "value"),
				})
			}
			doc.Body = append(doc.Body, Stmt{Kind: StmtCall, Func: name, Args: []Arg{{Literal: a.Value}}})
			if a.HasNetworkActivity {
				doc.Body = append(doc.Body, Stmt{Kind: StmtWaitIdle})
			}

		case a.Kind == action.Navigate:
			name := "open_" + instanceVar(strings.TrimSuffix(pageobject.PageName(a.URL), "Page"))
			if !defined[name] {
				defined[name] = true
				doc.Prelude = append(doc.Prelude, Decl{
					Kind:   DeclFunction,
					Name:   name,
					Params: []string{"url"},
					Body:   waitWrapped(helperBodyAction(a), "url"),
				})
			}
			doc.Body = append(doc.Body, Stmt{Kind: StmtCall, Func: name, Args: []Arg{{Literal: a.URL}}})

		default:
			doc.Body = append(doc.Body, waitWrapped(a, "")...)
		}
	}

	return doc
}

// helperBodyAction normalizes an action for use inside a reusable helper:
// the per-call-site network hint stays at the call site, the selector wait
// always applies.
func helperBodyAction(a action.Action) action.Action {
	body := a
	body.HasNetworkActivity = false
	if body.Kind != action.Navigate {
		body.NeedsSelectorWait = true
	}
	return body
}

func paramNames(params []pageobject.MethodParameter) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Name
	}
	return out
}

// instanceVar converts a CamelCase class name to its snake_case instance
// variable, "LoginPage" becoming "login_page".
func instanceVar(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
