// pkg/codegen/robot.go
package codegen

import (
	"strings"

	"github.com/flowgen/flowgen/pkg/action"
)

// robotTemplate renders Robot Framework keyword/tabular statements using
// the Browser library. Quote style does not apply to Robot syntax; the
// indent configuration is honored for body lines.
type robotTemplate struct{}

// robotSep is the fixed cell separator between a keyword and its
// arguments.
const robotSep = "    "

func (t *robotTemplate) Framework() string     { return FrameworkRobot }
func (t *robotTemplate) FileExtension() string { return ".robot" }

func (t *robotTemplate) Render(doc *Document, o Options) string {
	w := newLineWriter(o)

	w.line(0, "*** Settings ***")
	w.line(0, "Library"+robotSep+"Browser")

	if len(doc.Prelude) > 0 {
		w.blank()
		w.line(0, "*** Keywords ***")
		for _, d := range doc.Prelude {
			t.renderDecl(w, d, o)
		}
	}

	w.blank()
	w.line(0, "*** Test Cases ***")
	w.line(0, "Recorded Flow")
	w.line(1, "New Browser"+robotSep+"chromium"+robotSep+"headless=False")
	if doc.URL != "" {
		w.line(1, "New Page"+robotSep+doc.URL)
		w.line(1, "Wait Until Network Is Idle")
	} else {
		w.line(1, "New Page")
	}
	for _, st := range doc.Body {
		w.line(1, t.stmt(st, o))
	}

	return w.String()
}

func (t *robotTemplate) Stmt(st Stmt, o Options) string {
	return t.stmt(st, o)
}

func (t *robotTemplate) renderDecl(w *lineWriter, d Decl, o Options) {
	switch d.Kind {
	case DeclFunction:
		w.line(0, titleKeyword(d.Name))
		if len(d.Params) > 0 {
			cells := []string{"[Arguments]"}
			for _, p := range d.Params {
				cells = append(cells, "${"+p+"}")
			}
			w.line(1, strings.Join(cells, robotSep))
		}
		for _, st := range d.Body {
			w.line(1, t.stmt(st, o))
		}

	case DeclPageClass:
		// Robot has no classes; every page method becomes a keyword
		// prefixed with the page name.
		for _, m := range d.Methods {
			w.line(0, d.Page.Name+" "+titleKeyword(m.Name))
			if len(m.Params) > 0 {
				cells := []string{"[Arguments]"}
				for _, p := range m.Params {
					cells = append(cells, "${"+p+"}")
				}
				w.line(1, strings.Join(cells, robotSep))
			}
			for _, st := range m.Body {
				w.line(1, t.stmt(st, o))
			}
		}
	}
}

func (t *robotTemplate) stmt(st Stmt, o Options) string {
	switch st.Kind {
	case StmtComment:
		return "# " + st.Text
	case StmtMarker:
		return "# >>> recorded actions <<<"
	case StmtAction:
		return t.actionStmt(st)
	case StmtAssert:
		return t.assertStmt(st)
	case StmtWaitVisible:
		return "Wait For Elements State" + robotSep + st.Selector + robotSep + "visible"
	case StmtWaitIdle:
		return "Wait Until Network Is Idle"
	case StmtCall:
		return strings.Join(append([]string{titleKeyword(st.Func)}, robotArgs(st.Args)...), robotSep)
	case StmtMethodCall:
		kw := st.Class + " " + titleKeyword(st.Func)
		return strings.Join(append([]string{kw}, robotArgs(st.Args)...), robotSep)
	case StmtNewInstance:
		return "# page object: " + st.Class
	}
	return ""
}

func robotArgs(args []Arg) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a.Var != "" {
			out[i] = "${" + a.Var + "}"
		} else {
			out[i] = a.Literal
		}
	}
	return out
}

func (t *robotTemplate) actionStmt(st Stmt) string {
	a := st.Action
	val := func(s string) string {
		if st.ValueVar != "" {
			return "${" + st.ValueVar + "}"
		}
		return s
	}

	switch a.Kind {
	case action.Navigate:
		return "Go To" + robotSep + val(a.URL)
	case action.Fill:
		return "Fill Text" + robotSep + a.Selector + robotSep + val(a.Value)
	case action.Type:
		return "Type Text" + robotSep + a.Selector + robotSep + val(a.Value)
	case action.Press:
		return "Press Keys" + robotSep + a.Selector + robotSep + val(a.Value)
	case action.Check:
		return "Check Checkbox" + robotSep + a.Selector
	case action.Uncheck:
		return "Uncheck Checkbox" + robotSep + a.Selector
	case action.Select:
		return "Select Options By" + robotSep + a.Selector + robotSep + "value" + robotSep + val(a.Value)
	case action.Hover:
		return "Hover" + robotSep + a.Selector
	default:
		return "Click" + robotSep + a.Selector
	}
}

func (t *robotTemplate) assertStmt(st Stmt) string {
	sel := st.Selector
	positive := st.Expected == "true"

	switch st.Assert {
	case AssertValue:
		return "Get Property" + robotSep + sel + robotSep + "value" + robotSep + "==" + robotSep + st.Expected
	case AssertVisible:
		if positive {
			return "Get Element States" + robotSep + sel + robotSep + "contains" + robotSep + "visible"
		}
		return "Get Element States" + robotSep + sel + robotSep + "not contains" + robotSep + "visible"
	case AssertChecked:
		if positive {
			return "Get Checkbox State" + robotSep + sel + robotSep + "==" + robotSep + "checked"
		}
		return "Get Checkbox State" + robotSep + sel + robotSep + "==" + robotSep + "unchecked"
	case AssertDisabled:
		if positive {
			return "Get Element States" + robotSep + sel + robotSep + "contains" + robotSep + "disabled"
		}
		return "Get Element States" + robotSep + sel + robotSep + "not contains" + robotSep + "disabled"
	case AssertClass:
		return "Get Classes" + robotSep + sel + robotSep + "contains" + robotSep + st.Expected
	case AssertAttribute:
		name, value := splitPair(st.Expected)
		return "Get Attribute" + robotSep + sel + robotSep + name + robotSep + "==" + robotSep + value
	case AssertCSS:
		prop, value := splitPair(st.Expected)
		return "Get Style" + robotSep + sel + robotSep + prop + robotSep + "==" + robotSep + value
	default:
		return "Get Text" + robotSep + sel + robotSep + "==" + robotSep + st.Expected
	}
}

// titleKeyword converts a snake_case method name to a Robot keyword name,
// "fill_form" becoming "Fill Form".
func titleKeyword(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
