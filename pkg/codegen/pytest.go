// pkg/codegen/pytest.go
package codegen

import (
	"fmt"
	"strings"

	"github.com/flowgen/flowgen/pkg/action"
)

// pytestTemplate renders fixture-based pytest + Playwright code using the
// locator/expect style.
type pytestTemplate struct{}

func (t *pytestTemplate) Framework() string     { return FrameworkPytest }
func (t *pytestTemplate) FileExtension() string { return ".py" }

func (t *pytestTemplate) Render(doc *Document, o Options) string {
	w := newLineWriter(o)

	w.line(0, "import pytest")
	w.line(0, "from playwright.sync_api import Page, expect")

	for _, d := range doc.Prelude {
		w.blank()
		w.blank()
		t.renderDecl(w, d, o)
	}

	w.blank()
	w.blank()
	w.line(0, "def test_recorded_flow(page: Page) -> None:")
	if doc.URL != "" {
		w.line(1, fmt.Sprintf("page.goto(%s)", o.Quote(doc.URL)))
		w.line(1, fmt.Sprintf("page.wait_for_load_state(%s)", o.Quote("networkidle")))
	}
	ctx := pyLiteralCtx(o)
	if len(doc.Body) == 0 && doc.URL == "" {
		w.line(1, "pass")
	}
	for _, st := range doc.Body {
		w.line(1, t.stmt(st, ctx, o))
	}

	return w.String()
}

func (t *pytestTemplate) Stmt(st Stmt, o Options) string {
	return t.stmt(st, pyLiteralCtx(o), o)
}

func (t *pytestTemplate) renderDecl(w *lineWriter, d Decl, o Options) {
	switch d.Kind {
	case DeclFunction:
		params := []string{"page: Page"}
		for _, p := range d.Params {
			params = append(params, p+": str")
		}
		w.line(0, fmt.Sprintf("def %s(%s) -> None:", d.Name, strings.Join(params, ", ")))
		ctx := pyLiteralCtx(o)
		for _, st := range d.Body {
			w.line(1, t.stmt(st, ctx, o))
		}

	case DeclPageClass:
		po := d.Page
		w.line(0, fmt.Sprintf("class %s:", po.Name))
		w.line(1, "def __init__(self, page: Page):")
		w.line(2, "self.page = page")
		for _, name := range po.SelectorNames {
			w.line(2, fmt.Sprintf("self.%s = %s", name, o.Quote(po.Selectors[name])))
		}
		ctx := pyCtx{
			page: "self.page",
			sel: func(s string) string {
				return "self." + po.Ident(s)
			},
		}
		for _, m := range d.Methods {
			w.blank()
			params := []string{"self"}
			for _, p := range m.Params {
				params = append(params, p+": str")
			}
			w.line(1, fmt.Sprintf("def %s(%s) -> None:", m.Name, strings.Join(params, ", ")))
			if len(m.Body) == 0 {
				w.line(2, "pass")
				continue
			}
			for _, st := range m.Body {
				w.line(2, t.stmt(st, ctx, o))
			}
		}
	}
}

func (t *pytestTemplate) stmt(st Stmt, ctx pyCtx, o Options) string {
	locator := func(sel string) string {
		return fmt.Sprintf("%s.locator(%s)", ctx.page, ctx.sel(sel))
	}

	switch st.Kind {
	case StmtComment:
		return "# " + st.Text
	case StmtMarker:
		return "# >>> recorded actions <<<"
	case StmtAction:
		return t.actionStmt(st, ctx, o)
	case StmtAssert:
		return t.assertStmt(st, locator(st.Selector), o)
	case StmtWaitVisible:
		return fmt.Sprintf("expect(%s).to_be_visible()", locator(st.Selector))
	case StmtWaitIdle:
		return fmt.Sprintf("%s.wait_for_load_state(%s)", ctx.page, o.Quote("networkidle"))
	case StmtCall:
		return fmt.Sprintf("%s(%s)", st.Func, strings.Join(append([]string{ctx.page}, pyArgs(st.Args, o)...), ", "))
	case StmtMethodCall:
		return fmt.Sprintf("%s.%s(%s)", st.Recv, st.Func, strings.Join(pyArgs(st.Args, o), ", "))
	case StmtNewInstance:
		return fmt.Sprintf("%s = %s(%s)", st.Recv, st.Class, ctx.page)
	}
	return ""
}

func (t *pytestTemplate) actionStmt(st Stmt, ctx pyCtx, o Options) string {
	a := st.Action
	loc := func() string {
		return fmt.Sprintf("%s.locator(%s)", ctx.page, ctx.sel(a.Selector))
	}
	val := func(s string) string {
		if st.ValueVar != "" {
			return st.ValueVar
		}
		return o.Quote(s)
	}

	switch a.Kind {
	case action.Navigate:
		return fmt.Sprintf("%s.goto(%s)", ctx.page, val(a.URL))
	case action.Fill:
		return fmt.Sprintf("%s.fill(%s)", loc(), val(a.Value))
	case action.Type:
		return fmt.Sprintf("%s.type(%s)", loc(), val(a.Value))
	case action.Press:
		return fmt.Sprintf("%s.press(%s)", loc(), val(a.Value))
	case action.Check:
		return fmt.Sprintf("%s.check()", loc())
	case action.Uncheck:
		return fmt.Sprintf("%s.uncheck()", loc())
	case action.Select:
		return fmt.Sprintf("%s.select_option(%s)", loc(), val(a.Value))
	case action.Hover:
		return fmt.Sprintf("%s.hover()", loc())
	default:
		return fmt.Sprintf("%s.click()", loc())
	}
}

func (t *pytestTemplate) assertStmt(st Stmt, locator string, o Options) string {
	positive := st.Expected == "true"

	switch st.Assert {
	case AssertValue:
		return fmt.Sprintf("expect(%s).to_have_value(%s)", locator, o.Quote(st.Expected))
	case AssertVisible:
		if positive {
			return fmt.Sprintf("expect(%s).to_be_visible()", locator)
		}
		return fmt.Sprintf("expect(%s).not_to_be_visible()", locator)
	case AssertChecked:
		if positive {
			return fmt.Sprintf("expect(%s).to_be_checked()", locator)
		}
		return fmt.Sprintf("expect(%s).not_to_be_checked()", locator)
	case AssertDisabled:
		if positive {
			return fmt.Sprintf("expect(%s).to_be_disabled()", locator)
		}
		return fmt.Sprintf("expect(%s).to_be_enabled()", locator)
	case AssertClass:
		return fmt.Sprintf("expect(%s).to_have_class(%s)", locator, o.Quote(st.Expected))
	case AssertAttribute:
		name, value := splitPair(st.Expected)
		return fmt.Sprintf("expect(%s).to_have_attribute(%s, %s)", locator, o.Quote(name), o.Quote(value))
	case AssertCSS:
		prop, value := splitPair(st.Expected)
		return fmt.Sprintf("expect(%s).to_have_css(%s, %s)", locator, o.Quote(prop), o.Quote(value))
	default:
		return fmt.Sprintf("expect(%s).to_have_text(%s)", locator, o.Quote(st.Expected))
	}
}
