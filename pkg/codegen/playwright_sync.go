// pkg/codegen/playwright_sync.go
package codegen

import (
	"fmt"
	"strings"

	"github.com/flowgen/flowgen/pkg/action"
)

// playwrightSyncTemplate renders synchronous-style Playwright Python.
type playwrightSyncTemplate struct{}

func (t *playwrightSyncTemplate) Framework() string     { return FrameworkPlaywrightSync }
func (t *playwrightSyncTemplate) FileExtension() string { return ".py" }

// pyCtx carries the expressions a statement renders against: the page
// handle and the selector lookup (quoted literal in test bodies, field
// reference inside page classes).
type pyCtx struct {
	page string
	sel  func(string) string
}

func pyLiteralCtx(o Options) pyCtx {
	return pyCtx{page: "page", sel: func(s string) string { return o.Quote(s) }}
}

func (t *playwrightSyncTemplate) Render(doc *Document, o Options) string {
	w := newLineWriter(o)

	w.line(0, "from playwright.sync_api import sync_playwright")

	for _, d := range doc.Prelude {
		w.blank()
		w.blank()
		t.renderDecl(w, d, o)
	}

	w.blank()
	w.blank()
	w.line(0, "def run() -> None:")
	w.line(1, "with sync_playwright() as p:")
	w.line(2, "browser = p.chromium.launch(headless=False)")
	w.line(2, "page = browser.new_page()")
	if doc.URL != "" {
		w.line(2, fmt.Sprintf("page.goto(%s)", o.Quote(doc.URL)))
		w.line(2, fmt.Sprintf("page.wait_for_load_state(%s)", o.Quote("networkidle")))
	}
	ctx := pyLiteralCtx(o)
	for _, st := range doc.Body {
		w.line(2, t.stmt(st, ctx, o))
	}
	w.line(2, "browser.close()")
	w.blank()
	w.blank()
	w.line(0, fmt.Sprintf("if __name__ == %s:", o.Quote("__main__")))
	w.line(1, "run()")

	return w.String()
}

func (t *playwrightSyncTemplate) Stmt(st Stmt, o Options) string {
	return t.stmt(st, pyLiteralCtx(o), o)
}

func (t *playwrightSyncTemplate) renderDecl(w *lineWriter, d Decl, o Options) {
	switch d.Kind {
	case DeclFunction:
		params := append([]string{"page"}, d.Params...)
		w.line(0, fmt.Sprintf("def %s(%s):", d.Name, strings.Join(params, ", ")))
		ctx := pyLiteralCtx(o)
		for _, st := range d.Body {
			w.line(1, t.stmt(st, ctx, o))
		}

	case DeclPageClass:
		po := d.Page
		w.line(0, fmt.Sprintf("class %s:", po.Name))
		w.line(1, "def __init__(self, page):")
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
			params := append([]string{"self"}, m.Params...)
			w.line(1, fmt.Sprintf("def %s(%s):", m.Name, strings.Join(params, ", ")))
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

func (t *playwrightSyncTemplate) stmt(st Stmt, ctx pyCtx, o Options) string {
	switch st.Kind {
	case StmtComment:
		return "# " + st.Text
	case StmtMarker:
		return "# >>> recorded actions <<<"
	case StmtAction:
		return t.actionStmt(st, ctx, o)
	case StmtAssert:
		return t.assertStmt(st, ctx, o)
	case StmtWaitVisible:
		return fmt.Sprintf("%s.wait_for_selector(%s, state=%s)", ctx.page, ctx.sel(st.Selector), o.Quote("visible"))
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

func pyArgs(args []Arg, o Options) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a.Var != "" {
			out[i] = a.Var
		} else {
			out[i] = o.Quote(a.Literal)
		}
	}
	return out
}

func (t *playwrightSyncTemplate) actionStmt(st Stmt, ctx pyCtx, o Options) string {
	a := st.Action
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
		return fmt.Sprintf("%s.fill(%s, %s)", ctx.page, ctx.sel(a.Selector), val(a.Value))
	case action.Type:
		return fmt.Sprintf("%s.type(%s, %s)", ctx.page, ctx.sel(a.Selector), val(a.Value))
	case action.Press:
		return fmt.Sprintf("%s.press(%s, %s)", ctx.page, ctx.sel(a.Selector), val(a.Value))
	case action.Check:
		return fmt.Sprintf("%s.check(%s)", ctx.page, ctx.sel(a.Selector))
	case action.Uncheck:
		return fmt.Sprintf("%s.uncheck(%s)", ctx.page, ctx.sel(a.Selector))
	case action.Select:
		return fmt.Sprintf("%s.select_option(%s, %s)", ctx.page, ctx.sel(a.Selector), val(a.Value))
	case action.Hover:
		return fmt.Sprintf("%s.hover(%s)", ctx.page, ctx.sel(a.Selector))
	default:
		// Unknown kinds degrade to a click.
		return fmt.Sprintf("%s.click(%s)", ctx.page, ctx.sel(a.Selector))
	}
}

func (t *playwrightSyncTemplate) assertStmt(st Stmt, ctx pyCtx, o Options) string {
	sel := ctx.sel(st.Selector)
	positive := st.Expected == "true"

	switch st.Assert {
	case AssertValue:
		return fmt.Sprintf("assert %s.input_value(%s) == %s", ctx.page, sel, o.Quote(st.Expected))
	case AssertVisible:
		if positive {
			return fmt.Sprintf("assert %s.is_visible(%s)", ctx.page, sel)
		}
		return fmt.Sprintf("assert not %s.is_visible(%s)", ctx.page, sel)
	case AssertChecked:
		if positive {
			return fmt.Sprintf("assert %s.is_checked(%s)", ctx.page, sel)
		}
		return fmt.Sprintf("assert not %s.is_checked(%s)", ctx.page, sel)
	case AssertDisabled:
		if positive {
			return fmt.Sprintf("assert %s.is_disabled(%s)", ctx.page, sel)
		}
		return fmt.Sprintf("assert not %s.is_disabled(%s)", ctx.page, sel)
	case AssertClass:
		return fmt.Sprintf("assert %s in (%s.get_attribute(%s, %s) or %s)",
			o.Quote(st.Expected), ctx.page, sel, o.Quote("class"), o.Quote(""))
	case AssertAttribute:
		name, value := splitPair(st.Expected)
		return fmt.Sprintf("assert %s.get_attribute(%s, %s) == %s", ctx.page, sel, o.Quote(name), o.Quote(value))
	case AssertCSS:
		prop, value := splitPair(st.Expected)
		return fmt.Sprintf("assert %s.eval_on_selector(%s, %s) == %s",
			ctx.page, sel, o.Quote("el => getComputedStyle(el)."+prop), o.Quote(value))
	default:
		// Unknown assertion kinds degrade to a text assertion.
		return fmt.Sprintf("assert %s.inner_text(%s) == %s", ctx.page, sel, o.Quote(st.Expected))
	}
}
