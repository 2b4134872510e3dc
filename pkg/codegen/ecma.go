// pkg/codegen/ecma.go
package codegen

import (
	"fmt"
	"strings"

	"github.com/flowgen/flowgen/pkg/action"
)

// ecmaTemplate renders Playwright Test code for the ECMAScript family.
// The typed variant emits TypeScript annotations and ES imports, the
// untyped variant plain JavaScript with require.
type ecmaTemplate struct {
	typed bool
}

type typescriptTemplate struct{ ecmaTemplate }

func newTypescript() *typescriptTemplate {
	return &typescriptTemplate{ecmaTemplate{typed: true}}
}

func (t *typescriptTemplate) Framework() string     { return FrameworkTypeScript }
func (t *typescriptTemplate) FileExtension() string { return ".spec.ts" }

type javascriptTemplate struct{ ecmaTemplate }

func newJavascript() *javascriptTemplate {
	return &javascriptTemplate{ecmaTemplate{typed: false}}
}

func (t *javascriptTemplate) Framework() string     { return FrameworkJavaScript }
func (t *javascriptTemplate) FileExtension() string { return ".spec.js" }

// ecmaCtx mirrors pyCtx for the ECMAScript renderers.
type ecmaCtx struct {
	page string
	sel  func(string) string
}

func ecmaLiteralCtx(o Options) ecmaCtx {
	return ecmaCtx{page: "page", sel: func(s string) string { return o.Quote(s) }}
}

func (t *ecmaTemplate) Render(doc *Document, o Options) string {
	w := newLineWriter(o)

	if t.typed {
		if len(doc.Prelude) > 0 {
			w.line(0, fmt.Sprintf("import { test, expect, type Page } from %s;", o.Quote("@playwright/test")))
		} else {
			w.line(0, fmt.Sprintf("import { test, expect } from %s;", o.Quote("@playwright/test")))
		}
	} else {
		w.line(0, fmt.Sprintf("const { test, expect } = require(%s);", o.Quote("@playwright/test")))
	}

	for _, d := range doc.Prelude {
		w.blank()
		t.renderDecl(w, d, o)
	}

	w.blank()
	w.line(0, fmt.Sprintf("test(%s, async ({ page }) => {", o.Quote("recorded flow")))
	if doc.URL != "" {
		w.line(1, fmt.Sprintf("await page.goto(%s);", o.Quote(doc.URL)))
		w.line(1, fmt.Sprintf("await page.waitForLoadState(%s);", o.Quote("networkidle")))
	}
	ctx := ecmaLiteralCtx(o)
	for _, st := range doc.Body {
		w.line(1, t.stmt(st, ctx, o))
	}
	w.line(0, "});")

	return w.String()
}

func (t *ecmaTemplate) Stmt(st Stmt, o Options) string {
	return t.stmt(st, ecmaLiteralCtx(o), o)
}

func (t *ecmaTemplate) renderDecl(w *lineWriter, d Decl, o Options) {
	switch d.Kind {
	case DeclFunction:
		params := make([]string, 0, len(d.Params)+1)
		if t.typed {
			params = append(params, "page: Page")
			for _, p := range d.Params {
				params = append(params, camelize(p)+": string")
			}
			w.line(0, fmt.Sprintf("async function %s(%s): Promise<void> {", camelize(d.Name), strings.Join(params, ", ")))
		} else {
			params = append(params, "page")
			for _, p := range d.Params {
				params = append(params, camelize(p))
			}
			w.line(0, fmt.Sprintf("async function %s(%s) {", camelize(d.Name), strings.Join(params, ", ")))
		}
		ctx := ecmaLiteralCtx(o)
		for _, st := range d.Body {
			w.line(1, t.stmt(st, ctx, o))
		}
		w.line(0, "}")

	case DeclPageClass:
		po := d.Page
		w.line(0, fmt.Sprintf("class %s {", po.Name))
		if t.typed {
			w.line(1, "readonly page: Page;")
			for _, name := range po.SelectorNames {
				w.line(1, fmt.Sprintf("readonly %s = %s;", camelize(name), o.Quote(po.Selectors[name])))
			}
			w.blank()
			w.line(1, "constructor(page: Page) {")
			w.line(2, "this.page = page;")
			w.line(1, "}")
		} else {
			w.line(1, "constructor(page) {")
			w.line(2, "this.page = page;")
			for _, name := range po.SelectorNames {
				w.line(2, fmt.Sprintf("this.%s = %s;", camelize(name), o.Quote(po.Selectors[name])))
			}
			w.line(1, "}")
		}
		ctx := ecmaCtx{
			page: "this.page",
			sel: func(s string) string {
				return "this." + camelize(po.Ident(s))
			},
		}
		for _, m := range d.Methods {
			w.blank()
			params := make([]string, 0, len(m.Params))
			for _, p := range m.Params {
				if t.typed {
					params = append(params, camelize(p)+": string")
				} else {
					params = append(params, camelize(p))
				}
			}
			if t.typed {
				w.line(1, fmt.Sprintf("async %s(%s): Promise<void> {", camelize(m.Name), strings.Join(params, ", ")))
			} else {
				w.line(1, fmt.Sprintf("async %s(%s) {", camelize(m.Name), strings.Join(params, ", ")))
			}
			for _, st := range m.Body {
				w.line(2, t.stmt(st, ctx, o))
			}
			w.line(1, "}")
		}
		w.line(0, "}")
	}
}

func (t *ecmaTemplate) stmt(st Stmt, ctx ecmaCtx, o Options) string {
	switch st.Kind {
	case StmtComment:
		return "// " + st.Text
	case StmtMarker:
		return "// >>> recorded actions <<<"
	case StmtAction:
		return t.actionStmt(st, ctx, o)
	case StmtAssert:
		return t.assertStmt(st, ctx, o)
	case StmtWaitVisible:
		return fmt.Sprintf("await %s.waitForSelector(%s, { state: %s });", ctx.page, ctx.sel(st.Selector), o.Quote("visible"))
	case StmtWaitIdle:
		return fmt.Sprintf("await %s.waitForLoadState(%s);", ctx.page, o.Quote("networkidle"))
	case StmtCall:
		args := append([]string{ctx.page}, ecmaArgs(st.Args, o)...)
		return fmt.Sprintf("await %s(%s);", camelize(st.Func), strings.Join(args, ", "))
	case StmtMethodCall:
		return fmt.Sprintf("await %s.%s(%s);", camelize(st.Recv), camelize(st.Func), strings.Join(ecmaArgs(st.Args, o), ", "))
	case StmtNewInstance:
		return fmt.Sprintf("const %s = new %s(%s);", camelize(st.Recv), st.Class, ctx.page)
	}
	return ""
}

func ecmaArgs(args []Arg, o Options) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a.Var != "" {
			out[i] = camelize(a.Var)
		} else {
			out[i] = o.Quote(a.Literal)
		}
	}
	return out
}

func (t *ecmaTemplate) actionStmt(st Stmt, ctx ecmaCtx, o Options) string {
	a := st.Action
	val := func(s string) string {
		if st.ValueVar != "" {
			return camelize(st.ValueVar)
		}
		return o.Quote(s)
	}

	switch a.Kind {
	case action.Navigate:
		return fmt.Sprintf("await %s.goto(%s);", ctx.page, val(a.URL))
	case action.Fill:
		return fmt.Sprintf("await %s.fill(%s, %s);", ctx.page, ctx.sel(a.Selector), val(a.Value))
	case action.Type:
		return fmt.Sprintf("await %s.type(%s, %s);", ctx.page, ctx.sel(a.Selector), val(a.Value))
	case action.Press:
		return fmt.Sprintf("await %s.press(%s, %s);", ctx.page, ctx.sel(a.Selector), val(a.Value))
	case action.Check:
		return fmt.Sprintf("await %s.check(%s);", ctx.page, ctx.sel(a.Selector))
	case action.Uncheck:
		return fmt.Sprintf("await %s.uncheck(%s);", ctx.page, ctx.sel(a.Selector))
	case action.Select:
		return fmt.Sprintf("await %s.selectOption(%s, %s);", ctx.page, ctx.sel(a.Selector), val(a.Value))
	case action.Hover:
		return fmt.Sprintf("await %s.hover(%s);", ctx.page, ctx.sel(a.Selector))
	default:
		return fmt.Sprintf("await %s.click(%s);", ctx.page, ctx.sel(a.Selector))
	}
}

func (t *ecmaTemplate) assertStmt(st Stmt, ctx ecmaCtx, o Options) string {
	locator := fmt.Sprintf("%s.locator(%s)", ctx.page, ctx.sel(st.Selector))
	positive := st.Expected == "true"

	switch st.Assert {
	case AssertValue:
		return fmt.Sprintf("await expect(%s).toHaveValue(%s);", locator, o.Quote(st.Expected))
	case AssertVisible:
		if positive {
			return fmt.Sprintf("await expect(%s).toBeVisible();", locator)
		}
		return fmt.Sprintf("await expect(%s).not.toBeVisible();", locator)
	case AssertChecked:
		if positive {
			return fmt.Sprintf("await expect(%s).toBeChecked();", locator)
		}
		return fmt.Sprintf("await expect(%s).not.toBeChecked();", locator)
	case AssertDisabled:
		if positive {
			return fmt.Sprintf("await expect(%s).toBeDisabled();", locator)
		}
		return fmt.Sprintf("await expect(%s).toBeEnabled();", locator)
	case AssertClass:
		return fmt.Sprintf("await expect(%s).toHaveClass(%s);", locator, o.Quote(st.Expected))
	case AssertAttribute:
		name, value := splitPair(st.Expected)
		return fmt.Sprintf("await expect(%s).toHaveAttribute(%s, %s);", locator, o.Quote(name), o.Quote(value))
	case AssertCSS:
		prop, value := splitPair(st.Expected)
		return fmt.Sprintf("await expect(%s).toHaveCSS(%s, %s);", locator, o.Quote(prop), o.Quote(value))
	default:
		return fmt.Sprintf("await expect(%s).toHaveText(%s);", locator, o.Quote(st.Expected))
	}
}

// camelize converts a snake_case identifier to camelCase for the
// ECMAScript renderers.
func camelize(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	if b.Len() == 0 {
		return s
	}
	return b.String()
}
