// pkg/codegen/generator_test.go
package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgen/flowgen/pkg/action"
)

func loginActions() []action.Action {
	return []action.Action{
		{Kind: action.Navigate, URL: "https://x/login"},
		{Kind: action.Fill, Selector: "#user", Value: "bob", NeedsSelectorWait: true, NeedsNavigationWait: true},
		{Kind: action.Fill, Selector: "#pass", Value: "secret", NeedsSelectorWait: true},
		{Kind: action.Click, Selector: "#submit", NeedsSelectorWait: true},
	}
}

// assertOrdered checks that the needles appear in the haystack in the
// given order.
func assertOrdered(t *testing.T, haystack string, needles ...string) {
	t.Helper()
	pos := 0
	for _, n := range needles {
		i := strings.Index(haystack[pos:], n)
		require.GreaterOrEqual(t, i, 0, "expected %q after position %d in:\n%s", n, pos, haystack)
		pos += i + len(n)
	}
}

func TestFlatModeLoginFlow(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	out := g.Generate(loginActions(), ModeFlat)

	assertOrdered(t, out,
		`page.goto("https://x/login")`,
		`page.wait_for_load_state("networkidle")`,
		`page.wait_for_selector("#user", state="visible")`,
		`page.fill("#user", "bob")`,
		`page.wait_for_selector("#pass", state="visible")`,
		`page.fill("#pass", "secret")`,
		`page.wait_for_selector("#submit", state="visible")`,
		`page.click("#submit")`,
	)
}

func TestFlatModeNetworkActivityWait(t *testing.T) {
	acts := []action.Action{
		{Kind: action.Click, Selector: "#load-more", NeedsSelectorWait: true, HasNetworkActivity: true},
	}

	g := NewGenerator(DefaultOptions())
	out := g.Generate(acts, ModeFlat)

	assertOrdered(t, out,
		`page.wait_for_selector("#load-more", state="visible")`,
		`page.click("#load-more")`,
		`page.wait_for_load_state("networkidle")`,
	)
}

func TestFlatModeDeterministic(t *testing.T) {
	acts := loginActions()
	for _, fw := range Frameworks() {
		o := DefaultOptions()
		o.Framework = fw
		g := NewGenerator(o)
		first := g.Generate(acts, ModeFlat)
		assert.Equal(t, first, g.Generate(acts, ModeFlat), "framework %s", fw)
	}
}

func TestPageObjectMode(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	out := g.Generate(loginActions(), ModePageObject)

	assert.Contains(t, out, "class LoginPage:")
	assert.Contains(t, out, "def login(self, username, password):")
	assert.Contains(t, out, `self.user = "#user"`)
	assert.Contains(t, out, "self.page.fill(self.user, username)")
	assertOrdered(t, out,
		"login_page = LoginPage(page)",
		`page.goto("https://x/login")`,
		`login_page.login("bob", "secret")`,
	)
}

func TestPageObjectModeTypeScript(t *testing.T) {
	o := DefaultOptions()
	o.Framework = FrameworkTypeScript
	o.SingleQuotes = true
	g := NewGenerator(o)
	out := g.Generate(loginActions(), ModePageObject)

	assert.Contains(t, out, "class LoginPage {")
	assert.Contains(t, out, "async login(username: string, password: string): Promise<void> {")
	assert.Contains(t, out, "await this.page.fill(this.user, username);")
	assertOrdered(t, out,
		"const loginPage = new LoginPage(page);",
		"await page.goto('https://x/login');",
		"await loginPage.login('bob', 'secret');",
	)
}

func TestPageObjectModeRobot(t *testing.T) {
	o := DefaultOptions()
	o.Framework = FrameworkRobot
	g := NewGenerator(o)
	out := g.Generate(loginActions(), ModePageObject)

	assert.Contains(t, out, "*** Keywords ***")
	assert.Contains(t, out, "LoginPage Login")
	assert.Contains(t, out, "[Arguments]    ${username}    ${password}")
	assert.Contains(t, out, "Fill Text    #user    ${username}")
	assert.Contains(t, out, "LoginPage Login    bob    secret")
}

func TestParameterizedModeReuse(t *testing.T) {
	acts := []action.Action{
		{Kind: action.Fill, Selector: "#search", Value: "widgets", NeedsSelectorWait: true},
		{Kind: action.Click, Selector: "#go", NeedsSelectorWait: true},
		{Kind: action.Fill, Selector: "#search", Value: "gadgets", NeedsSelectorWait: true},
	}

	g := NewGenerator(DefaultOptions())
	out := g.Generate(acts, ModeParameterized)

	// One definition, two call sites with the two captured values.
	assert.Equal(t, 1, strings.Count(out, "def fill_search(page, value):"))
	assertOrdered(t, out,
		`fill_search(page, "widgets")`,
		`page.click("#go")`,
		`fill_search(page, "gadgets")`,
	)
}

func TestParameterizedModeNavigationHelper(t *testing.T) {
	acts := []action.Action{
		{Kind: action.Navigate, URL: "https://x/login"},
		{Kind: action.Click, Selector: "#ok", NeedsSelectorWait: true},
	}

	g := NewGenerator(DefaultOptions())
	out := g.Generate(acts, ModeParameterized)

	assert.Contains(t, out, "def open_login(page, url):")
	assert.Contains(t, out, "page.goto(url)")
	assert.Contains(t, out, `open_login(page, "https://x/login")`)
	// The helper body carries the mandatory post-navigation idle wait.
	assertOrdered(t, out,
		"def open_login(page, url):",
		"page.goto(url)",
		`page.wait_for_load_state("networkidle")`,
	)
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name      string
		framework string
		base      string
		want      string
	}{
		{name: "typescript", framework: FrameworkTypeScript, base: "Login Flow!", want: "login-flow.spec.ts"},
		{name: "javascript", framework: FrameworkJavaScript, base: "checkout", want: "checkout.spec.js"},
		{name: "python", framework: FrameworkPlaywrightSync, base: "", want: "recorded-flow.py"},
		{name: "robot", framework: FrameworkRobot, base: "Smoke #1", want: "smoke-1.robot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			o.Framework = tt.framework
			assert.Equal(t, tt.want, NewGenerator(o).Filename(tt.base))
		})
	}
}

func TestGenerateEmptyLog(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	for _, mode := range []Mode{ModeFlat, ModePageObject, ModeParameterized} {
		out := g.Generate(nil, mode)
		assert.Contains(t, out, "from playwright.sync_api import sync_playwright", "mode %s", mode)
	}
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeFlat, ParseMode(""))
	assert.Equal(t, ModeFlat, ParseMode("bogus"))
	assert.Equal(t, ModePageObject, ParseMode("page-object"))
	assert.Equal(t, ModeParameterized, ParseMode(" Parameterized "))
}
