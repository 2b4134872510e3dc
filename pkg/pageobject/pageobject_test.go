// pkg/pageobject/pageobject_test.go
package pageobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgen/flowgen/pkg/action"
)

func TestSelectorIdent(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		want     string
	}{
		{name: "data-testid", selector: `[data-testid="login-btn"]`, want: "login_btn"},
		{name: "data-testid single quotes", selector: `[data-testid='save-form']`, want: "save_form"},
		{name: "id selector", selector: "#user-name", want: "user_name"},
		{name: "id with dot", selector: "#form.user", want: "form_user"},
		{name: "name attribute", selector: `input[name="q"]`, want: "q"},
		{name: "class selector", selector: ".btn.primary", want: "btn"},
		{name: "class with hyphen", selector: ".submit-button", want: "submit_button"},
		{name: "raw text sanitized", selector: "button[type='submit']", want: "button_type_submit"},
		{name: "truncated to 20", selector: "div > span > a.very-long-chain-here", want: "div_span_a_very_long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectorIdent(tt.selector))
		})
	}
}

func TestSelectorIdentDeterminism(t *testing.T) {
	// Same string in, same identifier out, including the hash fallback.
	for _, sel := range []string{"#user", "   ", "!!!", `[data-testid="x"]`} {
		first := SelectorIdent(sel)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, SelectorIdent(sel), "selector %q", sel)
		}
	}
}

func TestSelectorIdentHashFallback(t *testing.T) {
	id := SelectorIdent("!!!")
	assert.Regexp(t, `^element_\d{4}$`, id)
	assert.NotEqual(t, SelectorIdent("???"), id)
}

func TestSelectorCollisionSuffix(t *testing.T) {
	// Two distinct selectors reducing to the same identifier get numeric
	// suffixes instead of overwriting one another.
	actions := []action.Action{
		{Kind: action.Click, Selector: "#save"},
		{Kind: action.Click, Selector: ".save"},
	}

	pages := Extract(actions)
	require.Len(t, pages, 1)
	po := pages[0]

	require.Len(t, po.SelectorNames, 2)
	assert.Equal(t, "save", po.SelectorNames[0])
	assert.Equal(t, "save_2", po.SelectorNames[1])
	assert.Equal(t, "#save", po.Selectors["save"])
	assert.Equal(t, ".save", po.Selectors["save_2"])
	assert.Equal(t, "save_2", po.Ident(".save"))
}

func TestExtractLoginFlow(t *testing.T) {
	actions := []action.Action{
		{Kind: action.Navigate, URL: "https://x/login"},
		{Kind: action.Fill, Selector: "#user", Value: "bob"},
		{Kind: action.Fill, Selector: "#pass", Value: "secret"},
		{Kind: action.Click, Selector: "#submit"},
	}

	pages := Extract(actions)
	require.Len(t, pages, 1)
	po := pages[0]

	assert.Equal(t, "LoginPage", po.Name)
	assert.Equal(t, "https://x/login", po.URL)
	require.Len(t, po.Methods, 1)

	m := po.Methods[0]
	assert.Equal(t, "login", m.Name)
	require.Len(t, m.Params, 2)
	assert.Equal(t, "username", m.Params[0].Name)
	assert.Equal(t, "bob", m.Params[0].Value)
	assert.Equal(t, "password", m.Params[1].Name)
	assert.Equal(t, "secret", m.Params[1].Value)
	require.Len(t, m.Actions, 3)
	assert.Equal(t, action.Click, m.Actions[2].Kind)
}

func TestExtractNoNavigation(t *testing.T) {
	actions := []action.Action{
		{Kind: action.Click, Selector: ".btn"},
	}

	pages := Extract(actions)
	require.Len(t, pages, 1)
	assert.Equal(t, UnknownURL, pages[0].URL)
	assert.Equal(t, "MainPage", pages[0].Name)
}

func TestExtractEmptyLog(t *testing.T) {
	assert.Empty(t, Extract(nil))
	assert.Empty(t, Extract([]action.Action{}))
}

func TestExtractPartitionCompleteness(t *testing.T) {
	actions := []action.Action{
		{Kind: action.Navigate, URL: "https://x/"},
		{Kind: action.Click, Selector: "#a"},
		{Kind: action.Navigate, URL: "https://x/cart"},
		{Kind: action.Fill, Selector: "#qty", Value: "2"},
		{Kind: action.Click, Selector: "#checkout"},
	}

	pages := Extract(actions)
	require.Len(t, pages, 2)
	assert.Equal(t, "HomePage", pages[0].Name)
	assert.Equal(t, "CartPage", pages[1].Name)

	// Concatenating the page slices reproduces the original log.
	var flattened []action.Action
	for _, po := range pages {
		flattened = append(flattened, po.Actions...)
	}
	assert.Equal(t, actions, flattened)
}

func TestExtractActionsBeforeFirstNavigationKept(t *testing.T) {
	actions := []action.Action{
		{Kind: action.Click, Selector: "#cookie-accept"},
		{Kind: action.Navigate, URL: "https://x/shop"},
		{Kind: action.Click, Selector: "#buy"},
	}

	pages := Extract(actions)
	require.Len(t, pages, 1)
	assert.Equal(t, "ShopPage", pages[0].Name)
	assert.Equal(t, actions, pages[0].Actions)
}

func TestIntentGroupingClosesOnClick(t *testing.T) {
	actions := []action.Action{
		{Kind: action.Click, Selector: "a"},
		{Kind: action.Click, Selector: "a"},
		{Kind: action.Click, Selector: "b"},
	}

	pages := Extract(actions)
	require.Len(t, pages, 1)

	methods := pages[0].Methods
	require.Len(t, methods, 3)
	for _, m := range methods {
		assert.Len(t, m.Actions, 1)
	}
	assert.Equal(t, "click_a", methods[0].Name)
	assert.Equal(t, "click_b", methods[2].Name)
}

func TestIntentGroupingTrailingFlush(t *testing.T) {
	actions := []action.Action{
		{Kind: action.Hover, Selector: "#menu"},
		{Kind: action.Click, Selector: "#open"},
		{Kind: action.Check, Selector: "#agree"},
	}

	pages := Extract(actions)
	require.Len(t, pages, 1)

	methods := pages[0].Methods
	require.Len(t, methods, 2)
	assert.Len(t, methods[0].Actions, 2)
	assert.Len(t, methods[1].Actions, 1)
}

func TestEnterCredentialsName(t *testing.T) {
	// Username and password inputs without a submit click.
	actions := []action.Action{
		{Kind: action.Fill, Selector: "#username", Value: "bob"},
		{Kind: action.Fill, Selector: "#password", Value: "secret"},
	}

	pages := Extract(actions)
	require.Len(t, pages, 1)
	require.Len(t, pages[0].Methods, 1)
	assert.Equal(t, "enter_credentials", pages[0].Methods[0].Name)
}

func TestFormDetectionRequiresClickAfterLastInput(t *testing.T) {
	// Click before the inputs does not qualify as a submission.
	actions := []action.Action{
		{Kind: action.Click, Selector: "#edit"},
		{Kind: action.Fill, Selector: "#city", Value: "Oslo"},
	}

	pages := Extract(actions)
	require.Len(t, pages, 1)

	methods := pages[0].Methods
	require.Len(t, methods, 2)
	assert.Equal(t, "click_edit", methods[0].Name)
}

func TestDeriveName(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "root", url: "https://x/", want: "HomePage"},
		{name: "no path", url: "https://x", want: "HomePage"},
		{name: "single segment", url: "https://x/login", want: "LoginPage"},
		{name: "multi segment", url: "https://x/admin/users", want: "AdminUsersPage"},
		{name: "hyphenated segment", url: "https://x/my-account", want: "MyAccountPage"},
		{name: "unknown sentinel", url: UnknownURL, want: "MainPage"},
		{name: "unparseable", url: "http://%zz", want: "UnknownPage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveName(tt.url))
		})
	}
}

func TestDuplicateParamNamesSuffixed(t *testing.T) {
	actions := []action.Action{
		{Kind: action.Fill, Selector: "#first-name", Value: "Ada"},
		{Kind: action.Fill, Selector: "#last-name", Value: "Lovelace"},
		{Kind: action.Click, Selector: "#submit"},
	}

	pages := Extract(actions)
	require.Len(t, pages, 1)
	require.Len(t, pages[0].Methods, 1)

	params := pages[0].Methods[0].Params
	require.Len(t, params, 2)
	assert.Equal(t, "name", params[0].Name)
	assert.Equal(t, "name_2", params[1].Name)
}
