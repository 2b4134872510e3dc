// pkg/pageobject/methods.go
package pageobject

import (
	"strconv"
	"strings"

	"github.com/flowgen/flowgen/pkg/action"
)

// extractMethods infers the methods of a page, in priority order: form
// submission, intent grouping, then a generic per-action fallback. First
// strategy to produce methods wins.
func extractMethods(po *PageObject, actions []action.Action) []PageMethod {
	slice := withoutNavigations(actions)

	if m, ok := detectFormSubmission(po, slice); ok {
		return []PageMethod{m}
	}

	if methods := groupByIntent(po, slice); len(methods) > 0 {
		return methods
	}

	return genericMethods(po, slice)
}

func withoutNavigations(actions []action.Action) []action.Action {
	out := make([]action.Action, 0, len(actions))
	for _, a := range actions {
		if a.Kind != action.Navigate {
			out = append(out, a)
		}
	}
	return out
}

// detectFormSubmission looks for the fill-then-submit shape: at least one
// input, at least one Click, and a Click strictly after the last input.
// All inputs plus that first qualifying Click become one method.
func detectFormSubmission(po *PageObject, slice []action.Action) (PageMethod, bool) {
	lastInput := -1
	hasInput := false
	for i, a := range slice {
		if a.Kind.IsInput() {
			lastInput = i
			hasInput = true
		}
	}
	if !hasInput {
		return PageMethod{}, false
	}

	submitIdx := -1
	for i := lastInput + 1; i < len(slice); i++ {
		if slice[i].Kind == action.Click {
			submitIdx = i
			break
		}
	}
	if submitIdx < 0 {
		return PageMethod{}, false
	}

	var acts []action.Action
	var params []MethodParameter
	for i, a := range slice {
		if a.Kind.IsInput() {
			acts = append(acts, a)
			params = append(params, MethodParameter{
				Name:  paramName(a.Selector),
				Type:  "text",
				Value: a.Value,
			})
		} else if i == submitIdx {
			acts = append(acts, a)
		}
	}

	return PageMethod{
		Name:    inferMethodName(acts),
		Actions: acts,
		Params:  dedupeParams(params),
	}, true
}

// dedupeParams suffixes repeated parameter names so a method signature
// stays valid when several inputs keyword-match the same name.
func dedupeParams(params []MethodParameter) []MethodParameter {
	seen := make(map[string]int)
	for i := range params {
		seen[params[i].Name]++
		if n := seen[params[i].Name]; n > 1 {
			params[i].Name = params[i].Name + "_" + strconv.Itoa(n)
		}
	}
	return params
}

// groupByIntent accumulates actions into running groups; a Click is
// appended and then closes its group, anything else just accumulates. The
// trailing group is flushed at end of slice. This is a documented
// heuristic, nothing stronger.
func groupByIntent(po *PageObject, slice []action.Action) []PageMethod {
	var methods []PageMethod
	var group []action.Action

	flush := func() {
		if len(group) == 0 {
			return
		}
		methods = append(methods, PageMethod{
			Name:    inferMethodName(group),
			Actions: group,
			Params:  inputParams(group),
		})
		group = nil
	}

	for _, a := range slice {
		group = append(group, a)
		if a.Kind == action.Click {
			flush()
		}
	}
	flush()

	return methods
}

// genericMethods emits one method per action when no grouping applied.
func genericMethods(po *PageObject, slice []action.Action) []PageMethod {
	var methods []PageMethod
	for _, a := range slice {
		m := PageMethod{
			Name:    genericMethodName(po, a),
			Actions: []action.Action{a},
		}
		if a.Kind.IsInput() {
			m.Params = []MethodParameter{{Name: "text", Type: "text", Value: a.Value}}
		}
		methods = append(methods, m)
	}
	return methods
}

func genericMethodName(po *PageObject, a action.Action) string {
	var verb string
	switch a.Kind {
	case action.Click:
		verb = "click"
	case action.Fill:
		verb = "fill"
	case action.Type:
		verb = "type"
	case action.Hover:
		verb = "hover"
	case action.Check:
		verb = "check"
	case action.Uncheck:
		verb = "uncheck"
	default:
		return "perform_action"
	}
	return verb + "_" + po.Ident(a.Selector)
}

// inputParams builds one parameter per Fill/Type action, in slice order.
func inputParams(acts []action.Action) []MethodParameter {
	var params []MethodParameter
	for _, a := range acts {
		if a.Kind.IsInput() {
			params = append(params, MethodParameter{
				Name:  paramName(a.Selector),
				Type:  "text",
				Value: a.Value,
			})
		}
	}
	return dedupeParams(params)
}

// inferMethodName applies the naming heuristic over the involved
// selectors. Rule order matters: earlier rules are strictly more specific.
func inferMethodName(acts []action.Action) string {
	hasUser := false
	hasPass := false
	hasSubmitClick := false
	for _, a := range acts {
		sel := strings.ToLower(a.Selector)
		if strings.Contains(sel, "user") || strings.Contains(sel, "email") {
			hasUser = true
		}
		if strings.Contains(sel, "password") || strings.Contains(sel, "pass") {
			hasPass = true
		}
		if a.Kind == action.Click &&
			(strings.Contains(sel, "submit") || strings.Contains(sel, "login") || strings.Contains(sel, "sign")) {
			hasSubmitClick = true
		}
	}

	if hasUser && hasPass && hasSubmitClick {
		return "login"
	}
	if hasUser && hasPass {
		return "enter_credentials"
	}

	allInput := true
	allClick := true
	var firstClick *action.Action
	for i := range acts {
		if !acts[i].Kind.IsInput() {
			allInput = false
		}
		if acts[i].Kind != action.Click {
			allClick = false
		} else if firstClick == nil {
			firstClick = &acts[i]
		}
	}
	if len(acts) > 0 && allInput {
		return "fill_form"
	}
	if len(acts) > 0 && allClick {
		return "click_" + SelectorIdent(firstClick.Selector)
	}

	switch dominantKind(acts) {
	case action.Click:
		return "click_element"
	case action.Fill:
		return "fill_form"
	case action.Type:
		return "type_text"
	default:
		return "perform_action"
	}
}

// dominantKind returns the most frequent kind, first seen winning ties.
func dominantKind(acts []action.Action) action.Kind {
	counts := make(map[action.Kind]int)
	var order []action.Kind
	for _, a := range acts {
		if counts[a.Kind] == 0 {
			order = append(order, a.Kind)
		}
		counts[a.Kind]++
	}

	var best action.Kind
	bestCount := 0
	for _, k := range order {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}
