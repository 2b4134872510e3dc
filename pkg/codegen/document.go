// pkg/codegen/document.go
package codegen

import (
	"github.com/flowgen/flowgen/pkg/action"
	"github.com/flowgen/flowgen/pkg/pageobject"
)

// AssertionKind enumerates the supported assertion statements.
type AssertionKind string

const (
	AssertText      AssertionKind = "text"
	AssertValue     AssertionKind = "value"
	AssertVisible   AssertionKind = "visible"
	AssertChecked   AssertionKind = "checked"
	AssertDisabled  AssertionKind = "disabled"
	AssertClass     AssertionKind = "class"
	AssertAttribute AssertionKind = "attribute"
	AssertCSS       AssertionKind = "css"
)

// BoolAssertion reports whether the assertion kind is boolean-valued and
// chooses between positive and negated statement forms.
func (k AssertionKind) BoolAssertion() bool {
	return k == AssertVisible || k == AssertChecked || k == AssertDisabled
}

// StmtKind enumerates the statement forms a template can render.
type StmtKind int

const (
	// StmtComment renders a line comment.
	StmtComment StmtKind = iota
	// StmtAction renders one interaction statement.
	StmtAction
	// StmtAssert renders one assertion statement.
	StmtAssert
	// StmtWaitVisible renders a wait-until-selector-visible statement.
	StmtWaitVisible
	// StmtWaitIdle renders a network-idle wait statement.
	StmtWaitIdle
	// StmtCall renders a call to a previously emitted helper function.
	StmtCall
	// StmtMethodCall renders a page-object method invocation.
	StmtMethodCall
	// StmtNewInstance renders a page-object construction.
	StmtNewInstance
	// StmtMarker renders the skeleton's insertion point.
	StmtMarker
)

// Arg is one call argument: either a literal value to be quoted by the
// template or a bare variable reference.
type Arg struct {
	Literal string
	Var     string
}

// Stmt is one renderable statement in the intermediate document.
type Stmt struct {
	Kind StmtKind

	// StmtComment
	Text string

	// StmtAction / StmtAssert
	Action   *action.Action
	ValueVar string // render the action value as this variable instead of a literal
	Assert   AssertionKind
	Expected string

	// StmtWaitVisible
	Selector string

	// StmtCall / StmtMethodCall / StmtNewInstance
	Func  string
	Args  []Arg
	Recv  string
	Class string
}

// DeclKind enumerates top-level declarations.
type DeclKind int

const (
	// DeclFunction is a reusable helper taking the page handle plus
	// value parameters.
	DeclFunction DeclKind = iota
	// DeclPageClass is a synthesized page-object class.
	DeclPageClass
)

// MethodDecl is one page-object method with its rendered body.
type MethodDecl struct {
	Name   string
	Params []string
	Body   []Stmt
}

// Decl is a top-level declaration placed before the main execution block.
type Decl struct {
	Kind    DeclKind
	Name    string
	Params  []string
	Body    []Stmt
	Page    *pageobject.PageObject
	Methods []MethodDecl
}

// Document is the framework-neutral form of one generated test file. The
// emitter builds it from a frozen action log; templates render it.
type Document struct {
	// URL, when non-empty, makes the skeleton navigate before the body.
	URL     string
	Prelude []Decl
	Body    []Stmt
}
