// pkg/codegen/options.go
package codegen

import "strings"

// Framework identifiers accepted by the registry.
const (
	FrameworkPlaywrightSync = "playwright-sync"
	FrameworkPytest         = "pytest"
	FrameworkTypeScript     = "typescript"
	FrameworkJavaScript     = "javascript"
	FrameworkRobot          = "robot"
)

// Options is the formatting configuration threaded through every template
// call: target framework, indent size, tabs-vs-spaces, and quote style.
type Options struct {
	Framework    string `json:"framework" yaml:"framework"`
	IndentSize   int    `json:"indent_size" yaml:"indent_size"`
	UseTabs      bool   `json:"use_tabs" yaml:"use_tabs"`
	SingleQuotes bool   `json:"single_quotes" yaml:"single_quotes"`
}

// DefaultOptions returns the generation defaults.
func DefaultOptions() Options {
	return Options{
		Framework:    FrameworkPlaywrightSync,
		IndentSize:   4,
		UseTabs:      false,
		SingleQuotes: false,
	}
}

// IndentUnit returns one level of indentation. Indent size is clamped to
// the 1-8 range.
func (o Options) IndentUnit() string {
	if o.UseTabs {
		return "\t"
	}
	size := o.IndentSize
	if size < 1 {
		size = 1
	}
	if size > 8 {
		size = 8
	}
	return strings.Repeat(" ", size)
}

// Quote renders a string literal in the configured quote style, escaping
// the quote character and backslashes.
func (o Options) Quote(s string) string {
	q := `"`
	if o.SingleQuotes {
		q = `'`
	}
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, q, `\`+q)
	return q + escaped + q
}
