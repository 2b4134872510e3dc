// pkg/action/action.go
package action

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrUnknownKind     = errors.New("unknown action kind")
	ErrMissingURL      = errors.New("navigate action requires a URL")
	ErrMissingSelector = errors.New("action requires a selector")
)

// Kind identifies the type of interaction an Action records.
type Kind string

const (
	Click    Kind = "click"
	Type     Kind = "type"
	Fill     Kind = "fill"
	Navigate Kind = "navigate"
	Select   Kind = "select"
	Check    Kind = "check"
	Uncheck  Kind = "uncheck"
	Press    Kind = "press"
	Hover    Kind = "hover"
)

var knownKinds = map[Kind]bool{
	Click:    true,
	Type:     true,
	Fill:     true,
	Navigate: true,
	Select:   true,
	Check:    true,
	Uncheck:  true,
	Press:    true,
	Hover:    true,
}

// ParseKind maps a raw event type string to a Kind. The boolean reports
// whether the string named a supported kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	// Capture sources report keystroke-level edits as "input".
	if k == "input" {
		k = Fill
	}
	return k, knownKinds[k]
}

// IsInput reports whether the kind carries typed text and is subject to
// debouncing.
func (k Kind) IsInput() bool {
	return k == Fill || k == Type
}

// Action represents one normalized, finalized user interaction.
type Action struct {
	Kind      Kind              `json:"kind"`
	Selector  string            `json:"selector,omitempty"`
	Value     string            `json:"value,omitempty"`
	URL       string            `json:"url,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`

	// Wait hints consumed by code emission.
	NeedsNavigationWait bool `json:"needs_navigation_wait"`
	NeedsSelectorWait   bool `json:"needs_selector_wait"`
	HasNetworkActivity  bool `json:"has_network_activity"`
}

// Validate checks the structural invariants of an action: Navigate carries
// a URL and no selector-wait requirement, every other kind carries a
// non-empty selector.
func (a *Action) Validate() error {
	if !knownKinds[a.Kind] {
		return ErrUnknownKind
	}
	if a.Kind == Navigate {
		if a.URL == "" {
			return ErrMissingURL
		}
		return nil
	}
	if a.Selector == "" {
		return ErrMissingSelector
	}
	return nil
}

// Clone creates a deep copy of the action.
func (a *Action) Clone() Action {
	c := *a
	if a.Metadata != nil {
		c.Metadata = make(map[string]string, len(a.Metadata))
		for k, v := range a.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}

// RawEvent is the tuple delivered by a capture source for one observed
// interaction, before normalization.
type RawEvent struct {
	Kind     string    `json:"kind"`
	Selector string    `json:"selector,omitempty"`
	Value    string    `json:"value,omitempty"`
	URL      string    `json:"url,omitempty"`
	Time     time.Time `json:"time,omitempty"`
}
