// pkg/action/action_test.go
package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Kind
		ok    bool
	}{
		{name: "lowercase click", input: "click", want: Click, ok: true},
		{name: "uppercase", input: "CLICK", want: Click, ok: true},
		{name: "padded", input: "  fill ", want: Fill, ok: true},
		{name: "input alias maps to fill", input: "input", want: Fill, ok: true},
		{name: "navigate", input: "navigate", want: Navigate, ok: true},
		{name: "unknown", input: "scroll", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseKind(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestActionValidate(t *testing.T) {
	tests := []struct {
		name    string
		act     Action
		wantErr error
	}{
		{
			name: "valid click",
			act:  Action{Kind: Click, Selector: "#submit"},
		},
		{
			name: "valid navigate",
			act:  Action{Kind: Navigate, URL: "https://example.com"},
		},
		{
			name:    "navigate without URL",
			act:     Action{Kind: Navigate},
			wantErr: ErrMissingURL,
		},
		{
			name:    "click without selector",
			act:     Action{Kind: Click},
			wantErr: ErrMissingSelector,
		},
		{
			name:    "unknown kind",
			act:     Action{Kind: Kind("drag"), Selector: "#a"},
			wantErr: ErrUnknownKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.act.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestActionClone(t *testing.T) {
	a := Action{
		Kind:     Fill,
		Selector: "#user",
		Value:    "bob",
		Metadata: map[string]string{"source": "bridge"},
	}

	c := a.Clone()
	c.Metadata["source"] = "changed"

	assert.Equal(t, "bridge", a.Metadata["source"])
	assert.Equal(t, a.Selector, c.Selector)
}

func TestKindIsInput(t *testing.T) {
	assert.True(t, Fill.IsInput())
	assert.True(t, Type.IsInput())
	assert.False(t, Click.IsInput())
	assert.False(t, Navigate.IsInput())
}
