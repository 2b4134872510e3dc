// pkg/capture/capture_test.go
package capture

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ysmood/gson"

	"github.com/flowgen/flowgen/pkg/action"
	"github.com/flowgen/flowgen/pkg/session"
)

func TestHandleEmitForwardsToSession(t *testing.T) {
	sess := session.New(session.WithDebounce(time.Millisecond))
	require.NoError(t, sess.Start())

	b := NewBridge(sess)
	_, err := b.handleEmit(gson.New(map[string]interface{}{
		"kind":     "click",
		"selector": "#submit",
		"url":      "https://x/login",
	}))
	require.NoError(t, err)

	acts := sess.Stop()
	require.Len(t, acts, 1)
	assert.Equal(t, action.Click, acts[0].Kind)
	assert.Equal(t, "#submit", acts[0].Selector)
}

func TestHandleEmitDropsUnknownKind(t *testing.T) {
	sess := session.New()
	require.NoError(t, sess.Start())

	b := NewBridge(sess)
	_, err := b.handleEmit(gson.New(map[string]interface{}{
		"kind":     "teleport",
		"selector": "#x",
	}))
	require.NoError(t, err)

	assert.Empty(t, sess.Stop())
}

func TestRecorderScriptUsesEmitBinding(t *testing.T) {
	assert.Contains(t, recorderJS, EmitBinding)
	for _, kind := range []string{"'click'", "'fill'", "'select'", "'press'"} {
		assert.Contains(t, recorderJS, kind)
	}
}

func TestBridgeOptions(t *testing.T) {
	b := NewBridge(session.New(), WithDebugPort(9333))
	assert.Equal(t, 9333, b.port)

	assert.False(t, strings.Contains(recorderJS, "console.log"))
}
