// pkg/api/server_test.go
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgen/flowgen/pkg/action"
	"github.com/flowgen/flowgen/pkg/config"
	"github.com/flowgen/flowgen/pkg/discovery"
	"github.com/flowgen/flowgen/pkg/pageobject"
	"github.com/flowgen/flowgen/pkg/session"
)

func newTestServer(opts ...session.Option) (*Server, *session.Session) {
	sess := session.New(append([]session.Option{session.WithDebounce(time.Millisecond)}, opts...)...)
	return NewServer(sess, config.Default()), sess
}

func do(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.ContentLength = int64(buf.Len())
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestStartStopLifecycle(t *testing.T) {
	s, _ := newTestServer()

	assert.Equal(t, http.StatusOK, do(t, s, "POST", "/recording/start", nil).Code)
	assert.Equal(t, http.StatusConflict, do(t, s, "POST", "/recording/start", nil).Code)

	w := do(t, s, "POST", "/recording/stop", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusConflict, do(t, s, "POST", "/recording/stop", nil).Code)
}

func TestEventIngestion(t *testing.T) {
	s, sess := newTestServer()
	require.NoError(t, sess.Start())

	ev := action.RawEvent{Kind: "navigate", URL: "https://x/login"}
	assert.Equal(t, http.StatusAccepted, do(t, s, "POST", "/recording/events", ev).Code)

	ev = action.RawEvent{Kind: "click", Selector: "#submit"}
	assert.Equal(t, http.StatusAccepted, do(t, s, "POST", "/recording/events", ev).Code)

	w := do(t, s, "GET", "/recording/actions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var acts []action.Action
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acts))
	require.Len(t, acts, 2)
	assert.Equal(t, action.Navigate, acts[0].Kind)
	assert.Equal(t, action.Click, acts[1].Kind)
}

func TestEventRejectedWhenInactive(t *testing.T) {
	s, _ := newTestServer()

	ev := action.RawEvent{Kind: "click", Selector: "#x"}
	assert.Equal(t, http.StatusConflict, do(t, s, "POST", "/recording/events", ev).Code)
}

func TestClearPreservesActiveFlag(t *testing.T) {
	s, sess := newTestServer()
	require.NoError(t, sess.Start())
	sess.Observe(action.RawEvent{Kind: "click", Selector: "#x"})

	assert.Equal(t, http.StatusNoContent, do(t, s, "POST", "/recording/clear", nil).Code)

	w := do(t, s, "GET", "/recording/status", nil)
	var status StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Active)
	assert.Zero(t, status.Actions)
}

func TestGenerateFromRequestActions(t *testing.T) {
	s, _ := newTestServer()

	req := GenerateRequest{
		Framework: "pytest",
		Mode:      "flat",
		Name:      "Login Flow",
		Actions: []action.Action{
			{Kind: action.Navigate, URL: "https://x/login"},
			{Kind: action.Click, Selector: "#submit", NeedsSelectorWait: true},
		},
	}

	w := do(t, s, "POST", "/generate", req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pytest", resp.Framework)
	assert.Equal(t, "login-flow.py", resp.Filename)
	assert.Contains(t, resp.Code, "def test_recorded_flow(page: Page) -> None:")
	assert.Contains(t, resp.Code, `page.locator("#submit").click()`)
}

func TestGenerateDefaultsFromConfig(t *testing.T) {
	s, sess := newTestServer()
	require.NoError(t, sess.Start())
	sess.Observe(action.RawEvent{Kind: "click", Selector: "#x"})
	sess.Stop()

	w := do(t, s, "POST", "/generate", GenerateRequest{})
	require.Equal(t, http.StatusOK, w.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "playwright-sync", resp.Framework)
	assert.Equal(t, "flat", resp.Mode)
	assert.Equal(t, "recorded-flow.py", resp.Filename)
}

func TestPageObjectsEndpoint(t *testing.T) {
	s, sess := newTestServer()
	require.NoError(t, sess.Start())
	sess.Observe(action.RawEvent{Kind: "navigate", URL: "https://x/login"})
	sess.Observe(action.RawEvent{Kind: "click", Selector: "#submit"})
	sess.Stop()

	w := do(t, s, "GET", "/pageobjects", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var pages []*pageobject.PageObject
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pages))
	require.Len(t, pages, 1)
	assert.Equal(t, "LoginPage", pages[0].Name)
}

func TestPageObjectsEmpty(t *testing.T) {
	s, _ := newTestServer()

	w := do(t, s, "GET", "/pageobjects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestScanEndpoint(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "test_login.py"),
		[]byte("def test_ok(page): pass\n"), 0o644))

	s, _ := newTestServer()
	w := do(t, s, "GET", "/discovery/scan?root="+root, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var suite discovery.Suite
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &suite))
	require.Len(t, suite.Files, 1)
	assert.Equal(t, "test_login.py", suite.Files[0].Path)
}

func TestHighlightValidation(t *testing.T) {
	s, _ := newTestServer()

	w := do(t, s, "POST", "/highlight", HighlightRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
