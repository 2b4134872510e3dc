// pkg/capture/capture.go
package capture

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/flowgen/flowgen/pkg/action"
	"github.com/flowgen/flowgen/pkg/session"
)

// DefaultDebugPort is the Chrome remote-debugging port the bridge tries
// to attach to before launching its own browser.
const DefaultDebugPort = 9222

// EmitBinding is the name of the page-side function the injected
// recorder calls for every captured DOM event.
const EmitBinding = "flowgenEmit"

// Bridge connects a recording session to a live Chromium page. It
// attaches to an already-running browser when one listens on the debug
// port and launches a visible one otherwise, injects the recorder
// script, and forwards captured events to the session.
type Bridge struct {
	sess   *session.Session
	port   int
	logger *log.Logger

	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher

	cancel     context.CancelFunc
	stopExpose func() error
	removeJS   func() error
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithLogger sets a custom logger for the bridge.
func WithLogger(logger *log.Logger) BridgeOption {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// WithDebugPort overrides the remote-debugging port used for attach.
func WithDebugPort(port int) BridgeOption {
	return func(b *Bridge) {
		b.port = port
	}
}

// NewBridge creates a bridge feeding the given session.
func NewBridge(sess *session.Session, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		sess:   sess,
		port:   DefaultDebugPort,
		logger: log.New(io.Discard, "", 0),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Start connects to the browser, instruments the active page, and
// begins forwarding events. Navigations are captured from the CDP frame
// lifecycle, everything else from the injected recorder.
func (b *Bridge) Start() error {
	controlURL, err := launcher.ResolveURL(fmt.Sprintf("127.0.0.1:%d", b.port))
	if err != nil {
		b.logger.Printf("no browser on port %d, launching one", b.port)
		l := launcher.New().Headless(false)
		controlURL, err = l.Launch()
		if err != nil {
			return fmt.Errorf("failed to launch browser: %w", err)
		}
		b.launcher = l
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("failed to connect to browser: %w", err)
	}
	b.browser = browser

	page, err := b.activePage()
	if err != nil {
		b.closeBrowser()
		return err
	}
	b.page = page

	if err := b.instrument(page); err != nil {
		b.closeBrowser()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	go b.watchNavigation(page.Context(ctx))

	b.logger.Printf("capture bridge attached, page %s", page.TargetID)
	return nil
}

// Stop tears down the instrumentation. A browser the bridge launched is
// closed; an attached one is left running.
func (b *Bridge) Stop() error {
	if b.cancel != nil {
		b.cancel()
	}
	if b.stopExpose != nil {
		_ = b.stopExpose()
	}
	if b.removeJS != nil {
		_ = b.removeJS()
	}
	b.closeBrowser()
	return nil
}

func (b *Bridge) closeBrowser() {
	if b.browser == nil {
		return
	}
	if b.launcher != nil {
		_ = b.browser.Close()
		b.launcher.Kill()
		b.launcher = nil
	}
	b.browser = nil
	b.page = nil
}

// activePage returns the first open page, creating a blank one when the
// browser has none.
func (b *Bridge) activePage() (*rod.Page, error) {
	pages, err := b.browser.Pages()
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	if len(pages) > 0 {
		return pages.First(), nil
	}

	page, err := b.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	return page, nil
}

// instrument exposes the emit binding and injects the recorder into the
// current document and every future one.
func (b *Bridge) instrument(page *rod.Page) error {
	stop, err := page.Expose(EmitBinding, b.handleEmit)
	if err != nil {
		return fmt.Errorf("failed to expose %s: %w", EmitBinding, err)
	}
	b.stopExpose = stop

	remove, err := page.EvalOnNewDocument(recorderJS)
	if err != nil {
		return fmt.Errorf("failed to inject recorder: %w", err)
	}
	b.removeJS = remove

	// The current document missed the new-document hook; inject directly.
	if _, err := page.Eval(recorderJS); err != nil {
		b.logger.Printf("recorder injection into current document failed: %v", err)
	}

	return nil
}

// handleEmit maps one recorder payload to a raw event for the session.
func (b *Bridge) handleEmit(j gson.JSON) (interface{}, error) {
	ev := action.RawEvent{
		Kind:     j.Get("kind").Str(),
		Selector: j.Get("selector").Str(),
		Value:    j.Get("value").Str(),
		URL:      j.Get("url").Str(),
		Time:     time.Now(),
	}
	b.sess.Observe(ev)
	return nil, nil
}

// watchNavigation forwards top-frame navigations as navigate events.
func (b *Bridge) watchNavigation(page *rod.Page) {
	page.EachEvent(func(e *proto.PageFrameNavigated) {
		if e.Frame.ParentID != "" {
			return
		}
		b.sess.Observe(action.RawEvent{
			Kind: string(action.Navigate),
			URL:  e.Frame.URL,
			Time: time.Now(),
		})
	})()
}
