// pkg/session/session.go
package session

import (
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/flowgen/flowgen/pkg/action"
)

var (
	ErrAlreadyRecording = errors.New("a recording session is already active")
	ErrNotRecording     = errors.New("no recording session is active")
)

const (
	// DefaultDebounce is the quiet period after which a pending input
	// action is finalized.
	DefaultDebounce = 800 * time.Millisecond

	// networkActivityGap is the pause between two actions beyond which
	// the earlier action is assumed to have triggered async work.
	networkActivityGap = 2000 * time.Millisecond

	// BlankPageURL is the navigation sentinel that never enters the log.
	BlankPageURL = "about:blank"
)

// pendingInput holds a not-yet-finalized Fill/Type action and its timer.
type pendingInput struct {
	act   action.Action
	timer *time.Timer
}

// Session owns the working state of one capture run: the append-only
// finalized action log, the per-selector pending-input buffer, and the
// navigation tracking used for de-duplication and wait hints.
type Session struct {
	mu       sync.Mutex
	logger   *log.Logger
	debounce time.Duration

	active       bool
	finalized    []action.Action
	pending      map[string]*pendingInput
	lastNavURL   string
	lastActionAt time.Time
	lastWasNav   bool
}

// Option defines options for creating a new Session.
type Option func(*Session)

// WithLogger sets a custom logger for the session.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithDebounce overrides the input debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// New creates an inactive recording session.
func New(opts ...Option) *Session {
	s := &Session{
		debounce: DefaultDebounce,
		pending:  make(map[string]*pendingInput),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start activates the session. Starting while another recording is active
// is rejected, never silently merged.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return ErrAlreadyRecording
	}

	s.resetLocked()
	s.active = true
	return nil
}

// Stop deactivates the session. Every outstanding debounce timer is
// cancelled and its pending action finalized, so no input is lost. The
// returned slice is a frozen copy of the finalized log.
func (s *Session) Stop() []action.Action {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flushPendingLocked()
	s.active = false
	return s.snapshotLocked()
}

// Clear discards the finalized log and all pending inputs. The
// recording-active flag is left untouched.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.active
	s.resetLocked()
	s.active = active
}

// Active reports whether the session is currently recording.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Actions returns a frozen copy of the finalized action log.
func (s *Session) Actions() []action.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Observe normalizes one raw capture event into the session. Malformed
// events are logged and dropped; they never abort the session.
func (s *Session) Observe(ev action.RawEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}

	kind, ok := action.ParseKind(ev.Kind)
	if !ok {
		s.logf("dropping event with unknown kind %q", ev.Kind)
		return
	}

	at := ev.Time
	if at.IsZero() {
		at = time.Now()
	}

	switch {
	case kind == action.Navigate:
		s.observeNavigateLocked(ev, at)
	case kind.IsInput():
		s.observeInputLocked(kind, ev, at)
	default:
		s.observeImmediateLocked(kind, ev, at)
	}
}

func (s *Session) observeNavigateLocked(ev action.RawEvent, at time.Time) {
	if ev.URL == "" {
		s.logf("dropping navigate event without URL")
		return
	}
	if ev.URL == BlankPageURL || ev.URL == s.lastNavURL {
		return
	}

	s.finalizeLocked(action.Action{
		Kind:      action.Navigate,
		URL:       ev.URL,
		Timestamp: at,
	})
}

func (s *Session) observeImmediateLocked(kind action.Kind, ev action.RawEvent, at time.Time) {
	if ev.Selector == "" {
		s.logf("dropping %s event without selector", kind)
		return
	}

	navWait, netActivity := s.waitHintsLocked(at)
	s.finalizeLocked(action.Action{
		Kind:                kind,
		Selector:            ev.Selector,
		Value:               ev.Value,
		Timestamp:           at,
		NeedsSelectorWait:   true,
		NeedsNavigationWait: navWait,
		HasNetworkActivity:  netActivity,
	})
}

// observeInputLocked enters or restarts the debounce cycle for a Fill/Type
// event: the pending action for the selector is replaced wholesale (latest
// value wins) and its timer restarted.
func (s *Session) observeInputLocked(kind action.Kind, ev action.RawEvent, at time.Time) {
	if ev.Selector == "" {
		s.logf("dropping %s event without selector", kind)
		return
	}

	if prev, ok := s.pending[ev.Selector]; ok {
		prev.timer.Stop()
	}

	p := &pendingInput{
		act: action.Action{
			Kind:              kind,
			Selector:          ev.Selector,
			Value:             ev.Value,
			Timestamp:         at,
			NeedsSelectorWait: true,
		},
	}
	p.timer = time.AfterFunc(s.debounce, func() {
		s.settle(ev.Selector, p)
	})
	s.pending[ev.Selector] = p
}

// settle moves a pending input from the buffer into the finalized log when
// its debounce timer fires. Ordering among finalized actions reflects
// settle time, not keystroke time.
func (s *Session) settle(selector string, p *pendingInput) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The pending entry may have been replaced or flushed while this
	// callback waited on the lock.
	current, ok := s.pending[selector]
	if !ok || current != p {
		return
	}

	delete(s.pending, selector)
	navWait, netActivity := s.waitHintsLocked(p.act.Timestamp)
	p.act.NeedsNavigationWait = navWait
	p.act.HasNetworkActivity = netActivity
	s.finalizeLocked(p.act)
}

// flushPendingLocked cancels every outstanding timer and finalizes the
// still-pending actions, one entry per selector, ordered by capture time.
func (s *Session) flushPendingLocked() {
	if len(s.pending) == 0 {
		return
	}

	flushed := make([]*pendingInput, 0, len(s.pending))
	for _, p := range s.pending {
		p.timer.Stop()
		flushed = append(flushed, p)
	}
	s.pending = make(map[string]*pendingInput)

	sort.Slice(flushed, func(i, j int) bool {
		return flushed[i].act.Timestamp.Before(flushed[j].act.Timestamp)
	})
	for _, p := range flushed {
		navWait, netActivity := s.waitHintsLocked(p.act.Timestamp)
		p.act.NeedsNavigationWait = navWait
		p.act.HasNetworkActivity = netActivity
		s.finalizeLocked(p.act)
	}
}

// waitHintsLocked derives the wait hints for an action finalized at the
// given time: a navigation wait when the previous finalized action was a
// Navigate, and a network-activity hint when more than the idle gap
// elapsed since a previous non-navigation action.
func (s *Session) waitHintsLocked(at time.Time) (navWait, netActivity bool) {
	navWait = s.lastWasNav
	if !s.lastActionAt.IsZero() && !s.lastWasNav && at.Sub(s.lastActionAt) > networkActivityGap {
		netActivity = true
	}
	return navWait, netActivity
}

func (s *Session) finalizeLocked(a action.Action) {
	s.finalized = append(s.finalized, a)
	s.lastActionAt = a.Timestamp
	s.lastWasNav = a.Kind == action.Navigate
	if a.Kind == action.Navigate {
		s.lastNavURL = a.URL
	}
}

func (s *Session) resetLocked() {
	for _, p := range s.pending {
		p.timer.Stop()
	}
	s.pending = make(map[string]*pendingInput)
	s.finalized = nil
	s.lastNavURL = ""
	s.lastActionAt = time.Time{}
	s.lastWasNav = false
	s.active = false
}

func (s *Session) snapshotLocked() []action.Action {
	out := make([]action.Action, len(s.finalized))
	for i := range s.finalized {
		out[i] = s.finalized[i].Clone()
	}
	return out
}

func (s *Session) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
