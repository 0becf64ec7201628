package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vaultpass/passgen/internal/clipboard"
	"github.com/vaultpass/passgen/internal/crypto"
)

// DefaultCopyResetDelay is how long the copied indicator stays on.
const DefaultCopyResetDelay = 2 * time.Second

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrCopyFailed    = errors.New("copy to clipboard failed")
	ErrSessionClosed = errors.New("session closed")
)

// Session owns one widget state record. All changes go through Dispatch.
type Session struct {
	mu      sync.Mutex
	state   State
	reducer Reducer
	clip    clipboard.Writer
	delay   time.Duration

	// resetTimer clears Copied; resetSeq invalidates superseded timers.
	resetTimer *time.Timer
	resetSeq   uint64
	closed     bool

	subs   map[int]func(State)
	nextID int
}

// Option configures a Session.
type Option func(*Session)

// WithSource sets the entropy source used for generation.
func WithSource(src crypto.Source) Option {
	return func(s *Session) { s.reducer.Source = src }
}

// WithClipboard sets the clipboard collaborator.
func WithClipboard(w clipboard.Writer) Option {
	return func(s *Session) { s.clip = w }
}

// WithCopyResetDelay sets how long the copied indicator stays on.
func WithCopyResetDelay(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.delay = d
		}
	}
}

// NewSession creates a session for cfg and generates the first password.
func NewSession(cfg crypto.GeneratorConfig, opts ...Option) (*Session, error) {
	s := &Session{
		clip:  clipboard.System{},
		delay: DefaultCopyResetDelay,
		subs:  make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}

	state, err := s.reducer.Initial(cfg)
	if err != nil {
		return nil, fmt.Errorf("generating initial password: %w", err)
	}
	s.state = state

	return s, nil
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called with the new state after every change.
// The returned func removes the subscription.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Dispatch applies a through the reducer and notifies subscribers.
func (s *Session) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return State{}, ErrSessionClosed
	}
	next, err := s.reducer.Reduce(s.state, a)
	if err != nil {
		state := s.state
		s.mu.Unlock()
		return state, err
	}
	s.state = next
	subs := s.subscribers()
	s.mu.Unlock()

	notify(subs, next)
	return next, nil
}

// Copy writes the current password to the clipboard. A failure leaves the
// config and password untouched, records a notice and wraps ErrCopyFailed.
// A success turns the copied indicator on and restarts the reset timer,
// unless the password changed or the session closed during the write.
func (s *Session) Copy(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	password := s.state.Password
	s.mu.Unlock()

	if err := s.clip.WriteText(ctx, password); err != nil {
		slog.Warn("clipboard write failed", "error", err)
		if _, derr := s.Dispatch(CopyFailed{Reason: copyFailureNotice(err)}); derr != nil {
			return derr
		}
		return fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}

	s.mu.Lock()
	// The write went through, but the indicator only describes the password
	// still on screen.
	if s.closed || s.state.Password != password {
		s.mu.Unlock()
		return nil
	}
	s.state, _ = s.reducer.Reduce(s.state, CopySucceeded{})
	s.restartResetTimer()
	state := s.state
	subs := s.subscribers()
	s.mu.Unlock()

	notify(subs, state)
	return nil
}

// Close cancels the pending reset. Later dispatches fail with ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.resetSeq++
	if s.resetTimer != nil {
		s.resetTimer.Stop()
		s.resetTimer = nil
	}
	clear(s.subs)
}

// restartResetTimer must be called with mu held.
func (s *Session) restartResetTimer() {
	if s.resetTimer != nil {
		s.resetTimer.Stop()
	}
	s.resetSeq++
	seq := s.resetSeq
	s.resetTimer = time.AfterFunc(s.delay, func() { s.resetCopied(seq) })
}

func (s *Session) resetCopied(seq uint64) {
	s.mu.Lock()
	if s.closed || seq != s.resetSeq {
		s.mu.Unlock()
		return
	}
	s.resetTimer = nil
	s.state, _ = s.reducer.Reduce(s.state, CopyReset{})
	state := s.state
	subs := s.subscribers()
	s.mu.Unlock()

	notify(subs, state)
}

// subscribers must be called with mu held.
func (s *Session) subscribers() []func(State) {
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(State), state State) {
	for _, fn := range subs {
		fn(state)
	}
}

func copyFailureNotice(err error) string {
	switch {
	case errors.Is(err, clipboard.ErrUnsupported):
		return "Copy failed: clipboard unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Copy failed: cancelled"
	default:
		return "Copy failed"
	}
}
