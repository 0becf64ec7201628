package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vaultpass/passgen/internal/clipboard"
	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/model"
	"github.com/vaultpass/passgen/internal/widget"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidAction   = errors.New("invalid action")
)

type trackedSession struct {
	session  *widget.Session
	lastSeen time.Time
}

// SessionService keeps transient widget sessions in memory.
type SessionService struct {
	mu       sync.Mutex
	sessions map[string]*trackedSession

	tokens    *crypto.TokenIssuer
	ttl       time.Duration
	copyDelay time.Duration
	clip      clipboard.Writer
	now       func() time.Time
}

// NewSessionService creates a SessionService. Sessions idle for longer than
// ttl are evicted by Run. Every rendering carries a token valid for another
// ttl, so a token and its session expire together.
func NewSessionService(secret string, ttl, copyDelay time.Duration, clip clipboard.Writer) *SessionService {
	if clip == nil {
		clip = clipboard.Unavailable{}
	}
	return &SessionService{
		sessions:  make(map[string]*trackedSession),
		tokens:    crypto.NewTokenIssuer(secret, ttl),
		ttl:       ttl,
		copyDelay: copyDelay,
		clip:      clip,
		now:       time.Now,
	}
}

// Create starts a new session and returns its first rendering with a token.
func (s *SessionService) Create(req model.CreateSessionRequest) (model.SessionResponse, error) {
	cfg := configFromRequest(req.Length, req.IncludeDigits, req.IncludeSpecial)

	sess, err := widget.NewSession(cfg,
		widget.WithClipboard(s.clip),
		widget.WithCopyResetDelay(s.copyDelay),
	)
	if err != nil {
		return model.SessionResponse{}, err
	}

	id := uuid.NewString()
	resp, err := s.render(id, sess.State())
	if err != nil {
		sess.Close()
		return model.SessionResponse{}, err
	}

	s.mu.Lock()
	s.sessions[id] = &trackedSession{session: sess, lastSeen: s.now()}
	s.mu.Unlock()

	slog.Info("session created", "session_id", id)
	return resp, nil
}

// Get returns the current rendering of a session.
func (s *SessionService) Get(id string) (model.SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return model.SessionResponse{}, err
	}
	return s.render(id, sess.State())
}

// Apply dispatches one action to a session.
func (s *SessionService) Apply(id string, req model.ActionRequest) (model.SessionResponse, error) {
	action, err := actionFromRequest(req)
	if err != nil {
		return model.SessionResponse{}, err
	}

	sess, err := s.lookup(id)
	if err != nil {
		return model.SessionResponse{}, err
	}

	state, err := sess.Dispatch(action)
	if err != nil {
		if errors.Is(err, widget.ErrSessionClosed) {
			return model.SessionResponse{}, ErrSessionNotFound
		}
		return model.SessionResponse{}, err
	}
	return s.render(id, state)
}

// Copy runs the session's copy action. A clipboard failure is not an error
// for the caller: the returned rendering carries the notice instead.
func (s *SessionService) Copy(ctx context.Context, id string) (model.SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return model.SessionResponse{}, err
	}

	if err := sess.Copy(ctx); err != nil {
		switch {
		case errors.Is(err, widget.ErrSessionClosed):
			return model.SessionResponse{}, ErrSessionNotFound
		case !errors.Is(err, widget.ErrCopyFailed):
			return model.SessionResponse{}, err
		}
	}
	return s.render(id, sess.State())
}

// Delete closes and forgets a session.
func (s *SessionService) Delete(id string) error {
	s.mu.Lock()
	ts, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	ts.session.Close()
	return nil
}

// Verify checks a session token and returns the session ID it names.
func (s *SessionService) Verify(token string) (string, error) {
	return s.tokens.Verify(token)
}

// Len returns the number of live sessions.
func (s *SessionService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run evicts idle sessions until ctx is done, then closes all of them.
func (s *SessionService) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ticker.C:
			if n := s.evictIdle(s.now()); n > 0 {
				slog.Info("evicted idle sessions", "count", n)
			}
		}
	}
}

func (s *SessionService) lookup(id string) (*widget.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	ts.lastSeen = s.now()
	return ts.session, nil
}

func (s *SessionService) evictIdle(now time.Time) int {
	s.mu.Lock()
	var idle []*widget.Session
	for id, ts := range s.sessions {
		if now.Sub(ts.lastSeen) > s.ttl {
			idle = append(idle, ts.session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range idle {
		sess.Close()
	}
	return len(idle)
}

func (s *SessionService) closeAll() {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*trackedSession)
	s.mu.Unlock()

	for _, ts := range all {
		ts.session.Close()
	}
}

// render signs a fresh token for id along with the view of state.
func (s *SessionService) render(id string, state widget.State) (model.SessionResponse, error) {
	token, expires, err := s.tokens.Issue(id)
	if err != nil {
		return model.SessionResponse{}, err
	}
	return model.SessionResponse{
		SessionID: id,
		Token:     token,
		ExpiresAt: expires,
		State:     state,
		Strength:  state.Strength(),
	}, nil
}

func actionFromRequest(req model.ActionRequest) (widget.Action, error) {
	switch req.Type {
	case model.ActionSetLength:
		return widget.SetLength{Length: req.Length}, nil
	case model.ActionSetDigits:
		return widget.SetDigits{Enabled: req.Enabled}, nil
	case model.ActionSetSpecial:
		return widget.SetSpecial{Enabled: req.Enabled}, nil
	case model.ActionToggleDigits:
		return widget.ToggleDigits{}, nil
	case model.ActionToggleSpecial:
		return widget.ToggleSpecial{}, nil
	case model.ActionEditPassword:
		return widget.EditPassword{Text: req.Text}, nil
	case model.ActionRegenerate:
		return widget.Regenerate{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, req.Type)
	}
}
