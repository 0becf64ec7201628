// Package widget holds the generator widget's state record and the
// action -> reducer -> state cycle that drives it.
package widget

import (
	"github.com/vaultpass/passgen/internal/crypto"
)

// State is everything the presentation layer renders.
type State struct {
	Config   crypto.GeneratorConfig `json:"config"`
	Password string                 `json:"password"`
	Copied   bool                   `json:"copied"`
	Notice   string                 `json:"notice,omitempty"`
}

// Strength rates the current password. It is recomputed on every call.
func (s State) Strength() crypto.Strength {
	return crypto.Score(s.Password, s.Config)
}

// Action is a discrete user or timer event.
type Action interface {
	action()
}

type (
	// SetLength changes the target length. Out of range values are clamped.
	SetLength struct{ Length int }
	// SetDigits enables or disables the digit class.
	SetDigits struct{ Enabled bool }
	// SetSpecial enables or disables the special character class.
	SetSpecial struct{ Enabled bool }
	// ToggleDigits flips the digit class.
	ToggleDigits struct{}
	// ToggleSpecial flips the special character class.
	ToggleSpecial struct{}
	// EditPassword replaces the password with text typed by the user.
	EditPassword struct{ Text string }
	// Regenerate draws a fresh password for the current config.
	Regenerate struct{}
	// CopySucceeded marks the password as copied.
	CopySucceeded struct{}
	// CopyFailed records a clipboard failure for display.
	CopyFailed struct{ Reason string }
	// CopyReset clears the copied indicator.
	CopyReset struct{}
)

func (SetLength) action()     {}
func (SetDigits) action()     {}
func (SetSpecial) action()    {}
func (ToggleDigits) action()  {}
func (ToggleSpecial) action() {}
func (EditPassword) action()  {}
func (Regenerate) action()    {}
func (CopySucceeded) action() {}
func (CopyFailed) action()    {}
func (CopyReset) action()     {}

// Reducer computes the next state for an action.
type Reducer struct {
	Source crypto.Source
}

func (r Reducer) source() crypto.Source {
	if r.Source == nil {
		return crypto.SecureSource{}
	}
	return r.Source
}

// Initial returns the state for cfg with a freshly generated password.
func (r Reducer) Initial(cfg crypto.GeneratorConfig) (State, error) {
	cfg = cfg.Clamped()
	password, err := crypto.GenerateWith(r.source(), cfg)
	if err != nil {
		return State{}, err
	}
	return State{Config: cfg, Password: password}, nil
}

// Reduce applies a to s. On error s is returned unchanged.
func (r Reducer) Reduce(s State, a Action) (State, error) {
	next := s

	switch a := a.(type) {
	case SetLength:
		next.Config.Length = crypto.ClampLength(a.Length)
		return r.reconfigure(s, next)
	case SetDigits:
		next.Config.IncludeDigits = a.Enabled
		return r.reconfigure(s, next)
	case SetSpecial:
		next.Config.IncludeSpecial = a.Enabled
		return r.reconfigure(s, next)
	case ToggleDigits:
		next.Config.IncludeDigits = !s.Config.IncludeDigits
		return r.reconfigure(s, next)
	case ToggleSpecial:
		next.Config.IncludeSpecial = !s.Config.IncludeSpecial
		return r.reconfigure(s, next)
	case Regenerate:
		return r.regenerate(s, next)
	case EditPassword:
		next.Password = a.Text
		next.Notice = ""
	case CopySucceeded:
		next.Copied = true
		next.Notice = ""
	case CopyFailed:
		next.Notice = a.Reason
	case CopyReset:
		next.Copied = false
	default:
		return s, ErrUnknownAction
	}

	return next, nil
}

// reconfigure regenerates only when the config changed. A no-op change keeps
// the current password, including one edited by hand.
func (r Reducer) reconfigure(prev, next State) (State, error) {
	if next.Config == prev.Config {
		return prev, nil
	}
	return r.regenerate(prev, next)
}

func (r Reducer) regenerate(prev, next State) (State, error) {
	password, err := crypto.GenerateWith(r.source(), next.Config)
	if err != nil {
		return prev, err
	}
	next.Password = password
	next.Notice = ""
	return next, nil
}
