package model

import (
	"time"

	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/widget"
)

// CreateSessionRequest configures a new widget session. A zero length means the default.
type CreateSessionRequest struct {
	Length         int  `json:"length"`
	IncludeDigits  bool `json:"include_digits"`
	IncludeSpecial bool `json:"include_special"`
}

// ActionRequest is one widget action sent by a remote front end.
// Type is one of the ActionX constants; the other fields depend on it.
type ActionRequest struct {
	Type    string `json:"type"`
	Length  int    `json:"length,omitempty"`
	Enabled bool   `json:"enabled,omitempty"`
	Text    string `json:"text,omitempty"`
}

const (
	ActionSetLength     = "set_length"
	ActionSetDigits     = "set_digits"
	ActionSetSpecial    = "set_special"
	ActionToggleDigits  = "toggle_digits"
	ActionToggleSpecial = "toggle_special"
	ActionEditPassword  = "edit_password"
	ActionRegenerate    = "regenerate"
)

// SessionResponse is the rendered view of a session. Token is freshly
// signed on every response and valid until ExpiresAt.
type SessionResponse struct {
	SessionID string          `json:"session_id"`
	Token     string          `json:"token,omitempty"`
	ExpiresAt time.Time       `json:"expires_at"`
	State     widget.State    `json:"state"`
	Strength  crypto.Strength `json:"strength"`
}
