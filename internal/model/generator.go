package model

import "github.com/vaultpass/passgen/internal/crypto"

// GenerateRequest represents a password generation request.
// A zero length means the default; other lengths are clamped to [4, 20].
type GenerateRequest struct {
	Length         int  `json:"length"`
	IncludeDigits  bool `json:"include_digits"`
	IncludeSpecial bool `json:"include_special"`
}

// GenerateResponse represents a password generation response.
type GenerateResponse struct {
	Password string                 `json:"password"`
	Length   int                    `json:"length"`
	Config   crypto.GeneratorConfig `json:"config"`
	Strength crypto.Strength        `json:"strength"`
	Estimate crypto.Estimate        `json:"estimate"`
}

// StrengthRequest asks for the rating of an existing password.
type StrengthRequest struct {
	Password       string `json:"password"`
	IncludeDigits  bool   `json:"include_digits"`
	IncludeSpecial bool   `json:"include_special"`
}

// StrengthResponse carries the five-level rating and its tally.
type StrengthResponse struct {
	Strength crypto.Strength `json:"strength"`
	Tally    int             `json:"tally"`
	Estimate crypto.Estimate `json:"estimate"`
}
