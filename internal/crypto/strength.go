package crypto

import (
	"fmt"
	"strings"
	"unicode/utf8"

	zxcvbn "github.com/ccojocar/zxcvbn-go"
)

// Strength is the five-level rating shown next to a password.
type Strength int

const (
	VeryWeak Strength = iota
	Weak
	Medium
	Strong
	VeryStrong
)

var strengthNames = [...]string{"Very Weak", "Weak", "Medium", "Strong", "Very Strong"}

func (s Strength) String() string {
	if s < VeryWeak || s > VeryStrong {
		return fmt.Sprintf("Strength(%d)", int(s))
	}
	return strengthNames[s]
}

// Tally returns the number of satisfied rules (0-4).
func (s Strength) Tally() int {
	return int(s)
}

// MarshalText encodes the rating by its display name.
func (s Strength) MarshalText() ([]byte, error) {
	if s < VeryWeak || s > VeryStrong {
		return nil, fmt.Errorf("invalid strength %d", int(s))
	}
	return []byte(strengthNames[s]), nil
}

// UnmarshalText accepts the display names produced by MarshalText.
func (s *Strength) UnmarshalText(text []byte) error {
	for i, name := range strengthNames {
		if string(text) == name {
			*s = Strength(i)
			return nil
		}
	}
	return fmt.Errorf("unknown strength %q", text)
}

// Score rates password under cfg. Length rules use the password's actual
// length, so a manually edited password is rated as it is, not as configured.
func Score(password string, cfg GeneratorConfig) Strength {
	n := utf8.RuneCountInString(password)

	tally := 0
	if n >= 8 {
		tally++
	}
	if n >= 12 {
		tally++
	}
	if cfg.IncludeDigits && strings.ContainsAny(password, digitChars) {
		tally++
	}
	if cfg.IncludeSpecial && strings.ContainsAny(password, specialChars) {
		tally++
	}

	return Strength(tally)
}

// Estimate is an advisory zxcvbn assessment, independent of Score.
type Estimate struct {
	Score            int     `json:"score"`
	Entropy          float64 `json:"entropy_bits"`
	CrackTimeDisplay string  `json:"crack_time"`
}

// EstimateStrength runs zxcvbn over password.
func EstimateStrength(password string) Estimate {
	if password == "" {
		return Estimate{CrackTimeDisplay: "instant"}
	}
	m := zxcvbn.PasswordStrength(password, nil)
	return Estimate{
		Score:            m.Score,
		Entropy:          m.Entropy,
		CrackTimeDisplay: m.CrackTimeDisplay,
	}
}
