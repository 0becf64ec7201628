package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	letterChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars   = "0123456789"
	specialChars = "@#$_."

	MinLength     = 4
	MaxLength     = 20
	DefaultLength = 8
)

// ErrInvalidConfig is returned when a caller bypasses length clamping.
var ErrInvalidConfig = errors.New("password length must be between 4 and 20")

// GeneratorConfig configures the password generator.
// Letters are always part of the alphabet.
type GeneratorConfig struct {
	Length         int  `json:"length"`
	IncludeDigits  bool `json:"include_digits"`
	IncludeSpecial bool `json:"include_special"`
}

// DefaultConfig returns the widget's initial configuration: 8 letters only.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{Length: DefaultLength}
}

// Validate reports ErrInvalidConfig when Length is out of range.
func (c GeneratorConfig) Validate() error {
	if c.Length < MinLength || c.Length > MaxLength {
		return fmt.Errorf("%w: got %d", ErrInvalidConfig, c.Length)
	}
	return nil
}

// Clamped returns a copy of c with Length forced into [MinLength, MaxLength].
func (c GeneratorConfig) Clamped() GeneratorConfig {
	c.Length = ClampLength(c.Length)
	return c
}

// ClampLength forces n into [MinLength, MaxLength].
func ClampLength(n int) int {
	if n < MinLength {
		return MinLength
	}
	if n > MaxLength {
		return MaxLength
	}
	return n
}

// Alphabet returns the characters eligible for selection under cfg.
func Alphabet(cfg GeneratorConfig) string {
	var sb strings.Builder
	sb.WriteString(letterChars)
	if cfg.IncludeDigits {
		sb.WriteString(digitChars)
	}
	if cfg.IncludeSpecial {
		sb.WriteString(specialChars)
	}
	return sb.String()
}

// Source is a uniform entropy source. Intn returns a value in [0, n).
type Source interface {
	Intn(n int) (int, error)
}

// SecureSource draws from crypto/rand.
type SecureSource struct{}

// Intn picks a uniform random int in [0, n) using crypto/rand.
func (SecureSource) Intn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// Generate creates a random password for cfg using crypto/rand.
func Generate(cfg GeneratorConfig) (string, error) {
	return GenerateWith(SecureSource{}, cfg)
}

// GenerateWith creates a password of exactly cfg.Length characters, each
// drawn independently and uniformly from Alphabet(cfg). Enabling a class
// does not guarantee it appears in the output.
func GenerateWith(src Source, cfg GeneratorConfig) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	alphabet := Alphabet(cfg)

	result := make([]byte, cfg.Length)
	for i := range result {
		idx, err := src.Intn(len(alphabet))
		if err != nil {
			return "", fmt.Errorf("reading entropy: %w", err)
		}
		result[i] = alphabet[idx]
	}

	return string(result), nil
}
