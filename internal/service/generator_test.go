package service

import (
	"strings"
	"testing"

	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/model"
)

func TestGenerate_Defaults(t *testing.T) {
	svc := NewGeneratorService()
	resp, err := svc.Generate(model.GenerateRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Length != crypto.DefaultLength {
		t.Errorf("expected length %d, got %d", crypto.DefaultLength, resp.Length)
	}
	if resp.Strength != crypto.Weak {
		t.Errorf("expected strength %v, got %v", crypto.Weak, resp.Strength)
	}
	for _, c := range resp.Password {
		if !((c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')) {
			t.Errorf("unexpected character %q in letters-only password", c)
		}
	}
}

func TestGenerate_CustomOptions(t *testing.T) {
	svc := NewGeneratorService()
	resp, err := svc.Generate(model.GenerateRequest{
		Length:         16,
		IncludeDigits:  true,
		IncludeSpecial: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Length != 16 {
		t.Errorf("expected length 16, got %d", resp.Length)
	}
	alphabet := crypto.Alphabet(resp.Config)
	for _, c := range resp.Password {
		if !strings.ContainsRune(alphabet, c) {
			t.Errorf("unexpected character %q outside alphabet", c)
		}
	}
	if resp.Strength < crypto.Medium {
		t.Errorf("a 16 character password scores at least Medium, got %v", resp.Strength)
	}
}

func TestGenerate_ClampsLength(t *testing.T) {
	svc := NewGeneratorService()

	tests := []struct {
		name   string
		length int
		want   int
	}{
		{"too short", 3, crypto.MinLength},
		{"negative", -10, crypto.MinLength},
		{"too long", 200, crypto.MaxLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Generate(model.GenerateRequest{Length: tt.length})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Length != tt.want {
				t.Errorf("expected length %d, got %d", tt.want, resp.Length)
			}
		})
	}
}

func TestScore(t *testing.T) {
	svc := NewGeneratorService()

	resp := svc.Score(model.StrengthRequest{
		Password:       "Ab3#zK9_LmQ1",
		IncludeDigits:  true,
		IncludeSpecial: true,
	})
	if resp.Strength != crypto.VeryStrong {
		t.Errorf("expected %v, got %v", crypto.VeryStrong, resp.Strength)
	}
	if resp.Tally != 4 {
		t.Errorf("expected tally 4, got %d", resp.Tally)
	}

	// Eight runes, sixteen bytes: only the first length rule applies.
	accented := svc.Score(model.StrengthRequest{Password: "éééééééé"})
	if accented.Strength != crypto.Weak {
		t.Errorf("expected %v for 8 rune password, got %v", crypto.Weak, accented.Strength)
	}

	empty := svc.Score(model.StrengthRequest{})
	if empty.Strength != crypto.VeryWeak {
		t.Errorf("expected %v for empty password, got %v", crypto.VeryWeak, empty.Strength)
	}
}
