package service

import (
	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/model"
)

// GeneratorService handles stateless generation and scoring.
type GeneratorService struct {
	source crypto.Source
}

// NewGeneratorService creates a new GeneratorService backed by crypto/rand.
func NewGeneratorService() *GeneratorService {
	return &GeneratorService{source: crypto.SecureSource{}}
}

// Generate produces a password based on the given request.
func (s *GeneratorService) Generate(req model.GenerateRequest) (model.GenerateResponse, error) {
	cfg := configFromRequest(req.Length, req.IncludeDigits, req.IncludeSpecial)

	password, err := crypto.GenerateWith(s.source, cfg)
	if err != nil {
		return model.GenerateResponse{}, err
	}

	return model.GenerateResponse{
		Password: password,
		Length:   len(password),
		Config:   cfg,
		Strength: crypto.Score(password, cfg),
		Estimate: crypto.EstimateStrength(password),
	}, nil
}

// Score rates an existing password against the classes in the request.
func (s *GeneratorService) Score(req model.StrengthRequest) model.StrengthResponse {
	// Score reads the password's own length, so only the classes matter here.
	strength := crypto.Score(req.Password, crypto.GeneratorConfig{
		IncludeDigits:  req.IncludeDigits,
		IncludeSpecial: req.IncludeSpecial,
	})

	return model.StrengthResponse{
		Strength: strength,
		Tally:    strength.Tally(),
		Estimate: crypto.EstimateStrength(req.Password),
	}
}

// configFromRequest applies the default length and clamps the rest.
func configFromRequest(length int, digits, special bool) crypto.GeneratorConfig {
	if length == 0 {
		length = crypto.DefaultLength
	}
	return crypto.GeneratorConfig{
		Length:         crypto.ClampLength(length),
		IncludeDigits:  digits,
		IncludeSpecial: special,
	}
}
