package initdata

import (
	"errors"
	"time"

	"tma-backend/internal/common/config"
)

var ErrInvalidSignature = errors.New("init data signature is invalid")

// Strategy pairs a Verifier with the Parser allowed to decode what it accepts.
// The only place the environment mode is consulted is NewStrategy.
type Strategy struct {
	Verifier Verifier
	Parser   Parser
	Mock     bool
}

func NewStrategy(mode config.Mode, botToken string, ttl time.Duration) Strategy {
	verifier := NewSignatureVerifier(botToken, ttl)
	parser := SignedParser{}
	if mode == config.ModeDevelopment {
		return Strategy{
			Verifier: MockVerifier{Next: verifier},
			Parser:   MockParser{Next: parser},
			Mock:     true,
		}
	}
	return Strategy{Verifier: verifier, Parser: parser}
}

// Authenticate verifies raw and only then parses it.
func (s Strategy) Authenticate(raw string) (*Payload, error) {
	if !s.Verifier.Verify(raw) {
		return nil, ErrInvalidSignature
	}
	return s.Parser.Parse(raw)
}
