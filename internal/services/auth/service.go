// Package auth issues and checks the host tokens that guard a session.
// Only a bcrypt hash of each token is stored with the session.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/partygames/internal/model"
)

// Config holds configuration for the auth service
type Config struct {
	// TokenCost is the bcrypt cost used for host token hashes
	TokenCost int
	// TokenBytes is the amount of randomness in a token
	TokenBytes int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		TokenCost:  bcrypt.DefaultCost,
		TokenBytes: 24,
	}
}

// Service hands out host tokens
type Service struct {
	cost  int
	bytes int
}

// New creates a new auth service
func New(cfg Config) *Service {
	defaults := DefaultConfig()
	if cfg.TokenCost == 0 {
		cfg.TokenCost = defaults.TokenCost
	}
	if cfg.TokenCost < bcrypt.MinCost {
		cfg.TokenCost = bcrypt.MinCost
	}
	if cfg.TokenBytes == 0 {
		cfg.TokenBytes = defaults.TokenBytes
	}
	return &Service{cost: cfg.TokenCost, bytes: cfg.TokenBytes}
}

// IssueToken generates a fresh host token and its hash. The token goes back
// to the host once; the hash is stored.
func (s *Service) IssueToken() (token string, hash []byte, err error) {
	b := make([]byte, s.bytes)
	if _, err := rand.Read(b); err != nil {
		return "", nil, fmt.Errorf("generating token: %w", err)
	}
	token = base64.RawURLEncoding.EncodeToString(b)

	hash, err = bcrypt.GenerateFromPassword([]byte(token), s.cost)
	if err != nil {
		return "", nil, fmt.Errorf("hashing token: %w", err)
	}
	return token, hash, nil
}

// Verify checks a presented token against a session's stored hash
func (s *Service) Verify(session *model.Session, token string) error {
	if token == "" || len(session.TokenHash) == 0 {
		return model.ErrInvalidToken
	}
	if err := bcrypt.CompareHashAndPassword(session.TokenHash, []byte(token)); err != nil {
		return model.ErrInvalidToken
	}
	return nil
}
