package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	TokenDir  string
	Profile   string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("PARTYGAMES_SERVER", "http://localhost:8080"),
		Token:     os.Getenv("PARTYGAMES_TOKEN"),
		TokenDir:  getEnvOrDefault("PARTYGAMES_TOKEN_DIR", defaultTokenDir()),
		Profile:   os.Getenv("PARTYGAMES_PROFILE"),
		Output:    "text",
		Verbose:   false,
	}
}

// TokenFor returns the host token for a session: the --token flag if set,
// else the one saved when the session was created
func (c *Config) TokenFor(sessionID string) (string, error) {
	if c.Token != "" {
		return c.Token, nil
	}

	data, err := os.ReadFile(c.tokenPath(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil // the server will answer 401
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// SaveToken stores a session's host token
func (c *Config) SaveToken(sessionID, token string) error {
	if err := os.MkdirAll(c.TokenDir, 0700); err != nil {
		return err
	}
	return os.WriteFile(c.tokenPath(sessionID), []byte(token), 0600)
}

// ForgetToken removes a saved host token
func (c *Config) ForgetToken(sessionID string) error {
	err := os.Remove(c.tokenPath(sessionID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SavedSessions lists the sessions this machine holds a host token for
func (c *Config) SavedSessions() ([]string, error) {
	entries, err := os.ReadDir(c.TokenDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

func (c *Config) tokenPath(sessionID string) string {
	return filepath.Join(c.TokenDir, filepath.Base(sessionID))
}

func defaultTokenDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".partygames/tokens"
	}
	return filepath.Join(home, ".partygames", "tokens")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
