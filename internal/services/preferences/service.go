// Package preferences keeps the device-level settings that survive between
// runs: locale, theme, and the word supplier credentials.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/storage"
)

// DefaultProfile is used when the caller does not name one
const DefaultProfile = "default"

// Update is a partial change. Nil fields are left alone.
type Update struct {
	Locale    *string          `json:"locale,omitempty"`
	Theme     *model.Theme     `json:"theme,omitempty"`
	AuthToken *string          `json:"auth_token,omitempty"`
	UserData  *json.RawMessage `json:"user_data,omitempty"`
}

// Service loads and persists preferences
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a preferences service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "preferences")),
	}
}

func normalizeProfile(profile string) string {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return DefaultProfile
	}
	return profile
}

// Get returns the stored preferences, or the defaults if nothing was saved
func (s *Service) Get(ctx context.Context, profile string) (*model.Preferences, error) {
	prefs, err := s.storage.GetPreferences(ctx, normalizeProfile(profile))
	if errors.Is(err, model.ErrPreferencesNotFound) {
		defaults := model.DefaultPreferences()
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading preferences: %w", err)
	}
	return prefs, nil
}

// Apply validates and persists a partial update, returning the result
func (s *Service) Apply(ctx context.Context, profile string, u Update) (*model.Preferences, error) {
	profile = normalizeProfile(profile)
	prefs, err := s.Get(ctx, profile)
	if err != nil {
		return nil, err
	}

	if u.Locale != nil {
		locale := model.NormalizeLocale(*u.Locale)
		if !model.IsSupportedLocale(locale) {
			return nil, model.ErrInvalidLocale
		}
		prefs.Locale = locale
	}
	if u.Theme != nil {
		if !u.Theme.Valid() {
			return nil, model.ErrInvalidTheme
		}
		prefs.Theme = *u.Theme
	}
	if u.AuthToken != nil {
		prefs.AuthToken = strings.TrimSpace(*u.AuthToken)
	}
	if u.UserData != nil {
		data := *u.UserData
		if len(data) > 0 && !json.Valid(data) {
			return nil, model.ErrInvalidSetting
		}
		prefs.UserData = string(data)
	}

	if err := s.storage.SavePreferences(ctx, profile, prefs); err != nil {
		return nil, fmt.Errorf("saving preferences: %w", err)
	}

	s.logger.Info("preferences saved",
		slog.String("profile", profile),
		slog.String("locale", prefs.Locale),
		slog.String("theme", string(prefs.Theme)),
	)
	return prefs, nil
}

// SignOut forgets the supplier token and the cached user
func (s *Service) SignOut(ctx context.Context, profile string) error {
	empty := ""
	raw := json.RawMessage(nil)
	_, err := s.Apply(ctx, profile, Update{AuthToken: &empty, UserData: &raw})
	return err
}

// AuthToken returns the stored supplier token for a profile, or "" when
// there is none. It fits words.TokenSource.
func (s *Service) AuthToken(profile string) func(ctx context.Context) string {
	return func(ctx context.Context) string {
		prefs, err := s.Get(ctx, profile)
		if err != nil {
			s.logger.Warn("reading auth token", slog.String("error", err.Error()))
			return ""
		}
		return prefs.AuthToken
	}
}

// Locale returns the preferred locale for a profile, falling back to the default
func (s *Service) Locale(ctx context.Context, profile string) string {
	prefs, err := s.Get(ctx, profile)
	if err != nil || prefs.Locale == "" {
		return model.DefaultLocale
	}
	return prefs.Locale
}
