// Package postgres stores sessions, preferences and cached word lists in
// Postgres. Documents are kept as JSONB so the schema stays independent of
// the game models.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/storage"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Word pairs share the cache table under a reserved list name
const pairsList = "_pairs"

// Storage is a Postgres-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens the database, checks the connection and applies migrations
func New(cfg Config) (*Storage, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s := NewWithDB(db)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing connection pool
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Migrate applies any pending schema migrations
func (s *Storage) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db, "migrations")
}

// Close closes the connection pool
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		string(session.ID), data)
	return err
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM sessions WHERE id = $1`, string(id)).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, string(id))
	return err
}

func (s *Storage) SessionExists(ctx context.Context, id model.SessionID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1)`, string(id)).Scan(&exists)
	return exists, err
}

func (s *Storage) ListSessions(ctx context.Context) ([]model.SessionID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM sessions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []model.SessionID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, model.SessionID(id))
	}
	return ids, rows.Err()
}

// Preference operations

func (s *Storage) SavePreferences(ctx context.Context, profile string, prefs *model.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO preferences (profile, data) VALUES ($1, $2)
		ON CONFLICT (profile) DO UPDATE SET data = EXCLUDED.data`,
		profile, data)
	return err
}

func (s *Storage) GetPreferences(ctx context.Context, profile string) (*model.Preferences, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM preferences WHERE profile = $1`, profile).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPreferencesNotFound
		}
		return nil, err
	}

	var prefs model.Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// Word cache operations

func (s *Storage) SaveWordPairs(ctx context.Context, locale string, pairs []model.WordPair) error {
	return s.saveCached(ctx, pairsList, locale, pairs)
}

func (s *Storage) GetWordPairs(ctx context.Context, locale string) ([]model.WordPair, error) {
	var pairs []model.WordPair
	if err := s.getCached(ctx, pairsList, locale, &pairs); err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, model.ErrWordsNotCached
	}
	return pairs, nil
}

func (s *Storage) SaveWordList(ctx context.Context, list, locale string, words []string) error {
	return s.saveCached(ctx, list, locale, words)
}

func (s *Storage) GetWordList(ctx context.Context, list, locale string) ([]string, error) {
	var words []string
	if err := s.getCached(ctx, list, locale, &words); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, model.ErrWordsNotCached
	}
	return words, nil
}

func (s *Storage) saveCached(ctx context.Context, list, locale string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO word_cache (list, locale, data) VALUES ($1, $2, $3)
		ON CONFLICT (list, locale) DO UPDATE SET data = EXCLUDED.data`,
		list, locale, data)
	return err
}

func (s *Storage) getCached(ctx context.Context, list, locale string, dst any) error {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM word_cache WHERE list = $1 AND locale = $2`, list, locale).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrWordsNotCached
		}
		return err
	}
	return json.Unmarshal(data, dst)
}
