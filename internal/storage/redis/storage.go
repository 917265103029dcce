package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	// Save session and update the index atomically
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), data, s.cfg.SessionTTL)
	pipe.SAdd(ctx, sessionsIndexKey(), string(session.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
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
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, sessionsIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) SessionExists(ctx context.Context, id model.SessionID) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListSessions returns live session ids. Index entries whose session has
// expired are pruned as a side effect.
func (s *Storage) ListSessions(ctx context.Context) ([]model.SessionID, error) {
	members, err := s.client.SMembers(ctx, sessionsIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]model.SessionID, 0, len(members))
	var stale []interface{}
	for _, m := range members {
		exists, err := s.client.Exists(ctx, sessionKey(model.SessionID(m))).Result()
		if err != nil {
			return nil, err
		}
		if exists == 0 {
			stale = append(stale, m)
			continue
		}
		ids = append(ids, model.SessionID(m))
	}
	if len(stale) > 0 {
		if err := s.client.SRem(ctx, sessionsIndexKey(), stale...).Err(); err != nil {
			return nil, err
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Preference operations

func (s *Storage) SavePreferences(ctx context.Context, profile string, prefs *model.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, preferencesKey(profile), data, s.cfg.PreferencesTTL).Err()
}

func (s *Storage) GetPreferences(ctx context.Context, profile string) (*model.Preferences, error) {
	data, err := s.client.Get(ctx, preferencesKey(profile)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
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
	data, err := json.Marshal(pairs)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, wordPairsKey(locale), data, s.cfg.WordCacheTTL).Err()
}

func (s *Storage) GetWordPairs(ctx context.Context, locale string) ([]model.WordPair, error) {
	data, err := s.client.Get(ctx, wordPairsKey(locale)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrWordsNotCached
		}
		return nil, err
	}

	var pairs []model.WordPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, model.ErrWordsNotCached
	}
	return pairs, nil
}

func (s *Storage) SaveWordList(ctx context.Context, list, locale string, words []string) error {
	key := wordListKey(list, locale)

	// Replace the list atomically, keeping supplier order
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(words) > 0 {
		members := make([]interface{}, len(words))
		for i, w := range words {
			members[i] = w
		}
		pipe.RPush(ctx, key, members...)
		if s.cfg.WordCacheTTL > 0 {
			pipe.Expire(ctx, key, s.cfg.WordCacheTTL)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetWordList(ctx context.Context, list, locale string) ([]string, error) {
	words, err := s.client.LRange(ctx, wordListKey(list, locale), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, model.ErrWordsNotCached
	}
	return words, nil
}
