// Package words supplies word pairs and single-word lists to the games.
// Content comes from the remote supplier when it answers, then from the
// storage cache, then from the static fallback tables. Callers never see
// supplier failures.
package words

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/storage"
)

// Word list names used as cache keys
const (
	ListCharades = "charades"
	ListSynonyms = "synonyms"
)

// DefaultPairLimit is how many pairs a game requests
const DefaultPairLimit = 20

// Source records where a word list came from
type Source string

const (
	SourceRemote   Source = "remote"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// Supplier is the remote word source
type Supplier interface {
	FetchWordPairs(ctx context.Context, limit int, locale string) ([]model.WordPair, error)
	ReportUsage(ctx context.Context, usages []model.WordUsage) error
	FetchCharadesWords(ctx context.Context, query CharadesQuery) ([]string, error)
	CheckHealth(ctx context.Context) error
}

// Ensure Client implements Supplier
var _ Supplier = (*Client)(nil)

// Service resolves word content for the games
type Service struct {
	supplier Supplier
	storage  storage.Storage
	logger   *slog.Logger
}

// New creates a words service. supplier may be nil to run offline.
func New(supplier Supplier, storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		supplier: supplier,
		storage:  storage,
		logger:   logger.With(slog.String("component", "words")),
	}
}

// WordPairs returns imposter pairs for a locale, never empty
func (s *Service) WordPairs(ctx context.Context, limit int, locale string) ([]model.WordPair, Source) {
	if s.supplier != nil {
		pairs, err := s.supplier.FetchWordPairs(ctx, limit, locale)
		switch {
		case err != nil:
			s.logger.Warn("word pair fetch failed",
				slog.String("locale", locale),
				slog.String("error", err.Error()),
			)
		case len(pairs) > 0:
			if err := s.storage.SaveWordPairs(ctx, locale, pairs); err != nil {
				s.logger.Warn("failed to cache word pairs", slog.String("error", err.Error()))
			}
			return pairs, SourceRemote
		}
	}

	if pairs, err := s.storage.GetWordPairs(ctx, locale); err == nil {
		return capped(pairs, limit), SourceCache
	}
	return capped(slices.Clone(FallbackPairs), limit), SourceFallback
}

// CharadesWords returns words for charades, never empty
func (s *Service) CharadesWords(ctx context.Context, query CharadesQuery) ([]string, Source) {
	return s.wordList(ctx, ListCharades, query, FallbackCharades)
}

// SynonymsWords returns words for the synonyms game, never empty.
// The synonyms game draws from the charades catalogue.
func (s *Service) SynonymsWords(ctx context.Context, limit int, locale string) ([]string, Source) {
	query := CharadesQuery{Limit: limit, Locale: locale}
	return s.wordList(ctx, ListSynonyms, query, FallbackSynonyms)
}

func (s *Service) wordList(ctx context.Context, list string, query CharadesQuery, fallback []string) ([]string, Source) {
	if s.supplier != nil {
		words, err := s.supplier.FetchCharadesWords(ctx, query)
		switch {
		case err != nil:
			s.logger.Warn("word list fetch failed",
				slog.String("list", list),
				slog.String("locale", query.Locale),
				slog.String("error", err.Error()),
			)
		case len(words) > 0:
			if err := s.storage.SaveWordList(ctx, list, query.Locale, words); err != nil {
				s.logger.Warn("failed to cache word list", slog.String("error", err.Error()))
			}
			return words, SourceRemote
		}
	}

	if words, err := s.storage.GetWordList(ctx, list, query.Locale); err == nil {
		return capped(words, query.Limit), SourceCache
	}
	return capped(slices.Clone(fallback), query.Limit), SourceFallback
}

// capped trims a list to limit entries; a non-positive limit keeps all
func capped[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// ReportUsage sends pair ratings. Failures are logged and swallowed.
func (s *Service) ReportUsage(ctx context.Context, usages []model.WordUsage) {
	if s.supplier == nil || len(usages) == 0 {
		return
	}
	if err := s.supplier.ReportUsage(ctx, usages); err != nil {
		s.logger.Warn("usage report failed",
			slog.Int("usages", len(usages)),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.Debug("usage reported", slog.Int("usages", len(usages)))
}

// ErrOffline is returned by CheckHealth when no supplier is configured
var ErrOffline = errors.New("word supplier not configured")

// CheckHealth probes the supplier
func (s *Service) CheckHealth(ctx context.Context) error {
	if s.supplier == nil {
		return ErrOffline
	}
	return s.supplier.CheckHealth(ctx)
}

// LoadListFromFile seeds the cache for one list and locale from a file
// with one word per line. Blank lines are skipped.
func (s *Service) LoadListFromFile(ctx context.Context, list, locale, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read word list: %w", err)
	}
	if len(words) == 0 {
		return 0, model.ErrNoWords
	}

	if err := s.storage.SaveWordList(ctx, list, locale, words); err != nil {
		return 0, err
	}
	return len(words), nil
}

// LoadDir seeds the cache from every <list>_<locale>.txt file in dir, e.g.
// charades_en.txt. Files with another name or an unknown list or locale are
// skipped. It returns the number of lists loaded.
func (s *Service) LoadDir(ctx context.Context, dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return 0, err
	}

	loaded := 0
	for _, path := range paths {
		list, locale, ok := strings.Cut(strings.TrimSuffix(filepath.Base(path), ".txt"), "_")
		if !ok || (list != ListCharades && list != ListSynonyms) || !model.IsSupportedLocale(locale) {
			s.logger.Debug("skipping word file", slog.String("path", path))
			continue
		}
		n, err := s.LoadListFromFile(ctx, list, locale, path)
		if err != nil {
			return loaded, fmt.Errorf("loading %s: %w", path, err)
		}
		s.logger.Info("loaded word list",
			slog.String("list", list),
			slog.String("locale", locale),
			slog.Int("words", n),
		)
		loaded++
	}
	return loaded, nil
}
