// Package imposter runs the word-imposter games: the pass-and-play
// single-device variant and the host-driven multi-device variant.
package imposter

import (
	"context"
	"log/slog"

	"github.com/mcoot/partygames/internal/dependencies/random"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/words"
)

// WordSupplier provides pairs and accepts usage telemetry
type WordSupplier interface {
	WordPairs(ctx context.Context, limit int, locale string) ([]model.WordPair, words.Source)
	ReportUsage(ctx context.Context, usages []model.WordUsage)
}

// Ensure the words service satisfies WordSupplier
var _ WordSupplier = (*words.Service)(nil)

// Service runs both imposter variants
type Service struct {
	random random.Random
	words  WordSupplier
	logger *slog.Logger
}

// NewService creates an imposter service
func NewService(r random.Random, words WordSupplier, logger *slog.Logger) *Service {
	return &Service{
		random: r,
		words:  words,
		logger: logger.With(slog.String("component", "imposter")),
	}
}

func (s *Service) fetchPairs(ctx context.Context, rounds int, locale string) []model.WordPair {
	pairs, source := s.words.WordPairs(ctx, rounds, locale)
	s.logger.Debug("word pairs loaded",
		slog.Int("count", len(pairs)),
		slog.String("source", string(source)),
		slog.String("locale", locale),
	)
	return pairs
}

func setLocale(dst *string, locale string) error {
	locale = model.NormalizeLocale(locale)
	if !model.IsSupportedLocale(locale) {
		return model.ErrInvalidLocale
	}
	*dst = locale
	return nil
}
