package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/partygames/internal/dependencies/clock"
	"github.com/mcoot/partygames/internal/dependencies/random"
	"github.com/mcoot/partygames/internal/events"
	"github.com/mcoot/partygames/internal/services/auth"
	"github.com/mcoot/partygames/internal/services/charades"
	"github.com/mcoot/partygames/internal/services/imposter"
	"github.com/mcoot/partygames/internal/services/mafia"
	"github.com/mcoot/partygames/internal/services/preferences"
	"github.com/mcoot/partygames/internal/services/scoring"
	"github.com/mcoot/partygames/internal/services/session"
	"github.com/mcoot/partygames/internal/services/synonyms"
	"github.com/mcoot/partygames/internal/services/words"
	"github.com/mcoot/partygames/internal/storage"
	"github.com/mcoot/partygames/internal/storage/memory"
	"github.com/mcoot/partygames/internal/storage/postgres"
	redisstorage "github.com/mcoot/partygames/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	WordsService       *words.Service
	PreferencesService *preferences.Service
	AuthService        *auth.Service
	ScoringService     *scoring.Service
	ImposterService    *imposter.Service
	MafiaService       *mafia.Service
	CharadesService    *charades.Service
	SynonymsService    *synonyms.Service
	SessionController  *session.Controller
	EventManager       *events.Manager

	closers []func() error
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// SessionConfig controls background timer ticking (optional)
	// If zero value, defaults to session.DefaultConfig()
	SessionConfig session.Config
	// WordsConfig points at the remote word supplier (optional)
	// If nil, the app runs offline on cached and built-in lists
	WordsConfig *words.Config
	// Profile selects whose stored supplier token is sent (optional)
	Profile string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds database settings (required if StorageType is "postgres")
	PostgresConfig *postgres.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	var closers []func() error
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore.Close)
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		pgStore, err := postgres.New(*cfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		store = pgStore
		closers = append(closers, pgStore.Close)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	sessionCfg := cfg.SessionConfig
	if sessionCfg.TickInterval == 0 {
		sessionCfg = session.DefaultConfig()
	}

	// The supplier client reads its bearer token from stored preferences
	var newSupplier supplierFunc
	if cfg.WordsConfig != nil {
		wordsCfg := *cfg.WordsConfig
		newSupplier = func(prefs *preferences.Service) words.Supplier {
			return words.NewClient(wordsCfg, prefs.AuthToken(cfg.Profile))
		}
	}

	app := newWithDependencies(store, clk, rnd, newSupplier, cfg.AuthConfig, sessionCfg, logger)
	app.closers = closers
	return app, nil
}

// supplierFunc builds the word supplier once preferences exist. A nil
// supplierFunc runs offline.
type supplierFunc func(prefs *preferences.Service) words.Supplier

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	newSupplier supplierFunc,
	authCfg auth.Config,
	sessionCfg session.Config,
	logger *slog.Logger,
) *App {
	// Create services
	prefsService := preferences.New(store, logger)
	var supplier words.Supplier
	if newSupplier != nil {
		supplier = newSupplier(prefsService)
	}
	wordService := words.New(supplier, store, logger)
	authService := auth.New(authCfg)
	scoringService := scoring.New()
	imposterService := imposter.NewService(rnd, wordService, logger)
	mafiaService := mafia.NewService(rnd, logger)
	charadesService := charades.NewService(rnd, wordService, logger)
	synonymsService := synonyms.NewService(rnd, wordService, logger)
	eventManager := events.NewManager(logger)

	games := session.Games{
		Imposter: imposterService,
		Mafia:    mafiaService,
		Charades: charadesService,
		Synonyms: synonymsService,
	}
	sessionController := session.NewController(store, clk, authService, games, scoringService, eventManager, sessionCfg, logger)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		WordsService:       wordService,
		PreferencesService: prefsService,
		AuthService:        authService,
		ScoringService:     scoringService,
		ImposterService:    imposterService,
		MafiaService:       mafiaService,
		CharadesService:    charadesService,
		SynonymsService:    synonymsService,
		SessionController:  sessionController,
		EventManager:       eventManager,
	}
}

// Close stops background work and releases the storage backend
func (a *App) Close() error {
	a.SessionController.Close()
	a.EventManager.Close()
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
