// Package session hosts games. It owns the load, advance, act, save cycle
// for every session, serializes access per session, keeps timers ticking
// in the background and publishes change events.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"

	"github.com/mcoot/partygames/internal/dependencies/clock"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/auth"
	"github.com/mcoot/partygames/internal/services/charades"
	"github.com/mcoot/partygames/internal/services/imposter"
	"github.com/mcoot/partygames/internal/services/mafia"
	"github.com/mcoot/partygames/internal/services/round"
	"github.com/mcoot/partygames/internal/services/scoring"
	"github.com/mcoot/partygames/internal/services/synonyms"
	"github.com/mcoot/partygames/internal/storage"
)

// Config holds configuration for the session controller
type Config struct {
	// TickInterval is how often running timers are advanced in the
	// background. Zero disables background ticking; timers then only move
	// when the session is read or acted on.
	TickInterval time.Duration
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{TickInterval: 250 * time.Millisecond}
}

// Publisher receives session events
type Publisher interface {
	Publish(event model.Event)
	Remove(id model.SessionID)
}

// Games bundles the per-game services
type Games struct {
	Imposter *imposter.Service
	Mafia    *mafia.Service
	Charades *charades.Service
	Synonyms *synonyms.Service
}

// CreateOptions tune a new session
type CreateOptions struct {
	// Locale for word lists; empty keeps the game default
	Locale string
	// Name to show for the session; empty picks a random adjective-animal pair
	Name string
}

// Controller manages hosted sessions
type Controller struct {
	storage   storage.Storage
	clock     clock.Clock
	auth      *auth.Service
	games     Games
	scoring   *scoring.Service
	events    Publisher
	scheduler *round.Scheduler
	logger    *slog.Logger

	actions map[model.GameType]map[string]handler

	mu    sync.Mutex
	locks map[model.SessionID]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewController creates a new session controller
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	auth *auth.Service,
	games Games,
	scoring *scoring.Service,
	events Publisher,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	c := &Controller{
		storage: storage,
		clock:   clock,
		auth:    auth,
		games:   games,
		scoring: scoring,
		events:  events,
		logger:  logger.With(slog.String("component", "session")),
		locks:   make(map[model.SessionID]*sessionLock),
	}
	if cfg.TickInterval > 0 {
		c.scheduler = round.NewScheduler(cfg.TickInterval, logger)
	}
	c.actions = c.buildActions()
	return c
}

// lock serializes work on one session and returns the unlock func
func (c *Controller) lock(id model.SessionID) func() {
	c.mu.Lock()
	l, ok := c.locks[id]
	if !ok {
		l = &sessionLock{}
		c.locks[id] = l
	}
	l.refs++
	c.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, id)
		}
		c.mu.Unlock()
	}
}

// Create starts a new session of the given game. The returned token is the
// only copy; the session keeps its hash.
func (c *Controller) Create(ctx context.Context, game model.GameType, opts CreateOptions) (*model.Session, string, error) {
	if !game.Valid() {
		return nil, "", model.ErrUnknownGame
	}
	token, hash, err := c.auth.IssueToken()
	if err != nil {
		return nil, "", err
	}

	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = petname.Generate(2, "-")
	}

	now := c.clock.Now()
	s := &model.Session{
		ID:        model.SessionID(uuid.NewString()),
		Name:      name,
		Game:      game,
		TokenHash: hash,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch game {
	case model.GameImposter:
		s.Imposter = model.NewImposterGame()
		if opts.Locale != "" {
			err = c.games.Imposter.SetLocale(s.Imposter, opts.Locale)
		}
	case model.GameMultiDevice:
		s.MultiDevice = c.games.Imposter.NewMultiDeviceGame()
		if opts.Locale != "" {
			err = c.games.Imposter.ConfigureMultiDevice(s.MultiDevice, model.MultiDeviceSettings{Locale: opts.Locale})
		}
	case model.GameMafia:
		s.Mafia = model.NewMafiaGame()
	case model.GameCharades:
		s.Charades = model.NewCharadesGame()
		if opts.Locale != "" {
			err = c.games.Charades.SetLocale(ctx, s.Charades, opts.Locale)
		} else {
			c.games.Charades.LoadWords(ctx, s.Charades)
		}
	case model.GameSynonyms:
		s.Synonyms = model.NewSynonymsGame()
		if opts.Locale != "" {
			err = c.games.Synonyms.SetLocale(ctx, s.Synonyms, opts.Locale)
		} else {
			c.games.Synonyms.LoadWords(ctx, s.Synonyms)
		}
	}
	if err != nil {
		return nil, "", err
	}

	if err := c.storage.SaveSession(ctx, s); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(s.ID)),
			slog.String("error", err.Error()),
		)
		return nil, "", err
	}

	c.logger.Info("session created",
		slog.String("session_id", string(s.ID)),
		slog.String("name", s.Name),
		slog.String("game", string(game)),
	)
	return s, token, nil
}

// Authorize checks a host token against a session
func (c *Controller) Authorize(ctx context.Context, id model.SessionID, token string) error {
	s, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return err
	}
	return c.auth.Verify(s, token)
}

// Get returns a session with elapsed time applied
func (c *Controller) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	unlock := c.lock(id)
	defer unlock()

	s, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.sync(ctx, s, c.clock.Now()); err != nil {
		return nil, err
	}
	return s, nil
}

// JoinCode returns the code other devices enter to join a multi-device game
func (c *Controller) JoinCode(ctx context.Context, id model.SessionID) (string, error) {
	s, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return "", err
	}
	if s.Game != model.GameMultiDevice {
		return "", model.ErrNoJoinCode
	}
	return s.MultiDevice.Code, nil
}

// List returns the ids of all stored sessions
func (c *Controller) List(ctx context.Context) ([]model.SessionID, error) {
	return c.storage.ListSessions(ctx)
}

// Delete ends a session and disconnects its subscribers
func (c *Controller) Delete(ctx context.Context, id model.SessionID) error {
	unlock := c.lock(id)
	defer unlock()

	s, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if err := c.storage.DeleteSession(ctx, id); err != nil {
		return err
	}
	if c.scheduler != nil {
		c.scheduler.Stop(string(id))
	}
	c.events.Publish(model.Event{Type: model.EventSessionDeleted, SessionID: id, Timestamp: c.clock.Now()})
	c.events.Remove(id)

	c.logger.Info("session deleted",
		slog.String("session_id", string(id)),
		slog.String("game", string(s.Game)),
		slog.Duration("age", c.clock.Since(s.CreatedAt)),
	)
	return nil
}

// AddPlayer adds a player to the session's roster
func (c *Controller) AddPlayer(ctx context.Context, id model.SessionID, name string) (*model.Session, *model.Player, error) {
	var added model.Player
	s, err := c.mutate(ctx, id, func(s *model.Session, now time.Time) error {
		var p *model.Player
		var err error
		switch s.Game {
		case model.GameImposter:
			p, err = c.games.Imposter.AddPlayer(s.Imposter, name, now)
		case model.GameMultiDevice:
			p, err = c.games.Imposter.JoinPlayer(s.MultiDevice, name, now)
		case model.GameMafia:
			p, err = c.games.Mafia.AddPlayer(s.Mafia, name, now)
		case model.GameCharades:
			p, err = c.games.Charades.AddPlayer(s.Charades, name, now)
		case model.GameSynonyms:
			p, err = c.games.Synonyms.AddPlayer(s.Synonyms, name, now)
		default:
			return model.ErrUnknownGame
		}
		if err != nil {
			return err
		}
		added = *p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return s, &added, nil
}

// RemovePlayer removes a player from the session's roster
func (c *Controller) RemovePlayer(ctx context.Context, id model.SessionID, playerID model.PlayerID) (*model.Session, error) {
	return c.mutate(ctx, id, func(s *model.Session, now time.Time) error {
		if s.Players().Find(playerID) == nil {
			return model.ErrPlayerNotFound
		}
		switch s.Game {
		case model.GameImposter:
			return c.games.Imposter.RemovePlayer(s.Imposter, playerID)
		case model.GameMultiDevice:
			return c.games.Imposter.LeavePlayer(s.MultiDevice, playerID)
		case model.GameMafia:
			return c.games.Mafia.RemovePlayer(s.Mafia, playerID)
		case model.GameCharades:
			return c.games.Charades.RemovePlayer(s.Charades, playerID)
		case model.GameSynonyms:
			return c.games.Synonyms.RemovePlayer(s.Synonyms, playerID)
		}
		return model.ErrUnknownGame
	})
}

// Act applies a named game intent
func (c *Controller) Act(ctx context.Context, id model.SessionID, action string, p Params) (*model.Session, error) {
	return c.mutate(ctx, id, func(s *model.Session, now time.Time) error {
		h, ok := c.actions[s.Game][action]
		if !ok {
			return fmt.Errorf("%w: %q", model.ErrUnknownAction, action)
		}
		return h(ctx, s, p, now)
	})
}

// Tick advances a session's timers. It reports whether the session still
// needs ticking.
func (c *Controller) Tick(ctx context.Context, id model.SessionID) bool {
	unlock := c.lock(id)
	defer unlock()

	s, err := c.storage.GetSession(ctx, id)
	if err != nil {
		if !errors.Is(err, model.ErrSessionNotFound) && !errors.Is(err, context.Canceled) {
			c.logger.Error("tick failed to load session",
				slog.String("session_id", string(id)),
				slog.String("error", err.Error()),
			)
		}
		return false
	}
	if err := c.sync(ctx, s, c.clock.Now()); err != nil {
		c.logger.Error("tick failed to save session",
			slog.String("session_id", string(id)),
			slog.String("error", err.Error()),
		)
		return false
	}
	return c.timerActive(s)
}

// ResumeTimers restarts background ticking for stored sessions with a
// running timer, e.g. after a restart against redis.
func (c *Controller) ResumeTimers(ctx context.Context) error {
	ids, err := c.List(ctx)
	if err != nil {
		return err
	}
	resumed := 0
	for _, id := range ids {
		s, err := c.storage.GetSession(ctx, id)
		if err != nil {
			continue
		}
		if c.ensureTicking(s) {
			resumed++
		}
	}
	if resumed > 0 {
		c.logger.Info("resumed session timers", slog.Int("count", resumed))
	}
	return nil
}

// Close stops background ticking
func (c *Controller) Close() {
	if c.scheduler != nil {
		c.scheduler.Close()
	}
}

// mutate runs fn against a freshly loaded and advanced session and saves
// the result. Nothing is saved when fn fails.
func (c *Controller) mutate(ctx context.Context, id model.SessionID, fn func(s *model.Session, now time.Time) error) (*model.Session, error) {
	unlock := c.lock(id)
	defer unlock()

	s, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	now := c.clock.Now()
	if err := c.sync(ctx, s, now); err != nil {
		return nil, err
	}

	phase := s.Phase()
	if err := fn(s, now); err != nil {
		return nil, err
	}
	s.UpdatedAt = now

	if err := c.storage.SaveSession(ctx, s); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	c.publish(s, phase, false, now)
	c.ensureTicking(s)
	return s, nil
}

// sync applies elapsed time and saves when anything visible changed
func (c *Controller) sync(ctx context.Context, s *model.Session, now time.Time) error {
	before := fingerprint(s)
	phase := s.Phase()

	timeUp := c.advance(s, now)
	if !timeUp && fingerprint(s) == before {
		return nil
	}
	if err := c.storage.SaveSession(ctx, s); err != nil {
		return err
	}
	c.publish(s, phase, timeUp, now)
	return nil
}

func (c *Controller) publish(s *model.Session, prevPhase string, timeUp bool, now time.Time) {
	phase := s.Phase()
	if timeUp {
		c.events.Publish(model.Event{Type: model.EventTimeUp, SessionID: s.ID, Phase: phase, Timestamp: now})
		c.logger.Debug("time up",
			slog.String("session_id", string(s.ID)),
			slog.String("phase", phase),
		)
	}
	typ := model.EventSessionUpdated
	if phase != prevPhase {
		typ = model.EventPhaseChanged
	}
	c.events.Publish(model.Event{Type: typ, SessionID: s.ID, Phase: phase, Timestamp: now})
}

func (c *Controller) ensureTicking(s *model.Session) bool {
	if c.scheduler == nil || !c.timerActive(s) {
		return false
	}
	id := s.ID
	return c.scheduler.Start(string(id), func(ctx context.Context) bool {
		return c.Tick(ctx, id)
	})
}

// advance dispatches elapsed time to the hosted game
func (c *Controller) advance(s *model.Session, now time.Time) bool {
	switch s.Game {
	case model.GameImposter:
		return c.games.Imposter.Advance(s.Imposter, now)
	case model.GameMultiDevice:
		return c.games.Imposter.AdvanceMultiDevice(s.MultiDevice, now)
	case model.GameMafia:
		return c.games.Mafia.Advance(s.Mafia, now)
	case model.GameCharades:
		return c.games.Charades.Advance(s.Charades, now)
	case model.GameSynonyms:
		return c.games.Synonyms.Advance(s.Synonyms, now)
	}
	return false
}

func (c *Controller) timerActive(s *model.Session) bool {
	switch s.Game {
	case model.GameImposter:
		return c.games.Imposter.TimerActive(s.Imposter)
	case model.GameMultiDevice:
		return c.games.Imposter.MultiDeviceTimerActive(s.MultiDevice)
	case model.GameMafia:
		return c.games.Mafia.TimerActive(s.Mafia)
	case model.GameCharades:
		return c.games.Charades.TimerActive(s.Charades)
	case model.GameSynonyms:
		return c.games.Synonyms.TimerActive(s.Synonyms)
	}
	return false
}

// fingerprint summarizes the state a client can see change over time
func fingerprint(s *model.Session) string {
	timer := func(t model.Countdown) string {
		return fmt.Sprintf("%d/%t", t.Remaining, t.Running)
	}
	switch s.Game {
	case model.GameImposter:
		return s.Phase() + "|" + timer(s.Imposter.Timer)
	case model.GameMultiDevice:
		return s.Phase() + "|" + timer(s.MultiDevice.Timer)
	case model.GameMafia:
		return s.Phase() + "|" + timer(s.Mafia.Timer)
	case model.GameCharades:
		return s.Phase() + "|" + timer(s.Charades.Timer)
	case model.GameSynonyms:
		g := s.Synonyms
		return fmt.Sprintf("%s|%s|%s|%t|%d/%d",
			s.Phase(), timer(g.Turn.Countdown), timer(g.Turn.Timer),
			g.Orientation.Landscape, g.Turn.WordIndex, len(g.Turn.Words))
	}
	return s.Phase()
}
