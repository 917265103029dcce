package synonyms

import (
	"log/slog"
	"time"

	"github.com/mcoot/partygames/internal/dependencies/random"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/round"
	"github.com/mcoot/partygames/internal/services/words"
)

// maxSteps bounds how many phase changes a single Advance may apply
const maxSteps = 8

func requirePhase(g *model.SynonymsGame, phases ...model.SynonymsPhase) error {
	if g.Step != model.SynonymsStepGame {
		return model.ErrInvalidPhase
	}
	for _, p := range phases {
		if g.Phase == p {
			return nil
		}
	}
	return model.ErrInvalidPhase
}

// StartTurn shuffles the word pool, deals the first word and starts the
// 3 second countdown.
func (s *Service) StartTurn(g *model.SynonymsGame, now time.Time) error {
	if err := requirePhase(g, model.SynonymsPhaseRotate); err != nil {
		return err
	}
	s.beginTurn(g, now)
	return nil
}

func (s *Service) beginTurn(g *model.SynonymsGame, now time.Time) {
	pool := g.Words
	if len(pool) == 0 {
		pool = words.FallbackSynonyms
	}
	shuffled := random.Shuffle(s.random, pool)

	g.Turn = model.SynonymsTurn{
		Pool:      shuffled,
		PoolIndex: 1,
		Words:     []string{shuffled[0]},
		Countdown: model.NewCountdown(model.SynonymsCountdownSeconds),
		Timer:     model.NewCountdown(g.RoundTime),
	}
	round.StartTimer(&g.Turn.Countdown, now)
	g.Phase = model.SynonymsPhaseCountdown

	if p := CurrentPlayer(g); p != nil {
		s.logger.Debug("turn started",
			slog.String("player_id", string(p.ID)),
			slog.Int("round", g.CurrentRound),
		)
	}
}

// Sense feeds an accelerometer reading into the game. It tracks landscape
// while rotating, counting down or playing, and while playing a tilt past
// the threshold marks the current word guessed or passed.
func (s *Service) Sense(g *model.SynonymsGame, r Reading, now time.Time) error {
	if err := requirePhase(g,
		model.SynonymsPhaseRotate,
		model.SynonymsPhaseCountdown,
		model.SynonymsPhasePlaying,
		model.SynonymsPhaseFeedbackGreen,
		model.SynonymsPhaseFeedbackRed,
	); err != nil {
		return err
	}
	s.Advance(g, now)
	UpdateOrientation(&g.Orientation, r, now)

	if g.Phase == model.SynonymsPhaseCountdown {
		s.Advance(g, now)
		return nil
	}
	if g.Phase != model.SynonymsPhasePlaying || !g.Orientation.Landscape {
		return nil
	}
	if !now.After(g.Turn.CooldownUntil) {
		return nil
	}

	switch DetectTilt(r) {
	case TiltCorrect:
		g.Turn.CooldownUntil = now.Add(model.TiltCooldown)
		if g.CurrentWord() != "" {
			s.feedback(g, model.SynonymsPhaseFeedbackGreen, "", now)
		}
	case TiltPass:
		g.Turn.CooldownUntil = now.Add(model.TiltCooldown)
		if g.CurrentWord() != "" {
			s.feedback(g, model.SynonymsPhaseFeedbackRed, model.FeedbackPass, now)
		}
	}
	return nil
}

func (s *Service) feedback(g *model.SynonymsGame, phase model.SynonymsPhase, reason model.FeedbackReason, now time.Time) {
	g.Phase = phase
	g.Turn.FeedbackReason = reason
	g.Turn.FeedbackUntil = now.Add(model.FeedbackDuration)
}

// NextTurn moves on from the turn results: the next player, then the next
// round from the first player, then game over.
func (s *Service) NextTurn(g *model.SynonymsGame, now time.Time) error {
	if err := requirePhase(g, model.SynonymsPhaseTurnResults); err != nil {
		return err
	}
	switch {
	case g.CurrentPlayerIndex+1 < len(g.Players):
		g.CurrentPlayerIndex++
	case g.CurrentRound < g.Rounds:
		g.CurrentRound++
		g.CurrentPlayerIndex = 0
	default:
		g.Phase = model.SynonymsPhaseGameOver
		s.logger.Info("synonyms finished", slog.Int("rounds", g.Rounds))
		return nil
	}
	s.beginTurn(g, now)
	return nil
}

// Advance applies elapsed time: the landscape debounce, the pre-turn
// countdown, the turn timer and feedback flashes. It returns true when the
// turn timer ran out during this call.
func (s *Service) Advance(g *model.SynonymsGame, now time.Time) bool {
	if g.Step != model.SynonymsStepGame {
		return false
	}
	ResolveOrientation(&g.Orientation, now)

	timeUp := false
	for range maxSteps {
		changed, crossed := s.step(g, now)
		timeUp = timeUp || crossed
		if !changed {
			break
		}
	}
	return timeUp
}

func (s *Service) step(g *model.SynonymsGame, now time.Time) (changed, timeUp bool) {
	t := &g.Turn
	switch g.Phase {
	case model.SynonymsPhaseCountdown:
		round.AdvanceTimer(&t.Countdown, now, true)
		if t.Countdown.Remaining <= 0 && g.Orientation.Landscape {
			g.Phase = model.SynonymsPhasePlaying
			round.StartTimer(&t.Timer, now)
			return true, false
		}

	case model.SynonymsPhasePlaying:
		crossed := round.AdvanceTimer(&t.Timer, now, g.Orientation.Landscape)
		if t.Timer.Remaining <= 0 {
			s.expire(g, now)
			return true, crossed
		}

	case model.SynonymsPhaseFeedbackGreen, model.SynonymsPhaseFeedbackRed:
		// The turn clock does not run during feedback
		round.AdvanceTimer(&t.Timer, now, false)
		if now.Before(t.FeedbackUntil) {
			return false, false
		}
		if g.Phase == model.SynonymsPhaseFeedbackRed && t.FeedbackReason == model.FeedbackTimeUp {
			s.finishTurn(g)
			return true, false
		}
		s.record(g, g.CurrentWord(), g.Phase == model.SynonymsPhaseFeedbackGreen)
		if s.dealNext(g) {
			g.Phase = model.SynonymsPhasePlaying
		} else {
			s.finishTurn(g)
		}
		return true, false
	}
	return false, false
}

// expire marks the words still on screen as missed and flashes red
func (s *Service) expire(g *model.SynonymsGame, now time.Time) {
	t := &g.Turn
	for _, w := range t.Words[t.WordIndex:] {
		s.record(g, w, false)
	}
	t.WordIndex = len(t.Words)
	s.feedback(g, model.SynonymsPhaseFeedbackRed, model.FeedbackTimeUp, now)
}

func (s *Service) record(g *model.SynonymsGame, word string, guessed bool) {
	if word == "" {
		return
	}
	for _, r := range g.Turn.Results {
		if r.Word == word {
			return
		}
	}
	g.Turn.Results = append(g.Turn.Results, model.WordResult{Word: word, Guessed: guessed})
}

// dealNext draws the next pool word. It returns false once the pool is spent.
func (s *Service) dealNext(g *model.SynonymsGame) bool {
	t := &g.Turn
	if t.PoolIndex >= len(t.Pool) {
		t.WordIndex = len(t.Words)
		return false
	}
	t.Words = append(t.Words, t.Pool[t.PoolIndex])
	t.PoolIndex++
	t.WordIndex++
	return true
}

// finishTurn tallies the dealt words and credits the player and their team
func (s *Service) finishTurn(g *model.SynonymsGame) {
	t := &g.Turn
	results := make([]model.WordResult, len(t.Words))
	points := 0
	for i, w := range t.Words {
		results[i] = model.WordResult{Word: w, Guessed: guessed(t.Results, w)}
		if results[i].Guessed {
			points++
		}
	}
	t.Results = results
	t.Points = points
	t.Timer.Running = false

	if p := CurrentPlayer(g); p != nil {
		if g.PlayerScores == nil {
			g.PlayerScores = make(map[model.PlayerID]int)
		}
		g.PlayerScores[p.ID] += points
		if g.PlayInTeams {
			if team, ok := g.Teams.TeamOf(p.ID); ok {
				g.Teams.Scores[team] += points
			}
		}
	}
	g.Phase = model.SynonymsPhaseTurnResults
}

func guessed(results []model.WordResult, word string) bool {
	for _, r := range results {
		if r.Word == word && r.Guessed {
			return true
		}
	}
	return false
}

// TimerActive reports whether the game needs periodic ticks
func (s *Service) TimerActive(g *model.SynonymsGame) bool {
	if g.Step != model.SynonymsStepGame {
		return false
	}
	switch g.Phase {
	case model.SynonymsPhaseCountdown, model.SynonymsPhasePlaying,
		model.SynonymsPhaseFeedbackGreen, model.SynonymsPhaseFeedbackRed:
		return true
	}
	return !g.Orientation.PendingLeave.IsZero()
}
