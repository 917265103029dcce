package round

import (
	"github.com/mcoot/partygames/internal/dependencies/random"
	"github.com/mcoot/partygames/internal/model"
)

// NumImposters is ceil(n/4), never less than one
func NumImposters(n int) int {
	return max(1, (n+3)/4)
}

// PairForRound returns the word pair used by a 1-based round number.
// Pairs are consumed in supplier order and wrap around.
func PairForRound(pairs []model.WordPair, round int) (model.WordPair, error) {
	if len(pairs) == 0 {
		return model.WordPair{}, model.ErrNoWords
	}
	idx := (round - 1) % len(pairs)
	if idx < 0 {
		idx = 0
	}
	return pairs[idx], nil
}

// AssignWords shuffles the roster into a new play order and hands the imposter
// word to NumImposters distinct players, the normal word to everyone else.
// Per-round fields are cleared; cumulative points are kept.
func AssignWords(r random.Random, roster *model.Roster, pair model.WordPair) {
	shuffled := random.Shuffle(r, *roster)
	imposters := make(map[int]bool)
	for _, idx := range random.Pick(r, len(shuffled), NumImposters(len(shuffled))) {
		imposters[idx] = true
	}

	for i := range shuffled {
		shuffled[i].ClearRound()
		if imposters[i] {
			shuffled[i].Word = pair.Imposter
			shuffled[i].IsImposter = true
		} else {
			shuffled[i].Word = pair.Normal
		}
	}
	*roster = shuffled
}

// NumMafia is floor(n/4), never less than one
func NumMafia(n int) int {
	return max(1, n/4)
}

// AllowedOptional clamps optional roles to what the table size permits:
// none at 3 or fewer players, at most one at exactly 4.
func AllowedOptional(n int, opt model.OptionalRoles) model.OptionalRoles {
	switch {
	case n <= 3:
		return model.OptionalRoles{}
	case n == 4 && opt.Doctor && opt.Prostitute:
		return model.OptionalRoles{Doctor: true}
	default:
		return opt
	}
}

// RolePool builds the unshuffled roles for n players
func RolePool(n int, opt model.OptionalRoles) []model.Role {
	opt = AllowedOptional(n, opt)

	pool := make([]model.Role, 0, n)
	for i := 0; i < NumMafia(n); i++ {
		pool = append(pool, model.RoleMafia)
	}
	pool = append(pool, model.RoleDetective)
	if opt.Doctor {
		pool = append(pool, model.RoleDoctor)
	}
	if opt.Prostitute {
		pool = append(pool, model.RoleProstitute)
	}
	for len(pool) < n {
		pool = append(pool, model.RoleTown)
	}
	return pool[:n]
}

// ZipPolicy decides how the shuffled role pool meets the roster
type ZipPolicy string

const (
	// ZipUnshuffledPlayers shuffles only the role pool and zips it against
	// roster order. This is how the mafia table has always dealt roles.
	ZipUnshuffledPlayers ZipPolicy = "unshuffled_players"
	// ZipShuffledPlayers also shuffles the play order, like the word games do.
	ZipShuffledPlayers ZipPolicy = "shuffled_players"
)

// AssignRoles deals one role per player
func AssignRoles(r random.Random, roster *model.Roster, opt model.OptionalRoles, policy ZipPolicy) error {
	if err := RequirePlayers(*roster, model.MafiaMinPlayers); err != nil {
		return err
	}
	pool := random.Shuffle(r, RolePool(len(*roster), opt))

	players := *roster
	if policy == ZipShuffledPlayers {
		players = random.Shuffle(r, players)
	}
	for i := range players {
		players[i].ClearRound()
		players[i].Role = pool[i]
	}
	*roster = players
	return nil
}

// Reveal records that a player looked at their secret. A repeat look only
// bumps the view counter.
func Reveal(roster model.Roster, id model.PlayerID) (*model.Player, error) {
	p := roster.Find(id)
	if p == nil {
		return nil, model.ErrPlayerNotFound
	}
	p.HasRevealed = true
	p.RevealCount++
	return p, nil
}

// AllRevealed reports whether every player has seen their secret
func AllRevealed(roster model.Roster) bool {
	for _, p := range roster {
		if !p.HasRevealed {
			return false
		}
	}
	return true
}
