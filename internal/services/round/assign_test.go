package round

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/partygames/internal/dependencies/mocks"
	"github.com/mcoot/partygames/internal/dependencies/random"
	"github.com/mcoot/partygames/internal/model"
)

func rosterOf(t *testing.T, n int) model.Roster {
	t.Helper()
	roster := model.Roster{}
	for i := 0; i < n; i++ {
		_, err := AddPlayer(&roster, fmt.Sprintf("P%d", i), time.Unix(int64(i), 0))
		require.NoError(t, err)
	}
	return roster
}

func TestNumImposters(t *testing.T) {
	tests := []struct{ n, want int }{
		{1, 1}, {3, 1}, {4, 1}, {5, 2}, {8, 2}, {9, 3}, {12, 3}, {13, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NumImposters(tt.n), "n=%d", tt.n)
	}
}

func TestAssignWordsDistribution(t *testing.T) {
	pair := model.WordPair{Normal: "Coffee", Imposter: "Tea"}
	r := random.New()

	for n := 3; n <= 12; n++ {
		roster := rosterOf(t, n)
		roster[0].Points = 7

		AssignWords(r, &roster, pair)

		imposters, normals := 0, 0
		for _, p := range roster {
			switch p.Word {
			case "Tea":
				imposters++
				assert.True(t, p.IsImposter)
			case "Coffee":
				normals++
				assert.False(t, p.IsImposter)
			default:
				t.Fatalf("unexpected word %q", p.Word)
			}
		}
		assert.Equal(t, NumImposters(n), imposters, "n=%d", n)
		assert.Equal(t, n-NumImposters(n), normals, "n=%d", n)
		assert.Len(t, roster, n)

		total := 0
		for _, p := range roster {
			total += p.Points
		}
		assert.Equal(t, 7, total, "points survive reassignment")
	}
}

func TestAssignWordsClearsRevealFlags(t *testing.T) {
	roster := rosterOf(t, 3)
	roster[1].HasRevealed = true
	roster[1].RevealCount = 3

	AssignWords(mocks.NewMockRandom(), &roster, model.WordPair{Normal: "Sun", Imposter: "Moon"})

	for _, p := range roster {
		assert.False(t, p.HasRevealed)
		assert.Zero(t, p.RevealCount)
	}
}

func TestPairForRound(t *testing.T) {
	pairs := []model.WordPair{{Normal: "a"}, {Normal: "b"}, {Normal: "c"}}

	for round, want := range map[int]string{1: "a", 2: "b", 3: "c", 4: "a", 5: "b"} {
		got, err := PairForRound(pairs, round)
		require.NoError(t, err)
		assert.Equal(t, want, got.Normal, "round %d", round)
	}

	_, err := PairForRound(nil, 1)
	assert.ErrorIs(t, err, model.ErrNoWords)
}

func TestMafiaRoleCounts(t *testing.T) {
	options := []model.OptionalRoles{
		{},
		{Doctor: true},
		{Prostitute: true},
		{Doctor: true, Prostitute: true},
	}

	for n := 3; n <= 16; n++ {
		for _, opt := range options {
			pool := RolePool(n, opt)
			require.Len(t, pool, n)

			counts := map[model.Role]int{}
			for _, role := range pool {
				counts[role]++
			}
			assert.Equal(t, max(1, n/4), counts[model.RoleMafia], "n=%d", n)
			assert.Equal(t, 1, counts[model.RoleDetective], "n=%d", n)

			optional := counts[model.RoleDoctor] + counts[model.RoleProstitute]
			switch {
			case n <= 3:
				assert.Zero(t, optional)
			case n == 4:
				assert.LessOrEqual(t, optional, 1)
			default:
				want := 0
				if opt.Doctor {
					want++
				}
				if opt.Prostitute {
					want++
				}
				assert.Equal(t, want, optional)
			}
			assert.Equal(t, n-counts[model.RoleMafia]-1-optional, counts[model.RoleTown])
		}
	}
}

func TestAssignRolesKeepsRosterOrderByDefault(t *testing.T) {
	roster := rosterOf(t, 6)
	before := roster.IDs()

	require.NoError(t, AssignRoles(random.New(), &roster, model.OptionalRoles{Doctor: true}, ZipUnshuffledPlayers))

	assert.Equal(t, before, roster.IDs())
	for _, p := range roster {
		assert.NotEmpty(t, p.Role)
	}
}

func TestAssignRolesZipsShuffledPoolPositionally(t *testing.T) {
	roster := rosterOf(t, 4)
	r := mocks.NewMockRandom()
	// Pool is [mafia, detective, town, town]; the draws swap index 3 with 0
	// and leave the rest in place.
	r.QueueIntn(0, 2, 1)

	require.NoError(t, AssignRoles(r, &roster, model.OptionalRoles{}, ZipUnshuffledPlayers))

	assert.Equal(t, model.RoleTown, roster[0].Role)
	assert.Equal(t, model.RoleDetective, roster[1].Role)
	assert.Equal(t, model.RoleTown, roster[2].Role)
	assert.Equal(t, model.RoleMafia, roster[3].Role)
}

func TestAssignRolesShuffledPolicyReordersPlayers(t *testing.T) {
	roster := rosterOf(t, 4)
	before := roster.IDs()
	r := mocks.NewMockRandom()
	// Role pool draws, then the player shuffle swaps index 3 with 0
	r.QueueIntn(3, 2, 1, 0, 2, 1)

	require.NoError(t, AssignRoles(r, &roster, model.OptionalRoles{}, ZipShuffledPlayers))

	assert.Equal(t, before[3], roster[0].ID)
	assert.Equal(t, before[0], roster[3].ID)
}

func TestAssignRolesNeedsThreePlayers(t *testing.T) {
	roster := rosterOf(t, 2)
	assert.ErrorIs(t, AssignRoles(random.New(), &roster, model.OptionalRoles{}, ZipUnshuffledPlayers), model.ErrNotEnoughPlayers)
}

func TestRevealCountsRepeatViews(t *testing.T) {
	roster := rosterOf(t, 3)
	id := roster[0].ID

	p, err := Reveal(roster, id)
	require.NoError(t, err)
	assert.True(t, p.HasRevealed)
	assert.Equal(t, 1, p.RevealCount)

	p, err = Reveal(roster, id)
	require.NoError(t, err)
	assert.Equal(t, 2, p.RevealCount)
	assert.False(t, AllRevealed(roster))

	_, err = Reveal(roster, "missing")
	assert.ErrorIs(t, err, model.ErrPlayerNotFound)
}
