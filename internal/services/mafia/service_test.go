package mafia

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/partygames/internal/dependencies/mocks"
	"github.com/mcoot/partygames/internal/dependencies/random"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/testutil"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type ServiceSuite struct {
	suite.Suite
	service *Service
	game    *model.MafiaGame
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = NewService(random.New(), testutil.NopLogger())
	s.game = model.NewMafiaGame()
}

func (s *ServiceSuite) seat(n int) {
	s.Require().NoError(s.service.Next(s.game))
	for i := 0; i < n; i++ {
		_, err := s.service.AddPlayer(s.game, fmt.Sprintf("P%d", i), t0.Add(time.Duration(i)*time.Millisecond))
		s.Require().NoError(err)
	}
	s.Require().NoError(s.service.Next(s.game))
}

func (s *ServiceSuite) deal(n int) {
	s.seat(n)
	s.Require().NoError(s.service.AssignRoles(s.game))
	for _, p := range s.game.Players {
		_, err := s.service.RevealRole(s.game, p.ID)
		s.Require().NoError(err)
	}
	s.Require().NoError(s.service.FinishAssignment(s.game))
}

func (s *ServiceSuite) TestNeedsThreePlayers() {
	s.Require().NoError(s.service.Next(s.game))
	_, _ = s.service.AddPlayer(s.game, "A", t0)
	_, _ = s.service.AddPlayer(s.game, "B", t0.Add(time.Millisecond))

	s.ErrorIs(s.service.Next(s.game), model.ErrNotEnoughPlayers)
	s.Equal(model.MafiaPhasePlayers, s.game.Phase)
}

func (s *ServiceSuite) TestOptionalRolesDisabledForSmallTables() {
	s.seat(3)
	s.ErrorIs(s.service.ToggleRole(s.game, model.RoleDoctor), model.ErrRoleDisabled)
	s.False(s.game.Optional.Doctor)
}

func (s *ServiceSuite) TestFourPlayersAllowOneOptionalRole() {
	s.seat(4)

	s.Require().NoError(s.service.ToggleRole(s.game, model.RoleDoctor))
	s.True(s.game.Optional.Doctor)

	s.Require().NoError(s.service.ToggleRole(s.game, model.RoleProstitute))
	s.True(s.game.Optional.Prostitute)
	s.False(s.game.Optional.Doctor, "selecting one deselects the other")

	s.ErrorIs(s.service.ToggleRole(s.game, model.RoleTown), model.ErrInvalidSetting)
}

func (s *ServiceSuite) TestLargerTablesToggleIndependently() {
	s.seat(6)
	s.Require().NoError(s.service.ToggleRole(s.game, model.RoleDoctor))
	s.Require().NoError(s.service.ToggleRole(s.game, model.RoleProstitute))
	s.Equal(model.OptionalRoles{Doctor: true, Prostitute: true}, s.game.Optional)

	s.Require().NoError(s.service.ToggleRole(s.game, model.RoleDoctor))
	s.Equal(model.OptionalRoles{Prostitute: true}, s.game.Optional)
}

func (s *ServiceSuite) TestShrinkingTableClearsOptionalRoles() {
	s.seat(5)
	s.Require().NoError(s.service.ToggleRole(s.game, model.RoleDoctor))
	s.Require().NoError(s.service.ToggleRole(s.game, model.RoleProstitute))
	s.Require().NoError(s.service.Back(s.game))

	s.Require().NoError(s.service.RemovePlayer(s.game, s.game.Players[0].ID))
	s.Equal(model.OptionalRoles{Doctor: true}, s.game.Optional)

	s.Require().NoError(s.service.RemovePlayer(s.game, s.game.Players[0].ID))
	s.Equal(model.OptionalRoles{}, s.game.Optional)
}

func (s *ServiceSuite) TestAssignRolesCounts() {
	s.seat(9)
	s.Require().NoError(s.service.ToggleRole(s.game, model.RoleDoctor))
	s.Require().NoError(s.service.AssignRoles(s.game))

	counts := map[model.Role]int{}
	for _, p := range s.game.Players {
		counts[p.Role]++
		s.False(p.HasRevealed)
	}
	s.Equal(2, counts[model.RoleMafia])
	s.Equal(1, counts[model.RoleDetective])
	s.Equal(1, counts[model.RoleDoctor])
	s.Equal(0, counts[model.RoleProstitute])
	s.Equal(5, counts[model.RoleTown])
	s.Equal(model.MafiaPhaseRoleAssignment, s.game.Phase)
}

func (s *ServiceSuite) TestDefaultPolicyKeepsSeatingOrder() {
	s.seat(5)
	before := s.game.Players.IDs()

	s.Require().NoError(s.service.AssignRoles(s.game))

	s.Equal(before, s.game.Players.IDs())
}

func (s *ServiceSuite) TestShuffledPolicyReordersSeats() {
	r := mocks.NewMockRandom()
	// Pool draws first, then the player shuffle swaps 2 with 0
	r.QueueIntn(2, 1, 0, 1)
	s.service = NewService(r, testutil.NopLogger())
	s.seat(3)
	before := s.game.Players.IDs()

	s.Require().NoError(s.service.SetShufflePlayers(s.game, true))
	s.Require().NoError(s.service.AssignRoles(s.game))

	s.Equal(before[2], s.game.Players[0].ID)
	s.Equal(before[0], s.game.Players[2].ID)
}

func (s *ServiceSuite) TestFinishNeedsEveryRoleSeen() {
	s.seat(3)
	s.Require().NoError(s.service.AssignRoles(s.game))

	_, err := s.service.RevealRole(s.game, s.game.Players[0].ID)
	s.Require().NoError(err)
	s.Equal(1, s.game.CurrentPlayerIndex)
	s.ErrorIs(s.service.FinishAssignment(s.game), model.ErrRolesUnread)

	// Re-reading counts views without advancing
	p, err := s.service.RevealRole(s.game, s.game.Players[0].ID)
	s.Require().NoError(err)
	s.Equal(2, p.RevealCount)
	s.Equal(1, s.game.CurrentPlayerIndex)
}

func (s *ServiceSuite) TestPickRandomPlayer() {
	r := mocks.NewMockRandom()
	s.service = NewService(r, testutil.NopLogger())
	s.deal(4)

	r.QueueIntn(3)
	p, err := s.service.PickRandomPlayer(s.game)
	s.Require().NoError(err)
	s.Equal(s.game.Players[3].ID, p.ID)
	s.Equal(p.ID, s.game.PickedPlayer)
}

func (s *ServiceSuite) TestDiscussionTimer() {
	s.deal(3)

	s.Require().NoError(s.service.SetTimerDuration(s.game, 30))
	s.ErrorIs(s.service.SetTimerDuration(s.game, 31), model.ErrInvalidSetting)
	s.Require().NoError(s.service.StartTimer(s.game, t0))
	s.True(s.service.TimerActive(s.game))

	s.False(s.service.Advance(s.game, t0.Add(29*time.Second)))
	s.True(s.service.Advance(s.game, t0.Add(31*time.Second)))
	s.Equal(0, s.game.Timer.Remaining)
	s.False(s.service.TimerActive(s.game))
}

func (s *ServiceSuite) TestBackFromDoneRedealsRoles() {
	s.deal(3)
	s.Require().NoError(s.service.StartTimer(s.game, t0))

	s.Require().NoError(s.service.Back(s.game))

	s.Equal(model.MafiaPhaseRoleSelection, s.game.Phase)
	s.False(s.game.Timer.Running)
	s.Require().NoError(s.service.AssignRoles(s.game))
	for _, p := range s.game.Players {
		s.False(p.HasRevealed)
		s.Zero(p.RevealCount)
	}
}

func (s *ServiceSuite) TestExitClearsRoles() {
	s.deal(3)
	s.service.Exit(s.game)

	s.Equal(model.MafiaPhaseRules, s.game.Phase)
	s.Len(s.game.Players, 3)
	for _, p := range s.game.Players {
		s.Empty(p.Role)
	}
}
