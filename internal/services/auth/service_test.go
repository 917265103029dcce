package auth

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/partygames/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New(Config{TokenCost: bcrypt.MinCost})
}

func (s *ServiceSuite) TestIssuedTokenVerifies() {
	token, hash, err := s.service.IssueToken()
	s.Require().NoError(err)
	s.NotEmpty(token)
	s.NotEqual([]byte(token), hash)

	session := &model.Session{TokenHash: hash}
	s.NoError(s.service.Verify(session, token))
}

func (s *ServiceSuite) TestTokensAreUnique() {
	a, _, err := s.service.IssueToken()
	s.Require().NoError(err)
	b, _, err := s.service.IssueToken()
	s.Require().NoError(err)

	s.NotEqual(a, b)
}

func (s *ServiceSuite) TestWrongTokenRejected() {
	_, hash, err := s.service.IssueToken()
	s.Require().NoError(err)
	session := &model.Session{TokenHash: hash}

	s.ErrorIs(s.service.Verify(session, "not-the-token"), model.ErrInvalidToken)
	s.ErrorIs(s.service.Verify(session, ""), model.ErrInvalidToken)
}

func (s *ServiceSuite) TestSessionWithoutHashRejected() {
	s.ErrorIs(s.service.Verify(&model.Session{}, "anything"), model.ErrInvalidToken)
}

func (s *ServiceSuite) TestZeroConfigUsesDefaults() {
	svc := New(Config{})
	s.Equal(bcrypt.DefaultCost, svc.cost)
	s.Equal(DefaultConfig().TokenBytes, svc.bytes)
}
