package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/admin"
	"github.com/x-xyz/auctionhouse/domain/admin/mocks"
)

const (
	secret   = "jwt-secret"
	operator = domain.Address("0xOperator")
)

type adminSuite struct {
	suite.Suite

	ctx  ctx.Ctx
	repo *mocks.Repo
	uc   admin.Usecase
}

func TestAdminSuite(t *testing.T) {
	suite.Run(t, new(adminSuite))
}

func (s *adminSuite) SetupTest() {
	s.ctx = ctx.Background()
	s.repo = &mocks.Repo{}
	s.repo.On("Get", mock.Anything).Return(nil, domain.ErrNotFound).Once()
	s.repo.On("Set", mock.Anything, mock.Anything).Return(nil).Maybe()

	uc, err := New(s.ctx, &AdminUseCaseCfg{
		Repo:      s.repo,
		JwtSecret: secret,
		Admins:    []domain.Address{operator},
		Default:   admin.FeeConfig{FeePercentage: 2, FeeRecipient: "0xTreasury"},
	})
	s.Require().NoError(err)
	s.uc = uc
}

func (s *adminSuite) capability() string {
	tkn, err := s.uc.IssueCapability(s.ctx, operator)
	s.Require().NoError(err)
	return tkn
}

func (s *adminSuite) TestDefaults() {
	pct, err := s.uc.FeePercentage(s.ctx)
	s.NoError(err)
	s.Equal(uint8(2), pct)

	recipient, err := s.uc.FeeRecipient(s.ctx)
	s.NoError(err)
	s.Equal(domain.Address("0xtreasury"), recipient)
}

func (s *adminSuite) TestLoadsStoredConfig() {
	repo := &mocks.Repo{}
	repo.On("Get", mock.Anything).Return(&admin.FeeConfig{FeePercentage: 7, FeeRecipient: "0xstored"}, nil)

	uc, err := New(s.ctx, &AdminUseCaseCfg{Repo: repo, JwtSecret: secret, Default: admin.FeeConfig{FeePercentage: 2}})
	s.Require().NoError(err)
	cfg, err := uc.Config(s.ctx)
	s.NoError(err)
	s.Equal(&admin.FeeConfig{FeePercentage: 7, FeeRecipient: "0xstored"}, cfg)
}

func (s *adminSuite) TestLoadFailure() {
	repo := &mocks.Repo{}
	repo.On("Get", mock.Anything).Return(nil, errors.New("redis down"))

	_, err := New(s.ctx, &AdminUseCaseCfg{Repo: repo, JwtSecret: secret})
	s.Error(err)
}

func (s *adminSuite) TestInvalidDefault() {
	_, err := New(s.ctx, &AdminUseCaseCfg{Repo: s.repo, Default: admin.FeeConfig{FeePercentage: 101}})
	s.ErrorIs(err, domain.ErrInvalidFeePercentage)
}

func (s *adminSuite) TestSetFeePercentage() {
	cfg, err := s.uc.SetFeePercentage(s.ctx, s.capability(), 5)
	s.Require().NoError(err)
	s.Equal(uint8(5), cfg.FeePercentage)
	s.Equal(domain.Address("0xtreasury"), cfg.FeeRecipient)

	pct, _ := s.uc.FeePercentage(s.ctx)
	s.Equal(uint8(5), pct)
	s.repo.AssertCalled(s.T(), "Set", mock.Anything, &admin.FeeConfig{FeePercentage: 5, FeeRecipient: "0xtreasury"})
}

func (s *adminSuite) TestSetFeePercentageBounds() {
	tkn := s.capability()

	_, err := s.uc.SetFeePercentage(s.ctx, tkn, 100)
	s.NoError(err)
	_, err = s.uc.SetFeePercentage(s.ctx, tkn, 0)
	s.NoError(err)

	_, err = s.uc.SetFeePercentage(s.ctx, tkn, 101)
	s.ErrorIs(err, domain.ErrInvalidFeePercentage)
	s.ErrorIs(err, domain.ErrInvalidInput)
	pct, _ := s.uc.FeePercentage(s.ctx)
	s.Equal(uint8(0), pct)
}

func (s *adminSuite) TestSetFeeRecipient() {
	cfg, err := s.uc.SetFeeRecipient(s.ctx, s.capability(), "0xNEW")
	s.Require().NoError(err)
	s.Equal(domain.Address("0xnew"), cfg.FeeRecipient)

	_, err = s.uc.SetFeeRecipient(s.ctx, s.capability(), "")
	s.ErrorIs(err, domain.ErrInvalidAddress)
}

func (s *adminSuite) TestPersistFailureKeepsValue() {
	repo := &mocks.Repo{}
	repo.On("Get", mock.Anything).Return(nil, domain.ErrNotFound)
	repo.On("Set", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	uc, err := New(s.ctx, &AdminUseCaseCfg{Repo: repo, JwtSecret: secret, Admins: []domain.Address{operator}, Default: admin.FeeConfig{FeePercentage: 2}})
	s.Require().NoError(err)

	tkn, err := uc.IssueCapability(s.ctx, operator)
	s.Require().NoError(err)
	_, err = uc.SetFeePercentage(s.ctx, tkn, 9)
	s.Error(err)

	pct, _ := uc.FeePercentage(s.ctx)
	s.Equal(uint8(2), pct)
}

func (s *adminSuite) TestIssueCapabilityNonAdmin() {
	_, err := s.uc.IssueCapability(s.ctx, "0xstranger")
	s.ErrorIs(err, domain.ErrUnauthorized)
}

func (s *adminSuite) TestVerifyCapability() {
	address, err := s.uc.VerifyCapability(s.ctx, s.capability())
	s.NoError(err)
	s.Equal(domain.Address("0xoperator"), address)
}

func (s *adminSuite) TestRejectedCapabilities() {
	sign := func(claims admin.CapabilityClaims, key string) string {
		tkn, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		s.Require().NoError(err)
		return tkn
	}
	valid := jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()}

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"wrong secret", sign(admin.CapabilityClaims{Address: "0xoperator", Role: admin.RoleAdmin, StandardClaims: valid}, "other")},
		{"wrong role", sign(admin.CapabilityClaims{Address: "0xoperator", Role: "user", StandardClaims: valid}, secret)},
		{"not an admin", sign(admin.CapabilityClaims{Address: "0xstranger", Role: admin.RoleAdmin, StandardClaims: valid}, secret)},
		{"expired", sign(admin.CapabilityClaims{
			Address:        "0xoperator",
			Role:           admin.RoleAdmin,
			StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Minute).Unix()},
		}, secret)},
	}

	for _, c := range cases {
		_, err := s.uc.VerifyCapability(s.ctx, c.token)
		s.ErrorIs(err, domain.ErrUnauthorized, c.name)

		_, err = s.uc.SetFeePercentage(s.ctx, c.token, 10)
		s.ErrorIs(err, domain.ErrUnauthorized, c.name)
	}

	pct, _ := s.uc.FeePercentage(s.ctx)
	s.Equal(uint8(2), pct)
	s.repo.AssertNotCalled(s.T(), "Set", mock.Anything, mock.Anything)
}

func (s *adminSuite) TestCapabilityCheckedBeforeValues() {
	_, err := s.uc.SetFeePercentage(s.ctx, "not-a-token", 150)
	s.ErrorIs(err, domain.ErrUnauthorized)
	s.NotErrorIs(err, domain.ErrInvalidInput)

	_, err = s.uc.SetFeeRecipient(s.ctx, "", "")
	s.ErrorIs(err, domain.ErrUnauthorized)

	_, err = s.uc.SetConfig(s.ctx, "not-a-token", admin.FeeUpdate{})
	s.ErrorIs(err, domain.ErrUnauthorized)
}

func (s *adminSuite) TestSetConfig() {
	pct := uint8(7)
	recipient := domain.Address("0xNEW")
	cfg, err := s.uc.SetConfig(s.ctx, s.capability(), admin.FeeUpdate{FeePercentage: &pct, FeeRecipient: &recipient})
	s.Require().NoError(err)
	s.Equal(&admin.FeeConfig{FeePercentage: 7, FeeRecipient: "0xnew"}, cfg)
	s.repo.AssertNumberOfCalls(s.T(), "Set", 1)

	_, err = s.uc.SetConfig(s.ctx, s.capability(), admin.FeeUpdate{})
	s.ErrorIs(err, domain.ErrBadParamInput)

	bad := uint8(101)
	_, err = s.uc.SetConfig(s.ctx, s.capability(), admin.FeeUpdate{FeePercentage: &bad, FeeRecipient: &recipient})
	s.ErrorIs(err, domain.ErrInvalidFeePercentage)
	got, _ := s.uc.Config(s.ctx)
	s.Equal(uint8(7), got.FeePercentage)
}
