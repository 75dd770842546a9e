package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
)

type middlewareSuite struct {
	suite.Suite

	e *echo.Echo
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(middlewareSuite))
}

func (s *middlewareSuite) SetupTest() {
	s.e = echo.New()
	s.e.Use(echomiddleware.RequestID())
	m := InitMiddleware()
	s.e.Use(m.AddContext())
	s.e.Use(m.ResponseLogger())
	s.e.Use(m.CORS)

	s.e.GET("/whoami", func(c echo.Context) error {
		cont := c.Get("ctx").(ctx.Ctx)
		return c.JSON(http.StatusOK, map[string]string{
			"account":   string(Account(c)),
			"ctx":       cont.Value(ctx.KeyAccount).(domain.Address).ToLowerStr(),
			"requestID": ctx.RequestID(cont),
		})
	}, NewAuth(nil).Account())
}

func (s *middlewareSuite) do(account string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if account != "" {
		req.Header.Set(HeaderAccount, account)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *middlewareSuite) TestAccount() {
	rec := s.do("0x939aE6A4C8DFDBB1f7085189574f0A938013952A")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Contains(rec.Body.String(), `"account":"0x939ae6a4c8dfdbb1f7085189574f0a938013952a"`)
	s.Contains(rec.Body.String(), `"ctx":"0x939ae6a4c8dfdbb1f7085189574f0a938013952a"`)
	s.NotContains(rec.Body.String(), `"requestID":""`)
	s.Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func (s *middlewareSuite) TestMissingAccount() {
	s.Equal(http.StatusUnauthorized, s.do("").Code)
	s.Equal(http.StatusUnauthorized, s.do("0x1234").Code)
	s.Equal(http.StatusUnauthorized, s.do("not-an-address").Code)
}
