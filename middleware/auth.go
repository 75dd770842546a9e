package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/delivery"
	"github.com/x-xyz/auctionhouse/base/validator"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/admin"
)

// HeaderAccount names the account a listing request acts for
const HeaderAccount = "X-Account"

const (
	keyAccount    = "account"
	keyCapability = "capability"
	keyAdmin      = "admin"
)

type AuthMiddleware struct {
	admin admin.Usecase
}

func NewAuth(admin admin.Usecase) *AuthMiddleware {
	return &AuthMiddleware{admin: admin}
}

// Account requires a valid X-Account header
func (m *AuthMiddleware) Account() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := c.Request().Header.Get(HeaderAccount)
			if !validator.IsValidAddress(account) {
				return delivery.MakeJsonResp(c, http.StatusUnauthorized, "missing or invalid "+HeaderAccount)
			}
			address := domain.Address(account).ToLower()
			c.Set(keyAccount, address)
			if cont, ok := c.Get("ctx").(ctx.Ctx); ok {
				c.Set("ctx", ctx.WithValue(cont, ctx.KeyAccount, address))
			}
			return next(c)
		}
	}
}

// Admin requires a bearer admin capability
func (m *AuthMiddleware) Admin() echo.MiddlewareFunc {
	return middleware.KeyAuth(m.validateCapability)
}

func (m *AuthMiddleware) validateCapability(key string, c echo.Context) (bool, error) {
	cont := c.Get("ctx").(ctx.Ctx)
	address, err := m.admin.VerifyCapability(cont, key)
	if err != nil {
		cont.WithField("err", err).Warn("admin.VerifyCapability failed")
		return false, nil
	}
	c.Set(keyCapability, key)
	c.Set(keyAdmin, address)
	return true, nil
}

// Account returns the caller set by the Account middleware
func Account(c echo.Context) domain.Address {
	a, _ := c.Get(keyAccount).(domain.Address)
	return a
}

// Capability returns the token accepted by the Admin middleware
func Capability(c echo.Context) string {
	s, _ := c.Get(keyCapability).(string)
	return s
}
