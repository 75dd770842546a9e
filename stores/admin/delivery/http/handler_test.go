package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/validator"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/admin"
	"github.com/x-xyz/auctionhouse/domain/admin/mocks"
	"github.com/x-xyz/auctionhouse/middleware"
	"github.com/x-xyz/auctionhouse/stores/admin/usecase"
)

const operator = domain.Address("0x939ae6a4c8dfdbb1f7085189574f0a938013952a")

func setup(t *testing.T) (*echo.Echo, admin.Usecase) {
	repo := &mocks.Repo{}
	repo.On("Get", mock.Anything).Return(nil, domain.ErrNotFound)
	repo.On("Set", mock.Anything, mock.Anything).Return(nil)

	uc, err := usecase.New(ctx.Background(), &usecase.AdminUseCaseCfg{
		Repo:      repo,
		JwtSecret: "secret",
		Admins:    []domain.Address{operator},
		Default:   admin.FeeConfig{FeePercentage: 2},
	})
	require.NoError(t, err)

	e := echo.New()
	e.Validator = validator.NewCustomValidator(validator.New())
	e.Use(middleware.InitMiddleware().AddContext())
	New(e, uc, middleware.NewAuth(uc))
	return e, uc
}

func do(e *echo.Echo, method, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/admin/fee", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGetFee(t *testing.T) {
	req := require.New(t)
	e, _ := setup(t)

	rec := do(e, http.MethodGet, "", "")
	req.Equal(http.StatusOK, rec.Code)
	req.JSONEq(`{"data":{"feePercentage":2,"feeRecipient":""},"status":"success"}`, rec.Body.String())
}

func TestPutFee(t *testing.T) {
	req := require.New(t)
	e, uc := setup(t)
	token, err := uc.IssueCapability(ctx.Background(), operator)
	req.NoError(err)

	rec := do(e, http.MethodPut, `{"feePercentage":5,"feeRecipient":"`+string(operator)+`"}`, token)
	req.Equal(http.StatusOK, rec.Code, rec.Body.String())

	res := struct {
		Data admin.FeeConfig `json:"data"`
	}{}
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	req.Equal(uint8(5), res.Data.FeePercentage)
	req.Equal(operator, res.Data.FeeRecipient)
}

func TestPutFeeRejected(t *testing.T) {
	req := require.New(t)
	e, uc := setup(t)
	token, err := uc.IssueCapability(ctx.Background(), operator)
	req.NoError(err)

	req.Contains([]int{http.StatusBadRequest, http.StatusUnauthorized}, do(e, http.MethodPut, `{"feePercentage":5}`, "").Code)
	req.Equal(http.StatusUnauthorized, do(e, http.MethodPut, `{"feePercentage":5}`, "forged").Code)
	req.Equal(http.StatusBadRequest, do(e, http.MethodPut, `{"feePercentage":101}`, token).Code)
	req.Equal(http.StatusBadRequest, do(e, http.MethodPut, `{}`, token).Code)

	pct, _ := uc.FeePercentage(ctx.Background())
	req.Equal(uint8(2), pct)
}

func TestPutFeeIsAllOrNothing(t *testing.T) {
	req := require.New(t)
	repo := &mocks.Repo{}
	repo.On("Get", mock.Anything).Return(nil, domain.ErrNotFound)
	repo.On("Set", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	uc, err := usecase.New(ctx.Background(), &usecase.AdminUseCaseCfg{
		Repo:      repo,
		JwtSecret: "secret",
		Admins:    []domain.Address{operator},
		Default:   admin.FeeConfig{FeePercentage: 2},
	})
	req.NoError(err)
	e := echo.New()
	e.Validator = validator.NewCustomValidator(validator.New())
	e.Use(middleware.InitMiddleware().AddContext())
	New(e, uc, middleware.NewAuth(uc))

	token, err := uc.IssueCapability(ctx.Background(), operator)
	req.NoError(err)
	rec := do(e, http.MethodPut, `{"feePercentage":5,"feeRecipient":"`+string(operator)+`"}`, token)
	req.Equal(http.StatusInternalServerError, rec.Code)

	cfg, err := uc.Config(ctx.Background())
	req.NoError(err)
	req.Equal(&admin.FeeConfig{FeePercentage: 2}, cfg)
	repo.AssertNumberOfCalls(t, "Set", 1)
}
