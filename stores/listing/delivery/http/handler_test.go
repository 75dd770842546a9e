package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/validator"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
	"github.com/x-xyz/auctionhouse/domain/listing/mocks"
	"github.com/x-xyz/auctionhouse/middleware"
	"github.com/x-xyz/auctionhouse/service/custody"
	"github.com/x-xyz/auctionhouse/service/ledger"
	"github.com/x-xyz/auctionhouse/stores/listing/repository"
	"github.com/x-xyz/auctionhouse/stores/listing/usecase"
)

const (
	marketplace = domain.Address("0x000000000000000000000000000000000000dead")
	seller      = domain.Address("0x1111111111111111111111111111111111111111")
	bidder      = domain.Address("0x2222222222222222222222222222222222222222")
	treasury    = domain.Address("0x3333333333333333333333333333333333333333")
	collection  = domain.Address("0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d")
)

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Status string          `json:"status"`
}

type handlerSuite struct {
	suite.Suite

	e      *echo.Echo
	now    time.Time
	ledger ledger.Ledger
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(handlerSuite))
}

func (s *handlerSuite) SetupTest() {
	c := ctx.Background()
	s.now = time.Now()
	s.ledger = ledger.New()
	registry := custody.New(marketplace)
	s.Require().NoError(registry.Mint(c, collection, "1", seller))
	s.Require().NoError(registry.SetApprovalForAll(c, seller, true))
	s.Require().NoError(s.ledger.Deposit(c, bidder, 1000))

	feeConfig := &mocks.FeeConfig{}
	feeConfig.On("FeePercentage", mock.Anything).Return(uint8(2), nil)
	feeConfig.On("FeeRecipient", mock.Anything).Return(treasury, nil)
	publisher := &mocks.EventPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.New(&usecase.AuctionUseCaseCfg{
		Repo:        repository.NewMemoryRepo(),
		Custody:     registry,
		Payment:     s.ledger,
		FeeConfig:   feeConfig,
		Publisher:   publisher,
		Marketplace: marketplace,
		Now:         func() time.Time { return s.now },
	})

	s.e = echo.New()
	s.e.Validator = validator.NewCustomValidator(validator.New())
	mw := middleware.InitMiddleware()
	s.e.Use(mw.AddContext())
	New(s.e, uc, middleware.NewAuth(nil))
}

func (s *handlerSuite) do(method, path string, account domain.Address, body string) (int, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if account != "" {
		req.Header.Set(middleware.HeaderAccount, string(account))
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	res := envelope{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	return rec.Code, res
}

func (s *handlerSuite) path(suffix string) string {
	return "/listings/" + string(collection) + "/1" + suffix
}

func (s *handlerSuite) TestAuctionFlow() {
	code, res := s.do(http.MethodPost, s.path(""), seller, `{"price":"100"}`)
	s.Require().Equal(http.StatusCreated, code, string(res.Data))
	l := listing.Listing{}
	s.Require().NoError(json.Unmarshal(res.Data, &l))
	s.True(l.IsActive)
	s.Equal(uint64(100), l.Price)

	code, _ = s.do(http.MethodPost, s.path("/auction"), seller, `{"startingPrice":"50","duration":3600}`)
	s.Require().Equal(http.StatusOK, code)

	code, res = s.do(http.MethodPost, s.path("/bids"), bidder, `{"amount":"50"}`)
	s.Equal(http.StatusBadRequest, code)
	s.Equal("fail", res.Status)

	code, _ = s.do(http.MethodPost, s.path("/bids"), bidder, `{"amount":"1000"}`)
	s.Require().Equal(http.StatusOK, code)

	code, _ = s.do(http.MethodPost, s.path("/settle"), bidder, "")
	s.Equal(http.StatusConflict, code)

	s.now = s.now.Add(2 * time.Hour)
	code, res = s.do(http.MethodPost, s.path("/settle"), bidder, "")
	s.Require().Equal(http.StatusOK, code, string(res.Data))
	settlement := listing.Settlement{}
	s.Require().NoError(json.Unmarshal(res.Data, &settlement))
	s.Equal(uint64(20), settlement.FeeAmount)
	s.Equal(uint64(980), settlement.SellerAmount)
	s.Equal(bidder, settlement.Winner)

	code, res = s.do(http.MethodGet, s.path(""), "", "")
	s.Require().Equal(http.StatusOK, code)
	s.Require().NoError(json.Unmarshal(res.Data, &l))
	s.False(l.IsActive)
}

func (s *handlerSuite) TestMissingAccount() {
	code, res := s.do(http.MethodPost, s.path(""), "", `{"price":"100"}`)
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("fail", res.Status)

	code, _ = s.do(http.MethodPost, s.path(""), "not-an-address", `{"price":"100"}`)
	s.Equal(http.StatusUnauthorized, code)
}

func (s *handlerSuite) TestInvalidBody() {
	code, _ := s.do(http.MethodPost, s.path(""), seller, `{"price":"0"}`)
	s.Equal(http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/listings/0xnothex/1", seller, `{"price":"10"}`)
	s.Equal(http.StatusBadRequest, code)
}

func (s *handlerSuite) TestNotSeller() {
	code, _ := s.do(http.MethodPost, s.path(""), seller, `{"price":"100"}`)
	s.Require().Equal(http.StatusCreated, code)

	code, _ = s.do(http.MethodPatch, s.path("/price"), bidder, `{"price":"200"}`)
	s.Equal(http.StatusConflict, code)
	code, _ = s.do(http.MethodPost, s.path("/cancel"), bidder, "")
	s.Equal(http.StatusConflict, code)
}

func (s *handlerSuite) TestBuyWithoutFunds() {
	code, _ := s.do(http.MethodPost, s.path(""), seller, `{"price":"5000"}`)
	s.Require().Equal(http.StatusCreated, code)

	code, _ = s.do(http.MethodPost, s.path("/buy"), bidder, "")
	s.Equal(http.StatusBadGateway, code)
	balance, _ := s.ledger.Balance(ctx.Background(), bidder)
	s.Equal(uint64(1000), balance)
}

func (s *handlerSuite) TestFind() {
	code, _ := s.do(http.MethodPost, s.path(""), seller, `{"price":"100"}`)
	s.Require().Equal(http.StatusCreated, code)

	code, res := s.do(http.MethodGet, "/listings?active=true&seller="+string(seller), "", "")
	s.Require().Equal(http.StatusOK, code)
	ls := []*listing.Listing{}
	s.Require().NoError(json.Unmarshal(res.Data, &ls))
	s.Len(ls, 1)

	code, res = s.do(http.MethodGet, "/listings?active=false", "", "")
	s.Require().Equal(http.StatusOK, code)
	s.Require().NoError(json.Unmarshal(res.Data, &ls))
	s.Len(ls, 0)

	code, _ = s.do(http.MethodGet, "/listings?active=maybe", "", "")
	s.Equal(http.StatusBadRequest, code)
}

func (s *handlerSuite) TestAuctionDurationBounds() {
	code, _ := s.do(http.MethodPost, s.path(""), seller, `{"price":"100"}`)
	s.Require().Equal(http.StatusCreated, code)

	// would wrap to well under a second once converted to nanoseconds
	code, _ = s.do(http.MethodPost, s.path("/auction"), seller, `{"startingPrice":"50","duration":18446744074}`)
	s.Equal(http.StatusBadRequest, code)
	code, _ = s.do(http.MethodPost, s.path("/auction"), seller, `{"startingPrice":"50","duration":315360001}`)
	s.Equal(http.StatusBadRequest, code)
	code, _ = s.do(http.MethodPost, s.path("/auction"), seller, `{"startingPrice":"50","duration":-5}`)
	s.Equal(http.StatusBadRequest, code)

	code, res := s.do(http.MethodPost, s.path("/auction"), seller, `{"startingPrice":"50","duration":315360000}`)
	s.Require().Equal(http.StatusOK, code, string(res.Data))
	l := listing.Listing{}
	s.Require().NoError(json.Unmarshal(res.Data, &l))
	s.True(l.EndTime.After(s.now.Add(3000 * 24 * time.Hour)))
}
