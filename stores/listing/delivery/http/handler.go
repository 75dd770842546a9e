package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/delivery"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
	"github.com/x-xyz/auctionhouse/middleware"
)

type handler struct {
	listing listing.Usecase
}

// ListingParams addresses one listing by path
type ListingParams struct {
	Collection domain.Address `param:"collection" validate:"required,account"`
	TokenId    domain.TokenId `param:"tokenId" validate:"required"`
}

func (p ListingParams) id() listing.Id {
	return listing.Id{Collection: p.Collection, TokenId: p.TokenId}
}

func New(e *echo.Echo, listing listing.Usecase, auth *middleware.AuthMiddleware) {
	h := &handler{listing: listing}

	g := e.Group("/listings")
	g.GET("", h.find)
	g.GET("/:collection/:tokenId", h.get)

	account := auth.Account()
	g.POST("/:collection/:tokenId", h.list, account)
	g.POST("/:collection/:tokenId/auction", h.startAuction, account)
	g.POST("/:collection/:tokenId/bids", h.placeBid, account)
	g.POST("/:collection/:tokenId/settle", h.endAuction, account)
	g.POST("/:collection/:tokenId/buy", h.buy, account)
	g.POST("/:collection/:tokenId/cancel", h.cancel, account)
	g.PATCH("/:collection/:tokenId/price", h.updatePrice, account)
}

func (h *handler) find(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Active     string         `query:"active"`
		Seller     domain.Address `query:"seller"`
		Collection domain.Address `query:"collection"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []listing.FindAllOptionsFunc{}
	if p.Active != "" {
		active, err := strconv.ParseBool(p.Active)
		if err != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
		}
		opts = append(opts, listing.WithActive(active))
	}
	if !p.Seller.IsEmpty() {
		opts = append(opts, listing.WithSeller(p.Seller))
	}
	if !p.Collection.IsEmpty() {
		opts = append(opts, listing.WithCollection(p.Collection))
	}

	res, err := h.listing.Find(ctx, opts...)
	if err != nil {
		ctx.WithField("err", err).Error("listing.Find failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := ListingParams{}
	if err := h.bind(c, &p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listing.Get(ctx, p.id())
	if err != nil {
		ctx.WithField("err", err).Error("listing.Get failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ListingParams
		Price uint64 `json:"price,string" validate:"required"`
	}{}
	if err := h.bind(c, &p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listing.List(ctx, p.id(), middleware.Account(c), p.Price)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) startAuction(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ListingParams
		StartingPrice uint64 `json:"startingPrice,string" validate:"required"`
		// Duration in seconds, at most ten years so it fits a time.Duration
		Duration int64 `json:"duration" validate:"required,gt=0,max=315360000"`
	}{}
	if err := h.bind(c, &p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listing.StartAuction(ctx, p.id(), middleware.Account(c), p.StartingPrice, time.Duration(p.Duration)*time.Second)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) placeBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ListingParams
		Amount uint64 `json:"amount,string" validate:"required"`
	}{}
	if err := h.bind(c, &p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listing.PlaceBid(ctx, p.id(), middleware.Account(c), p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) endAuction(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := ListingParams{}
	if err := h.bind(c, &p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listing.EndAuction(ctx, p.id(), middleware.Account(c))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) buy(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := ListingParams{}
	if err := h.bind(c, &p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listing.Buy(ctx, p.id(), middleware.Account(c))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) cancel(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := ListingParams{}
	if err := h.bind(c, &p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listing.Cancel(ctx, p.id(), middleware.Account(c))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) updatePrice(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ListingParams
		Price uint64 `json:"price,string" validate:"required"`
	}{}
	if err := h.bind(c, &p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listing.UpdatePrice(ctx, p.id(), middleware.Account(c), p.Price)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) bind(c echo.Context, p interface{}) error {
	if err := c.Bind(p); err != nil {
		return err
	}
	return c.Validate(p)
}
