package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/delivery"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

const defaultLimit = 50

type handler struct {
	history listing.EventHistory
}

func New(e *echo.Echo, history listing.EventHistory) {
	h := &handler{history: history}

	e.GET("/listings/:collection/:tokenId/events", h.findEvents)
}

func (h *handler) findEvents(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Collection domain.Address `param:"collection" validate:"required,account"`
		TokenId    domain.TokenId `param:"tokenId" validate:"required"`
		Offset     int            `query:"offset" validate:"min=0"`
		Limit      int            `query:"limit" validate:"min=0,max=200"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if p.Limit == 0 {
		p.Limit = defaultLimit
	}

	res, err := h.history.FindEvents(ctx, listing.Id{Collection: p.Collection, TokenId: p.TokenId}, p.Offset, p.Limit)
	if err != nil {
		ctx.WithField("err", err).Error("history.FindEvents failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
