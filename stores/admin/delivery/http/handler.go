package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/delivery"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/admin"
	"github.com/x-xyz/auctionhouse/middleware"
)

type handler struct {
	admin admin.Usecase
}

func New(e *echo.Echo, admin admin.Usecase, auth *middleware.AuthMiddleware) {
	h := &handler{admin: admin}

	g := e.Group("/admin")
	g.GET("/fee", h.getFee)
	g.PUT("/fee", h.putFee, auth.Admin())
}

func (h *handler) getFee(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	cfg, err := h.admin.Config(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("admin.Config failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, cfg)
}

// putFee updates whichever of the two fields is present in a single write
func (h *handler) putFee(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	capability := middleware.Capability(c)

	p := struct {
		FeePercentage *uint8          `json:"feePercentage" validate:"omitempty,max=100"`
		FeeRecipient  *domain.Address `json:"feeRecipient" validate:"omitempty,account"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if p.FeePercentage == nil && p.FeeRecipient == nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	cfg, err := h.admin.SetConfig(ctx, capability, admin.FeeUpdate{
		FeePercentage: p.FeePercentage,
		FeeRecipient:  p.FeeRecipient,
	})
	if err != nil {
		ctx.WithField("err", err).Error("admin.SetConfig failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, cfg)
}
