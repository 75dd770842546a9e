package repository

import (
	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

type logSinkImpl struct{}

// NewLogSink writes every event to the application log
func NewLogSink() listing.EventSink {
	return &logSinkImpl{}
}

func (im *logSinkImpl) Name() string {
	return "log"
}

func (im *logSinkImpl) Write(c ctx.Ctx, evt *listing.Event) error {
	c.WithFields(log.Fields{
		"collection": evt.Collection,
		"tokenId":    evt.TokenId,
		"seller":     evt.Seller,
		"bidder":     evt.Bidder,
		"winner":     evt.Winner,
		"buyer":      evt.Buyer,
		"amount":     evt.Amount,
	}).Info("listing event")
	return nil
}
