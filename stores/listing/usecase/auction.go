package usecase

import (
	"time"

	"golang.org/x/xerrors"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/base/metrics"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

type AuctionUseCaseCfg struct {
	Repo      listing.Repo
	Custody   listing.Custody
	Payment   listing.Payment
	FeeConfig listing.FeeConfig
	Publisher listing.EventPublisher
	// Marketplace holds custody of listed assets and escrowed funds
	Marketplace domain.Address
	Metrics     metrics.Service
	Now         func() time.Time
}

type impl struct {
	repo        listing.Repo
	custody     listing.Custody
	payment     listing.Payment
	feeConfig   listing.FeeConfig
	publisher   listing.EventPublisher
	marketplace domain.Address
	met         metrics.Service
	now         func() time.Time
}

func New(cfg *AuctionUseCaseCfg) listing.Usecase {
	im := &impl{
		repo:        cfg.Repo,
		custody:     cfg.Custody,
		payment:     cfg.Payment,
		feeConfig:   cfg.FeeConfig,
		publisher:   cfg.Publisher,
		marketplace: cfg.Marketplace.ToLower(),
		met:         cfg.Metrics,
		now:         cfg.Now,
	}
	if im.met == nil {
		im.met = metrics.New("listing")
	}
	if im.now == nil {
		im.now = time.Now
	}
	return im
}

func (im *impl) Get(c ctx.Ctx, id listing.Id) (*listing.Listing, error) {
	return im.repo.FindOne(c, id)
}

func (im *impl) Find(c ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	return im.repo.FindAll(c, opts...)
}

func (im *impl) List(c ctx.Ctx, id listing.Id, seller domain.Address, price uint64) (res *listing.Listing, err error) {
	defer im.observe("list", &err)()
	if err := validateId(id); err != nil {
		return nil, err
	}
	if seller.IsEmpty() {
		return nil, domain.ErrInvalidAddress
	}
	if price == 0 {
		return nil, domain.ErrInvalidPrice
	}
	if err := im.notMarketplace(seller); err != nil {
		return nil, err
	}
	seller = seller.ToLower()
	c = ctx.WithFields(c, log.Fields{"listing": id.String(), "seller": seller, "price": price})

	return im.repo.UpdateThen(c, id, func(l *listing.Listing) error {
		if l.IsActive {
			return domain.ErrAlreadyListed
		}
		if err := im.custody.TransferCustody(c, l.Collection, l.TokenId, seller, im.marketplace); err != nil {
			c.WithField("err", err).Error("custody.TransferCustody failed")
			return xerrors.Errorf("%v: %w", err, domain.ErrCustodyTransferFailed)
		}
		*l = listing.Listing{
			Id:       l.Id,
			Seller:   seller,
			Price:    price,
			IsActive: true,
		}
		return nil
	}, func(l *listing.Listing) {
		im.publish(c, listing.NewListedEvent(l.Id, seller, price))
	})
}

func (im *impl) StartAuction(c ctx.Ctx, id listing.Id, caller domain.Address, startingPrice uint64, duration time.Duration) (res *listing.Listing, err error) {
	defer im.observe("start_auction", &err)()
	if err := validateId(id); err != nil {
		return nil, err
	}
	if startingPrice == 0 {
		return nil, domain.ErrInvalidPrice
	}
	if duration <= 0 {
		return nil, domain.ErrInvalidDuration
	}
	c = ctx.WithFields(c, log.Fields{"listing": id.String(), "caller": caller, "startingPrice": startingPrice, "duration": duration})

	return im.repo.UpdateThen(c, id, func(l *listing.Listing) error {
		if !l.IsActive {
			return domain.ErrNotListed
		}
		if !l.Seller.Equals(caller) {
			return domain.ErrNotSeller
		}
		// a fixed sale listing never holds escrow, an auction without bids holds none either
		if l.HasBid() {
			return domain.ErrAuctionHasBids
		}
		l.Price = startingPrice
		l.CurrentBid = startingPrice
		l.CurrentBidder = domain.EmptyAddress
		l.EndTime = im.now().Add(duration)
		return nil
	}, func(l *listing.Listing) {
		im.publish(c, listing.NewAuctionStartedEvent(l.Id, l.Seller, startingPrice, l.EndTime))
	})
}

func (im *impl) PlaceBid(c ctx.Ctx, id listing.Id, bidder domain.Address, amount uint64) (res *listing.Listing, err error) {
	defer im.observe("place_bid", &err)()
	if err := validateId(id); err != nil {
		return nil, err
	}
	if bidder.IsEmpty() {
		return nil, domain.ErrInvalidAddress
	}
	if err := im.notMarketplace(bidder); err != nil {
		return nil, err
	}
	bidder = bidder.ToLower()
	c = ctx.WithFields(c, log.Fields{"listing": id.String(), "bidder": bidder, "amount": amount})

	res, err = im.repo.UpdateThen(c, id, func(l *listing.Listing) error {
		if !l.IsActive || !l.InAuction() {
			return domain.ErrAuctionNotActive
		}
		if !im.now().Before(l.EndTime) {
			return domain.ErrAuctionEnded
		}
		if amount <= l.CurrentBid {
			return domain.ErrBidTooLow
		}
		if l.Seller.Equals(bidder) {
			return domain.ErrSellerCannotBid
		}

		undo := &undoLog{}
		if err := im.payment.Transfer(c, bidder, im.marketplace, amount); err != nil {
			c.WithField("err", err).Error("escrow bid failed")
			return xerrors.Errorf("escrow bid: %v: %w", err, domain.ErrPaymentFailed)
		}
		undo.add("return bid", func() error {
			return im.payment.Transfer(c, im.marketplace, bidder, amount)
		})

		// the previous bidder is refunded before the new bid is recorded
		if l.HasBid() {
			if err := im.payment.Transfer(c, im.marketplace, l.CurrentBidder, l.CurrentBid); err != nil {
				c.WithFields(log.Fields{
					"err":        err,
					"prevBidder": l.CurrentBidder,
					"prevBid":    l.CurrentBid,
				}).Error("refund previous bidder failed")
				return undo.rollback(c, xerrors.Errorf("refund %s: %v: %w", l.CurrentBidder, err, domain.ErrPaymentFailed))
			}
		}

		l.CurrentBidder = bidder
		l.CurrentBid = amount
		return nil
	}, func(l *listing.Listing) {
		im.publish(c, listing.NewBidEvent(l.Id, bidder, amount))
	})
	if err != nil {
		return nil, err
	}

	im.met.BumpHistogram("bid.amount", float64(amount))
	return res, nil
}

// EndAuction may be called by anyone once the auction is over
func (im *impl) EndAuction(c ctx.Ctx, id listing.Id, caller domain.Address) (settlement *listing.Settlement, err error) {
	defer im.observe("end_auction", &err)()
	if err := validateId(id); err != nil {
		return nil, err
	}
	c = ctx.WithFields(c, log.Fields{"listing": id.String(), "caller": caller})

	var amount uint64
	_, err = im.repo.UpdateThen(c, id, func(l *listing.Listing) error {
		if !l.IsActive || !l.InAuction() {
			return domain.ErrAuctionNotActive
		}
		if im.now().Before(l.EndTime) {
			return domain.ErrAuctionStillOngoing
		}

		amount = 0
		if l.HasBid() {
			amount = l.CurrentBid
		}

		undo := &undoLog{}
		s, err := im.settle(c, l, l.CurrentBidder, amount, undo)
		if err != nil {
			return err
		}
		settlement = s
		closeListing(l)
		return nil
	}, func(l *listing.Listing) {
		im.publish(c, listing.NewAuctionEndedEvent(l.Id, l.Seller, settlement.Winner, amount))
	})
	if err != nil {
		return nil, err
	}

	im.met.BumpSum("settled.volume", float64(amount), "type", "auction")
	return settlement, nil
}

func (im *impl) Buy(c ctx.Ctx, id listing.Id, buyer domain.Address) (settlement *listing.Settlement, err error) {
	defer im.observe("buy", &err)()
	if err := validateId(id); err != nil {
		return nil, err
	}
	if buyer.IsEmpty() {
		return nil, domain.ErrInvalidAddress
	}
	if err := im.notMarketplace(buyer); err != nil {
		return nil, err
	}
	buyer = buyer.ToLower()
	c = ctx.WithFields(c, log.Fields{"listing": id.String(), "buyer": buyer})

	var price uint64
	_, err = im.repo.UpdateThen(c, id, func(l *listing.Listing) error {
		if !l.IsActive {
			return domain.ErrNotListed
		}
		if l.InAuction() {
			return domain.ErrInAuction
		}
		if l.Seller.Equals(buyer) {
			return domain.ErrSellerCannotBuy
		}
		price = l.Price

		undo := &undoLog{}
		if err := im.payment.Transfer(c, buyer, im.marketplace, price); err != nil {
			c.WithField("err", err).Error("collect payment failed")
			return xerrors.Errorf("collect payment: %v: %w", err, domain.ErrPaymentFailed)
		}
		undo.add("return payment", func() error {
			return im.payment.Transfer(c, im.marketplace, buyer, price)
		})

		s, err := im.settle(c, l, buyer, price, undo)
		if err != nil {
			return err
		}
		settlement = s
		closeListing(l)
		return nil
	}, func(l *listing.Listing) {
		im.publish(c, listing.NewSoldEvent(l.Id, l.Seller, buyer, price))
	})
	if err != nil {
		return nil, err
	}

	im.met.BumpSum("settled.volume", float64(price), "type", "sale")
	return settlement, nil
}

func (im *impl) UpdatePrice(c ctx.Ctx, id listing.Id, caller domain.Address, price uint64) (res *listing.Listing, err error) {
	defer im.observe("update_price", &err)()
	if err := validateId(id); err != nil {
		return nil, err
	}
	if price == 0 {
		return nil, domain.ErrInvalidPrice
	}

	return im.repo.UpdateThen(c, id, func(l *listing.Listing) error {
		if !l.IsActive {
			return domain.ErrNotListed
		}
		if !l.Seller.Equals(caller) {
			return domain.ErrNotSeller
		}
		if l.InAuction() {
			return domain.ErrInAuction
		}
		l.Price = price
		return nil
	}, func(l *listing.Listing) {
		im.publish(c, listing.NewPriceChangedEvent(l.Id, l.Seller, price))
	})
}

func (im *impl) Cancel(c ctx.Ctx, id listing.Id, caller domain.Address) (res *listing.Listing, err error) {
	defer im.observe("cancel", &err)()
	if err := validateId(id); err != nil {
		return nil, err
	}
	c = ctx.WithFields(c, log.Fields{"listing": id.String(), "caller": caller})

	return im.repo.UpdateThen(c, id, func(l *listing.Listing) error {
		if !l.IsActive {
			return domain.ErrNotListed
		}
		if !l.Seller.Equals(caller) {
			return domain.ErrNotSeller
		}
		if l.HasBid() {
			return domain.ErrAuctionHasBids
		}
		if err := im.custody.TransferCustody(c, l.Collection, l.TokenId, im.marketplace, l.Seller); err != nil {
			c.WithField("err", err).Error("custody.TransferCustody failed")
			return xerrors.Errorf("%v: %w", err, domain.ErrCustodyTransferFailed)
		}
		closeListing(l)
		return nil
	}, func(l *listing.Listing) {
		im.publish(c, listing.NewUnlistedEvent(l.Id, l.Seller))
	})
}

// settle pays amount, already held by the marketplace, out to the fee recipient and the seller and
// hands the asset to winner. Without a winner the asset goes back to the seller and nothing is paid.
func (im *impl) settle(c ctx.Ctx, l *listing.Listing, winner domain.Address, amount uint64, undo *undoLog) (*listing.Settlement, error) {
	if winner.IsEmpty() {
		if err := im.custody.TransferCustody(c, l.Collection, l.TokenId, im.marketplace, l.Seller); err != nil {
			c.WithField("err", err).Error("return custody to seller failed")
			return nil, undo.rollback(c, xerrors.Errorf("%v: %w", err, domain.ErrCustodyTransferFailed))
		}
		return &listing.Settlement{}, nil
	}

	pct, err := im.feeConfig.FeePercentage(c)
	if err != nil {
		c.WithField("err", err).Error("feeConfig.FeePercentage failed")
		return nil, undo.rollback(c, err)
	}
	recipient, err := im.feeConfig.FeeRecipient(c)
	if err != nil {
		c.WithField("err", err).Error("feeConfig.FeeRecipient failed")
		return nil, undo.rollback(c, err)
	}
	fee, sellerAmount, err := listing.SplitProceeds(amount, pct)
	if err != nil {
		return nil, undo.rollback(c, err)
	}
	if fee > 0 && recipient.IsEmpty() {
		return nil, undo.rollback(c, domain.ErrFeeRecipientNotSet)
	}

	if fee > 0 {
		if err := im.payment.Transfer(c, im.marketplace, recipient, fee); err != nil {
			c.WithFields(log.Fields{"err": err, "recipient": recipient, "fee": fee}).Error("pay fee failed")
			return nil, undo.rollback(c, xerrors.Errorf("pay fee: %v: %w", err, domain.ErrPaymentFailed))
		}
		undo.add("reclaim fee", func() error {
			return im.payment.Transfer(c, recipient, im.marketplace, fee)
		})
	}

	if sellerAmount > 0 {
		if err := im.payment.Transfer(c, im.marketplace, l.Seller, sellerAmount); err != nil {
			c.WithFields(log.Fields{"err": err, "seller": l.Seller, "sellerAmount": sellerAmount}).Error("pay seller failed")
			return nil, undo.rollback(c, xerrors.Errorf("pay seller: %v: %w", err, domain.ErrPaymentFailed))
		}
		undo.add("reclaim seller proceeds", func() error {
			return im.payment.Transfer(c, l.Seller, im.marketplace, sellerAmount)
		})
	}

	// custody moves last so that no step after it can fail
	if err := im.custody.TransferCustody(c, l.Collection, l.TokenId, im.marketplace, winner); err != nil {
		c.WithFields(log.Fields{"err": err, "winner": winner}).Error("custody transfer to winner failed")
		return nil, undo.rollback(c, xerrors.Errorf("%v: %w", err, domain.ErrCustodyTransferFailed))
	}

	return &listing.Settlement{
		FeeAmount:    fee,
		SellerAmount: sellerAmount,
		FeeRecipient: recipient,
		Winner:       winner,
	}, nil
}

// closeListing turns the listing into a tombstone holding no escrow
func closeListing(l *listing.Listing) {
	l.IsActive = false
	l.CurrentBid = 0
	l.CurrentBidder = domain.EmptyAddress
}

func (im *impl) notMarketplace(account domain.Address) error {
	if account.Equals(im.marketplace) {
		return domain.ErrMarketplaceAccount
	}
	return nil
}

// publish runs while the key is still locked so events of one listing keep commit order
func (im *impl) publish(c ctx.Ctx, evt listing.Event) {
	if im.publisher == nil {
		return
	}
	if err := im.publisher.Publish(c, evt); err != nil {
		c.WithFields(log.Fields{"err": err, "event": evt.Type}).Error("publisher.Publish failed")
	}
}

// observe records the operation latency and its outcome
func (im *impl) observe(op string, err *error) func() {
	timer := im.met.BumpTime(op + ".time")
	return func() {
		timer.End()
		if *err != nil {
			im.met.BumpSum(op+".err", 1, "category", errCategory(*err))
		}
	}
}

func validateId(id listing.Id) error {
	if id.Collection.IsEmpty() {
		return domain.ErrInvalidAddress
	}
	if id.TokenId == "" {
		return domain.ErrInvalidTokenId
	}
	return nil
}
