package listing

import (
	"time"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/ptr"
	"github.com/x-xyz/auctionhouse/domain"
)

// Id keys a listing: one asset of one collection
type Id struct {
	Collection domain.Address `json:"collection" bson:"collection"`
	TokenId    domain.TokenId `json:"tokenId" bson:"tokenId"`
}

// Normalize lowercases the collection address so the same asset always maps to the same key
func (id Id) Normalize() Id {
	return Id{Collection: id.Collection.ToLower(), TokenId: id.TokenId}
}

func (id Id) String() string {
	return id.Collection.ToLowerStr() + "/" + id.TokenId.String()
}

// Listing is the sale or auction state of one asset. A settled listing stays in the store with
// IsActive false.
type Listing struct {
	Id
	Seller        domain.Address `json:"seller" bson:"seller"`
	Price         uint64         `json:"price,string" bson:"price"`
	IsActive      bool           `json:"isActive" bson:"isActive"`
	CurrentBidder domain.Address `json:"currentBidder" bson:"currentBidder"`
	CurrentBid    uint64         `json:"currentBid,string" bson:"currentBid"`
	EndTime       time.Time      `json:"endTime" bson:"endTime"`
}

// InAuction reports whether StartAuction has been called since the listing was created
func (l *Listing) InAuction() bool {
	return !l.EndTime.IsZero()
}

func (l *Listing) HasBid() bool {
	return !l.CurrentBidder.IsEmpty()
}

// Settlement is the outcome of a closing operation
type Settlement struct {
	FeeAmount    uint64         `json:"feeAmount,string"`
	SellerAmount uint64         `json:"sellerAmount,string"`
	FeeRecipient domain.Address `json:"feeRecipient"`
	Winner       domain.Address `json:"winner"`
}

type FindAllOptions struct {
	Active     *bool
	Seller     *domain.Address
	Collection *domain.Address
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithActive(active bool) FindAllOptionsFunc {
	return func(o *FindAllOptions) error {
		o.Active = ptr.Bool(active)
		return nil
	}
}

func WithSeller(seller domain.Address) FindAllOptionsFunc {
	return func(o *FindAllOptions) error {
		o.Seller = ptr.Address(seller.ToLower())
		return nil
	}
}

func WithCollection(collection domain.Address) FindAllOptionsFunc {
	return func(o *FindAllOptions) error {
		o.Collection = ptr.Address(collection.ToLower())
		return nil
	}
}

// Match reports whether l satisfies every set option
func (o FindAllOptions) Match(l *Listing) bool {
	if o.Active != nil && l.IsActive != *o.Active {
		return false
	}
	if o.Seller != nil && !l.Seller.Equals(*o.Seller) {
		return false
	}
	if o.Collection != nil && !l.Collection.Equals(*o.Collection) {
		return false
	}
	return true
}

// Repo is the Listing Store
type Repo interface {
	// FindOne never returns domain.ErrNotFound; an unknown key yields a zero Listing carrying only its Id
	FindOne(ctx ctx.Ctx, id Id) (*Listing, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Listing, error)
	// Update runs fn on a copy of the listing while holding the key's lock and stores the copy only if fn returns nil
	Update(ctx ctx.Ctx, id Id, fn func(*Listing) error) (*Listing, error)
	// UpdateThen is Update plus committed, which sees the stored listing before the key's lock is released
	UpdateThen(ctx ctx.Ctx, id Id, fn func(*Listing) error, committed func(*Listing)) (*Listing, error)
}

// Custody is the asset registry holding transfer rights
type Custody interface {
	TransferCustody(ctx ctx.Ctx, collection domain.Address, tokenId domain.TokenId, from, to domain.Address) error
}

// Payment is the payment rail. Transfer is all-or-nothing.
type Payment interface {
	Transfer(ctx ctx.Ctx, from, to domain.Address, amount uint64) error
	Balance(ctx ctx.Ctx, account domain.Address) (uint64, error)
}

// FeeConfig provides the marketplace fee read at settlement
type FeeConfig interface {
	FeePercentage(ctx ctx.Ctx) (uint8, error)
	FeeRecipient(ctx ctx.Ctx) (domain.Address, error)
}

type Usecase interface {
	Get(ctx ctx.Ctx, id Id) (*Listing, error)
	Find(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Listing, error)

	List(ctx ctx.Ctx, id Id, seller domain.Address, price uint64) (*Listing, error)
	StartAuction(ctx ctx.Ctx, id Id, caller domain.Address, startingPrice uint64, duration time.Duration) (*Listing, error)
	PlaceBid(ctx ctx.Ctx, id Id, bidder domain.Address, amount uint64) (*Listing, error)
	EndAuction(ctx ctx.Ctx, id Id, caller domain.Address) (*Settlement, error)

	Buy(ctx ctx.Ctx, id Id, buyer domain.Address) (*Settlement, error)
	UpdatePrice(ctx ctx.Ctx, id Id, caller domain.Address, price uint64) (*Listing, error)
	Cancel(ctx ctx.Ctx, id Id, caller domain.Address) (*Listing, error)
}
