package listing

import (
	"time"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
)

type EventType string

const (
	EventListed         EventType = "Listed"
	EventAuctionStarted EventType = "AuctionStarted"
	EventNewBid         EventType = "NewBid"
	EventAuctionEnded   EventType = "AuctionEnded"
	EventSold           EventType = "Sold"
	EventPriceChanged   EventType = "PriceChanged"
	EventUnlisted       EventType = "Unlisted"
)

// Event is an immutable fact emitted after an operation commits.
// Id and Seq are assigned by the publisher.
type Event struct {
	Id         string         `json:"id" bson:"_id"`
	Seq        uint64         `json:"seq" bson:"seq"`
	Type       EventType      `json:"type" bson:"type"`
	Collection domain.Address `json:"collection" bson:"collection"`
	TokenId    domain.TokenId `json:"tokenId" bson:"tokenId"`
	Seller     domain.Address `json:"seller,omitempty" bson:"seller,omitempty"`
	Bidder     domain.Address `json:"bidder,omitempty" bson:"bidder,omitempty"`
	Winner     domain.Address `json:"winner,omitempty" bson:"winner,omitempty"`
	Buyer      domain.Address `json:"buyer,omitempty" bson:"buyer,omitempty"`
	Amount     uint64         `json:"amount,string" bson:"amount"`
	EndTime    *time.Time     `json:"endTime,omitempty" bson:"endTime,omitempty"`
	CreatedAt  time.Time      `json:"createdAt" bson:"createdAt"`
}

func NewListedEvent(id Id, seller domain.Address, price uint64) Event {
	return Event{Type: EventListed, Collection: id.Collection.ToLower(), TokenId: id.TokenId, Seller: seller, Amount: price}
}

func NewAuctionStartedEvent(id Id, seller domain.Address, startingPrice uint64, endTime time.Time) Event {
	return Event{Type: EventAuctionStarted, Collection: id.Collection.ToLower(), TokenId: id.TokenId, Seller: seller, Amount: startingPrice, EndTime: &endTime}
}

func NewBidEvent(id Id, bidder domain.Address, amount uint64) Event {
	return Event{Type: EventNewBid, Collection: id.Collection.ToLower(), TokenId: id.TokenId, Bidder: bidder, Amount: amount}
}

func NewAuctionEndedEvent(id Id, seller, winner domain.Address, amount uint64) Event {
	return Event{Type: EventAuctionEnded, Collection: id.Collection.ToLower(), TokenId: id.TokenId, Seller: seller, Winner: winner, Amount: amount}
}

func NewSoldEvent(id Id, seller, buyer domain.Address, price uint64) Event {
	return Event{Type: EventSold, Collection: id.Collection.ToLower(), TokenId: id.TokenId, Seller: seller, Buyer: buyer, Amount: price}
}

func NewPriceChangedEvent(id Id, seller domain.Address, price uint64) Event {
	return Event{Type: EventPriceChanged, Collection: id.Collection.ToLower(), TokenId: id.TokenId, Seller: seller, Amount: price}
}

func NewUnlistedEvent(id Id, seller domain.Address) Event {
	return Event{Type: EventUnlisted, Collection: id.Collection.ToLower(), TokenId: id.TokenId, Seller: seller}
}

// EventPublisher hands committed events to observers
type EventPublisher interface {
	Publish(ctx ctx.Ctx, evt Event) error
}

// EventSink stores or forwards one event. Sinks are called in Seq order.
type EventSink interface {
	Name() string
	Write(ctx ctx.Ctx, evt *Event) error
}

// EventDispatcher orders published events and delivers them to every sink
type EventDispatcher interface {
	EventPublisher
	// Close stops accepting events and waits until the queued ones are delivered
	Close(ctx ctx.Ctx) error
}

// EventHistory replays the stored events of one listing in Seq order
type EventHistory interface {
	FindEvents(ctx ctx.Ctx, id Id, offset, limit int) ([]*Event, error)
}
