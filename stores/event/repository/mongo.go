package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
	"github.com/x-xyz/auctionhouse/service/query"
)

var listingSeqIndex = query.Index{Name: "listing_seq", Keys: []string{"collection", "tokenId", "seq"}}

type MongoSink interface {
	listing.EventSink
	listing.EventHistory
}

type mongoSinkImpl struct {
	q query.Mongo
}

// NewMongoSink stores every event in the listing_events collection and serves them back as history
func NewMongoSink(q query.Mongo) MongoSink {
	return &mongoSinkImpl{q: q}
}

func (im *mongoSinkImpl) Name() string {
	return "mongo"
}

func (im *mongoSinkImpl) Write(c ctx.Ctx, evt *listing.Event) error {
	if err := im.q.Insert(c, domain.TableListingEvents, evt); err == query.ErrDuplicateKey {
		// redelivery of an event already stored
		return nil
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "eventId": evt.Id}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *mongoSinkImpl) FindEvents(c ctx.Ctx, id listing.Id, offset, limit int) ([]*listing.Event, error) {
	id = id.Normalize()
	selector := bson.M{
		"collection": id.Collection,
		"tokenId":    id.TokenId,
	}
	res := []*listing.Event{}
	if err := im.q.Search(c, domain.TableListingEvents, offset, limit, "seq", selector, &res); err != nil {
		c.WithFields(log.Fields{"err": err, "id": id}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

// EnsureIndexes creates the index used to replay the history of one listing
func EnsureIndexes(c ctx.Ctx, q query.Mongo) error {
	return q.EnsureIndexes(c, domain.TableListingEvents, listingSeqIndex)
}
