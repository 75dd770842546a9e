package repository

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain/listing"
	"github.com/x-xyz/auctionhouse/service/redis/mocks"
)

func TestRedisSinkPublishesJson(t *testing.T) {
	req := require.New(t)
	r := mocks.NewService(t)

	var published []byte
	r.On("Publish", mock.Anything, "listing-events", mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(2).([]byte)
	}).Return(1, nil)

	evt := listing.NewBidEvent(listing.Id{Collection: "0xabc", TokenId: "7"}, "0xbidder", 1200)
	evt.Id = "evt-1"
	evt.Seq = 3

	sink := NewRedisSink(r, "listing-events")
	req.Equal("redis", sink.Name())
	req.NoError(sink.Write(ctx.Background(), &evt))

	got := listing.Event{}
	req.NoError(json.Unmarshal(published, &got))
	req.Equal(listing.EventNewBid, got.Type)
	req.Equal(uint64(3), got.Seq)
	req.Equal(uint64(1200), got.Amount)

	m := map[string]interface{}{}
	req.NoError(json.Unmarshal(published, &m))
	req.Equal("1200", m["amount"])
}

func TestRedisSinkFailure(t *testing.T) {
	r := mocks.NewService(t)
	r.On("Publish", mock.Anything, "listing-events", mock.Anything).Return(0, errors.New("down"))

	evt := listing.NewUnlistedEvent(listing.Id{Collection: "0xabc", TokenId: "7"}, "0xseller")
	require.Error(t, NewRedisSink(r, "listing-events").Write(ctx.Background(), &evt))
}

func TestLogSink(t *testing.T) {
	evt := listing.NewListedEvent(listing.Id{Collection: "0xabc", TokenId: "7"}, "0xseller", 10)
	sink := NewLogSink()
	require.Equal(t, "log", sink.Name())
	require.NoError(t, sink.Write(ctx.Background(), &evt))
}
