package repository

import (
	"sync"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

const defaultMemoryHistory = 1000

type MemorySink interface {
	listing.EventSink
	listing.EventHistory
}

type memorySinkImpl struct {
	limit int

	mu     sync.RWMutex
	events map[listing.Id][]*listing.Event
}

// NewMemorySink keeps the latest limit events of every listing, used when mongo is not configured
func NewMemorySink(limit int) MemorySink {
	if limit <= 0 {
		limit = defaultMemoryHistory
	}
	return &memorySinkImpl{
		limit:  limit,
		events: make(map[listing.Id][]*listing.Event),
	}
}

func (im *memorySinkImpl) Name() string {
	return "memory"
}

func (im *memorySinkImpl) Write(_ ctx.Ctx, evt *listing.Event) error {
	id := listing.Id{Collection: evt.Collection, TokenId: evt.TokenId}.Normalize()
	cp := *evt

	im.mu.Lock()
	defer im.mu.Unlock()
	events := append(im.events[id], &cp)
	if len(events) > im.limit {
		events = events[len(events)-im.limit:]
	}
	im.events[id] = events
	return nil
}

func (im *memorySinkImpl) FindEvents(_ ctx.Ctx, id listing.Id, offset, limit int) ([]*listing.Event, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	events := im.events[id.Normalize()]
	res := []*listing.Event{}
	if offset < 0 || offset >= len(events) {
		return res, nil
	}
	end := len(events)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	for _, evt := range events[offset:end] {
		cp := *evt
		res = append(res, &cp)
	}
	return res, nil
}
