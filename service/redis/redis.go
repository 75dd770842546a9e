package redis

import (
	"errors"
	"time"

	"github.com/x-xyz/auctionhouse/base/ctx"
)

// Forever means no expiry
const Forever time.Duration = -1

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis: key not found")
	// ErrNoPool is returned when the service is built without a pool
	ErrNoPool = errors.New("redis: no pool")
)

// Service is the subset of redis commands used by the stores
type Service interface {
	Get(ctx ctx.Ctx, key string) ([]byte, error)
	Set(ctx ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(ctx ctx.Ctx, keys ...string) (int, error)
	// Publish returns the number of subscribers that received msg
	Publish(ctx ctx.Ctx, channel string, msg []byte) (int, error)
	Ping(ctx ctx.Ctx) error
}
