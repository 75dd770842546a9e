package healthcheck

import (
	"github.com/x-xyz/auctionhouse/base/ctx"
)

// Status reports each backing store that was checked
type Status struct {
	Mongo string `json:"mongo"`
	Redis string `json:"redis"`
}

const (
	StatusOk       = "ok"
	StatusDisabled = "disabled"
)

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	Check(context ctx.Ctx) (*Status, error)
}

// HealthCheckRepo is repository layer of healthCheck
type HealthCheckRepo interface {
	PingMongo(context ctx.Ctx) error
	PingRedis(context ctx.Ctx) error
	MongoEnabled() bool
	RedisEnabled() bool
}
