package usecase

import (
	"github.com/x-xyz/auctionhouse/base/ctx"
	hcdomain "github.com/x-xyz/auctionhouse/domain/healthcheck"
)

type impl struct {
	repo hcdomain.HealthCheckRepo
}

// New creates new healthCheckUsecase object representation of HealthCheckUsecase interface
func New(repo hcdomain.HealthCheckRepo) hcdomain.HealthCheckUsecase {
	return &impl{
		repo: repo,
	}
}

// Check pings every configured store and stops at the first failure
func (im *impl) Check(context ctx.Ctx) (*hcdomain.Status, error) {
	status := &hcdomain.Status{Mongo: hcdomain.StatusDisabled, Redis: hcdomain.StatusDisabled}

	if im.repo.MongoEnabled() {
		if err := im.repo.PingMongo(context); err != nil {
			return nil, err
		}
		status.Mongo = hcdomain.StatusOk
	}

	if im.repo.RedisEnabled() {
		if err := im.repo.PingRedis(context); err != nil {
			return nil, err
		}
		status.Redis = hcdomain.StatusOk
	}
	return status, nil
}
