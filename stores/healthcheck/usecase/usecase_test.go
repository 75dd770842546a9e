package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/auctionhouse/base/ctx"
	hcdomain "github.com/x-xyz/auctionhouse/domain/healthcheck"
	"github.com/x-xyz/auctionhouse/domain/healthcheck/mocks"
)

func TestCheck(t *testing.T) {
	req := require.New(t)

	repo := &mocks.HealthCheckRepo{}
	repo.On("MongoEnabled").Return(false)
	repo.On("RedisEnabled").Return(true)
	repo.On("PingRedis", mock.Anything).Return(nil)

	status, err := New(repo).Check(ctx.Background())
	req.NoError(err)
	req.Equal(&hcdomain.Status{Mongo: hcdomain.StatusDisabled, Redis: hcdomain.StatusOk}, status)
	repo.AssertNotCalled(t, "PingMongo", mock.Anything)
}

func TestCheckFailure(t *testing.T) {
	req := require.New(t)

	repo := &mocks.HealthCheckRepo{}
	repo.On("MongoEnabled").Return(true)
	repo.On("PingMongo", mock.Anything).Return(errors.New("no primary"))

	_, err := New(repo).Check(ctx.Background())
	req.Error(err)
	repo.AssertNotCalled(t, "PingRedis", mock.Anything)
}
