package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/admin"
	"github.com/x-xyz/auctionhouse/service/redis"
	"github.com/x-xyz/auctionhouse/service/redis/mocks"
)

func TestGetUnset(t *testing.T) {
	req := require.New(t)
	r := mocks.NewService(t)
	r.On("Get", mock.Anything, "config:fee").Return(nil, redis.ErrNotFound)

	_, err := NewRedisRepo(r).Get(ctx.Background())
	req.Equal(domain.ErrNotFound, err)
}

func TestSetThenGet(t *testing.T) {
	req := require.New(t)
	r := mocks.NewService(t)
	stored := []byte{}
	r.On("Set", mock.Anything, "config:fee", mock.Anything, redis.Forever).Run(func(args mock.Arguments) {
		stored = args.Get(2).([]byte)
	}).Return(nil)
	r.On("Get", mock.Anything, "config:fee").Return(func(ctx.Ctx, string) []byte { return stored }, nil)

	repo := NewRedisRepo(r)
	cfg := &admin.FeeConfig{FeePercentage: 3, FeeRecipient: "0xtreasury"}
	req.NoError(repo.Set(ctx.Background(), cfg))
	req.JSONEq(`{"feePercentage":3,"feeRecipient":"0xtreasury"}`, string(stored))

	got, err := repo.Get(ctx.Background())
	req.NoError(err)
	req.Equal(cfg, got)
}

func TestGetCorrupted(t *testing.T) {
	req := require.New(t)
	r := mocks.NewService(t)
	r.On("Get", mock.Anything, "config:fee").Return([]byte("{"), nil)

	_, err := NewRedisRepo(r).Get(ctx.Background())
	req.Error(err)
}

func TestSetFailure(t *testing.T) {
	req := require.New(t)
	r := mocks.NewService(t)
	r.On("Set", mock.Anything, "config:fee", mock.Anything, redis.Forever).Return(errors.New("down"))

	req.Error(NewRedisRepo(r).Set(ctx.Background(), &admin.FeeConfig{}))
}
