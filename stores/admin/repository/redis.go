package repository

import (
	"encoding/json"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/admin"
	"github.com/x-xyz/auctionhouse/domain/keys"
	"github.com/x-xyz/auctionhouse/service/redis"
)

type redisRepoImpl struct {
	redis redis.Service
}

func NewRedisRepo(redis redis.Service) admin.Repo {
	return &redisRepoImpl{redis: redis}
}

func (im *redisRepoImpl) Get(c ctx.Ctx) (*admin.FeeConfig, error) {
	val, err := im.redis.Get(c, keys.FeeConfig)
	if err == redis.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("redis.Get failed")
		return nil, err
	}

	cfg := &admin.FeeConfig{}
	if err := json.Unmarshal(val, cfg); err != nil {
		c.WithFields(log.Fields{"err": err, "val": string(val)}).Error("json.Unmarshal failed")
		return nil, err
	}
	return cfg, nil
}

func (im *redisRepoImpl) Set(c ctx.Ctx, cfg *admin.FeeConfig) error {
	val, err := json.Marshal(cfg)
	if err != nil {
		c.WithField("err", err).Error("json.Marshal failed")
		return err
	}
	if err := im.redis.Set(c, keys.FeeConfig, val, redis.Forever); err != nil {
		c.WithField("err", err).Error("redis.Set failed")
		return err
	}
	return nil
}
