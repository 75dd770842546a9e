package repository

import (
	"encoding/json"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain/listing"
	"github.com/x-xyz/auctionhouse/service/redis"
)

type redisSinkImpl struct {
	redis   redis.Service
	channel string
}

// NewRedisSink publishes every event as json on channel
func NewRedisSink(redis redis.Service, channel string) listing.EventSink {
	return &redisSinkImpl{
		redis:   redis,
		channel: channel,
	}
}

func (im *redisSinkImpl) Name() string {
	return "redis"
}

func (im *redisSinkImpl) Write(c ctx.Ctx, evt *listing.Event) error {
	msg, err := json.Marshal(evt)
	if err != nil {
		c.WithField("err", err).Error("json.Marshal failed")
		return err
	}
	receivers, err := im.redis.Publish(c, im.channel, msg)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "channel": im.channel}).Error("redis.Publish failed")
		return err
	}
	c.WithFields(log.Fields{"channel": im.channel, "receivers": receivers}).Debug("event published")
	return nil
}
