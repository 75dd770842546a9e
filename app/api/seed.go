package main

import (
	"github.com/spf13/viper"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/service/custody"
	"github.com/x-xyz/auctionhouse/service/ledger"
)

type seedBalance struct {
	Account string `mapstructure:"account"`
	Amount  uint64 `mapstructure:"amount"`
}

type seedToken struct {
	Collection string `mapstructure:"collection"`
	TokenId    string `mapstructure:"tokenId"`
	Owner      string `mapstructure:"owner"`
	// Approved lets the marketplace move every token of Owner
	Approved bool `mapstructure:"approved"`
}

type seedCfg struct {
	Balances []seedBalance `mapstructure:"balances"`
	Tokens   []seedToken   `mapstructure:"tokens"`
}

// seed loads the initial balances and tokens of the in-process collaborators. v may be nil.
func seed(c ctx.Ctx, v *viper.Viper, registry custody.Registry, payments ledger.Ledger) error {
	if v == nil {
		return nil
	}

	cfg := seedCfg{}
	if err := v.Unmarshal(&cfg); err != nil {
		c.WithField("err", err).Error("viper.Unmarshal failed")
		return err
	}

	for _, b := range cfg.Balances {
		if err := payments.Deposit(c, domain.Address(b.Account), b.Amount); err != nil {
			c.WithFields(log.Fields{"err": err, "account": b.Account}).Error("ledger.Deposit failed")
			return err
		}
	}

	for _, t := range cfg.Tokens {
		owner := domain.Address(t.Owner)
		if err := registry.Mint(c, domain.Address(t.Collection), domain.TokenId(t.TokenId), owner); err != nil {
			c.WithFields(log.Fields{"err": err, "collection": t.Collection, "tokenId": t.TokenId}).Error("custody.Mint failed")
			return err
		}
		if t.Approved {
			if err := registry.SetApprovalForAll(c, owner, true); err != nil {
				c.WithFields(log.Fields{"err": err, "owner": owner}).Error("custody.SetApprovalForAll failed")
				return err
			}
		}
	}

	c.WithFields(log.Fields{"balances": len(cfg.Balances), "tokens": len(cfg.Tokens)}).Info("seeded collaborators")
	return nil
}
