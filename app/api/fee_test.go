package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/admin"
)

func TestDefaultFee(t *testing.T) {
	req := require.New(t)

	v := viper.New()
	v.Set("marketplace.feePercentage", 2)
	v.Set("marketplace.feeRecipient", "0x3333333333333333333333333333333333333333")
	cfg, err := defaultFee(v)
	req.NoError(err)
	req.Equal(admin.FeeConfig{FeePercentage: 2, FeeRecipient: "0x3333333333333333333333333333333333333333"}, cfg)

	v.Set("marketplace.feePercentage", 100)
	cfg, err = defaultFee(v)
	req.NoError(err)
	req.Equal(uint8(100), cfg.FeePercentage)

	// values that would wrap around in a uint8
	for _, pct := range []int{101, 256, 300, -1} {
		v.Set("marketplace.feePercentage", pct)
		_, err := defaultFee(v)
		req.ErrorIs(err, domain.ErrInvalidFeePercentage, pct)
	}
}
