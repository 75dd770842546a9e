package main

import (
	"github.com/spf13/viper"

	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/admin"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

// defaultFee reads the marketplace fee used until an admin stores one. The percentage is
// range checked before it is narrowed to uint8.
func defaultFee(v *viper.Viper) (admin.FeeConfig, error) {
	pct := v.GetInt("marketplace.feePercentage")
	if pct < 0 || pct > listing.MaxFeePercentage {
		return admin.FeeConfig{}, domain.ErrInvalidFeePercentage
	}
	return admin.FeeConfig{
		FeePercentage: uint8(pct),
		FeeRecipient:  domain.Address(v.GetString("marketplace.feeRecipient")),
	}, nil
}
