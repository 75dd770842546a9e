package listing

import (
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/x-xyz/auctionhouse/domain"
)

const MaxFeePercentage = 100

var hundred = decimal.NewFromInt(100)

// SplitProceeds returns floor(amount*feePercentage/100) and the remainder for the seller.
// fee + seller == amount for every percentage in [0,100].
func SplitProceeds(amount uint64, feePercentage uint8) (fee, seller uint64, err error) {
	if feePercentage > MaxFeePercentage {
		return 0, 0, domain.ErrInvalidFeePercentage
	}
	total := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), 0)
	feeDec := total.Mul(decimal.NewFromInt(int64(feePercentage))).Div(hundred).Floor()
	fee = feeDec.BigInt().Uint64()
	return fee, amount - fee, nil
}
