package ledger

import (
	"errors"
	"math"
	"sync"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOverflow          = errors.New("balance overflow")
	ErrInvalidAccount    = errors.New("invalid account")
)

// Ledger is an in-process payment rail keeping one balance per account
type Ledger interface {
	listing.Payment
	Deposit(ctx ctx.Ctx, account domain.Address, amount uint64) error
}

type impl struct {
	mu       sync.Mutex
	balances map[domain.Address]uint64
}

func New() Ledger {
	return &impl{balances: make(map[domain.Address]uint64)}
}

func (im *impl) Deposit(ctx ctx.Ctx, account domain.Address, amount uint64) error {
	if account.IsEmpty() {
		return ErrInvalidAccount
	}
	account = account.ToLower()

	im.mu.Lock()
	defer im.mu.Unlock()
	if im.balances[account] > math.MaxUint64-amount {
		return ErrOverflow
	}
	im.balances[account] += amount
	return nil
}

func (im *impl) Balance(_ ctx.Ctx, account domain.Address) (uint64, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.balances[account.ToLower()], nil
}

// Transfer moves amount or nothing at all
func (im *impl) Transfer(ctx ctx.Ctx, from, to domain.Address, amount uint64) error {
	if from.IsEmpty() || to.IsEmpty() {
		return ErrInvalidAccount
	}
	if amount == 0 {
		return nil
	}
	from, to = from.ToLower(), to.ToLower()

	im.mu.Lock()
	defer im.mu.Unlock()

	if im.balances[from] < amount {
		ctx.WithFields(log.Fields{
			"from":    from,
			"balance": im.balances[from],
			"amount":  amount,
		}).Debug("insufficient funds")
		return ErrInsufficientFunds
	}
	if from == to {
		return nil
	}
	if im.balances[to] > math.MaxUint64-amount {
		return ErrOverflow
	}
	im.balances[from] -= amount
	im.balances[to] += amount
	return nil
}
