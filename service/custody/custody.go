package custody

import (
	"errors"
	"sync"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrTokenExists      = errors.New("token already minted")
	ErrNotOwner         = errors.New("from is not the owner")
	ErrNotApproved      = errors.New("custodian is not approved by owner")
	ErrInvalidRecipient = errors.New("invalid recipient")
)

// Registry is an in-process asset registry. Only the custodian given to New moves tokens, and only
// for owners who approved it or for tokens it holds itself.
type Registry interface {
	listing.Custody
	Mint(ctx ctx.Ctx, collection domain.Address, tokenId domain.TokenId, owner domain.Address) error
	SetApprovalForAll(ctx ctx.Ctx, owner domain.Address, approved bool) error
	OwnerOf(ctx ctx.Ctx, collection domain.Address, tokenId domain.TokenId) (domain.Address, error)
}

type impl struct {
	custodian domain.Address

	mu        sync.RWMutex
	owners    map[listing.Id]domain.Address
	approvals map[domain.Address]bool
}

func New(custodian domain.Address) Registry {
	return &impl{
		custodian: custodian.ToLower(),
		owners:    make(map[listing.Id]domain.Address),
		approvals: make(map[domain.Address]bool),
	}
}

func key(collection domain.Address, tokenId domain.TokenId) listing.Id {
	return listing.Id{Collection: collection.ToLower(), TokenId: tokenId}
}

func (im *impl) Mint(_ ctx.Ctx, collection domain.Address, tokenId domain.TokenId, owner domain.Address) error {
	if owner.IsEmpty() {
		return ErrInvalidRecipient
	}
	k := key(collection, tokenId)

	im.mu.Lock()
	defer im.mu.Unlock()
	if _, ok := im.owners[k]; ok {
		return ErrTokenExists
	}
	im.owners[k] = owner.ToLower()
	return nil
}

func (im *impl) SetApprovalForAll(_ ctx.Ctx, owner domain.Address, approved bool) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.approvals[owner.ToLower()] = approved
	return nil
}

func (im *impl) OwnerOf(_ ctx.Ctx, collection domain.Address, tokenId domain.TokenId) (domain.Address, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	owner, ok := im.owners[key(collection, tokenId)]
	if !ok {
		return "", ErrTokenNotFound
	}
	return owner, nil
}

func (im *impl) TransferCustody(ctx ctx.Ctx, collection domain.Address, tokenId domain.TokenId, from, to domain.Address) error {
	if to.IsEmpty() {
		return ErrInvalidRecipient
	}
	k := key(collection, tokenId)
	from, to = from.ToLower(), to.ToLower()

	im.mu.Lock()
	defer im.mu.Unlock()

	owner, ok := im.owners[k]
	if !ok {
		return ErrTokenNotFound
	}
	if owner != from {
		ctx.WithFields(log.Fields{
			"token": k.String(),
			"owner": owner,
			"from":  from,
		}).Debug("custody transfer from non owner")
		return ErrNotOwner
	}
	if from != im.custodian && !im.approvals[from] {
		return ErrNotApproved
	}
	im.owners[k] = to
	return nil
}
