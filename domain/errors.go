package domain

import (
	"errors"

	"golang.org/x/xerrors"
)

var (
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")
	// ErrUnauthorized will throw if the caller does not hold the required capability
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidInput groups rejected arguments
	ErrInvalidInput = errors.New("invalid input")
	// ErrPreconditionViolated groups calls made in the wrong listing state or by the wrong party
	ErrPreconditionViolated = errors.New("precondition violated")
	// ErrCollaboratorFailure groups rejections from the custody registry or the payment ledger
	ErrCollaboratorFailure = errors.New("collaborator failure")

	ErrInvalidPrice         = xerrors.Errorf("invalid price: %w", ErrInvalidInput)
	ErrBidTooLow            = xerrors.Errorf("bid too low: %w", ErrInvalidInput)
	ErrInvalidDuration      = xerrors.Errorf("invalid duration: %w", ErrInvalidInput)
	ErrInvalidFeePercentage = xerrors.Errorf("invalid fee percentage: %w", ErrInvalidInput)
	ErrInvalidAddress       = xerrors.Errorf("invalid address: %w", ErrInvalidInput)
	ErrInvalidTokenId       = xerrors.Errorf("invalid token id: %w", ErrInvalidInput)

	ErrNotListed           = xerrors.Errorf("not listed: %w", ErrPreconditionViolated)
	ErrAlreadyListed       = xerrors.Errorf("already listed: %w", ErrPreconditionViolated)
	ErrNotSeller           = xerrors.Errorf("not seller: %w", ErrPreconditionViolated)
	ErrAuctionNotActive    = xerrors.Errorf("auction not active: %w", ErrPreconditionViolated)
	ErrAuctionEnded        = xerrors.Errorf("auction ended: %w", ErrPreconditionViolated)
	ErrAuctionStillOngoing = xerrors.Errorf("auction still ongoing: %w", ErrPreconditionViolated)
	ErrAuctionHasBids      = xerrors.Errorf("auction has bids: %w", ErrPreconditionViolated)
	ErrInAuction           = xerrors.Errorf("listing is in auction: %w", ErrPreconditionViolated)
	ErrSellerCannotBid     = xerrors.Errorf("seller cannot bid: %w", ErrPreconditionViolated)
	ErrSellerCannotBuy     = xerrors.Errorf("seller cannot buy: %w", ErrPreconditionViolated)
	ErrFeeRecipientNotSet  = xerrors.Errorf("fee recipient not set: %w", ErrPreconditionViolated)
	// ErrMarketplaceAccount rejects the escrow account acting as seller, bidder or buyer
	ErrMarketplaceAccount = xerrors.Errorf("marketplace account cannot trade: %w", ErrPreconditionViolated)

	ErrCustodyTransferFailed = xerrors.Errorf("custody transfer failed: %w", ErrCollaboratorFailure)
	ErrPaymentFailed         = xerrors.Errorf("payment failed: %w", ErrCollaboratorFailure)
	ErrCompensationFailed    = xerrors.Errorf("compensation failed: %w", ErrCollaboratorFailure)
)
