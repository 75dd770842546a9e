package admin

import (
	"github.com/golang-jwt/jwt"
	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
)

const RoleAdmin = "admin"

// FeeConfig is the marketplace level configuration read at settlement
type FeeConfig struct {
	FeePercentage uint8          `json:"feePercentage"`
	FeeRecipient  domain.Address `json:"feeRecipient"`
}

// CapabilityClaims is the payload of a capability token
type CapabilityClaims struct {
	Address string `json:"address"`
	Role    string `json:"role"`
	jwt.StandardClaims
}

// FeeUpdate holds the fields a configuration change sets, nil fields are kept
type FeeUpdate struct {
	FeePercentage *uint8
	FeeRecipient  *domain.Address
}

type Repo interface {
	// Get returns domain.ErrNotFound when nothing has been stored yet
	Get(ctx ctx.Ctx) (*FeeConfig, error)
	Set(ctx ctx.Ctx, cfg *FeeConfig) error
}

type Usecase interface {
	FeePercentage(ctx ctx.Ctx) (uint8, error)
	FeeRecipient(ctx ctx.Ctx) (domain.Address, error)
	Config(ctx ctx.Ctx) (*FeeConfig, error)

	SetFeePercentage(ctx ctx.Ctx, capability string, pct uint8) (*FeeConfig, error)
	SetFeeRecipient(ctx ctx.Ctx, capability string, recipient domain.Address) (*FeeConfig, error)
	// SetConfig applies every field of update in one stored write, or none of them
	SetConfig(ctx ctx.Ctx, capability string, update FeeUpdate) (*FeeConfig, error)

	// IssueCapability signs an admin capability for one of the configured admin addresses
	IssueCapability(ctx ctx.Ctx, admin domain.Address) (string, error)
	// VerifyCapability returns the admin address carried by the token
	VerifyCapability(ctx ctx.Ctx, capability string) (domain.Address, error)
}
