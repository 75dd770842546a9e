package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/xerrors"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/admin"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

const defaultCapabilityTTL = 24 * time.Hour

type AdminUseCaseCfg struct {
	Repo      admin.Repo
	JwtSecret string
	// Admins may be issued a capability
	Admins []domain.Address
	// Default is used until a configuration has been stored
	Default       admin.FeeConfig
	CapabilityTTL time.Duration
}

type impl struct {
	repo      admin.Repo
	jwtSecret []byte
	admins    map[domain.Address]bool
	ttl       time.Duration

	mu  sync.RWMutex
	cfg admin.FeeConfig
}

// New loads the stored fee configuration, falling back to cfg.Default
func New(c ctx.Ctx, cfg *AdminUseCaseCfg) (admin.Usecase, error) {
	if cfg.Default.FeePercentage > listing.MaxFeePercentage {
		return nil, domain.ErrInvalidFeePercentage
	}

	im := &impl{
		repo:      cfg.Repo,
		jwtSecret: []byte(cfg.JwtSecret),
		admins:    make(map[domain.Address]bool),
		ttl:       cfg.CapabilityTTL,
		cfg:       cfg.Default,
	}
	if im.ttl <= 0 {
		im.ttl = defaultCapabilityTTL
	}
	im.cfg.FeeRecipient = im.cfg.FeeRecipient.ToLower()
	for _, a := range cfg.Admins {
		im.admins[a.ToLower()] = true
	}

	stored, err := im.repo.Get(c)
	if err == domain.ErrNotFound {
		c.WithField("default", im.cfg).Info("fee config not stored, using default")
		return im, nil
	} else if err != nil {
		c.WithField("err", err).Error("repo.Get failed")
		return nil, err
	}
	if stored.FeePercentage > listing.MaxFeePercentage {
		c.WithField("stored", stored).Error("stored fee percentage out of range")
		return nil, domain.ErrInvalidFeePercentage
	}
	im.cfg = *stored
	return im, nil
}

func (im *impl) FeePercentage(_ ctx.Ctx) (uint8, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.cfg.FeePercentage, nil
}

func (im *impl) FeeRecipient(_ ctx.Ctx) (domain.Address, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.cfg.FeeRecipient, nil
}

func (im *impl) Config(_ ctx.Ctx) (*admin.FeeConfig, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	cfg := im.cfg
	return &cfg, nil
}

func (im *impl) SetFeePercentage(c ctx.Ctx, capability string, pct uint8) (*admin.FeeConfig, error) {
	return im.SetConfig(c, capability, admin.FeeUpdate{FeePercentage: &pct})
}

func (im *impl) SetFeeRecipient(c ctx.Ctx, capability string, recipient domain.Address) (*admin.FeeConfig, error) {
	return im.SetConfig(c, capability, admin.FeeUpdate{FeeRecipient: &recipient})
}

// SetConfig checks the capability before looking at the new values. The repo is written before
// the in-memory value changes so readers never see an unstored value.
func (im *impl) SetConfig(c ctx.Ctx, capability string, update admin.FeeUpdate) (*admin.FeeConfig, error) {
	caller, err := im.VerifyCapability(c, capability)
	if err != nil {
		return nil, err
	}
	if update.FeePercentage == nil && update.FeeRecipient == nil {
		return nil, domain.ErrBadParamInput
	}
	if update.FeePercentage != nil && *update.FeePercentage > listing.MaxFeePercentage {
		return nil, domain.ErrInvalidFeePercentage
	}
	if update.FeeRecipient != nil && update.FeeRecipient.IsEmpty() {
		return nil, domain.ErrInvalidAddress
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	next := im.cfg
	if update.FeePercentage != nil {
		next.FeePercentage = *update.FeePercentage
	}
	if update.FeeRecipient != nil {
		next.FeeRecipient = update.FeeRecipient.ToLower()
	}
	if err := im.repo.Set(c, &next); err != nil {
		c.WithField("err", err).Error("repo.Set failed")
		return nil, err
	}
	c.WithFields(log.Fields{
		"admin": caller,
		"prev":  im.cfg,
		"next":  next,
	}).Info("fee config updated")
	im.cfg = next

	res := next
	return &res, nil
}

func (im *impl) IssueCapability(c ctx.Ctx, address domain.Address) (string, error) {
	address = address.ToLower()
	if !im.admins[address] {
		return "", domain.ErrUnauthorized
	}

	claims := admin.CapabilityClaims{
		Address: string(address),
		Role:    admin.RoleAdmin,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(im.ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	if ss, err := token.SignedString(im.jwtSecret); err != nil {
		c.WithField("err", err).Error("token.SignedString failed")
		return "", err
	} else {
		return ss, nil
	}
}

func (im *impl) VerifyCapability(c ctx.Ctx, capability string) (domain.Address, error) {
	if capability == "" {
		return "", domain.ErrUnauthorized
	}

	token, err := jwt.ParseWithClaims(capability, &admin.CapabilityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return im.jwtSecret, nil
	})
	if err != nil {
		c.WithField("err", err).Warn("jwt.ParseWithClaims failed")
		return "", xerrors.Errorf("%v: %w", err, domain.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*admin.CapabilityClaims)
	if !ok || !token.Valid || claims.Role != admin.RoleAdmin {
		return "", domain.ErrUnauthorized
	}

	// the admin list is consulted on every use so removing an address revokes its tokens
	address := domain.Address(claims.Address).ToLower()
	if !im.admins[address] {
		return "", domain.ErrUnauthorized
	}
	return address, nil
}
