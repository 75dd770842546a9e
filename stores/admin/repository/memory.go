package repository

import (
	"sync"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/admin"
)

type memoryRepoImpl struct {
	mu  sync.RWMutex
	cfg *admin.FeeConfig
}

// NewMemoryRepo keeps the fee configuration for the life of the process, used when redis is not configured
func NewMemoryRepo() admin.Repo {
	return &memoryRepoImpl{}
}

func (im *memoryRepoImpl) Get(_ ctx.Ctx) (*admin.FeeConfig, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	if im.cfg == nil {
		return nil, domain.ErrNotFound
	}
	cfg := *im.cfg
	return &cfg, nil
}

func (im *memoryRepoImpl) Set(_ ctx.Ctx, cfg *admin.FeeConfig) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	cp := *cfg
	im.cfg = &cp
	return nil
}
