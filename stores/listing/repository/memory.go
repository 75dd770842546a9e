package repository

import (
	"sort"
	"sync"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

type memoryRepoImpl struct {
	// mu guards listings and locks, never held while fn runs
	mu       sync.RWMutex
	listings map[listing.Id]*listing.Listing
	locks    map[listing.Id]*keyLock
}

// keyLock is dropped from the map once nobody holds or waits for it
type keyLock struct {
	sync.Mutex
	refs int
}

// NewMemoryRepo returns the in-memory Listing Store. Mutations of one key are serialized by a
// per-key mutex; reads see the last committed record and never wait on a running mutation.
func NewMemoryRepo() listing.Repo {
	return &memoryRepoImpl{
		listings: make(map[listing.Id]*listing.Listing),
		locks:    make(map[listing.Id]*keyLock),
	}
}

func normalize(id listing.Id) listing.Id {
	return id.Normalize()
}

func (im *memoryRepoImpl) FindOne(_ ctx.Ctx, id listing.Id) (*listing.Listing, error) {
	key := normalize(id)
	res := im.load(key)
	return &res, nil
}

func (im *memoryRepoImpl) FindAll(_ ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	o, err := listing.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}

	im.mu.RLock()
	res := []*listing.Listing{}
	for _, l := range im.listings {
		if o.Match(l) {
			cp := *l
			res = append(res, &cp)
		}
	}
	im.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool {
		if res[i].Collection != res[j].Collection {
			return res[i].Collection < res[j].Collection
		}
		return res[i].TokenId < res[j].TokenId
	})
	return res, nil
}

func (im *memoryRepoImpl) Update(c ctx.Ctx, id listing.Id, fn func(*listing.Listing) error) (*listing.Listing, error) {
	return im.UpdateThen(c, id, fn, nil)
}

func (im *memoryRepoImpl) UpdateThen(_ ctx.Ctx, id listing.Id, fn func(*listing.Listing) error, committed func(*listing.Listing)) (*listing.Listing, error) {
	key := normalize(id)
	lock := im.acquire(key)
	defer im.release(key, lock)

	working := im.load(key)
	if err := fn(&working); err != nil {
		return nil, err
	}
	working.Id = key

	stored := working
	im.mu.Lock()
	im.listings[key] = &stored
	im.mu.Unlock()

	if committed != nil {
		cp := working
		committed(&cp)
	}
	return &working, nil
}

func (im *memoryRepoImpl) load(key listing.Id) listing.Listing {
	im.mu.RLock()
	defer im.mu.RUnlock()
	if l, ok := im.listings[key]; ok {
		return *l
	}
	return listing.Listing{Id: key}
}

func (im *memoryRepoImpl) acquire(key listing.Id) *keyLock {
	im.mu.Lock()
	lock, ok := im.locks[key]
	if !ok {
		lock = &keyLock{}
		im.locks[key] = lock
	}
	lock.refs++
	im.mu.Unlock()

	lock.Lock()
	return lock
}

func (im *memoryRepoImpl) release(key listing.Id, lock *keyLock) {
	lock.Unlock()

	im.mu.Lock()
	defer im.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(im.locks, key)
	}
}
