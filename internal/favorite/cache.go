// File: internal/favorite/cache.go
package favorite

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const (
	defaultCacheTTL     = 5 * time.Minute
	defaultCacheCleanup = 10 * time.Minute
)

// MembershipCache mirrors per-user favorite membership in memory so
// listing pages can badge hearts without a database round trip. The
// database row set is authoritative; every mutation refetches it and
// replaces the cached set wholesale.
type MembershipCache struct {
	store *gocache.Cache
}

// NewMembershipCache creates a membership cache with the default TTL.
func NewMembershipCache() *MembershipCache {
	return &MembershipCache{store: gocache.New(defaultCacheTTL, defaultCacheCleanup)}
}

// Get returns the cached membership set for a user. The second return
// value is false on a cache miss.
func (c *MembershipCache) Get(userID uuid.UUID) (map[uuid.UUID]struct{}, bool) {
	val, found := c.store.Get(userID.String())
	if !found {
		return nil, false
	}
	set, ok := val.(map[uuid.UUID]struct{})
	if !ok {
		return nil, false
	}
	return set, true
}

// Put replaces the cached membership set for a user.
func (c *MembershipCache) Put(userID uuid.UUID, propertyIDs []uuid.UUID) {
	set := make(map[uuid.UUID]struct{}, len(propertyIDs))
	for _, id := range propertyIDs {
		set[id] = struct{}{}
	}
	c.store.Set(userID.String(), set, gocache.DefaultExpiration)
}

// Invalidate drops a user's cached set. Called when the signed-in user
// changes or when a stale read is suspected.
func (c *MembershipCache) Invalidate(userID uuid.UUID) {
	c.store.Delete(userID.String())
}

// Reset drops every cached set.
func (c *MembershipCache) Reset() {
	c.store.Flush()
}
