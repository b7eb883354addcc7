package cache

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/coldbrew-labs/franchise-inventory/internal/forecast"
)

const (
	// maxDrafts bounds the map so an abandoned UI flow cannot grow it
	// without limit.
	maxDrafts = 1000

	janitorInterval = 5 * time.Minute
)

// Draft is a computed order suggestion parked between the compute step and
// the edit/confirm step of the ordering flow.
type Draft struct {
	CompanyID int64
	CreatedBy int64
	Items     []forecast.Suggestion
	ExpiresAt time.Time
}

// DraftCache is a process-local handoff for draft orders. It is deliberately
// not replicated or persisted: losing drafts on restart is accepted, the
// user simply recomputes.
type DraftCache struct {
	mu     sync.Mutex
	ttl    time.Duration
	drafts map[string]Draft
	stop   chan struct{}
}

func NewDraftCache(ttl time.Duration) *DraftCache {
	if ttl <= 0 {
		ttl = time.Hour
	}

	c := &DraftCache{
		ttl:    ttl,
		drafts: make(map[string]Draft),
		stop:   make(chan struct{}),
	}
	go c.janitor()
	return c
}

// Put stores a draft and returns its token. When the cache is full the
// oldest expiring draft is evicted first.
func (c *DraftCache) Put(companyID, createdBy int64, items []forecast.Suggestion) string {
	token := newToken()

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.drafts) >= maxDrafts {
		c.evictOldestLocked()
	}

	c.drafts[token] = Draft{
		CompanyID: companyID,
		CreatedBy: createdBy,
		Items:     items,
		ExpiresAt: time.Now().Add(c.ttl),
	}
	return token
}

// Get returns the draft for a token if it exists, has not expired, and
// belongs to the given company.
func (c *DraftCache) Get(token string, companyID int64) (Draft, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	draft, ok := c.drafts[token]
	if !ok || draft.CompanyID != companyID || time.Now().After(draft.ExpiresAt) {
		return Draft{}, false
	}
	return draft, true
}

// Update replaces the items of an existing draft, keeping its expiry.
func (c *DraftCache) Update(token string, companyID int64, items []forecast.Suggestion) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	draft, ok := c.drafts[token]
	if !ok || draft.CompanyID != companyID || time.Now().After(draft.ExpiresAt) {
		return false
	}
	draft.Items = items
	c.drafts[token] = draft
	return true
}

// Delete removes a draft, typically after it was confirmed into a real order.
func (c *DraftCache) Delete(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.drafts, token)
}

// Close stops the janitor goroutine.
func (c *DraftCache) Close() {
	close(c.stop)
}

func (c *DraftCache) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for token, draft := range c.drafts {
				if now.After(draft.ExpiresAt) {
					delete(c.drafts, token)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

func (c *DraftCache) evictOldestLocked() {
	var oldestToken string
	var oldest time.Time
	for token, draft := range c.drafts {
		if oldestToken == "" || draft.ExpiresAt.Before(oldest) {
			oldestToken = token
			oldest = draft.ExpiresAt
		}
	}
	if oldestToken != "" {
		delete(c.drafts, oldestToken)
	}
}

func newToken() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
