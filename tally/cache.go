// Package tally accumulates per-user, per-emoji reaction counts between flushes.
package tally

import (
	"sync"

	"reaction-ledger/models"
)

type key struct {
	userID string
	emoji  string
}

// Cache is the in-memory reaction tally. It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries []models.ReactionTallyEntry
	index   map[key]int // position in entries
	// names survives DrainAll so later events can reuse a resolved user name.
	names map[string]string
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{index: make(map[key]int), names: make(map[string]string)}
}

// UserName returns the name last seen with userID, across flushes.
func (c *Cache) UserName(userID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name, ok := c.names[userID]
	return name, ok
}

// Apply adds delta to the entry for (userID, emoji), creating it when absent.
// Counts are not clamped: a removal with no prior add yields -1.
func (c *Cache) Apply(userID, userName, emoji string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if userName != "" && userName != userID {
		c.names[userID] = userName
	}

	k := key{userID: userID, emoji: emoji}
	if i, ok := c.index[k]; ok {
		c.entries[i].Count += delta
		return
	}
	c.index[k] = len(c.entries)
	c.entries = append(c.entries, models.ReactionTallyEntry{
		UserID:   userID,
		UserName: userName,
		Emoji:    emoji,
		Count:    delta,
	})
}

// ApplyEvent is Apply for a normalized reaction event.
func (c *Cache) ApplyEvent(ev models.ReactionEvent) {
	c.Apply(ev.UserID, ev.UserName, ev.Emoji, ev.Delta)
}

// DrainAll returns every entry in first-seen order and leaves the cache empty.
// The swap happens under one lock, so each Apply is either in the returned slice
// or in the cache afterwards.
func (c *Cache) DrainAll() []models.ReactionTallyEntry {
	c.mu.Lock()
	drained := c.entries
	c.entries = nil
	c.index = make(map[key]int)
	c.mu.Unlock()

	return drained
}

// Snapshot returns a copy of the current entries without clearing them.
func (c *Cache) Snapshot() []models.ReactionTallyEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.ReactionTallyEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of distinct (user, emoji) keys awaiting flush.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
