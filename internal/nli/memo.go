package nli

import (
	"crypto/sha256"
	"encoding/hex"

	gocache "github.com/patrickmn/go-cache"

	"github.com/factlens/factlens/internal/model"
)

// Memo is the content-addressed memoization store for entailment
// results. Get and Put for a given key each run under one critical
// section; a race yielding one redundant model call is acceptable, a
// corrupted store is not. Implementations may bound their size.
type Memo interface {
	Get(key string) (model.Entailment, bool)
	Put(key string, value model.Entailment)
}

// MemoKey derives the stable content hash for a (claim, snippet) pair.
func MemoKey(claim, snippet string) string {
	hash := sha256.Sum256([]byte(claim + snippet))
	return "factlens:nli:v1:" + hex.EncodeToString(hash[:])
}

// MemoryMemo is a process-wide in-memory Memo with no expiry.
type MemoryMemo struct {
	cache *gocache.Cache
}

// NewMemoryMemo creates a new in-memory memoization store.
func NewMemoryMemo() *MemoryMemo {
	return &MemoryMemo{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get retrieves a memoized entailment result.
func (m *MemoryMemo) Get(key string) (model.Entailment, bool) {
	if val, found := m.cache.Get(key); found {
		return val.(model.Entailment), true
	}
	return model.Entailment{}, false
}

// Put stores an entailment result.
func (m *MemoryMemo) Put(key string, value model.Entailment) {
	m.cache.Set(key, value, gocache.NoExpiration)
}
