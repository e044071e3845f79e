package storage

import (
	"sync"
)

// MemoryCache is the session cache. Entries are set once and never
// overwritten or expired; a new session gets a new MemoryCache.
type MemoryCache struct {
	mu       sync.RWMutex
	spot     map[SpotKey]RateEntry
	interest map[CountryKey]RateEntry
}

// NewMemoryCache creates an empty session cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		spot:     make(map[SpotKey]RateEntry),
		interest: make(map[CountryKey]RateEntry),
	}
}

func (mc *MemoryCache) GetSpot(key SpotKey) (RateEntry, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	e, ok := mc.spot[key]
	return e, ok
}

// PutSpot stores entry unless key is already present, and returns whichever entry is stored.
func (mc *MemoryCache) PutSpot(key SpotKey, entry RateEntry) RateEntry {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if cur, ok := mc.spot[key]; ok {
		return cur
	}
	mc.spot[key] = entry
	return entry
}

// DumpSpotTable puts every quote of table, skipping keys that are already set.
func (mc *MemoryCache) DumpSpotTable(table *SpotTable) {
	if table == nil {
		return
	}
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for quote, rate := range table.Rates {
		k := NewSpotKey(table.Base, quote)
		if _, ok := mc.spot[k]; ok {
			continue
		}
		mc.spot[k] = RateEntry{Rate: rate, LastUpdated: table.LastUpdated}
	}
}

func (mc *MemoryCache) GetInterest(key CountryKey) (RateEntry, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	e, ok := mc.interest[key]
	return e, ok
}

// PutInterest stores entry unless key is already present, and returns whichever entry is stored.
func (mc *MemoryCache) PutInterest(key CountryKey, entry RateEntry) RateEntry {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if cur, ok := mc.interest[key]; ok {
		return cur
	}
	mc.interest[key] = entry
	return entry
}

// Len reports the number of cached spot and interest entries.
func (mc *MemoryCache) Len() (spot int, interest int) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.spot), len(mc.interest)
}
