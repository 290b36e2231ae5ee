package translate

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/livesteno/livesteno-server/internal/caption"
)

type cacheEntry struct {
	translations caption.TranslationMap
	timestamp    time.Time
}

// cache is a bounded result cache with insertion-order eviction. It only
// dedupes completed requests; concurrent identical requests still each hit
// the provider.
type cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]cacheEntry
	order    []string
}

func newCache(capacity int) *cache {
	return &cache{
		capacity: capacity,
		entries:  make(map[string]cacheEntry, capacity),
	}
}

func cacheKey(text string, targets []caption.LanguageCode) string {
	codes := make([]string, len(targets))
	for i, t := range targets {
		codes[i] = string(t)
	}
	sort.Strings(codes)
	return text + "::" + strings.Join(codes, ",")
}

func (c *cache) get(key string) (caption.TranslationMap, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.translations, true
}

func (c *cache) put(key string, translations caption.TranslationMap) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		c.entries[key] = cacheEntry{translations: translations, timestamp: time.Now()}
		return
	}
	if len(c.entries) >= c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = cacheEntry{translations: translations, timestamp: time.Now()}
	c.order = append(c.order, key)
}
