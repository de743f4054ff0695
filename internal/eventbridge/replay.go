package eventbridge

import "sync"

// ReplayCache remembers the encoded responses of the most recent requests,
// keyed by application, session and request id, so a platform retry gets the
// same answer instead of a fresh random spell. A window of zero disables it.
type ReplayCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	order   []string
	window  int
}

// NewReplayCache keeps up to window responses.
func NewReplayCache(window int) *ReplayCache {
	if window < 0 {
		window = 0
	}
	return &ReplayCache{
		entries: map[string][]byte{},
		order:   make([]string, 0, window),
		window:  window,
	}
}

// Lookup returns the cached response for key.
func (c *ReplayCache) Lookup(key string) ([]byte, bool) {
	if c == nil || key == "" {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.entries[key]
	return body, ok
}

// Store records body for key, evicting the oldest entry past the window.
func (c *ReplayCache) Store(key string, body []byte) {
	if c == nil || key == "" || c.window == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return
	}
	c.entries[key] = body
	c.order = append(c.order, key)
	if len(c.order) > c.window {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Len reports how many responses are cached.
func (c *ReplayCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}
