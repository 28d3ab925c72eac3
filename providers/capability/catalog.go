package capability

import (
	"strings"
	"sync"

	"github.com/leofalp/conclave/providers/ai"
)

// Catalog manages a collection of capabilities with thread-safe operations.
// Names are matched case-insensitively.
type Catalog struct {
	mu    sync.RWMutex
	byKey map[string]Capability
	order []string
}

// NewCatalog creates a new catalog pre-populated with the given capabilities.
func NewCatalog(caps ...Capability) *Catalog {
	c := &Catalog{byKey: make(map[string]Capability)}
	c.Add(caps...)
	return c
}

// Add registers capabilities, replacing any existing entry with the same name.
func (c *Catalog) Add(caps ...Capability) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cp := range caps {
		key := strings.ToLower(cp.Info().Name)
		if _, exists := c.byKey[key]; !exists {
			c.order = append(c.order, key)
		}
		c.byKey[key] = cp
	}
}

// Get retrieves a capability by name (case-insensitive).
func (c *Catalog) Get(name string) (Capability, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cp, ok := c.byKey[strings.ToLower(name)]
	return cp, ok
}

// Len returns the number of registered capabilities.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byKey)
}

// Descriptions returns tool descriptions for every capability in registration
// order, ready to attach to an [ai.ChatRequest].
func (c *Catalog) Descriptions() []ai.ToolDescription {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ai.ToolDescription, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.byKey[key].Info())
	}
	return out
}
