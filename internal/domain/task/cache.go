package task

import "sync"

// Cache holds the last-known-good task list per user. It only reflects
// writes that persistence has already accepted.
type Cache struct {
	mu    sync.RWMutex
	tasks map[string][]Task
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{tasks: make(map[string][]Task)}
}

// Snapshot returns a copy of the cached list for a user.
func (c *Cache) Snapshot(tenantID string) []Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := c.tasks[tenantID]
	out := make([]Task, len(list))
	copy(out, list)
	return out
}

func (c *Cache) replaceAll(tenantID string, list []Task) {
	cp := make([]Task, len(list))
	copy(cp, list)
	c.mu.Lock()
	c.tasks[tenantID] = cp
	c.mu.Unlock()
}

func (c *Cache) put(tenantID string, t Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.tasks[tenantID]
	for i := range list {
		if list[i].ID == t.ID {
			list[i] = t
			return
		}
	}
	c.tasks[tenantID] = append(list, t)
}

func (c *Cache) remove(tenantID, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.tasks[tenantID]
	for i := range list {
		if list[i].ID == id {
			c.tasks[tenantID] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}
