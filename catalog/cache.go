// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/caarya/caarya-live/models"
)

// Cache holds the unlock catalog grouped by tab. The catalog changes
// rarely, so it is loaded in one query and served from memory until the
// TTL lapses or Invalidate is called. Unlike the old dashboard cache it
// is an injected object, not a module-level variable, so staleness is
// bounded and testable.
type Cache struct {
	db  *sql.DB
	ttl time.Duration

	mu        sync.RWMutex
	byTab     map[string][]models.UnlockItem
	fetchedAt time.Time
}

func NewCache(db *sql.DB, ttl time.Duration) *Cache {
	return &Cache{db: db, ttl: ttl}
}

// ItemsByTab returns the catalog entries for one tab in catalog order.
// The returned slice is shared; callers must not mutate it.
func (c *Cache) ItemsByTab(tab string) ([]models.UnlockItem, error) {
	c.mu.RLock()
	if c.byTab != nil && time.Since(c.fetchedAt) < c.ttl {
		items := c.byTab[tab]
		c.mu.RUnlock()
		return items, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check under the write lock; another request may have
	// refreshed the catalog while we waited.
	if c.byTab != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.byTab[tab], nil
	}

	byTab, err := loadCatalog(c.db)
	if err != nil {
		// Serve the stale copy if we have one rather than failing
		// the request over a refresh hiccup.
		if c.byTab != nil {
			return c.byTab[tab], nil
		}
		return nil, err
	}

	c.byTab = byTab
	c.fetchedAt = time.Now()
	return c.byTab[tab], nil
}

// AllTabs returns the full catalog keyed by tab.
func (c *Cache) AllTabs() (map[string][]models.UnlockItem, error) {
	// Loading any tab refreshes the whole catalog.
	if _, err := c.ItemsByTab(models.TabBMPs); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byTab, nil
}

// Invalidate drops the cached catalog so the next read reloads it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byTab = nil
	c.fetchedAt = time.Time{}
}

// loadCatalog reads the entire unlock catalog in catalog order.
func loadCatalog(db *sql.DB) (map[string][]models.UnlockItem, error) {
	rows, err := db.Query(`
		SELECT id, item_id, tab, name, subtitle, descr, category, department_id, position
		FROM unlock_item
		ORDER BY tab, position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load unlock catalog: %w", err)
	}
	defer rows.Close()

	byTab := make(map[string][]models.UnlockItem)
	for rows.Next() {
		var item models.UnlockItem
		if err := rows.Scan(
			&item.ID, &item.ItemID, &item.Tab, &item.Name, &item.Subtitle,
			&item.Description, &item.Category, &item.DepartmentID, &item.Position,
		); err != nil {
			return nil, fmt.Errorf("failed to scan unlock item: %w", err)
		}
		byTab[item.Tab] = append(byTab[item.Tab], item)
	}

	return byTab, rows.Err()
}
