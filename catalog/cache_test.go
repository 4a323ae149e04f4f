// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/caarya/caarya-live/models"
	"github.com/caarya/caarya-live/testutil"
)

func TestCacheItemsByTab(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	testutil.CreateTestUnlockItem(t, conn, "brand-kit", models.TabBMPs, "Brand Kit", "Marketing", 1)
	testutil.CreateTestUnlockItem(t, conn, "crm-setup", models.TabBMPs, "CRM Setup", "Sales", 0)
	testutil.CreateTestUnlockItem(t, conn, "rituals", models.TabCulture, "Team Rituals", "Culture", 0)

	cache := NewCache(conn, time.Minute)

	items, err := cache.ItemsByTab(models.TabBMPs)
	if err != nil {
		t.Fatalf("ItemsByTab failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 bmps items, got %d", len(items))
	}
	// Catalog order is position ascending
	if items[0].ItemID != "crm-setup" || items[1].ItemID != "brand-kit" {
		t.Errorf("items out of catalog order: %+v", items)
	}

	culture, err := cache.ItemsByTab(models.TabCulture)
	if err != nil {
		t.Fatalf("ItemsByTab failed: %v", err)
	}
	if len(culture) != 1 || culture[0].ItemID != "rituals" {
		t.Errorf("unexpected culture items: %+v", culture)
	}
}

func TestCacheServesStaleUntilInvalidated(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	testutil.CreateTestUnlockItem(t, conn, "brand-kit", models.TabBMPs, "Brand Kit", "Marketing", 0)

	cache := NewCache(conn, time.Hour)

	items, err := cache.ItemsByTab(models.TabBMPs)
	if err != nil {
		t.Fatalf("ItemsByTab failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	// A new row is invisible while the TTL holds
	testutil.CreateTestUnlockItem(t, conn, "pitch-deck", models.TabBMPs, "Pitch Deck", "Marketing", 1)

	items, err = cache.ItemsByTab(models.TabBMPs)
	if err != nil {
		t.Fatalf("ItemsByTab failed: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected cached snapshot of 1 item, got %d", len(items))
	}

	cache.Invalidate()

	items, err = cache.ItemsByTab(models.TabBMPs)
	if err != nil {
		t.Fatalf("ItemsByTab after invalidate failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items after invalidate, got %d", len(items))
	}
}

func TestCacheExpiry(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	testutil.CreateTestUnlockItem(t, conn, "brand-kit", models.TabBMPs, "Brand Kit", "Marketing", 0)

	cache := NewCache(conn, time.Nanosecond)

	if _, err := cache.ItemsByTab(models.TabBMPs); err != nil {
		t.Fatalf("ItemsByTab failed: %v", err)
	}

	testutil.CreateTestUnlockItem(t, conn, "pitch-deck", models.TabBMPs, "Pitch Deck", "Marketing", 1)
	time.Sleep(time.Millisecond)

	items, err := cache.ItemsByTab(models.TabBMPs)
	if err != nil {
		t.Fatalf("ItemsByTab failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected refresh after TTL, got %d items", len(items))
	}
}

func TestAllTabs(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	testutil.CreateTestUnlockItem(t, conn, "brand-kit", models.TabBMPs, "Brand Kit", "Marketing", 0)
	testutil.CreateTestUnlockItem(t, conn, "rituals", models.TabCulture, "Team Rituals", "Culture", 0)

	cache := NewCache(conn, time.Minute)

	byTab, err := cache.AllTabs()
	if err != nil {
		t.Fatalf("AllTabs failed: %v", err)
	}
	if len(byTab[models.TabBMPs]) != 1 || len(byTab[models.TabCulture]) != 1 {
		t.Errorf("unexpected catalog shape: %+v", byTab)
	}
}

func TestSeedFromYAML(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	seed := `
tabs:
  bmps:
    - itemId: kickoff-caarya
      name: Kickoff with Caarya
      category: Getting Started
    - itemId: brand-kit
      name: Brand Kit
      subtitle: Logos and colors
      category: Marketing
      departmentId: mkt
  culture:
    - itemId: rituals
      name: Team Rituals
      category: Culture
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}

	if err := SeedFromYAML(conn, path); err != nil {
		t.Fatalf("SeedFromYAML failed: %v", err)
	}

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM unlock_item`).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 seeded items, got %d", count)
	}

	var position int
	err := conn.QueryRow(`SELECT position FROM unlock_item WHERE item_id = 'brand-kit'`).Scan(&position)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if position != 1 {
		t.Errorf("expected list order preserved as position 1, got %d", position)
	}

	// Second run must not duplicate
	if err := SeedFromYAML(conn, path); err != nil {
		t.Fatalf("second SeedFromYAML failed: %v", err)
	}
	if err := conn.QueryRow(`SELECT COUNT(*) FROM unlock_item`).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected seed to be idempotent, got %d items", count)
	}
}

func TestSeedFromYAMLRejectsIncompleteItems(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	seed := `
tabs:
  bmps:
    - name: Missing slug
      category: Marketing
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}

	if err := SeedFromYAML(conn, path); err == nil {
		t.Error("expected error for item without itemId")
	}
}
