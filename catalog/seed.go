// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// seedFile mirrors the legacy static pod content documents: items
// listed per tab, in display order.
type seedFile struct {
	Tabs map[string][]seedItem `yaml:"tabs"`
}

type seedItem struct {
	ItemID       string `yaml:"itemId"`
	Name         string `yaml:"name"`
	Subtitle     string `yaml:"subtitle"`
	Description  string `yaml:"desc"`
	Category     string `yaml:"category"`
	DepartmentID string `yaml:"departmentId"`
}

// SeedFromYAML populates the unlock catalog from a legacy YAML content
// file when the table is empty. A populated catalog is left alone;
// the API is the source of truth once items exist.
func SeedFromYAML(db *sql.DB, path string) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM unlock_item`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count unlock items: %w", err)
	}
	if count > 0 {
		slog.Info("unlock catalog already populated, skipping seed", "items", count)
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	total := 0
	for tab, items := range seed.Tabs {
		for pos, item := range items {
			if item.ItemID == "" || item.Name == "" || item.Category == "" {
				return fmt.Errorf("seed item %d in tab %q missing itemId, name or category", pos, tab)
			}
			_, err := tx.Exec(`
				INSERT INTO unlock_item (id, item_id, tab, name, subtitle, descr, category, department_id, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, uuid.NewString(), item.ItemID, tab, item.Name, item.Subtitle,
				item.Description, item.Category, item.DepartmentID, pos)
			if err != nil {
				return fmt.Errorf("failed to insert seed item %q: %w", item.ItemID, err)
			}
			total++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	slog.Info("unlock catalog seeded", "items", total, "file", path)
	return nil
}
