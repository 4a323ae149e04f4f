// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package catalog serves the unlock catalog and merges it with per-pod
activation progress.

# The Cache

Cache loads the whole catalog in one query and serves it from memory
until the TTL lapses or Invalidate is called:

	cache := catalog.NewCache(db, 5*time.Minute)
	items, err := cache.ItemsByTab(models.TabBMPs)

A failed refresh serves the stale copy when one exists.

# Status Merging

MergeSections turns catalog entries plus activation rows into grouped
board sections:

	sections := catalog.MergeSections(items, activations)

Progress lookup tries the primary unlock id first and falls back to the
legacy item slug; the first match wins. Completed activations render as
active cards, in-progress as ready, everything else as locked. The
kickoff entry is always active. Sections appear in the order their
category is first seen in the catalog.

LockedSections produces the degraded all-locked board used when the
progress query fails.

# Seeding

SeedFromYAML imports the legacy catalog content on first boot:

	err := catalog.SeedFromYAML(db, "catalog.yaml")

It is a no-op when the unlock_item table already has rows.
*/
package catalog
