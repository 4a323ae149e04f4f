// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import "github.com/caarya/caarya-live/models"

// MergeSections joins catalog items with a pod's activation records and
// groups them into titled sections, one per distinct category in
// first-seen catalog order.
//
// Activation lookup is a two-step resolution: the item's primary id
// first, the legacy slug second, first match wins. The two identifier
// schemes are deliberately not merged into one key space because legacy
// slugs are not unique across categories.
func MergeSections(items []models.UnlockItem, activations []models.Activation) []models.BoardSection {
	byKey := make(map[string]string, len(activations))
	for _, a := range activations {
		// First writer wins so a primary-id record is never
		// clobbered by a later legacy-keyed duplicate.
		if _, exists := byKey[a.UnlockID]; !exists {
			byKey[a.UnlockID] = a.Status
		}
	}

	sections := []models.BoardSection{}
	index := make(map[string]int)

	for _, item := range items {
		status := deriveStatus(item, byKey)

		i, seen := index[item.Category]
		if !seen {
			i = len(sections)
			index[item.Category] = i
			sections = append(sections, models.BoardSection{Title: item.Category})
		}

		sections[i].Items = append(sections[i].Items, models.BoardItem{
			ID:          item.ID,
			ItemID:      item.ItemID,
			Title:       item.Name,
			Subtitle:    item.Subtitle,
			Description: item.Description,
			Status:      status,
		})
	}

	return sections
}

// LockedSections renders the catalog with every item locked. This is
// the degraded fallback used when the pod's progress source cannot be
// read: the board always renders, it never blocks on progress.
func LockedSections(items []models.UnlockItem) []models.BoardSection {
	return MergeSections(items, nil)
}

// deriveStatus maps an activation record onto the three-valued card
// status the dashboard renders.
func deriveStatus(item models.UnlockItem, byKey map[string]string) string {
	// The kickoff milestone must always appear usable, even when a
	// pending record exists for it.
	if item.ItemID == models.KickoffItemID {
		return models.CardActive
	}

	status, ok := byKey[item.ID]
	if !ok {
		status, ok = byKey[item.ItemID]
	}
	if !ok {
		return models.CardLocked
	}

	switch status {
	case models.ActivationCompleted:
		return models.CardActive
	case models.ActivationInProgress:
		return models.CardReady
	default:
		return models.CardLocked
	}
}
