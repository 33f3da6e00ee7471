// Package view computes read-side aggregations over a store snapshot for a
// given viewer. Queries whose semantics are "what do others have" always
// exclude the viewer's own contributor ID. Everything is recomputed from
// scratch on each call; contributor counts are human player counts, so no
// incremental indexing is warranted.
package view

import (
	"sort"

	"github.com/seachart/tracksync/go/internal/store"
)

// MaxOtherCount returns the highest count any contributor other than the
// viewer has recorded for an item, or 0 if nobody has.
func MaxOtherCount(s *store.Store, effectiveUserID, itemName string) int {
	max := 0
	for contributorID, leaf := range s.Items[itemName] {
		if contributorID == effectiveUserID {
			continue
		}
		if leaf.Count > max {
			max = leaf.Count
		}
	}
	return max
}

// LocationsForItem returns every location where a contributor other than
// the viewer recorded the item. Results are ordered by location key so the
// output is stable across calls.
func LocationsForItem(s *store.Store, effectiveUserID, itemName string) []store.Location {
	var locations []store.Location
	for _, key := range sortedKeys(s.ItemsForLocations) {
		generalLocation, detailedLocation := store.SplitLocationKey(key)
		for _, contributorID := range sortedKeys(s.ItemsForLocations[key]) {
			if contributorID == effectiveUserID {
				continue
			}
			if s.ItemsForLocations[key][contributorID].ItemName == itemName {
				locations = append(locations, store.Location{
					GeneralLocation:  generalLocation,
					DetailedLocation: detailedLocation,
				})
			}
		}
	}
	return locations
}

// ItemsAtLocation returns the de-duplicated item names contributors other
// than the viewer recorded at a location, in first-seen order over a sorted
// contributor walk.
func ItemsAtLocation(s *store.Store, effectiveUserID, generalLocation, detailedLocation string) []string {
	leaves := s.ItemsForLocations[store.LocationKey(generalLocation, detailedLocation)]

	var items []string
	seen := make(map[string]bool, len(leaves))
	for _, contributorID := range sortedKeys(leaves) {
		if contributorID == effectiveUserID {
			continue
		}
		itemName := leaves[contributorID].ItemName
		if !seen[itemName] {
			seen[itemName] = true
			items = append(items, itemName)
		}
	}
	return items
}

// IsCheckedByOthers reports whether any contributor other than the viewer
// has checked the location.
func IsCheckedByOthers(s *store.Store, effectiveUserID, generalLocation, detailedLocation string) bool {
	for contributorID, leaf := range s.LocationsChecked[store.LocationKey(generalLocation, detailedLocation)] {
		if contributorID == effectiveUserID {
			continue
		}
		if leaf.IsChecked {
			return true
		}
	}
	return false
}

// CountCheckedLocations counts the locations checked by at least one
// contributor, the viewer included.
func CountCheckedLocations(s *store.Store) int {
	count := 0
	for _, leaves := range s.LocationsChecked {
		for _, leaf := range leaves {
			if leaf.IsChecked {
				count++
				break
			}
		}
	}
	return count
}

// DisplayValue resolves which leaf the viewer should see for one domain
// key: their own leaf when present, else the room-attributed leaf, else the
// zero value. The room fallback lets a COOP client see facts saved under
// the shared room ID (chart and entrance placements) when it has no
// personal leaf.
func DisplayValue[T any](leaves map[string]T, effectiveUserID, roomID string) T {
	if leaf, ok := leaves[effectiveUserID]; ok {
		return leaf
	}
	if leaf, ok := leaves[roomID]; ok {
		return leaf
	}
	var zero T
	return zero
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
