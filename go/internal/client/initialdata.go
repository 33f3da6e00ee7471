package client

import "github.com/seachart/tracksync/go/internal/wire"

// pruneInitialData filters saved local progress before it seeds a new
// room: zero counts, empty item names, and unchecked locations are
// dropped, as are location groups left empty by the filtering. Returns nil
// when there is nothing to send.
func pruneInitialData(data *wire.InitialData) *wire.InitialData {
	if data == nil {
		return nil
	}

	pruned := wire.InitialData{
		TrackerState: wire.TrackerState{
			Items:             map[string]int{},
			ItemsForLocations: map[string]map[string]string{},
			LocationsChecked:  map[string]map[string]bool{},
		},
	}

	for itemName, count := range data.TrackerState.Items {
		if count != 0 {
			pruned.TrackerState.Items[itemName] = count
		}
	}

	for generalLocation, detailed := range data.TrackerState.ItemsForLocations {
		kept := map[string]string{}
		for detailedLocation, itemName := range detailed {
			if itemName != "" {
				kept[detailedLocation] = itemName
			}
		}
		if len(kept) > 0 {
			pruned.TrackerState.ItemsForLocations[generalLocation] = kept
		}
	}

	for generalLocation, detailed := range data.TrackerState.LocationsChecked {
		kept := map[string]bool{}
		for detailedLocation, isChecked := range detailed {
			if isChecked {
				kept[detailedLocation] = isChecked
			}
		}
		if len(kept) > 0 {
			pruned.TrackerState.LocationsChecked[generalLocation] = kept
		}
	}

	return &pruned
}
