package wire

import "github.com/seachart/tracksync/go/internal/store"

// JoinRoomPayload joins (or creates) a room. InitialData is sent only on
// the very first join of a session, to seed a brand-new room from locally
// saved progress.
type JoinRoomPayload struct {
	Name        string       `json:"name"`
	Username    string       `json:"username"`
	Perma       string       `json:"perma"`
	Mode        Mode         `json:"mode"`
	InitialData *InitialData `json:"initialData,omitempty"`
}

// InitialData is previously saved local progress used to seed a new room.
type InitialData struct {
	TrackerState TrackerState `json:"trackerState"`
}

// TrackerState is the single-player progress shape produced by the local
// tracker: items by name, and location-scoped maps keyed general -> detailed.
type TrackerState struct {
	Items             map[string]int               `json:"items"`
	ItemsForLocations map[string]map[string]string `json:"itemsForLocations"`
	LocationsChecked  map[string]map[string]bool   `json:"locationsChecked"`
}

// SetNamePayload changes the client's display name.
type SetNamePayload struct {
	Name string `json:"name"`
}

// The set commands reuse the store payload shapes and add the record tag.

// SetEntranceCommand is the set command for the Entrances record.
type SetEntranceCommand struct {
	Type SaveDataType `json:"type"`
	store.EntrancePayload
}

// SetIslandsForChartsCommand is the set command for the IslandsForCharts
// record.
type SetIslandsForChartsCommand struct {
	Type SaveDataType `json:"type"`
	store.IslandsForChartsPayload
}

// SetItemCommand is the set command for the Items record.
type SetItemCommand struct {
	Type SaveDataType `json:"type"`
	store.ItemPayload
}

// SetItemsForLocationsCommand is the set command for the ItemsForLocations
// record.
type SetItemsForLocationsCommand struct {
	Type SaveDataType `json:"type"`
	store.ItemsForLocationsPayload
}

// SetLocationCommand is the set command for the LocationsChecked record.
type SetLocationCommand struct {
	Type SaveDataType `json:"type"`
	store.LocationPayload
}
