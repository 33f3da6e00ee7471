package store

// Leaf values for the five shared records. Each leaf is written whole on
// every mutation (absolute writes), which is what makes re-applying the
// server's echo of a local change safe without deduplication.

// EntranceValue maps an exit to the entrance a contributor assigned to it.
type EntranceValue struct {
	EntranceName string `json:"entranceName"`
}

// IslandValue maps a chart to the island a contributor assigned to it.
type IslandValue struct {
	Island string `json:"island"`
}

// ItemValue holds a contributor's count for an item.
type ItemValue struct {
	Count int `json:"count"`
}

// ItemForLocationValue holds the item a contributor found at a location.
type ItemForLocationValue struct {
	ItemName string `json:"itemName"`
}

// CheckedValue holds whether a contributor has checked a location.
type CheckedValue struct {
	IsChecked bool `json:"isChecked"`
}

// Location identifies a check as a (general, detailed) pair.
type Location struct {
	GeneralLocation  string `json:"generalLocation"`
	DetailedLocation string `json:"detailedLocation"`
}

// RoomSnapshot is the full authoritative room state sent by the server on
// join. Field names match the server's wire keys; itemsForLocation is
// singular on the wire.
type RoomSnapshot struct {
	Entrances         Record[EntranceValue]        `json:"entrances"`
	IslandsForCharts  Record[IslandValue]          `json:"islandsForCharts"`
	Items             Record[ItemValue]            `json:"items"`
	ItemsForLocations Record[ItemForLocationValue] `json:"itemsForLocation"`
	LocationsChecked  Record[CheckedValue]         `json:"locationsChecked"`
}

// EntrancePayload sets or clears the entrance assigned to an exit. An empty
// EntranceName clears the mapping.
type EntrancePayload struct {
	EntranceName string `json:"entranceName"`
	ExitName     string `json:"exitName"`
	UseRoomID    bool   `json:"useRoomId"`
}

// IslandsForChartsPayload sets or clears the island assigned to a chart. An
// empty Island clears the mapping.
type IslandsForChartsPayload struct {
	Island    string `json:"island"`
	Chart     string `json:"chart"`
	UseRoomID bool   `json:"useRoomId"`
}

// ItemPayload sets a contributor's count for an item. When both location
// fields are set, the item is also recorded at that location.
type ItemPayload struct {
	ItemName         string `json:"itemName"`
	Count            int    `json:"count"`
	GeneralLocation  string `json:"generalLocation,omitempty"`
	DetailedLocation string `json:"detailedLocation,omitempty"`
	Sphere           int    `json:"sphere,omitempty"`
	UseRoomID        bool   `json:"useRoomId"`
}

// ItemsForLocationsPayload records which item a contributor found at a
// location.
type ItemsForLocationsPayload struct {
	ItemName         string `json:"itemName"`
	GeneralLocation  string `json:"generalLocation"`
	DetailedLocation string `json:"detailedLocation"`
	UseRoomID        bool   `json:"useRoomId"`
}

// LocationPayload marks a location checked or unchecked for a contributor.
type LocationPayload struct {
	GeneralLocation  string `json:"generalLocation"`
	DetailedLocation string `json:"detailedLocation"`
	IsChecked        bool   `json:"isChecked"`
	UseRoomID        bool   `json:"useRoomId"`
}
