// Package store holds the replicated tracker state as immutable snapshots.
//
// A Store is never mutated in place. Every operation returns a new snapshot
// that shares the records it did not touch with its predecessor and
// replaces the ones it did, so a reader holding an older snapshot never
// observes a mutation in progress. Operations are attributed to a
// contributor ID (a user ID, or the room ID for room-wide facts).
package store

// Store is one immutable snapshot of the five shared records.
type Store struct {
	Entrances         Record[EntranceValue]
	IslandsForCharts  Record[IslandValue]
	Items             Record[ItemValue]
	ItemsForLocations Record[ItemForLocationValue]
	LocationsChecked  Record[CheckedValue]
}

// New returns an empty snapshot.
func New() *Store {
	return &Store{
		Entrances:         Record[EntranceValue]{},
		IslandsForCharts:  Record[IslandValue]{},
		Items:             Record[ItemValue]{},
		ItemsForLocations: Record[ItemForLocationValue]{},
		LocationsChecked:  Record[CheckedValue]{},
	}
}

// SetState replaces all five records with the server's authoritative room
// snapshot. Used once per join; incremental updates go through the typed
// operations below.
func (s *Store) SetState(snapshot RoomSnapshot) *Store {
	return &Store{
		Entrances:         orEmpty(snapshot.Entrances),
		IslandsForCharts:  orEmpty(snapshot.IslandsForCharts),
		Items:             orEmpty(snapshot.Items),
		ItemsForLocations: orEmpty(snapshot.ItemsForLocations),
		LocationsChecked:  orEmpty(snapshot.LocationsChecked),
	}
}

// SetItem records a contributor's count for an item. When the payload names
// a location, the item is additionally recorded at that location within the
// same returned snapshot; an item grant at a location is two facts written
// atomically.
func (s *Store) SetItem(contributorID string, payload ItemPayload) *Store {
	next := *s
	next.Items = setLeaf(s.Items, payload.ItemName, contributorID, ItemValue{Count: payload.Count})
	if payload.GeneralLocation != "" && payload.DetailedLocation != "" {
		key := LocationKey(payload.GeneralLocation, payload.DetailedLocation)
		next.ItemsForLocations = setLeaf(s.ItemsForLocations, key, contributorID, ItemForLocationValue{ItemName: payload.ItemName})
	}
	return &next
}

// SetItemsForLocations records which item a contributor found at a location.
func (s *Store) SetItemsForLocations(contributorID string, payload ItemsForLocationsPayload) *Store {
	next := *s
	key := LocationKey(payload.GeneralLocation, payload.DetailedLocation)
	next.ItemsForLocations = setLeaf(s.ItemsForLocations, key, contributorID, ItemForLocationValue{ItemName: payload.ItemName})
	return &next
}

// SetLocation marks a location checked or unchecked for a contributor.
func (s *Store) SetLocation(contributorID string, payload LocationPayload) *Store {
	next := *s
	key := LocationKey(payload.GeneralLocation, payload.DetailedLocation)
	next.LocationsChecked = setLeaf(s.LocationsChecked, key, contributorID, CheckedValue{IsChecked: payload.IsChecked})
	return &next
}

// SetEntrance assigns an entrance to an exit for a contributor. An empty
// entrance name clears the contributor's assignment instead of writing an
// empty value.
func (s *Store) SetEntrance(contributorID string, payload EntrancePayload) *Store {
	next := *s
	if payload.EntranceName == "" {
		next.Entrances = deleteLeaf(s.Entrances, payload.ExitName, contributorID)
	} else {
		next.Entrances = setLeaf(s.Entrances, payload.ExitName, contributorID, EntranceValue{EntranceName: payload.EntranceName})
	}
	return &next
}

// SetIslandsForCharts assigns an island to a chart for a contributor. An
// empty island name clears the contributor's assignment.
func (s *Store) SetIslandsForCharts(contributorID string, payload IslandsForChartsPayload) *Store {
	next := *s
	if payload.Island == "" {
		next.IslandsForCharts = deleteLeaf(s.IslandsForCharts, payload.Chart, contributorID)
	} else {
		next.IslandsForCharts = setLeaf(s.IslandsForCharts, payload.Chart, contributorID, IslandValue{Island: payload.Island})
	}
	return &next
}

// Snapshot returns the five records as a RoomSnapshot.
func (s *Store) Snapshot() RoomSnapshot {
	return RoomSnapshot{
		Entrances:         s.Entrances,
		IslandsForCharts:  s.IslandsForCharts,
		Items:             s.Items,
		ItemsForLocations: s.ItemsForLocations,
		LocationsChecked:  s.LocationsChecked,
	}
}

func orEmpty[T any](rec Record[T]) Record[T] {
	if rec == nil {
		return Record[T]{}
	}
	return rec
}
