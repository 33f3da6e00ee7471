package store

import (
	"reflect"
	"testing"
)

func sameRecord[T any](a, b Record[T]) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func TestSetItemSharesUntouchedRecords(t *testing.T) {
	t.Parallel()

	base := New().
		SetEntrance("u1", EntrancePayload{EntranceName: "Cave", ExitName: "Exit A"}).
		SetLocation("u1", LocationPayload{GeneralLocation: "Island", DetailedLocation: "Chest", IsChecked: true})

	next := base.SetItem("u1", ItemPayload{ItemName: "Bombs", Count: 2})

	if sameRecord(base.Items, next.Items) {
		t.Fatalf("expected Items to be replaced")
	}
	if !sameRecord(base.Entrances, next.Entrances) {
		t.Fatalf("expected Entrances to be shared with the prior snapshot")
	}
	if !sameRecord(base.IslandsForCharts, next.IslandsForCharts) {
		t.Fatalf("expected IslandsForCharts to be shared with the prior snapshot")
	}
	if !sameRecord(base.ItemsForLocations, next.ItemsForLocations) {
		t.Fatalf("expected ItemsForLocations to be shared with the prior snapshot")
	}
	if !sameRecord(base.LocationsChecked, next.LocationsChecked) {
		t.Fatalf("expected LocationsChecked to be shared with the prior snapshot")
	}
}

func TestSetItemDoesNotMutatePriorSnapshot(t *testing.T) {
	t.Parallel()

	base := New().SetItem("u1", ItemPayload{ItemName: "Bombs", Count: 1})
	base.SetItem("u1", ItemPayload{ItemName: "Bombs", Count: 5})

	if got := base.Items["Bombs"]["u1"].Count; got != 1 {
		t.Fatalf("prior snapshot changed: count = %d, want 1", got)
	}
}

func TestSetItemIsIdempotent(t *testing.T) {
	t.Parallel()

	payload := ItemPayload{ItemName: "Bombs", Count: 3, GeneralLocation: "Island", DetailedLocation: "Chest"}
	once := New().SetItem("u1", payload)
	twice := once.SetItem("u1", payload)

	if !reflect.DeepEqual(once.Items, twice.Items) {
		t.Fatalf("re-applying the same write changed Items: %v vs %v", once.Items, twice.Items)
	}
	if !reflect.DeepEqual(once.ItemsForLocations, twice.ItemsForLocations) {
		t.Fatalf("re-applying the same write changed ItemsForLocations")
	}
}

func TestSetItemWithLocationWritesBothRecords(t *testing.T) {
	t.Parallel()

	next := New().SetItem("u1", ItemPayload{
		ItemName:         "Bombs",
		Count:            1,
		GeneralLocation:  "Dragon Roost",
		DetailedLocation: "Chest",
	})

	if got := next.Items["Bombs"]["u1"].Count; got != 1 {
		t.Fatalf("item count = %d, want 1", got)
	}
	if got := next.ItemsForLocations["Dragon Roost#Chest"]["u1"].ItemName; got != "Bombs" {
		t.Fatalf("item for location = %q, want Bombs", got)
	}
}

func TestSetItemWithoutLocationLeavesItemsForLocationsAlone(t *testing.T) {
	t.Parallel()

	base := New()
	next := base.SetItem("u1", ItemPayload{ItemName: "Bombs", Count: 1})

	if !sameRecord(base.ItemsForLocations, next.ItemsForLocations) {
		t.Fatalf("expected ItemsForLocations to be untouched without a location")
	}
}

func TestSetEntranceEmptyNameDeletesLeaf(t *testing.T) {
	t.Parallel()

	base := New().
		SetEntrance("u1", EntrancePayload{EntranceName: "Cave", ExitName: "Exit A"}).
		SetEntrance("u2", EntrancePayload{EntranceName: "Grotto", ExitName: "Exit A"})

	next := base.SetEntrance("u1", EntrancePayload{ExitName: "Exit A"})

	if _, ok := next.Entrances["Exit A"]["u1"]; ok {
		t.Fatalf("expected u1 leaf to be deleted")
	}
	if got := next.Entrances["Exit A"]["u2"].EntranceName; got != "Grotto" {
		t.Fatalf("u2 leaf disturbed: %q", got)
	}
	// Prior snapshot keeps both leaves.
	if got := base.Entrances["Exit A"]["u1"].EntranceName; got != "Cave" {
		t.Fatalf("prior snapshot changed: %q", got)
	}
}

func TestSetEntranceDropsEmptyDomainKey(t *testing.T) {
	t.Parallel()

	base := New().SetEntrance("u1", EntrancePayload{EntranceName: "Cave", ExitName: "Exit A"})
	next := base.SetEntrance("u1", EntrancePayload{ExitName: "Exit A"})

	if _, ok := next.Entrances["Exit A"]; ok {
		t.Fatalf("expected domain key with no contributors to be dropped")
	}
}

func TestSetIslandsForChartsEmptyIslandDeletesLeaf(t *testing.T) {
	t.Parallel()

	base := New().SetIslandsForCharts("u1", IslandsForChartsPayload{Island: "Outset", Chart: "Chart 7"})
	next := base.SetIslandsForCharts("u1", IslandsForChartsPayload{Chart: "Chart 7"})

	if _, ok := next.IslandsForCharts["Chart 7"]; ok {
		t.Fatalf("expected chart mapping to be cleared")
	}
}

func TestSetStateHydratesAllRecords(t *testing.T) {
	t.Parallel()

	snapshot := RoomSnapshot{
		Items: Record[ItemValue]{"Bombs": {"u1": {Count: 2}}},
		LocationsChecked: Record[CheckedValue]{
			"Island#Chest": {"u1": {IsChecked: true}},
		},
	}

	next := New().SetState(snapshot)

	if got := next.Items["Bombs"]["u1"].Count; got != 2 {
		t.Fatalf("items not hydrated: %d", got)
	}
	if !next.LocationsChecked["Island#Chest"]["u1"].IsChecked {
		t.Fatalf("locationsChecked not hydrated")
	}
	// Records absent from the snapshot come back empty, not nil.
	if next.Entrances == nil || next.IslandsForCharts == nil || next.ItemsForLocations == nil {
		t.Fatalf("expected absent records to be empty maps")
	}
}

func TestLocationKeySplitsOnFirstSeparator(t *testing.T) {
	t.Parallel()

	key := LocationKey("Forsaken Fortress", "Chest #2 - Upper Deck")
	general, detailed := SplitLocationKey(key)

	if general != "Forsaken Fortress" {
		t.Fatalf("general = %q", general)
	}
	if detailed != "Chest #2 - Upper Deck" {
		t.Fatalf("detailed = %q", detailed)
	}
}
