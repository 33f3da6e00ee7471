package localdata

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/seachart/tracksync/go/internal/store"
	"github.com/seachart/tracksync/go/internal/wire"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "tracksync.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	if got := s.UserID(); got != "" {
		t.Fatalf("fresh store has user ID %q", got)
	}

	s.SetUserID("u1")
	s.SetUsername("Link")

	if got := s.UserID(); got != "u1" {
		t.Fatalf("UserID = %q, want u1", got)
	}
	if got := s.Username(); got != "Link" {
		t.Fatalf("Username = %q, want Link", got)
	}
}

func TestProgressRoundTrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	saved := &wire.InitialData{
		TrackerState: wire.TrackerState{
			Items: map[string]int{"Bombs": 2},
			LocationsChecked: map[string]map[string]bool{
				"Island": {"Chest": true},
			},
		},
	}
	if err := s.SaveProgress("game1", "perma1", saved); err != nil {
		t.Fatalf("SaveProgress: %v", err)
	}

	loaded, err := s.LoadProgress("game1", "perma1")
	if err != nil {
		t.Fatalf("LoadProgress: %v", err)
	}
	if loaded == nil || loaded.TrackerState.Items["Bombs"] != 2 {
		t.Fatalf("loaded progress mishandled: %+v", loaded)
	}
	if !loaded.TrackerState.LocationsChecked["Island"]["Chest"] {
		t.Fatalf("checked location lost on round trip")
	}

	// Progress is keyed by game and permalink together.
	other, err := s.LoadProgress("game1", "perma2")
	if err != nil {
		t.Fatalf("LoadProgress: %v", err)
	}
	if other != nil {
		t.Fatalf("expected no progress for a different permalink, got %+v", other)
	}
}

func TestProgressFromSnapshotKeepsOnlyOwnLeaves(t *testing.T) {
	t.Parallel()

	snapshot := store.New().
		SetItem("u1", store.ItemPayload{ItemName: "Bombs", Count: 2}).
		SetItem("u1", store.ItemPayload{ItemName: "Deku Leaf", Count: 0}).
		SetItem("u2", store.ItemPayload{ItemName: "Bottle", Count: 1}).
		SetItemsForLocations("u1", store.ItemsForLocationsPayload{
			ItemName:         "Bombs",
			GeneralLocation:  "Island",
			DetailedLocation: "Chest",
		}).
		SetLocation("u1", store.LocationPayload{
			GeneralLocation:  "Island",
			DetailedLocation: "Chest",
			IsChecked:        true,
		}).
		SetLocation("u2", store.LocationPayload{
			GeneralLocation:  "Island",
			DetailedLocation: "Dig",
			IsChecked:        true,
		})

	data := ProgressFromSnapshot(snapshot, "u1")

	wantItems := map[string]int{"Bombs": 2}
	if !reflect.DeepEqual(data.TrackerState.Items, wantItems) {
		t.Fatalf("Items = %v, want %v", data.TrackerState.Items, wantItems)
	}
	if got := data.TrackerState.ItemsForLocations["Island"]["Chest"]; got != "Bombs" {
		t.Fatalf("ItemsForLocations = %v", data.TrackerState.ItemsForLocations)
	}
	if !data.TrackerState.LocationsChecked["Island"]["Chest"] {
		t.Fatalf("own checked location missing")
	}
	if _, ok := data.TrackerState.LocationsChecked["Island"]["Dig"]; ok {
		t.Fatalf("another contributor's check leaked into saved progress")
	}
}
