// Package localdata persists the state that must outlive a process: the
// server-assigned session identity, and saved tracker progress used to seed
// a brand-new room on first join.
package localdata

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"

	"github.com/seachart/tracksync/go/internal/store"
	"github.com/seachart/tracksync/go/internal/wire"
)

var (
	bucketSession  = []byte("session")
	bucketProgress = []byte("progress")

	keyUserID   = []byte("userId")
	keyUsername = []byte("username")
)

// Store is a bbolt-backed persistence facility. It implements
// client.SessionStore; session reads and writes are best-effort, matching
// cookie semantics, and log rather than fail.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open local data at %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketSession, bucketProgress} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// UserID returns the persisted session identity, empty when none exists.
func (s *Store) UserID() string {
	return s.sessionGet(keyUserID)
}

// SetUserID persists the server-assigned session identity for resumption.
func (s *Store) SetUserID(id string) {
	s.sessionPut(keyUserID, id)
}

// Username returns the persisted display name.
func (s *Store) Username() string {
	return s.sessionGet(keyUsername)
}

// SetUsername persists the display name the roster reports for us.
func (s *Store) SetUsername(name string) {
	s.sessionPut(keyUsername, name)
}

func (s *Store) sessionGet(key []byte) string {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		value = string(tx.Bucket(bucketSession).Get(key))
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("key", string(key)).Msg("session read failed")
	}
	return value
}

func (s *Store) sessionPut(key []byte, value string) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Put(key, []byte(value))
	})
	if err != nil {
		log.Warn().Err(err).Str("key", string(key)).Msg("session write failed")
	}
}

// LoadProgress returns the saved progress for a game+permalink pair, or
// nil when none has been saved.
func (s *Store) LoadProgress(gameID, permaID string) (*wire.InitialData, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if value := tx.Bucket(bucketProgress).Get(progressKey(gameID, permaID)); value != nil {
			raw = append([]byte(nil), value...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var data wire.InitialData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode saved progress: %w", err)
	}
	return &data, nil
}

// SaveProgress persists a progress snapshot for a game+permalink pair.
func (s *Store) SaveProgress(gameID, permaID string, data *wire.InitialData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProgress).Put(progressKey(gameID, permaID), raw)
	})
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func progressKey(gameID, permaID string) []byte {
	return []byte(gameID + "/" + permaID)
}

// ProgressFromSnapshot extracts the viewer's own leaves from a store
// snapshot into the saveable single-player progress shape.
func ProgressFromSnapshot(s *store.Store, contributorID string) *wire.InitialData {
	data := wire.InitialData{
		TrackerState: wire.TrackerState{
			Items:             map[string]int{},
			ItemsForLocations: map[string]map[string]string{},
			LocationsChecked:  map[string]map[string]bool{},
		},
	}

	for itemName, leaves := range s.Items {
		if leaf, ok := leaves[contributorID]; ok && leaf.Count != 0 {
			data.TrackerState.Items[itemName] = leaf.Count
		}
	}

	for key, leaves := range s.ItemsForLocations {
		leaf, ok := leaves[contributorID]
		if !ok || leaf.ItemName == "" {
			continue
		}
		generalLocation, detailedLocation := store.SplitLocationKey(key)
		if data.TrackerState.ItemsForLocations[generalLocation] == nil {
			data.TrackerState.ItemsForLocations[generalLocation] = map[string]string{}
		}
		data.TrackerState.ItemsForLocations[generalLocation][detailedLocation] = leaf.ItemName
	}

	for key, leaves := range s.LocationsChecked {
		leaf, ok := leaves[contributorID]
		if !ok || !leaf.IsChecked {
			continue
		}
		generalLocation, detailedLocation := store.SplitLocationKey(key)
		if data.TrackerState.LocationsChecked[generalLocation] == nil {
			data.TrackerState.LocationsChecked[generalLocation] = map[string]bool{}
		}
		data.TrackerState.LocationsChecked[generalLocation][detailedLocation] = true
	}

	return &data
}
