package wire

import (
	"encoding/json"
	"fmt"

	"github.com/seachart/tracksync/go/internal/store"
)

// Event is an inbound event name.
type Event string

const (
	EventOnConnect  Event = "onConnect"
	EventJoinedRoom Event = "joinedRoom"
	EventDataSaved  Event = "dataSaved"
	EventRoomUpdate Event = "roomUpdate"
)

// OnConnect delivers the session identity assigned (or resumed) by the
// server on socket open.
type OnConnect struct {
	UserID string `json:"userId"`
}

// JoinedRoom is the full room snapshot delivered once per join: the room
// identity, the roster, and all five shared records.
type JoinedRoom struct {
	ID    string            `json:"id"`
	Users map[string]string `json:"users"`
	Mode  Mode              `json:"mode"`
	store.RoomSnapshot
}

// DataSaved broadcasts one persisted mutation to every room member,
// attributed to the contributor that made it. Which fields are set depends
// on Type.
type DataSaved struct {
	Type   SaveDataType `json:"type"`
	UserID string       `json:"userId"`

	ItemName         string `json:"itemName,omitempty"`
	Count            int    `json:"count,omitempty"`
	GeneralLocation  string `json:"generalLocation,omitempty"`
	DetailedLocation string `json:"detailedLocation,omitempty"`
	IsChecked        bool   `json:"isChecked,omitempty"`
	EntranceName     string `json:"entranceName,omitempty"`
	ExitName         string `json:"exitName,omitempty"`
	Island           string `json:"island,omitempty"`
	Chart            string `json:"chart,omitempty"`
	Sphere           int    `json:"sphere,omitempty"`
}

// RoomUpdate delivers the current roster after a member joins or leaves.
type RoomUpdate struct {
	Users map[string]string `json:"users"`
}

// ParseEventPayload parses an envelope's data into the payload struct for
// its event type. Unknown events return nil with no error; the caller
// decides whether to log them.
func ParseEventPayload(envelope *InboundEnvelope) (any, error) {
	switch envelope.Event {
	case EventOnConnect:
		var payload OnConnect
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal onConnect payload: %w", err)
		}
		return payload, nil

	case EventJoinedRoom:
		var payload JoinedRoom
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal joinedRoom payload: %w", err)
		}
		return payload, nil

	case EventDataSaved:
		var payload DataSaved
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal dataSaved payload: %w", err)
		}
		return payload, nil

	case EventRoomUpdate:
		var payload RoomUpdate
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal roomUpdate payload: %w", err)
		}
		return payload, nil

	default:
		return nil, nil
	}
}
