package wire

import (
	"encoding/json"
	"testing"

	"github.com/seachart/tracksync/go/internal/store"
)

func TestNewEnvelopeAttachesMessageID(t *testing.T) {
	t.Parallel()

	envelope, err := NewEnvelope(MethodSet, SetItemCommand{
		Type: SaveTypeItem,
		ItemPayload: store.ItemPayload{
			ItemName: "Bombs",
			Count:    2,
		},
	})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	if envelope.MessageID == "" {
		t.Fatalf("expected a message ID on every outbound frame")
	}

	raw, err := envelope.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded struct {
		Method  string `json:"method"`
		Payload struct {
			Type      string `json:"type"`
			ItemName  string `json:"itemName"`
			Count     int    `json:"count"`
			UseRoomID bool   `json:"useRoomId"`
		} `json:"payload"`
		MessageID string `json:"messageId"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if decoded.Method != "set" || decoded.Payload.Type != "ITEM" || decoded.Payload.ItemName != "Bombs" || decoded.Payload.Count != 2 {
		t.Fatalf("unexpected frame: %s", raw)
	}
	if decoded.MessageID != envelope.MessageID {
		t.Fatalf("message ID lost in encoding")
	}
}

func TestDecodeMalformedFrameFails(t *testing.T) {
	t.Parallel()

	if _, err := Decode([]byte("{not json")); err == nil {
		t.Fatalf("expected an error for malformed JSON")
	}
}

func TestDecodeErrorEnvelope(t *testing.T) {
	t.Parallel()

	envelope, err := Decode([]byte(`{"error":"room is full"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if envelope.Error != "room is full" {
		t.Fatalf("error field = %q", envelope.Error)
	}
}

func TestParseJoinedRoomPayload(t *testing.T) {
	t.Parallel()

	// The room snapshot's itemsForLocation key is singular on the wire.
	raw := []byte(`{
		"event": "joinedRoom",
		"data": {
			"id": "r1",
			"users": {"u1": "Link"},
			"mode": "COOP",
			"items": {"Bombs": {"u1": {"count": 2}}},
			"itemsForLocation": {"A#B": {"u1": {"itemName": "Bombs"}}},
			"locationsChecked": {"A#B": {"u1": {"isChecked": true}}}
		}
	}`)

	envelope, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	payload, err := ParseEventPayload(envelope)
	if err != nil {
		t.Fatalf("ParseEventPayload: %v", err)
	}
	joined, ok := payload.(JoinedRoom)
	if !ok {
		t.Fatalf("payload type = %T", payload)
	}

	if joined.ID != "r1" || joined.Mode != ModeCoop {
		t.Fatalf("room identity mishandled: %+v", joined)
	}
	if joined.Users["u1"] != "Link" {
		t.Fatalf("roster mishandled: %v", joined.Users)
	}
	if joined.Items["Bombs"]["u1"].Count != 2 {
		t.Fatalf("items mishandled: %v", joined.Items)
	}
	if joined.ItemsForLocations["A#B"]["u1"].ItemName != "Bombs" {
		t.Fatalf("itemsForLocation mishandled: %v", joined.ItemsForLocations)
	}
	if !joined.LocationsChecked["A#B"]["u1"].IsChecked {
		t.Fatalf("locationsChecked mishandled: %v", joined.LocationsChecked)
	}
}

func TestParseDataSavedPayload(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"event": "dataSaved",
		"data": {
			"type": "LOCATION",
			"userId": "u2",
			"generalLocation": "Island",
			"detailedLocation": "Chest",
			"isChecked": true
		}
	}`)

	envelope, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	payload, err := ParseEventPayload(envelope)
	if err != nil {
		t.Fatalf("ParseEventPayload: %v", err)
	}
	saved, ok := payload.(DataSaved)
	if !ok {
		t.Fatalf("payload type = %T", payload)
	}
	if saved.Type != SaveTypeLocation || saved.UserID != "u2" || !saved.IsChecked {
		t.Fatalf("dataSaved mishandled: %+v", saved)
	}
}

func TestParseUnknownEventIsNil(t *testing.T) {
	t.Parallel()

	envelope, err := Decode([]byte(`{"event":"somethingNew","data":{}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	payload, err := ParseEventPayload(envelope)
	if err != nil {
		t.Fatalf("ParseEventPayload: %v", err)
	}
	if payload != nil {
		t.Fatalf("expected unknown events to parse to nil, got %T", payload)
	}
}
