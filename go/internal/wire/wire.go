// Package wire defines the JSON protocol spoken with the sync server:
// outbound command envelopes, inbound event envelopes, and the typed
// payloads carried by each.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Subprotocol is the WebSocket subprotocol the server expects.
const Subprotocol = "protocolOne"

// Keep-alive is a literal text exchange, not JSON. The server sends PING;
// the client answers PONG. There is no client-initiated heartbeat.
const (
	PingMessage = "PING"
	PongMessage = "PONG"
)

// Method is an outbound command name.
type Method string

const (
	MethodJoinRoom Method = "joinRoom"
	MethodGet      Method = "get"
	MethodSet      Method = "set"
	MethodSetName  Method = "setName"
)

// SaveDataType tags which shared record a set command or dataSaved event
// targets.
type SaveDataType string

const (
	SaveTypeEntrance          SaveDataType = "ENTRANCE"
	SaveTypeIslandsForCharts  SaveDataType = "ISLANDS_FOR_CHARTS"
	SaveTypeItem              SaveDataType = "ITEM"
	SaveTypeItemsForLocations SaveDataType = "ITEMS_FOR_LOCATIONS"
	SaveTypeLocation          SaveDataType = "LOCATION"
)

// Mode is the room synchronization mode, fixed at room creation.
type Mode string

const (
	// ModeItemSync merges all clients into one contributor (the room ID).
	ModeItemSync Mode = "ITEMSYNC"
	// ModeCoop keeps per-player progress with visibility into others'.
	ModeCoop Mode = "COOP"
)

// Envelope is the outbound frame shape. MessageID is a fresh UUID attached
// to every frame for log correlation only; no acknowledgment or retry is
// keyed off it.
type Envelope struct {
	Method    Method          `json:"method"`
	Payload   json.RawMessage `json:"payload"`
	MessageID string          `json:"messageId"`
}

// NewEnvelope wraps a command payload in an outbound envelope with a fresh
// message ID.
func NewEnvelope(method Method, payload any) (*Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", method, err)
	}
	return &Envelope{
		Method:    method,
		Payload:   raw,
		MessageID: uuid.NewString(),
	}, nil
}

// Encode serializes the envelope for transmission.
func (e *Envelope) Encode() ([]byte, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", e.Method, err)
	}
	return raw, nil
}

// InboundEnvelope is the inbound frame shape. A non-empty Error carries a
// server-side rejection; the frame then holds no event to apply.
type InboundEnvelope struct {
	Event   Event           `json:"event"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Decode parses an inbound frame into its envelope.
func Decode(raw []byte) (*InboundEnvelope, error) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal inbound frame: %w", err)
	}
	return &envelope, nil
}
