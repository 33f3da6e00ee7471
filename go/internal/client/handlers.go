package client

import (
	"fmt"
	"sort"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/seachart/tracksync/go/internal/store"
	"github.com/seachart/tracksync/go/internal/wire"
)

// handleFrame processes one inbound frame: keep-alive first, then the JSON
// envelope. Malformed JSON and server errors both drop the frame without
// touching the store.
func (c *Client) handleFrame(conn Conn, raw []byte) {
	if string(raw) == wire.PingMessage {
		c.writeFrame(conn, []byte(wire.PongMessage))
		return
	}

	envelope, err := wire.Decode(raw)
	if err != nil {
		log.Warn().Err(err).Msg("dropping malformed frame")
		return
	}

	log.Debug().RawJSON("message", raw).Msg("received message")

	if envelope.Error != "" {
		log.Warn().Str("error", envelope.Error).Msg("server rejected command")
		c.notifier.Error(fmt.Sprintf("Error: %s", envelope.Error))
		return
	}
	if envelope.Message != "" {
		log.Info().Str("message", envelope.Message).Msg("server message")
	}

	payload, err := wire.ParseEventPayload(envelope)
	if err != nil {
		log.Warn().Err(err).Str("event", string(envelope.Event)).Msg("dropping undecodable event")
		return
	}

	switch data := payload.(type) {
	case wire.OnConnect:
		c.handleConnected(data)
	case wire.JoinedRoom:
		c.handleJoinedRoom(data)
	case wire.DataSaved:
		c.handleDataSaved(data)
	case wire.RoomUpdate:
		c.handleRoomUpdate(data)
	default:
		log.Debug().Str("event", string(envelope.Event)).Msg("ignoring unknown event")
	}
}

// handleConnected completes the identity bootstrap: persist the assigned
// user ID for resumption and join the room. Saved local progress rides
// along only on the session's first join, to seed a brand-new room.
func (c *Client) handleConnected(data wire.OnConnect) {
	c.mu.Lock()
	c.userID = data.UserID
	firstJoin := !c.joinedOnce
	c.joinedOnce = true
	mode := c.mode
	c.mu.Unlock()

	c.session.SetUserID(data.UserID)
	log.Info().Str("user_id", data.UserID).Msg("session identity assigned")

	payload := wire.JoinRoomPayload{
		Name:     c.cfg.GameID,
		Username: c.session.Username(),
		Perma:    c.cfg.PermaID,
		Mode:     mode,
	}
	if firstJoin {
		payload.InitialData = pruneInitialData(c.cfg.InitialData)
	}
	c.sendCommand(wire.MethodJoinRoom, payload)
}

// handleJoinedRoom hydrates the store from the server's authoritative
// snapshot. This full replace is the only divergence-recovery path; it
// happens at every (re)join.
func (c *Client) handleJoinedRoom(data wire.JoinedRoom) {
	c.mu.Lock()
	c.roomID = data.ID
	if data.Mode != "" {
		c.mode = data.Mode
	}
	c.mu.Unlock()

	c.updateRoster(data.Users)

	c.queue.Add(func() error {
		c.mu.Lock()
		next := c.state.SetState(data.RoomSnapshot)
		c.state = next
		c.mu.Unlock()

		if c.cfg.Hooks.OnJoinedRoom != nil {
			c.cfg.Hooks.OnJoinedRoom(next, data)
		}
		return nil
	})
}

// handleDataSaved queues one broadcast mutation for in-order application.
// Applying the echo of our own optimistic write is safe: every store write
// is absolute, so duplicates converge.
func (c *Client) handleDataSaved(data wire.DataSaved) {
	c.queue.Add(func() error {
		c.mu.Lock()
		next, err := applyDataSaved(c.state, data)
		if err != nil {
			c.mu.Unlock()
			return err
		}
		c.state = next
		c.mu.Unlock()

		if c.cfg.Hooks.OnDataSaved != nil {
			c.cfg.Hooks.OnDataSaved(next, data)
		}
		return nil
	})
}

// handleRoomUpdate diffs the roster to announce who came or went, then
// adopts the new roster.
func (c *Client) handleRoomUpdate(data wire.RoomUpdate) {
	c.mu.Lock()
	previous := c.users
	c.mu.Unlock()

	if name := firstOnlyIn(data.Users, previous); name != "" {
		c.notifier.Info(fmt.Sprintf("%s connected", name))
	}
	if name := firstOnlyIn(previous, data.Users); name != "" {
		c.notifier.Info(fmt.Sprintf("%s disconnected", name))
	}

	c.updateRoster(data.Users)

	c.queue.Add(func() error {
		if c.cfg.Hooks.OnRoomUpdate != nil {
			c.cfg.Hooks.OnRoomUpdate(data)
		}
		return nil
	})
}

// updateRoster adopts the server's roster and keeps the persisted username
// in step with it.
func (c *Client) updateRoster(users map[string]string) {
	if users == nil {
		users = map[string]string{}
	}
	c.mu.Lock()
	c.users = users
	userID := c.userID
	c.mu.Unlock()

	if name, ok := users[userID]; ok && name != "" {
		c.session.SetUsername(name)
	}
}

// applyDataSaved maps one dataSaved event onto the matching store
// operation, attributed to the contributor the server named.
func applyDataSaved(s *store.Store, data wire.DataSaved) (*store.Store, error) {
	switch data.Type {
	case wire.SaveTypeEntrance:
		return s.SetEntrance(data.UserID, store.EntrancePayload{
			EntranceName: data.EntranceName,
			ExitName:     data.ExitName,
		}), nil
	case wire.SaveTypeIslandsForCharts:
		return s.SetIslandsForCharts(data.UserID, store.IslandsForChartsPayload{
			Island: data.Island,
			Chart:  data.Chart,
		}), nil
	case wire.SaveTypeItem:
		return s.SetItem(data.UserID, store.ItemPayload{
			ItemName:         data.ItemName,
			Count:            data.Count,
			GeneralLocation:  data.GeneralLocation,
			DetailedLocation: data.DetailedLocation,
			Sphere:           data.Sphere,
		}), nil
	case wire.SaveTypeItemsForLocations:
		return s.SetItemsForLocations(data.UserID, store.ItemsForLocationsPayload{
			ItemName:         data.ItemName,
			GeneralLocation:  data.GeneralLocation,
			DetailedLocation: data.DetailedLocation,
		}), nil
	case wire.SaveTypeLocation:
		return s.SetLocation(data.UserID, store.LocationPayload{
			GeneralLocation:  data.GeneralLocation,
			DetailedLocation: data.DetailedLocation,
			IsChecked:        data.IsChecked,
		}), nil
	default:
		return nil, fmt.Errorf("unknown dataSaved type %q", data.Type)
	}
}

// firstOnlyIn returns the display name of the first user (by sorted ID)
// present in a but not in b.
func firstOnlyIn(a, b map[string]string) string {
	ids := make([]string, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, ok := b[id]; !ok {
			return a[id]
		}
	}
	return ""
}

// writeFrame serializes writes to the socket; the keep-alive reply and
// outbound commands come from different goroutines.
func (c *Client) writeFrame(conn Conn, data []byte) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Warn().Err(err).Msg("socket write failed")
	}
}
