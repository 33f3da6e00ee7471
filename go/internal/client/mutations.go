package client

import (
	"github.com/rs/zerolog/log"

	"github.com/seachart/tracksync/go/internal/store"
	"github.com/seachart/tracksync/go/internal/wire"
)

// The mutation API performs the optimistic dual write: each method sends
// the command to the server and applies the same change to the local store
// in the same call, returning the new snapshot. The UI updates immediately;
// the server's echo re-applies the identical absolute write and is a no-op.
//
// Commands are fire-and-forget. A rejected command leaves the local
// optimistic state in place; the next full resync at rejoin reconciles it.

// SetEntrance assigns (or, with an empty entrance name, clears) the
// entrance behind an exit. Entrance placements are shared room-wide even in
// COOP mode when the payload opts in via UseRoomID.
func (c *Client) SetEntrance(payload store.EntrancePayload) *store.Store {
	contributorID := c.attribution(&payload.UseRoomID)
	c.sendCommand(wire.MethodSet, wire.SetEntranceCommand{
		Type:            wire.SaveTypeEntrance,
		EntrancePayload: payload,
	})
	return c.swap(func(s *store.Store) *store.Store {
		return s.SetEntrance(contributorID, payload)
	})
}

// SetIslandsForCharts assigns (or clears) the island a chart leads to.
func (c *Client) SetIslandsForCharts(payload store.IslandsForChartsPayload) *store.Store {
	contributorID := c.attribution(&payload.UseRoomID)
	c.sendCommand(wire.MethodSet, wire.SetIslandsForChartsCommand{
		Type:                    wire.SaveTypeIslandsForCharts,
		IslandsForChartsPayload: payload,
	})
	return c.swap(func(s *store.Store) *store.Store {
		return s.SetIslandsForCharts(contributorID, payload)
	})
}

// SetItem records an item count, and the item's location when the payload
// carries one.
func (c *Client) SetItem(payload store.ItemPayload) *store.Store {
	contributorID := c.attribution(&payload.UseRoomID)
	c.sendCommand(wire.MethodSet, wire.SetItemCommand{
		Type:        wire.SaveTypeItem,
		ItemPayload: payload,
	})
	return c.swap(func(s *store.Store) *store.Store {
		return s.SetItem(contributorID, payload)
	})
}

// SetItemsForLocations records which item was found at a location.
func (c *Client) SetItemsForLocations(payload store.ItemsForLocationsPayload) *store.Store {
	contributorID := c.attribution(&payload.UseRoomID)
	c.sendCommand(wire.MethodSet, wire.SetItemsForLocationsCommand{
		Type:                     wire.SaveTypeItemsForLocations,
		ItemsForLocationsPayload: payload,
	})
	return c.swap(func(s *store.Store) *store.Store {
		return s.SetItemsForLocations(contributorID, payload)
	})
}

// SetLocation marks a location checked or unchecked.
func (c *Client) SetLocation(payload store.LocationPayload) *store.Store {
	contributorID := c.attribution(&payload.UseRoomID)
	c.sendCommand(wire.MethodSet, wire.SetLocationCommand{
		Type:            wire.SaveTypeLocation,
		LocationPayload: payload,
	})
	return c.swap(func(s *store.Store) *store.Store {
		return s.SetLocation(contributorID, payload)
	})
}

// UpdateUsername changes this client's display name; the server answers
// with a roomUpdate carrying the new roster.
func (c *Client) UpdateUsername(name string) {
	c.sendCommand(wire.MethodSetName, wire.SetNamePayload{Name: name})
}

// attribution resolves the contributor a local write is recorded under and
// upgrades the wire flag when the mode shares all progress room-wide. An
// explicit UseRoomID attributes to the room even in COOP mode, for state
// that must be shared regardless of mode.
func (c *Client) attribution(useRoomID *bool) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	explicit := *useRoomID
	*useRoomID = explicit || c.mode == wire.ModeItemSync
	if explicit {
		return c.roomID
	}
	return c.effectiveUserIDLocked()
}

// swap applies a store operation to the current snapshot and publishes the
// result.
func (c *Client) swap(apply func(*store.Store) *store.Store) *store.Store {
	c.mu.Lock()
	next := apply(c.state)
	c.state = next
	c.mu.Unlock()
	return next
}

// sendCommand encodes and transmits one outbound command. All outbound
// frames are logged with their message ID for diagnostics; nothing waits
// for an acknowledgment.
func (c *Client) sendCommand(method wire.Method, payload any) {
	envelope, err := wire.NewEnvelope(method, payload)
	if err != nil {
		log.Error().Err(err).Str("method", string(method)).Msg("encode command failed")
		return
	}
	raw, err := envelope.Encode()
	if err != nil {
		log.Error().Err(err).Str("method", string(method)).Msg("encode envelope failed")
		return
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		log.Warn().Str("method", string(method)).Msg("not connected; dropping outbound frame")
		return
	}

	log.Debug().Str("message_id", envelope.MessageID).RawJSON("message", raw).Msg("sent message")
	c.writeFrame(conn, raw)
}
