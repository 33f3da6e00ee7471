// Package bridge republishes inbound room events on local NATS subjects so
// sidecar tools (stream overlays, archivers) can consume the live sync
// feed without holding their own room connection.
package bridge

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/seachart/tracksync/go/internal/wire"
)

// Config holds NATS connection settings for the event bridge.
type Config struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultConfig returns default bridge configuration.
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		SubjectPrefix: "tracker.rooms",
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// Publisher mirrors room events onto NATS subjects of the form
// <prefix>.<room>.<event>.
type Publisher struct {
	nc     *nats.Conn
	config Config
}

// NewPublisher connects to NATS and returns a publisher.
func NewPublisher(config Config) (*Publisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &Publisher{nc: nc, config: config}, nil
}

// PublishDataSaved republishes one broadcast mutation.
func (p *Publisher) PublishDataSaved(roomID string, data wire.DataSaved) error {
	return p.publish(roomID, "dataSaved", data)
}

// PublishRoomUpdate republishes a roster change.
func (p *Publisher) PublishRoomUpdate(roomID string, data wire.RoomUpdate) error {
	return p.publish(roomID, "roomUpdate", data)
}

func (p *Publisher) publish(roomID, event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}

	subject := fmt.Sprintf("%s.%s.%s", p.config.SubjectPrefix, subjectToken(roomID), event)
	if err := p.nc.Publish(subject, raw); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}

	log.Debug().Str("subject", subject).Msg("event bridged")
	return nil
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}

// subjectToken makes a room ID safe for use as one NATS subject token.
func subjectToken(roomID string) string {
	token := strings.Map(func(r rune) rune {
		switch r {
		case '.', ' ', '*', '>':
			return '_'
		default:
			return r
		}
	}, roomID)
	if token == "" {
		return "unknown"
	}
	return token
}
