package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seachart/tracksync/go/internal/bridge"
	"github.com/seachart/tracksync/go/internal/client"
	"github.com/seachart/tracksync/go/internal/localdata"
	"github.com/seachart/tracksync/go/internal/store"
	"github.com/seachart/tracksync/go/internal/wire"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	config, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	local, err := localdata.Open(config.Data.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open local data")
	}
	defer local.Close()

	initialData, err := local.LoadProgress(config.Room.Name, config.Room.Perma)
	if err != nil {
		log.Warn().Err(err).Msg("could not load saved progress; joining without seed data")
	}

	var publisher *bridge.Publisher
	if config.Bridge.Enabled {
		bridgeConfig := bridge.DefaultConfig()
		if config.Bridge.URL != "" {
			bridgeConfig.URL = config.Bridge.URL
		}
		if config.Bridge.SubjectPrefix != "" {
			bridgeConfig.SubjectPrefix = config.Bridge.SubjectPrefix
		}
		publisher, err = bridge.NewPublisher(bridgeConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect event bridge")
		}
		defer publisher.Close()
	}

	var syncClient *client.Client
	syncClient = client.New(client.Config{
		ServerURL:     config.Server.URL,
		GameID:        config.Room.Name,
		PermaID:       config.Room.Perma,
		Mode:          wire.Mode(config.Room.Mode),
		InitialData:   initialData,
		RetryInterval: config.Server.RetryInterval,
		Session:       local,
		Notifier:      logNotifier{},
		Hooks: client.Hooks{
			OnJoinedRoom: func(snapshot *store.Store, data wire.JoinedRoom) {
				log.Info().
					Str("room_id", data.ID).
					Str("mode", string(data.Mode)).
					Int("users", len(data.Users)).
					Msg("joined room")
			},
			OnDataSaved: func(snapshot *store.Store, data wire.DataSaved) {
				saveProgress(local, syncClient, snapshot, config)
				if publisher != nil {
					if err := publisher.PublishDataSaved(syncClient.RoomID(), data); err != nil {
						log.Warn().Err(err).Msg("failed to bridge dataSaved event")
					}
				}
			},
			OnRoomUpdate: func(data wire.RoomUpdate) {
				if publisher != nil {
					if err := publisher.PublishRoomUpdate(syncClient.RoomID(), data); err != nil {
						log.Warn().Err(err).Msg("failed to bridge roomUpdate event")
					}
				}
			},
		},
	})

	log.Info().
		Str("server", config.Server.URL).
		Str("room", config.Room.Name).
		Str("mode", config.Room.Mode).
		Msg("starting tracker sync client")

	syncClient.Connect()

	httpServer := setupServer(config.HTTP.Addr, syncClient)
	go func() {
		log.Info().Str("addr", config.HTTP.Addr).Msg("status endpoint listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("status endpoint failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	syncClient.Flush()
	syncClient.Close()
	httpServer.Close()
}

// saveProgress mirrors the viewer's own slice of the snapshot to disk so
// the next session can seed a fresh room with it.
func saveProgress(local *localdata.Store, syncClient *client.Client, snapshot *store.Store, config *Config) {
	progress := localdata.ProgressFromSnapshot(snapshot, syncClient.EffectiveUserID())
	if err := local.SaveProgress(config.Room.Name, config.Room.Perma, progress); err != nil {
		log.Warn().Err(err).Msg("failed to save progress")
	}
}

// logNotifier routes UI notifications to the log; a headless client has no
// toasts.
type logNotifier struct{}

func (logNotifier) ConnectedStatusChanged(connected bool) {
	log.Info().Bool("connected", connected).Msg("connectivity changed")
}

func (logNotifier) Info(message string)  { log.Info().Msg(message) }
func (logNotifier) Error(message string) { log.Warn().Msg(message) }
