package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the headless sync client's settings, loaded from YAML with
// environment overrides.
type Config struct {
	Server struct {
		URL           string        `yaml:"url"`
		RetryInterval time.Duration `yaml:"retry_interval"`
	} `yaml:"server"`

	Room struct {
		Name  string `yaml:"name"`
		Perma string `yaml:"perma"`
		Mode  string `yaml:"mode"`
	} `yaml:"room"`

	Data struct {
		Path string `yaml:"path"`
	} `yaml:"data"`

	Bridge struct {
		Enabled       bool   `yaml:"enabled"`
		URL           string `yaml:"url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"bridge"`

	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
}

func loadConfig(path string) (*Config, error) {
	var config Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Env vars win over the file.
	config.Server.URL = getEnv("TRACKSYNC_SERVER_URL", config.Server.URL)
	config.Room.Name = getEnv("TRACKSYNC_ROOM", config.Room.Name)
	config.Room.Perma = getEnv("TRACKSYNC_PERMA", config.Room.Perma)
	config.Room.Mode = getEnv("TRACKSYNC_MODE", config.Room.Mode)
	config.Data.Path = getEnv("TRACKSYNC_DATA", config.Data.Path)
	config.Bridge.URL = getEnv("NATS_URL", config.Bridge.URL)
	config.HTTP.Addr = getEnv("TRACKSYNC_HTTP_ADDR", config.HTTP.Addr)

	if config.Data.Path == "" {
		config.Data.Path = "tracksync.db"
	}
	if config.HTTP.Addr == "" {
		config.HTTP.Addr = ":8090"
	}

	if config.Server.URL == "" {
		return nil, fmt.Errorf("server.url is required")
	}
	if config.Room.Name == "" || config.Room.Perma == "" {
		return nil, fmt.Errorf("room.name and room.perma are required")
	}

	return &config, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
