// Package config loads process configuration for the client and server.
package config

import "time"

// Config is the root configuration document (configs/hansa.yaml).
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Game   GameConfig   `mapstructure:"game"`
	Server ServerConfig `mapstructure:"server"`
	Client ClientConfig `mapstructure:"client"`
}

// LogConfig controls the zap logger and its rotated file output.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	FileDir    string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	Dev        bool   `mapstructure:"dev"`
}

// GameConfig holds the defaults used when a new game is created.
type GameConfig struct {
	Map     string   `mapstructure:"map"`
	Players []string `mapstructure:"players"`
	Seed    uint64   `mapstructure:"seed"`
}

// ServerConfig configures the session server.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	Mode         string        `mapstructure:"mode"`
	DBPath       string        `mapstructure:"db_path"`
	AskTimeout   time.Duration `mapstructure:"ask_timeout"`
	PingInterval time.Duration `mapstructure:"ping_interval"`
}

// ClientConfig configures the desktop client.
type ClientConfig struct {
	Title     string  `mapstructure:"title"`
	Width     int     `mapstructure:"width"`
	Height    int     `mapstructure:"height"`
	Scale     float64 `mapstructure:"scale"`
	ServerURL string  `mapstructure:"server_url"`
	DBPath    string  `mapstructure:"db_path"`
	Clipboard bool    `mapstructure:"clipboard"`
}
