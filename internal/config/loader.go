package config

import (
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

const envPrefix = "HANSA"

// Loader owns a viper instance and the last successfully decoded Config.
type Loader struct {
	v   *viper.Viper
	mu  sync.RWMutex
	cfg *Config
}

// Load reads configuration from path. An empty path searches for
// hansa.yaml in the working directory and ./configs; a missing file
// is not an error, defaults and HANSA_* environment variables apply.
func Load(path string) (*Loader, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	} else {
		v.SetConfigName("hansa")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}

	l := &Loader{v: v}
	cfg, err := l.decode()
	if err != nil {
		return nil, err
	}
	l.cfg = cfg
	return l, nil
}

// Config returns the current configuration.
func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// Watch re-decodes the file on every write and hands the result to fn.
// A reload that fails to decode or validate keeps the previous Config.
func (l *Loader) Watch(fn func(*Config, error)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := l.decode()
		if err == nil {
			l.mu.Lock()
			l.cfg = cfg
			l.mu.Unlock()
		}
		if fn != nil {
			fn(cfg, err)
		}
	})
	l.v.WatchConfig()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := l.v.Unmarshal(&cfg, hook); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 7)

	v.SetDefault("game.map", "hanse")
	v.SetDefault("game.players", []string{"Red", "Blue"})

	v.SetDefault("server.addr", ":8090")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.db_path", "data/hansa.db")
	v.SetDefault("server.ask_timeout", "3s")
	v.SetDefault("server.ping_interval", "30s")

	v.SetDefault("client.title", "Hansa Teutonica")
	v.SetDefault("client.width", 1280)
	v.SetDefault("client.height", 800)
	v.SetDefault("client.scale", 1.0)
	v.SetDefault("client.clipboard", true)
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch {
	case c.Game.Map == "":
		return errors.Wrap(ErrInvalid, "game.map is required")
	case len(c.Game.Players) < 2 || len(c.Game.Players) > 5:
		return errors.Wrapf(ErrInvalid, "game.players must list 2 to 5 names, got %d", len(c.Game.Players))
	case c.Server.AskTimeout <= 0:
		return errors.Wrap(ErrInvalid, "server.ask_timeout must be positive")
	case c.Client.Width <= 0 || c.Client.Height <= 0:
		return errors.Wrapf(ErrInvalid, "client window %dx%d", c.Client.Width, c.Client.Height)
	case c.Client.Scale <= 0:
		return errors.Wrap(ErrInvalid, "client.scale must be positive")
	}
	return nil
}
