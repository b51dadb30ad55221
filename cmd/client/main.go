package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"hansa-teutonica/internal/client"
	"hansa-teutonica/internal/client/play"
	"hansa-teutonica/internal/config"
	"hansa-teutonica/internal/database"
	"hansa-teutonica/internal/game"
	"hansa-teutonica/internal/logs"
	"hansa-teutonica/internal/session"
	"hansa-teutonica/pkg/maps"
)

func main() {
	configPath := flag.String("config", "", "Path to hansa.yaml")
	serverAddr := flag.String("server", "", "Server address; empty plays a local hot-seat game")
	gameID := flag.String("game", "", "Game id to join on the server")
	seat := flag.Int("player", 0, "Seat to take on the server")
	name := flag.String("name", "", "Player name shown to the others")
	profile := flag.String("profile", "", "Prefs profile, for several clients on one machine")
	flag.Parse()

	loader, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if err := logs.Init("hansa-client", cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "logs: %v\n", err)
		os.Exit(1)
	}
	defer logs.Sync()

	if err := maps.LoadAll(); err != nil {
		logs.Fatal("failed to load maps", zap.Error(err))
	}

	addr := *serverAddr
	if addr == "" && *gameID != "" {
		addr = cfg.Client.ServerURL
	}

	var (
		driver play.Driver
		m      *maps.Map
	)
	if addr != "" {
		driver, m = remoteGame(addr, *gameID, *seat, *name, *profile)
	} else {
		driver, m = localGame(cfg)
	}
	defer driver.Close()

	app := client.NewApp(cfg.Client, m, driver)
	loader.Watch(func(next *config.Config, err error) {
		if err != nil {
			logs.Warn("config reload rejected", zap.Error(err))
			return
		}
		app.SetConfig(next.Client)
	})

	ebiten.SetWindowSize(int(float64(cfg.Client.Width)*cfg.Client.Scale), int(float64(cfg.Client.Height)*cfg.Client.Scale))
	ebiten.SetWindowTitle(cfg.Client.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(app); err != nil {
		logs.Fatal("client stopped", zap.Error(err))
	}
}

func localGame(cfg *config.Config) (play.Driver, *maps.Map) {
	m := maps.Get(cfg.Game.Map)
	if m == nil {
		logs.Fatal("unknown map", zap.String("map", cfg.Game.Map))
	}

	seats := make([]game.PlayerSetup, len(cfg.Game.Players))
	for i, n := range cfg.Game.Players {
		seats[i] = game.PlayerSetup{Name: n}
	}

	var store session.Store
	if cfg.Client.DBPath != "" {
		db, err := database.New(cfg.Client.DBPath)
		if err != nil {
			logs.Fatal("failed to open database", zap.Error(err))
		}
		store = db
	}

	s, err := session.New(session.Options{
		MapID:    m.ID,
		Seats:    seats,
		Settings: game.Settings{Seed: cfg.Game.Seed},
	}, store)
	if err != nil {
		logs.Fatal("failed to start game", zap.Error(err))
	}
	return play.NewLocalDriver(s), m
}

func remoteGame(addr, gameID string, seat int, name, profile string) (play.Driver, *maps.Map) {
	if gameID == "" {
		logs.Fatal("-game is required to join a server")
	}
	path, err := play.PrefsPath(profile)
	if err != nil {
		logs.Fatal("failed to locate prefs", zap.Error(err))
	}
	prefs, err := play.LoadPrefs(path)
	if err != nil {
		logs.Warn("prefs unreadable, starting fresh", zap.Error(err))
	}
	if name == "" {
		name = prefs.PlayerName
	}
	prefs.LastServer = addr
	prefs.PlayerName = name

	d, err := play.DialRemote(context.Background(), addr, gameID, seat, name, prefs)
	if err != nil {
		logs.Fatal("failed to connect", zap.Error(err))
	}
	m, err := play.RemoteMap(context.Background(), addr, gameID)
	if err != nil {
		logs.Fatal("failed to look up game", zap.Error(err))
	}
	return d, m
}
