package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hansa-teutonica/internal/config"
	"hansa-teutonica/internal/logs"
	"hansa-teutonica/internal/server"
	"hansa-teutonica/pkg/maps"
)

func main() {
	configPath := flag.String("config", "", "Path to hansa.yaml")
	listMaps := flag.Bool("maps", false, "Print every registered map and exit")
	generate := flag.String("generate", "", "Write a random map to this file and exit")
	seed := flag.Uint64("seed", 1, "Seed for -generate")
	flag.Parse()

	loader, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if err := logs.Init("hansa-server", cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "logs: %v\n", err)
		os.Exit(1)
	}
	defer logs.Sync()

	switch {
	case *listMaps:
		printMaps()
		return
	case *generate != "":
		writeRandomMap(*generate, *seed)
		return
	}

	srv, err := server.New(cfg.Server)
	if err != nil {
		logs.Fatal("failed to create server", zap.Error(err))
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			logs.Error("server error", zap.Error(err))
			done <- syscall.SIGTERM
		}
	}()

	<-done
	logs.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logs.Error("server shutdown error", zap.Error(err))
	}
	logs.Info("server stopped")
}

func printMaps() {
	if err := maps.LoadAll(); err != nil {
		logs.Fatal("failed to load maps", zap.Error(err))
	}
	for _, info := range maps.List() {
		fmt.Println(maps.Get(info.ID).Debug())
	}
}

func writeRandomMap(path string, seed uint64) {
	opts := maps.DefaultOptions()
	opts.Seed = seed
	raw := maps.NewGenerator(opts).Generate()
	if _, err := maps.Process(raw); err != nil {
		logs.Fatal("generated map is invalid", zap.Error(err))
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		logs.Fatal("failed to encode map", zap.Error(err))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		logs.Fatal("failed to write map", zap.Error(err))
	}
	logs.Info("map written", zap.String("path", path), zap.String("id", raw.ID))
}
