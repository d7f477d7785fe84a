package main

import (
	"context"
	"os"

	"github.com/desertthunder/ytmirror/internal/services"
	"github.com/desertthunder/ytmirror/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	youtubeService := services.NewYouTubeService()

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Service: youtubeService,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "ytmirror",
		Usage:    "Mirror every playlist of a YouTube channel to local storage",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
