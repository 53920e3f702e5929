package main

import (
	"log/slog"
	"net/http"
	"os"

	"go.temporal.io/sdk/client"

	tips "temporal-betting-tips"
	"temporal-betting-tips/web"
)

func main() {
	cfg, err := tips.LoadConfig()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := slog.Default()

	// Create Temporal client; without one, alerts run in demo mode
	var temporalClient client.Client
	clientOptions, err := tips.GetClientOptions(logger)
	if err == nil {
		temporalClient, err = client.Dial(clientOptions)
	}
	if err != nil {
		logger.Warn("Unable to create Temporal client", "error", err)
		logger.Warn("The UI will work but tip alerts will be limited")
		temporalClient = nil
	} else {
		defer temporalClient.Close()
		logger.Info("Successfully connected to Temporal server")
	}

	handlers := web.NewHandlers(cfg.NewAPIClient(logger), web.Options{
		Sports:               cfg.Sports,
		TemporalClient:       temporalClient,
		TaskQueue:            cfg.TaskQueue,
		NotificationChannels: cfg.NotificationChannels,
		Logger:               logger,
	})

	logger.Info("Starting web server", "port", cfg.Port, "tipService", cfg.APIURL)
	logger.Info("Open http://localhost:" + cfg.Port + " in your browser")

	if err := http.ListenAndServe(":"+cfg.Port, handlers.Routes(cfg.CORSOrigins)); err != nil {
		logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
