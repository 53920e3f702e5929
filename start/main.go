package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	tips "temporal-betting-tips"
)

func main() {
	var sport, gameID, notifyAt, channels string
	var minConfidence int
	flag.StringVar(&sport, "sport", "soccer", "Sport id passed to the listing endpoint")
	flag.StringVar(&gameID, "game", "", "Game id to alert on (required)")
	flag.StringVar(&notifyAt, "notify-at", "", "RFC3339 time to send the tips at (default: now)")
	flag.StringVar(&channels, "channels", "", "Comma-separated notification channels (default: NOTIFICATION_CHANNELS)")
	flag.IntVar(&minConfidence, "min-confidence", 0, "Leave out tips below this confidence")
	flag.Parse()

	if gameID == "" {
		log.Fatalln("-game is required")
	}

	cfg, err := tips.LoadConfig()
	if err != nil {
		log.Fatalln("Invalid configuration", err)
	}

	req := tips.TipAlertRequest{
		Sport:         sport,
		MinConfidence: minConfidence,
		Channels:      cfg.NotificationChannels,
	}
	if channels != "" {
		req.Channels = strings.Split(channels, ",")
	}
	if notifyAt != "" {
		req.NotifyAt, err = time.Parse(time.RFC3339, notifyAt)
		if err != nil {
			log.Fatalln("Invalid -notify-at", err)
		}
	}

	// Resolve the fixture from today's catalog so the alert can name it
	ctx := context.Background()
	catalog, err := cfg.NewAPIClient(slog.Default()).GamesOfTheDay(ctx, sport)
	if err != nil {
		log.Fatalln("Unable to load games of the day", err)
	}
	league, fixture, ok := catalog.Locate(gameID)
	if !ok {
		log.Fatalf("Game %s is not in today's %s catalog", gameID, sport)
	}
	req.League = league
	req.Fixture = fixture

	clientOptions, err := tips.GetClientOptions(slog.Default())
	if err != nil {
		log.Fatalln("Invalid Temporal configuration", err)
	}
	c, err := client.Dial(clientOptions)
	if err != nil {
		log.Fatalln("Unable to create client", err)
	}
	defer c.Close()

	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("tips-%s-%s", gameID, time.Now().Format("20060102-150405")),
		TaskQueue: cfg.TaskQueue,
	}

	we, err := c.ExecuteWorkflow(ctx, options, tips.TipAlertWorkflow, req)
	if err != nil {
		log.Fatalln("Unable to execute workflow", err)
	}
	log.Println("Started workflow", "WorkflowID", we.GetID(), "RunID", we.GetRunID())
}
