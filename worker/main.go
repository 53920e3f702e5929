package main

import (
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	tips "temporal-betting-tips"
)

func main() {
	cfg, err := tips.LoadConfig()
	if err != nil {
		log.Fatalln("Invalid configuration", err)
	}

	clientOptions, err := tips.GetClientOptions(slog.Default())
	if err != nil {
		log.Fatalln("Invalid Temporal configuration", err)
	}

	// Create Temporal client
	c, err := client.Dial(clientOptions)
	if err != nil {
		log.Fatalln("Unable to create Temporal client", err)
	}
	defer c.Close()

	// Create worker
	w := worker.New(c, cfg.TaskQueue, worker.Options{})

	w.RegisterWorkflow(tips.TipAlertWorkflow)
	w.RegisterActivity(&tips.Activities{
		Service:         cfg.NewAPIClient(slog.Default()),
		SlackWebhookURL: cfg.SlackWebhookURL,
	})

	// Start worker
	log.Println("Starting Temporal worker for tip alerts...")
	err = w.Run(worker.InterruptCh())
	if err != nil {
		log.Fatalln("Unable to start worker", err)
	}
}
