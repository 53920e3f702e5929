package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	tips "temporal-betting-tips"
	"temporal-betting-tips/tui"
)

func main() {
	cfg, err := tips.LoadConfig()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// The alt screen owns stdout, so logs go to a file
	f, err := tea.LogToFile("tips-tui.log", "tui")
	if err != nil {
		slog.Error("Unable to open log file", "error", err)
		os.Exit(1)
	}
	defer f.Close()
	logger := slog.New(slog.NewTextHandler(f, nil))
	slog.SetDefault(logger)

	if err := tui.Run(cfg.NewAPIClient(logger), cfg.Sports, logger); err != nil {
		logger.Error("Terminal UI failed", "error", err)
		os.Exit(1)
	}
}
