package tips

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the environment of the web, tui, worker and start commands
type Config struct {
	APIURL               string
	HTTPTimeout          time.Duration
	Sports               []Sport
	Port                 string
	TaskQueue            string
	NotificationChannels []string
	SlackWebhookURL      string
	CORSOrigins          []string
}

// LoadConfig sets up the default slog logger, reads .env if present and
// builds the Config from environment variables.
func LoadConfig() (Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	err := godotenv.Load()
	if err != nil {
		logger.Warn("No .env file found, relying on environment variables")
	}

	cfg := Config{
		APIURL:          os.Getenv("TIPSTER_API_URL"),
		Port:            os.Getenv("PORT"),
		TaskQueue:       os.Getenv("TASK_QUEUE"),
		SlackWebhookURL: os.Getenv("SLACK_WEBHOOK_URL"),
		Sports:          DefaultSports,
	}
	if cfg.APIURL == "" {
		return Config{}, errors.New("TIPSTER_API_URL environment variable is not set")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.TaskQueue == "" {
		cfg.TaskQueue = TaskQueueName
	}

	// No timeout unless asked for; the transport's own limits apply
	if s := os.Getenv("TIPSTER_HTTP_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIPSTER_HTTP_TIMEOUT %q: %w", s, err)
		}
		cfg.HTTPTimeout = d
	}

	if s := os.Getenv("SPORTS"); s != "" {
		sports, err := ParseSports(s)
		if err != nil {
			return Config{}, err
		}
		cfg.Sports = sports
	}

	cfg.NotificationChannels = splitList(os.Getenv("NOTIFICATION_CHANNELS"))
	if len(cfg.NotificationChannels) == 0 {
		cfg.NotificationChannels = []string{"logger"} // if not set, default to just logging the message
	}

	cfg.CORSOrigins = splitList(os.Getenv("CORS_ORIGINS"))
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	return cfg, nil
}

// NewAPIClient builds the tip service client described by the config
func (c Config) NewAPIClient(logger *slog.Logger) *APIClient {
	return NewAPIClient(c.APIURL, &http.Client{Timeout: c.HTTPTimeout}, logger)
}

// ParseSports reads a "id:Name,id:Name" list. A bare id is its own name.
func ParseSports(s string) ([]Sport, error) {
	var sports []Sport
	for _, item := range splitList(s) {
		id, name, found := strings.Cut(item, ":")
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("invalid SPORTS entry %q", item)
		}
		if !found || strings.TrimSpace(name) == "" {
			name = id
		}
		sports = append(sports, Sport{ID: id, Name: strings.TrimSpace(name)})
	}
	return sports, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
