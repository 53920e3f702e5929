package tips

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const (
	listingPath  = "/jogos-do-dia"
	analysisPath = "/analisar-jogo"
)

// TipService is the remote analysis service as seen by the client
type TipService interface {
	GamesOfTheDay(ctx context.Context, sport string) (Catalog, error)
	AnalyzeGame(ctx context.Context, gameID string) (TipList, error)
}

// APIClient talks to the tip service over HTTP. Every call is one-shot.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewAPIClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *APIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// GamesOfTheDay fetches the day's fixtures for a sport grouped by league
func (c *APIClient) GamesOfTheDay(ctx context.Context, sport string) (Catalog, error) {
	c.logger.Info("Fetching games of the day", "sport", sport)

	body, status, err := c.get(ctx, listingPath, url.Values{"sport": {sport}})
	if err != nil {
		return Catalog{}, &TransportFailure{Endpoint: listingPath, Err: err}
	}
	if status < 200 || status > 299 {
		return Catalog{}, &TransportFailure{Endpoint: listingPath, StatusCode: status}
	}

	catalog, err := DecodeListing(body)
	if err != nil {
		c.logger.Warn("Listing not usable", "sport", sport, "error", err)
		return Catalog{}, err
	}

	c.logger.Info("Fetched games of the day", "sport", sport, "leagues", len(catalog.Leagues))
	return catalog, nil
}

// AnalyzeGame fetches the tips for a game
func (c *APIClient) AnalyzeGame(ctx context.Context, gameID string) (TipList, error) {
	c.logger.Info("Fetching analysis", "gameID", gameID)

	body, status, err := c.get(ctx, analysisPath, url.Values{"game_id": {gameID}})
	if err != nil {
		return nil, &TransportFailure{Endpoint: analysisPath, Err: err}
	}
	if status < 200 || status > 299 {
		return nil, &AnalysisRejection{StatusCode: status, Status: http.StatusText(status)}
	}

	var tips TipList
	if err := json.Unmarshal(body, &tips); err != nil {
		return nil, &TransportFailure{Endpoint: analysisPath, StatusCode: status, Err: fmt.Errorf("failed to unmarshal analysis: %w", err)}
	}

	c.logger.Info("Fetched analysis", "gameID", gameID, "tips", len(tips))
	return tips, nil
}

func (c *APIClient) get(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
