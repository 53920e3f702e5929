package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"

	tips "temporal-betting-tips"
)

//go:embed templates/index.html
var templateFS embed.FS

type Options struct {
	Sports               []tips.Sport
	TemporalClient       client.Client // nil runs alerts in demo mode
	TaskQueue            string
	NotificationChannels []string
	Logger               *slog.Logger
}

type Handlers struct {
	service        tips.TipService
	sports         []tips.Sport
	temporalClient client.Client
	taskQueue      string
	channels       []string
	logger         *slog.Logger
	sessions       *sessionStore
	page           *template.Template
}

func NewHandlers(service tips.TipService, opts Options) *Handlers {
	h := &Handlers{
		service:        service,
		sports:         opts.Sports,
		temporalClient: opts.TemporalClient,
		taskQueue:      opts.TaskQueue,
		channels:       opts.NotificationChannels,
		logger:         opts.Logger,
	}
	if len(h.sports) == 0 {
		h.sports = tips.DefaultSports
	}
	if h.taskQueue == "" {
		h.taskQueue = tips.TaskQueueName
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	h.sessions = newSessionStore(func() *tips.Controller {
		return tips.NewController(h.service, tips.WithSports(h.sports), tips.WithLogger(h.logger))
	})
	h.page = template.Must(template.New("index.html").Funcs(template.FuncMap{
		"stage": func(stage string, sel tips.Selector) any {
			return struct {
				Stage string
				Sel   tips.Selector
			}{stage, sel}
		},
	}).ParseFS(templateFS, "templates/index.html"))
	return h
}

// AlertWorkflow represents a running tip alert
type AlertWorkflow struct {
	WorkflowID  string    `json:"workflowId"`
	RunID       string    `json:"runId"`
	WorkflowURL string    `json:"workflowUrl,omitempty"`
	Status      string    `json:"status"`
	AlertStatus string    `json:"alertStatus"`
	GameID      string    `json:"gameId"`
	Home        string    `json:"home"`
	Away        string    `json:"away"`
	Time        string    `json:"time"`
	NotifyAt    time.Time `json:"notifyAt"`
}

type selectRequest struct {
	Value string `json:"value"`
}

type alertRequest struct {
	GameID        string    `json:"gameId"`
	NotifyAt      time.Time `json:"notifyAt"`
	MinConfidence int       `json:"minConfidence"`
	Channels      []string  `json:"channels"`
}

// Page renders the session's surface
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	surface := h.sessions.controller(w, r).Snapshot()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, surface); err != nil {
		h.logger.Error("Failed to render page", "error", err)
	}
}

// Select applies a form post from one of the selectors and redirects to the page
func (h *Handlers) Select(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	ctrl := h.sessions.controller(w, r)
	value := r.FormValue("value")
	switch r.FormValue("stage") {
	case "sport":
		ctrl.SelectSport(r.Context(), value)
	case "league":
		ctrl.SelectLeague(value)
	case "game":
		ctrl.SelectGame(r.Context(), value)
	default:
		http.Error(w, "Unknown stage", http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GetSports returns the sports offered by the sport selector
func (h *Handlers) GetSports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sports)
}

// GetState returns the session's surface
func (h *Handlers) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessions.controller(w, r).Snapshot())
}

func (h *Handlers) SelectSport(w http.ResponseWriter, r *http.Request) {
	h.applySelection(w, r, func(ctx context.Context, ctrl *tips.Controller, value string) {
		ctrl.SelectSport(ctx, value)
	})
}

func (h *Handlers) SelectLeague(w http.ResponseWriter, r *http.Request) {
	h.applySelection(w, r, func(ctx context.Context, ctrl *tips.Controller, value string) {
		ctrl.SelectLeague(value)
	})
}

func (h *Handlers) SelectGame(w http.ResponseWriter, r *http.Request) {
	h.applySelection(w, r, func(ctx context.Context, ctrl *tips.Controller, value string) {
		ctrl.SelectGame(ctx, value)
	})
}

func (h *Handlers) applySelection(w http.ResponseWriter, r *http.Request, apply func(context.Context, *tips.Controller, string)) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctrl := h.sessions.controller(w, r)
	apply(r.Context(), ctrl, req.Value)
	writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

// StartAlert starts a TipAlertWorkflow for a game of the session's catalog
func (h *Handlers) StartAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.GameID == "" {
		http.Error(w, "gameId required", http.StatusBadRequest)
		return
	}

	ctrl := h.sessions.controller(w, r)
	league, fixture, ok := ctrl.Catalog().Locate(req.GameID)
	if !ok {
		http.Error(w, "Game not in the current catalog", http.StatusNotFound)
		return
	}

	channels := req.Channels
	if len(channels) == 0 {
		channels = h.channels
	}
	alert := tips.TipAlertRequest{
		Sport:         ctrl.Snapshot().Sport.Selected,
		League:        league,
		Fixture:       fixture,
		NotifyAt:      req.NotifyAt,
		MinConfidence: req.MinConfidence,
		Channels:      channels,
	}

	// Check if Temporal client is available
	if h.temporalClient == nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"workflowId": "demo-tips-" + time.Now().Format("20060102-150405"),
			"runId":      "demo-run-" + time.Now().Format("150405"),
			"message":    "Demo mode: Alert request received (Temporal server not connected)",
		})
		return
	}

	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("tips-%s-%s", req.GameID, time.Now().Format("20060102-150405")),
		TaskQueue: h.taskQueue,
	}
	we, err := h.temporalClient.ExecuteWorkflow(r.Context(), options, tips.TipAlertWorkflow, alert)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to start workflow: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"workflowId": we.GetID(),
		"runId":      we.GetRunID(),
		"message":    "Alert scheduled successfully",
	})
}

// GetAlerts returns the running tip alerts
func (h *Handlers) GetAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := []AlertWorkflow{}

	// Return empty list in demo mode
	if h.temporalClient == nil {
		writeJSON(w, http.StatusOK, alerts)
		return
	}

	listRequest := &workflowservice.ListWorkflowExecutionsRequest{
		Query: "WorkflowId STARTS_WITH 'tips-' AND ExecutionStatus = 'Running'",
	}
	resp, err := h.temporalClient.ListWorkflow(r.Context(), listRequest)
	if err != nil {
		// Log error but don't fail the request - return empty list
		h.logger.Error("Failed to list workflows", "error", err)
		writeJSON(w, http.StatusOK, alerts)
		return
	}

	for _, execution := range resp.Executions {
		alert := AlertWorkflow{
			WorkflowID: execution.Execution.WorkflowId,
			RunID:      execution.Execution.RunId,
			Status:     execution.Status.String(),
		}
		alert.WorkflowURL = workflowURL(alert.WorkflowID, alert.RunID)

		// Get the alert details from the alertInfo query in TipAlertWorkflow
		result, err := h.temporalClient.QueryWorkflow(r.Context(), alert.WorkflowID, alert.RunID, "alertInfo")
		if err != nil {
			h.logger.Warn("Failed to query workflow", "workflowID", alert.WorkflowID, "error", err)
			alerts = append(alerts, alert)
			continue
		}
		var info tips.AlertInfo
		if err := result.Get(&info); err != nil {
			h.logger.Warn("Failed to decode query result", "workflowID", alert.WorkflowID, "error", err)
		}
		alert.AlertStatus = info.Status
		alert.GameID = string(info.Request.Fixture.GameID)
		alert.Home = info.Request.Fixture.Home
		alert.Away = info.Request.Fixture.Away
		alert.Time = info.Request.Fixture.Time
		alert.NotifyAt = info.Request.NotifyAt

		alerts = append(alerts, alert)
	}

	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].NotifyAt.Before(alerts[j].NotifyAt)
	})

	writeJSON(w, http.StatusOK, alerts)
}

// CancelAlert cancels a running tip alert
func (h *Handlers) CancelAlert(w http.ResponseWriter, r *http.Request) {
	workflowID := chi.URLParam(r, "alertID")
	if workflowID == "" {
		http.Error(w, "Workflow ID required", http.StatusBadRequest)
		return
	}

	if h.temporalClient == nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Demo mode: Alert cancel request received (Temporal server not connected)",
		})
		return
	}

	if err := h.temporalClient.CancelWorkflow(r.Context(), workflowID, ""); err != nil {
		http.Error(w, fmt.Sprintf("Failed to cancel workflow: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Alert cancelled successfully",
	})
}

func workflowURL(workflowID, runID string) string {
	path := fmt.Sprintf("/namespaces/%s/workflows/%s/%s", os.Getenv("TEMPORAL_NAMESPACE"), workflowID, runID)

	// Add http or https and UI URL, based on TEMPORAL_HOST
	if host := os.Getenv("TEMPORAL_HOST"); host != "" && host != "localhost:7233" {
		return "https://cloud.temporal.io" + path
	}
	return "http://localhost:8233" + path
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
