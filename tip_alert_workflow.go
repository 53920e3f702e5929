package tips

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// AlertInfo is what the alertInfo query returns
type AlertInfo struct {
	Request TipAlertRequest
	Status  string
}

// TipAlertWorkflow waits until NotifyAt, fetches the tips for the fixture and
// sends them on every requested channel.
func TipAlertWorkflow(ctx workflow.Context, req TipAlertRequest) (string, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting Tip Alert Workflow", "gameID", req.Fixture.GameID, "home", req.Fixture.Home, "away", req.Fixture.Away)

	status := "scheduled"

	// Query handler for UI - return the alert and where it is at
	err := workflow.SetQueryHandler(ctx, "alertInfo", func() (AlertInfo, error) {
		return AlertInfo{Request: req, Status: status}, nil
	})
	if err != nil {
		logger.Error("Failed to set query handler", "error", err)
		return "", err
	}

	// Background alerts may retry; the interactive path never does
	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	if req.NotifyAt.After(workflow.Now(ctx)) {
		status = "waiting"
		logger.Info("Waiting to notify", "gameID", req.Fixture.GameID, "notifyAt", req.NotifyAt)
		if err := workflow.NewTimer(ctx, req.NotifyAt.Sub(workflow.Now(ctx))).Get(ctx, nil); err != nil {
			return "", err
		}
	}

	status = "analyzing"
	var a *Activities
	var tips TipList
	err = workflow.ExecuteActivity(ctx, a.FetchTips, string(req.Fixture.GameID)).Get(ctx, &tips)
	if err != nil {
		status = "failed"
		logger.Error("Failed to fetch tips", "gameID", req.Fixture.GameID, "error", err)
		return "", err
	}

	notification := buildTipNotification(req, tips)

	channels := req.Channels
	if len(channels) == 0 {
		channels = []string{"logger"}
	}
	sent := 0
	for _, channel := range channels {
		sendNotifications := SendNotifications{
			Channel:          channel,
			NotificationList: []Notification{notification},
		}
		err = workflow.ExecuteActivity(ctx, a.SendNotificationList, sendNotifications).Get(ctx, nil)
		if err != nil {
			logger.Error("Failed to send notification", "gameID", req.Fixture.GameID, "channel", channel, "error", err)
			continue
		}
		sent++
	}

	status = "sent"
	logger.Info("Tip alert workflow completed", "gameID", req.Fixture.GameID)

	if tips.EmptyOfConfidence() {
		return fmt.Sprintf("No high-confidence analysis for %s, notified %d/%d channels", req.Fixture.Label(), sent, len(channels)), nil
	}
	return fmt.Sprintf("%d tips for %s, notified %d/%d channels", len(tips.AtLeast(req.MinConfidence)), req.Fixture.Label(), sent, len(channels)), nil
}
