package tips

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
)

// Activities are the side effects of TipAlertWorkflow. Register a value with
// the worker; workflows reference the methods through a nil *Activities.
type Activities struct {
	Service         TipService
	SlackWebhookURL string
}

// FetchTips gets the analysis of a game from the tip service
func (a *Activities) FetchTips(ctx context.Context, gameID string) (TipList, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Fetching tips", "gameID", gameID)

	tips, err := a.Service.AnalyzeGame(ctx, gameID)
	if err != nil {
		var rejection *AnalysisRejection
		if errors.As(err, &rejection) && rejection.StatusCode >= 400 && rejection.StatusCode < 500 {
			// the game is unknown to the service; asking again will not help
			return nil, temporal.NewNonRetryableApplicationError("analysis rejected", "AnalysisRejection", err)
		}
		return nil, fmt.Errorf("failed to fetch tips: %w", err)
	}

	logger.Info("Fetched tips", "gameID", gameID, "count", len(tips))
	return tips, nil
}

// SendNotificationList delivers the notifications on one channel: "logger" or "slack"
func (a *Activities) SendNotificationList(ctx context.Context, sendNotifications SendNotifications) error {
	logger := activity.GetLogger(ctx)

	switch sendNotifications.Channel {
	case "logger":
		for _, n := range sendNotifications.NotificationList {
			logger.Info("Tip notification", "title", n.Title, "message", n.Message)
		}
		return nil
	case "slack":
		if a.SlackWebhookURL == "" {
			return temporal.NewNonRetryableApplicationError("SLACK_WEBHOOK_URL is not set", "ConfigurationError", nil)
		}
		for _, n := range sendNotifications.NotificationList {
			msg := &slack.WebhookMessage{
				Text: fmt.Sprintf("*%s*\n%s", n.Title, n.Message),
			}
			if err := slack.PostWebhookContext(ctx, a.SlackWebhookURL, msg); err != nil {
				return fmt.Errorf("failed to post to slack: %w", err)
			}
			logger.Info("Slack notification sent", "title", n.Title)
		}
		return nil
	}

	return temporal.NewNonRetryableApplicationError(
		fmt.Sprintf("unknown notification channel %q", sendNotifications.Channel), "UnknownChannel", nil)
}

// buildTipNotification formats the tips kept for an alert. Tips below
// minConfidence are left out.
func buildTipNotification(req TipAlertRequest, tips TipList) Notification {
	notification := Notification{
		Title: "Tips: " + req.Fixture.Label(),
	}

	if tips.EmptyOfConfidence() {
		notification.Message = InsufficientData
		return notification
	}

	kept := tips.AtLeast(req.MinConfidence)
	if len(kept) == 0 {
		notification.Message = fmt.Sprintf("No tips at or above %d%% confidence.", req.MinConfidence)
		return notification
	}

	// Each tip looks like this:
	// • Goals: Over 2.5 (72%)
	//   _Both sides average three goals a game_
	var sb strings.Builder
	for i, t := range kept {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "• %s: %s (%d%%)", t.Market, t.Suggestion, t.Confidence)
		if t.Justification != "" {
			fmt.Fprintf(&sb, "\n  _%s_", t.Justification)
		}
	}
	notification.Message = sb.String()
	return notification
}
