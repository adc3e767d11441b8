package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fare-tracker-service/internal/domain/entity"
	"fare-tracker-service/internal/domain/repository"
	"fare-tracker-service/pkg/logger"
	"fare-tracker-service/templates"
)

// WebhookNotifier publishes run outcomes to an ntfy-style topic endpoint
type WebhookNotifier struct {
	logger  logger.Logger
	baseURL string
	topic   string
	client  *http.Client
}

// NewWebhookNotifier creates a notifier posting to {baseURL}/{topic}
func NewWebhookNotifier(baseURL, topic string, timeout time.Duration, logger logger.Logger) repository.Notifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WebhookNotifier{
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		topic:   strings.Trim(topic, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Notify renders the run report and posts it as plain text
func (n *WebhookNotifier) Notify(ctx context.Context, report *entity.RunReport) error {
	msg, err := templates.RenderRunNotification(report)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s", n.baseURL, n.topic)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(msg.Body))
	if err != nil {
		return fmt.Errorf("failed to create notification request: %w", err)
	}

	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Title", msg.Title)
	req.Header.Set("Tags", msg.Tags)
	req.Header.Set("Priority", msg.Priority)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notification endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	n.logger.Info("Notification sent",
		"runId", report.RunID,
		"status", report.Status,
		"topic", n.topic)

	return nil
}

// NoopNotifier drops every notification
type NoopNotifier struct {
	logger logger.Logger
}

// NewNoopNotifier is used when no notification endpoint is configured
func NewNoopNotifier(logger logger.Logger) repository.Notifier {
	return &NoopNotifier{logger: logger}
}

func (n *NoopNotifier) Notify(ctx context.Context, report *entity.RunReport) error {
	n.logger.Debug("Notifications disabled, skipping", "runId", report.RunID, "status", report.Status)
	return nil
}
