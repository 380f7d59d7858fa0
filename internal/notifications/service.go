package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reelintake/internal/config"
)

const userAgent = "ReelIntake-Go/0.1.0"

// Service defines the notification surface exposed to the intake and review
// components.
type Service interface {
	NotifySubmissionReceived(ctx context.Context, name, email, submissionID string) error
	NotifyPartialFailure(ctx context.Context, submissionID, detail string) error
	NotifyStatusChanged(ctx context.Context, submissionID, status string) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint:    topic,
		client:      client,
		submissions: cfg.Notifications.Submissions,
		errors:      cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint    string
	client      *http.Client
	submissions bool
	errors      bool
}

func (n *ntfyService) NotifySubmissionReceived(ctx context.Context, name, email, submissionID string) error {
	if !n.submissions {
		return nil
	}
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	data := payload{
		title:   "Reel Intake - New Submission",
		message: fmt.Sprintf("New submission from %s (%s)\nID: %s", name, email, submissionID),
		tags:    []string{"reelintake", "submission", "received"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPartialFailure(ctx context.Context, submissionID, detail string) error {
	if !n.errors {
		return nil
	}
	detail = strings.TrimSpace(detail)
	if detail == "" {
		detail = "child records could not be stored"
	}
	data := payload{
		title:    "Reel Intake - Partial Submission",
		message:  fmt.Sprintf("Submission %s saved with missing child records: %s", submissionID, detail),
		tags:     []string{"reelintake", "submission", "partial"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyStatusChanged(ctx context.Context, submissionID, status string) error {
	if !n.submissions {
		return nil
	}
	data := payload{
		title:   "Reel Intake - Status Updated",
		message: fmt.Sprintf("Submission %s moved to %s", submissionID, status),
		tags:    []string{"reelintake", "review", "status"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Reel Intake - Error",
		message:  builder.String(),
		tags:     []string{"reelintake", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Reel Intake - Test",
		message:  "Notification system test",
		tags:     []string{"reelintake", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifySubmissionReceived(context.Context, string, string, string) error { return nil }
func (noopService) NotifyPartialFailure(context.Context, string, string) error             { return nil }
func (noopService) NotifyStatusChanged(context.Context, string, string) error              { return nil }
func (noopService) NotifyError(context.Context, error, string) error                       { return nil }
func (noopService) TestNotification(context.Context) error                                 { return nil }
