package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reelintake/internal/config"
	"reelintake/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifySubmissionReceived(context.Background(), "Ada", "ada@example.com", "abc-123"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	type captured struct {
		title    string
		tags     string
		priority string
		body     string
	}

	tests := []struct {
		name           string
		notify         func(svc notifications.Service) error
		expectTitle    string
		expectBody     string
		expectTags     string
		expectPriority string
	}{
		{
			name: "submission received",
			notify: func(svc notifications.Service) error {
				return svc.NotifySubmissionReceived(context.Background(), "Ada Example", "ada@example.com", "abc-123")
			},
			expectTitle: "Reel Intake - New Submission",
			expectBody:  "New submission from Ada Example (ada@example.com)\nID: abc-123",
			expectTags:  "reelintake,submission,received",
		},
		{
			name: "partial failure",
			notify: func(svc notifications.Service) error {
				return svc.NotifyPartialFailure(context.Background(), "abc-123", "reel examples missing")
			},
			expectTitle:    "Reel Intake - Partial Submission",
			expectBody:     "Submission abc-123 saved with missing child records: reel examples missing",
			expectTags:     "reelintake,submission,partial",
			expectPriority: "high",
		},
		{
			name: "status changed",
			notify: func(svc notifications.Service) error {
				return svc.NotifyStatusChanged(context.Background(), "abc-123", "in-review")
			},
			expectTitle: "Reel Intake - Status Updated",
			expectBody:  "Submission abc-123 moved to in-review",
			expectTags:  "reelintake,review,status",
		},
		{
			name: "error",
			notify: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("datastore unreachable"), "submit")
			},
			expectTitle:    "Reel Intake - Error",
			expectBody:     "Error with submit: datastore unreachable",
			expectTags:     "reelintake,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got captured
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				got.title = r.Header.Get("Title")
				got.tags = r.Header.Get("Tags")
				got.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				got.body = string(body)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(&cfg)
			if err := tc.notify(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if got.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, got.title)
			}
			if got.body != tc.expectBody {
				t.Fatalf("expected body %q, got %q", tc.expectBody, got.body)
			}
			if got.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, got.tags)
			}
			if got.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, got.priority)
			}
		})
	}
}

func TestNtfyServiceHonorsCategoryToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for disabled category: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Submissions = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	if err := svc.NotifySubmissionReceived(context.Background(), "Ada", "ada@example.com", "abc-123"); err != nil {
		t.Fatalf("expected nil for disabled submissions, got %v", err)
	}
	if err := svc.NotifyError(context.Background(), errors.New("boom"), "submit"); err != nil {
		t.Fatalf("expected nil for disabled errors, got %v", err)
	}
}

func TestNtfyServiceReportsServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("forbidden"))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	err := svc.TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected status in error, got %v", err)
	}
}
