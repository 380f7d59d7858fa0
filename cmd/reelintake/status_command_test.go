package main

import (
	"testing"
)

func TestStatusCommandReportsChecksAndCounts(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedSubmission(t, "status")

	out, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Environment ==")
	requireContains(t, out, "== Submissions ==")
	requireContains(t, out, "Total:")
	requireContains(t, out, "[INFO] 1")
}

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Data directory", statusOK, "writable", false)
	requireContains(t, line, "Data directory:")
	requireContains(t, line, "[OK] writable")

	colored := renderStatusLine("Data directory", statusError, "", true)
	requireContains(t, colored, ansiRed)
	requireContains(t, colored, "[ERROR]")
}

func TestStatusLabel(t *testing.T) {
	if got := statusLabel("in-review"); got != "In Review" {
		t.Fatalf("statusLabel(in-review) = %q", got)
	}
	if got := statusLabel("new"); got != "New" {
		t.Fatalf("statusLabel(new) = %q", got)
	}
}
