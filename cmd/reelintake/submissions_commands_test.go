package main

import (
	"context"
	"testing"
)

func TestSubmissionsListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, []string{"submissions", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("submissions list: %v", err)
	}
	requireContains(t, out, "No submissions found")
}

func TestSubmissionsLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)
	id := env.seedSubmission(t, "cli")

	out, err := runCLI(t, []string{"submissions", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("submissions list: %v", err)
	}
	requireContains(t, out, "client-cli@example.com")
	requireContains(t, out, "New")

	out, err = runCLI(t, []string{"submissions", "set-status", shortID(id), "in-review"}, env.configPath)
	if err != nil {
		t.Fatalf("set-status: %v", err)
	}
	requireContains(t, out, "In Review")

	out, err = runCLI(t, []string{"submissions", "note", id, "looks", "promising"}, env.configPath)
	if err != nil {
		t.Fatalf("note: %v", err)
	}
	requireContains(t, out, "Added note")

	out, err = runCLI(t, []string{"submissions", "show", id}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Client cli")
	requireContains(t, out, "looks promising")
	requireContains(t, out, "In Review")

	if _, err := runCLI(t, []string{"submissions", "delete", id}, env.configPath); err == nil {
		t.Fatal("expected delete without --yes to fail")
	}

	out, err = runCLI(t, []string{"submissions", "delete", "--yes", id}, env.configPath)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	requireContains(t, out, "Deleted submission")

	st := env.openStore(t)
	defer st.Close()
	sub, err := st.GetSubmission(context.Background(), id)
	if err != nil {
		t.Fatalf("get submission: %v", err)
	}
	if sub != nil {
		t.Fatal("expected submission to be gone after delete")
	}
}

func TestSubmissionsShowUnknownID(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, err := runCLI(t, []string{"submissions", "show", "does-not-exist"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown submission id")
	}
}

func TestSubmissionsListRejectsUnknownStatus(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, err := runCLI(t, []string{"submissions", "list", "--status", "bogus"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown status filter")
	}
}
