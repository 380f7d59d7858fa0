package main

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordProducesVerifiableHash(t *testing.T) {
	out, err := runCLI(t, []string{"hash-password", "review-secret"}, "")
	if err != nil {
		t.Fatalf("hash-password: %v", err)
	}
	hash := strings.TrimSpace(out)
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("review-secret")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := runCLI(t, []string{"hash-password", "   "}, ""); err == nil {
		t.Fatal("expected error for blank password")
	}
}
