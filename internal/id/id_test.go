package id

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	got, err := Generate("cal")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !strings.HasPrefix(got, "cal-") {
		t.Errorf("expected prefix cal-, got %q", got)
	}

	// prefix + dash + 21-char nanoid
	if len(got) != len("cal-")+21 {
		t.Errorf("unexpected length %d for %q", len(got), got)
	}
}

func TestGenerateUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id, err := Generate("door")
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestShareToken(t *testing.T) {
	token, err := ShareToken()
	if err != nil {
		t.Fatalf("ShareToken: %v", err)
	}

	if len(token) != shareTokenLength {
		t.Errorf("expected %d chars, got %d", shareTokenLength, len(token))
	}

	other, err := ShareToken()
	if err != nil {
		t.Fatalf("ShareToken: %v", err)
	}
	if token == other {
		t.Error("two share tokens should not collide")
	}
}
