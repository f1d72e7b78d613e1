package id

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	got, err := Generate("bk")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !strings.HasPrefix(got, "bk-") {
		t.Errorf("expected bk- prefix, got %q", got)
	}

	// prefix + "-" + 21 char nanoid
	if len(got) != len("bk-")+21 {
		t.Errorf("unexpected length %d for %q", len(got), got)
	}
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := MustGenerate("tag")
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestIsTemp(t *testing.T) {
	if !IsTemp("temp-abc123") {
		t.Error("expected temp-abc123 to be temp")
	}
	if IsTemp("bk-abc123") {
		t.Error("expected bk-abc123 to not be temp")
	}
}
