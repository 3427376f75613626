package core

import (
	"testing"
	"time"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 1000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	if len(id.String()) != 36 {
		t.Errorf("Expected UUID string of length 36, got %q", id.String())
	}
}

func TestNewHash_Deterministic(t *testing.T) {
	a := NewHash([]byte("price"))
	b := NewHash([]byte("price"))
	if a != b {
		t.Errorf("Hashes differ for identical input: %s vs %s", a, b)
	}
	if len(a.Short()) != 12 {
		t.Errorf("Expected 12-char short hash, got %q", a.Short())
	}
	if a == NewHash([]byte("carat")) {
		t.Error("Different inputs produced identical hashes")
	}
}

func TestTimestamp_TextRoundTrip(t *testing.T) {
	ts := Timestamp(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC))
	text, err := ts.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	if string(text) != "2024-05-01T12:30:00Z" {
		t.Errorf("Unexpected timestamp text: %s", text)
	}
	var back Timestamp
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if !back.Time().Equal(ts.Time()) {
		t.Errorf("Round trip mismatch: %v vs %v", back.Time(), ts.Time())
	}
}
