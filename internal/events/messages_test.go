package events

import (
	"testing"
	"time"
)

func TestChangeRoundTrip(t *testing.T) {
	change := NewChange("transaction", "created", "1700000000000-123456")
	if change.Timestamp.IsZero() {
		t.Error("NewChange did not stamp the message")
	}

	raw, err := change.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := ChangeFromJSON(raw)
	if err != nil {
		t.Fatalf("ChangeFromJSON: %v", err)
	}
	if decoded.Entity != "transaction" || decoded.Op != "created" || decoded.ID != change.ID {
		t.Errorf("decoded = %+v", decoded)
	}
	if !decoded.Timestamp.Equal(change.Timestamp.Truncate(time.Nanosecond)) {
		t.Errorf("timestamp drifted: %v != %v", decoded.Timestamp, change.Timestamp)
	}
}

func TestChangeFromJSONRejectsGarbage(t *testing.T) {
	if _, err := ChangeFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
