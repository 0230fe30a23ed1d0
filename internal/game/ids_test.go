package game

import (
	"errors"
	"testing"
)

func TestNewIDRetriesOnce(t *testing.T) {
	calls := 0
	id, err := newID(func(string) bool {
		calls++
		return calls == 1
	})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty id")
	}
	if calls != 2 {
		t.Fatalf("expected exactly one retry, got %d calls", calls)
	}
}

func TestNewIDConflictAfterRetry(t *testing.T) {
	_, err := newID(func(string) bool { return true })
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id, err := newID(nil)
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}
}
