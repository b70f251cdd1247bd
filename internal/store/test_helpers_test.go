package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/syncgo/internal/model"
)

// baseTime anchors test timestamps.
var baseTime = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)

func ctx() context.Context {
	return context.Background()
}

// testTime returns baseTime shifted by the given number of minutes.
func testTime(minutes int) time.Time {
	return baseTime.Add(time.Duration(minutes) * time.Minute)
}

// createTestStore creates a new on-disk store in a temp dir for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestProfile inserts a fresh profile with display name = id.
func createTestProfile(t *testing.T, s *Store, id string) {
	t.Helper()
	if err := s.CreateProfile(ctx(), model.Profile{ID: id, DisplayName: id, CreatedAt: baseTime}); err != nil {
		t.Fatalf("CreateProfile(%s) failed: %v", id, err)
	}
}

// testEvent creates an event with minimal required fields.
func testEvent(id, userID string, visibility model.Visibility, occurredAt time.Time, tags ...string) model.Event {
	return model.Event{
		ID:          id,
		UserID:      userID,
		Title:       "title " + id,
		Description: "description " + id,
		OccurredAt:  occurredAt,
		Tags:        tags,
		Visibility:  visibility,
		CreatedAt:   occurredAt,
	}
}

func createTestEvent(t *testing.T, s *Store, e model.Event) {
	t.Helper()
	if err := s.CreateEvent(ctx(), e); err != nil {
		t.Fatalf("CreateEvent(%s) failed: %v", e.ID, err)
	}
}

func eventIDs(events []model.Event) []string {
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}
