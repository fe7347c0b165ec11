package pin

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/evcraddock/reach/internal/db"
)

func TestInsertAndGet(t *testing.T) {
	repo := testSetup(t)
	ctx := context.Background()

	p := mustNew(t, Input{
		Latitude: 39.74, Longitude: -104.99,
		ResidenceType: Duplex, AnswerStatus: Answered, ResponseType: Negative,
		Notes: "dog in yard", TeamID: "north", CreatedBy: "sam",
	}, time.Date(2025, 9, 10, 9, 0, 0, 0, time.UTC))

	if err := repo.Insert(ctx, p); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("id = %s, want %s", got.ID, p.ID)
	}
	if got.ResidenceType != Duplex || got.AnswerStatus != Answered || got.ResponseType != Negative {
		t.Errorf("enums = %q/%q/%q", got.ResidenceType, got.AnswerStatus, got.ResponseType)
	}
	if got.Latitude != 39.74 || got.Longitude != -104.99 {
		t.Errorf("coords = %v,%v", got.Latitude, got.Longitude)
	}
	if !got.Timestamp.Equal(p.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, p.Timestamp)
	}
	if got.Notes != "dog in yard" || got.TeamID != "north" || got.CreatedBy != "sam" {
		t.Errorf("notes/team/creator = %q/%q/%q", got.Notes, got.TeamID, got.CreatedBy)
	}
}

func TestGetNotFound(t *testing.T) {
	repo := testSetup(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListOrderByTimestampDesc(t *testing.T) {
	repo := testSetup(t)
	ctx := context.Background()

	base := time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)
	offsets := []time.Duration{0, 48 * time.Hour, 24 * time.Hour}
	for _, off := range offsets {
		p := mustNew(t, Input{ResidenceType: House, AnswerStatus: NoAnswer}, base.Add(off))
		if err := repo.Insert(ctx, p); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	pins, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pins) != 3 {
		t.Fatalf("got %d pins, want 3", len(pins))
	}
	if !pins[0].Timestamp.Equal(base.Add(48 * time.Hour)) {
		t.Errorf("first = %v, want newest", pins[0].Timestamp)
	}
	if !pins[2].Timestamp.Equal(base) {
		t.Errorf("last = %v, want oldest", pins[2].Timestamp)
	}
}

func TestListEmpty(t *testing.T) {
	repo := testSetup(t)

	pins, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pins) != 0 {
		t.Errorf("got %d pins, want 0", len(pins))
	}
}

func TestListByTeam(t *testing.T) {
	repo := testSetup(t)
	ctx := context.Background()

	for _, team := range []string{"north", "south", "north"} {
		p := mustNew(t, Input{ResidenceType: Hotel, AnswerStatus: Answered, TeamID: team}, time.Now())
		if err := repo.Insert(ctx, p); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	pins, err := repo.ListByTeam(ctx, "north")
	if err != nil {
		t.Fatalf("list by team: %v", err)
	}
	if len(pins) != 2 {
		t.Errorf("got %d pins, want 2", len(pins))
	}
}

func TestListDecodesUnknownEnums(t *testing.T) {
	d := openDB(t)
	repo := NewRepository(d)

	_, err := d.Exec(
		`INSERT INTO pins (id, latitude, longitude, residence_type, answer_status, response_type, timestamp)
		 VALUES (?, 1, 2, 'Mansion', 'Maybe', 'Neutral', ?)`,
		uuid.NewString(), time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("raw insert: %v", err)
	}

	pins, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pins) != 1 {
		t.Fatalf("got %d pins, want 1", len(pins))
	}
	p := pins[0]
	if p.ResidenceType != Other || p.AnswerStatus != NoAnswer || p.ResponseType != Positive {
		t.Errorf("fallbacks = %q/%q/%q, want other/no_answer/positive",
			p.ResidenceType, p.AnswerStatus, p.ResponseType)
	}
}

func TestDelete(t *testing.T) {
	repo := testSetup(t)
	ctx := context.Background()

	p := mustNew(t, Input{ResidenceType: Apartment, AnswerStatus: Answered}, time.Now())
	if err := repo.Insert(ctx, p); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	pins, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pins) != 0 {
		t.Errorf("got %d pins after delete, want 0", len(pins))
	}
}

func TestDeleteNotFound(t *testing.T) {
	repo := testSetup(t)

	err := repo.Delete(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func mustNew(t *testing.T, in Input, now time.Time) *Pin {
	t.Helper()
	p, err := New(in, now)
	if err != nil {
		t.Fatalf("new pin: %v", err)
	}
	return p
}

func testSetup(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(openDB(t))
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return d
}
