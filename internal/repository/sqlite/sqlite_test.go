package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/checkin-bot/internal/model"
)

// newTestStore gives each test its own in-memory database, destroyed when
// the connection closes.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadEmptyDatabase(t *testing.T) {
	s := newTestStore(t)

	store, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Load() on empty db returned %d contexts, want 0", store.Len())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	want := model.NewContextStore()
	group := want.GetOrCreate("group_42")
	group.Put("u1", &model.CheckInRecord{
		DisplayName:    "Alice",
		TotalDays:      3,
		ContinuousDays: 3,
		MonthDays:      3,
		TotalRewards:   17,
		MonthRewards:   17,
		LastCheckin:    "2025-03-07",
	})
	group.Put("u2", &model.CheckInRecord{DisplayName: "Bob", TotalDays: 1, ContinuousDays: 1})
	want.GetOrCreate("private_7").Put("u3", &model.CheckInRecord{DisplayName: "Carol"})

	if err := s.Save(context.Background(), want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	for _, contextID := range want.ContextIDs() {
		wantTable, _ := want.Get(contextID)
		gotTable, ok := got.Get(contextID)
		if !ok {
			t.Fatalf("context %s missing after round-trip", contextID)
		}
		for _, userID := range wantTable.UserIDs() {
			wantRec, _ := wantTable.Get(userID)
			gotRec, ok := gotTable.Get(userID)
			if !ok {
				t.Fatalf("record %s/%s missing after round-trip", contextID, userID)
			}
			if *gotRec != *wantRec {
				t.Errorf("record %s/%s = %+v, want %+v", contextID, userID, gotRec, wantRec)
			}
		}
	}
}

func TestSavePreservesInsertionOrderAcrossUpdates(t *testing.T) {
	s := newTestStore(t)

	store := model.NewContextStore()
	table := store.GetOrCreate("group_1")
	table.Put("first", &model.CheckInRecord{DisplayName: "First", TotalDays: 1})
	table.Put("second", &model.CheckInRecord{DisplayName: "Second", TotalDays: 1})
	if err := s.Save(context.Background(), store); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Updating the first user must not move them behind the second; the
	// upsert keeps the original row's seq.
	rec, _ := table.Get("first")
	rec.TotalDays = 2
	table.Put("first", rec)
	if err := s.Save(context.Background(), store); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	gotTable, _ := got.Get("group_1")
	ids := gotTable.UserIDs()
	if len(ids) != 2 || ids[0] != "first" || ids[1] != "second" {
		t.Errorf("user order after update = %v, want [first second]", ids)
	}
	gotRec, _ := gotTable.Get("first")
	if gotRec.TotalDays != 2 {
		t.Errorf("TotalDays after update = %d, want 2", gotRec.TotalDays)
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	store := model.NewContextStore()
	store.GetOrCreate("group_1").Put("u1", &model.CheckInRecord{DisplayName: "A", TotalDays: 1})

	for i := 0; i < 3; i++ {
		if err := s.Save(context.Background(), store); err != nil {
			t.Fatalf("Save() #%d error = %v", i+1, err)
		}
	}

	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	table, _ := got.Get("group_1")
	if table.Len() != 1 {
		t.Errorf("repeated saves produced %d rows, want 1", table.Len())
	}
}
