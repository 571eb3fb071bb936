package service

import (
	"errors"
	"testing"

	"github.com/sakif/checkin-bot/internal/apperror"
	"github.com/sakif/checkin-bot/internal/model"
)

// seedRecord plants a record directly in the service store, bypassing the
// engine, so leaderboard tests control every field.
func seedRecord(svc *CheckinService, contextID, userID string, rec *model.CheckInRecord) {
	svc.store.GetOrCreate(contextID).Put(userID, rec)
}

func TestRank_SortsDescendingWithStableTies(t *testing.T) {
	svc, _ := newTestService(t)
	seedRecord(svc, "group_1", "a", &model.CheckInRecord{DisplayName: "A", MonthRewards: 5})
	seedRecord(svc, "group_1", "b", &model.CheckInRecord{DisplayName: "B", MonthRewards: 9})
	seedRecord(svc, "group_1", "c", &model.CheckInRecord{DisplayName: "C", MonthRewards: 9})

	entries, err := svc.Rank("group_1", MetricMonthRewards, "2025-03-07", 10)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	want := []string{"b", "c", "a"} // tie between b and c keeps insertion order
	if len(entries) != len(want) {
		t.Fatalf("Rank() returned %d entries, want %d", len(entries), len(want))
	}
	for i, userID := range want {
		if entries[i].UserID != userID {
			t.Errorf("position %d = %s, want %s (full order %v)", i+1, entries[i].UserID, userID, entries)
		}
	}
}

func TestRank_AppliesLimit(t *testing.T) {
	svc, _ := newTestService(t)
	for i, id := range []string{"a", "b", "c", "d", "e"} {
		seedRecord(svc, "group_1", id, &model.CheckInRecord{MonthRewards: i})
	}

	entries, err := svc.Rank("group_1", MetricMonthRewards, "2025-03-07", 3)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Rank() returned %d entries, want 3", len(entries))
	}
	if entries[0].UserID != "e" || entries[0].Value != 4 {
		t.Errorf("top entry = %+v, want user e with 4", entries[0])
	}
}

func TestRank_DefaultLimit(t *testing.T) {
	svc, _ := newTestService(t)
	for i := 0; i < 15; i++ {
		seedRecord(svc, "group_1", string(rune('a'+i)), &model.CheckInRecord{MonthRewards: i})
	}

	entries, err := svc.Rank("group_1", MetricMonthRewards, "2025-03-07", 0)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(entries) != DefaultRankLimit {
		t.Errorf("Rank() with limit 0 returned %d entries, want %d", len(entries), DefaultRankLimit)
	}
}

func TestRank_EmptyContext(t *testing.T) {
	svc, _ := newTestService(t)

	entries, err := svc.Rank("group_never_seen", MetricMonthRewards, "2025-03-07", 10)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Rank() on unknown context returned %d entries, want 0", len(entries))
	}
}

func TestRank_UnknownMetric(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Rank("group_1", Metric("elo"), "2025-03-07", 10)
	if err == nil {
		t.Fatal("Rank() with unknown metric should error")
	}
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestRank_AllMetrics(t *testing.T) {
	svc, _ := newTestService(t)
	seedRecord(svc, "group_1", "a", &model.CheckInRecord{
		TotalDays: 10, MonthDays: 3, TotalRewards: 50, MonthRewards: 9,
		ContinuousDays: 4, LastCheckin: "2025-03-07",
	})
	seedRecord(svc, "group_1", "b", &model.CheckInRecord{
		TotalDays: 20, MonthDays: 1, TotalRewards: 30, MonthRewards: 2,
		ContinuousDays: 9, LastCheckin: "2025-03-06",
	})

	tests := []struct {
		metric    Metric
		wantFirst string
		wantValue int
	}{
		{MetricMonthRewards, "a", 9},
		{MetricTotalRewards, "a", 50},
		{MetricTotalDays, "b", 20},
		{MetricMonthDays, "a", 3},
	}
	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			entries, err := svc.Rank("group_1", tt.metric, "2025-03-07", 10)
			if err != nil {
				t.Fatalf("Rank() error = %v", err)
			}
			if entries[0].UserID != tt.wantFirst || entries[0].Value != tt.wantValue {
				t.Errorf("top = %+v, want %s with %d", entries[0], tt.wantFirst, tt.wantValue)
			}
		})
	}
}

func TestRank_TodayStreakFiltersToToday(t *testing.T) {
	svc, _ := newTestService(t)
	seedRecord(svc, "group_1", "today1", &model.CheckInRecord{ContinuousDays: 2, LastCheckin: "2025-03-07"})
	seedRecord(svc, "group_1", "stale", &model.CheckInRecord{ContinuousDays: 30, LastCheckin: "2025-03-01"})
	seedRecord(svc, "group_1", "today2", &model.CheckInRecord{ContinuousDays: 7, LastCheckin: "2025-03-07"})

	entries, err := svc.Rank("group_1", MetricTodayStreak, "2025-03-07", 10)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Rank() returned %d entries, want 2 (stale record excluded)", len(entries))
	}
	if entries[0].UserID != "today2" || entries[1].UserID != "today1" {
		t.Errorf("order = [%s %s], want [today2 today1]", entries[0].UserID, entries[1].UserID)
	}
}

func TestRank_DoesNotMutateStore(t *testing.T) {
	svc, _ := newTestService(t)
	seedRecord(svc, "group_1", "a", &model.CheckInRecord{MonthRewards: 1})
	seedRecord(svc, "group_1", "b", &model.CheckInRecord{MonthRewards: 2})

	if _, err := svc.Rank("group_1", MetricMonthRewards, "2025-03-07", 10); err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	table, _ := svc.store.Get("group_1")
	ids := table.UserIDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("store order changed by Rank: %v", ids)
	}
}
