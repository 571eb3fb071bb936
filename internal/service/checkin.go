// Package service contains the business logic layer of the application:
// the check-in state machine and the leaderboard derivation.
//
// The service owns the single live ContextStore. It is loaded once at
// startup (load-or-empty), mutated in place by successful check-ins, and
// flushed to the repository synchronously after every mutation. Handlers
// above know nothing about storage; the repository below knows nothing
// about streaks.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"

	"github.com/sakif/checkin-bot/internal/apperror"
	"github.com/sakif/checkin-bot/internal/model"
	"github.com/sakif/checkin-bot/internal/repository"
)

// Reward bounds: every successful check-in credits a uniform random integer
// in [MinReward, MaxReward] inclusive.
const (
	MinReward = 1
	MaxReward = 10
)

// DefaultRankLimit caps leaderboard output when the caller doesn't say.
const DefaultRankLimit = 10

// CheckInResult reports the outcome of one check-in attempt.
type CheckInResult struct {
	// AlreadyCheckedIn is true when the user has already checked in today.
	// No counters change in that case.
	AlreadyCheckedIn bool
	ContinuousDays   int
	Reward           int
}

// Metric names a numeric record field leaderboards can rank by.
type Metric string

const (
	MetricMonthRewards Metric = "month_rewards"
	MetricTotalRewards Metric = "total_rewards"
	MetricTotalDays    Metric = "total_days"
	MetricMonthDays    Metric = "month_days"

	// MetricTodayStreak ranks only users whose last check-in is today,
	// by their current streak length.
	MetricTodayStreak Metric = "today_streak"
)

// RankEntry is one leaderboard row.
type RankEntry struct {
	UserID      string
	DisplayName string
	Value       int
}

// CheckinService applies check-in events to the shared store and answers
// leaderboard queries over it.
//
// CONCURRENCY:
// The host is expected to deliver commands one at a time, but nothing here
// relies on that. One RWMutex serialises the whole read-modify-write-persist
// unit of a check-in, so a concurrent host cannot lose counter updates.
// Leaderboard queries take the read lock and may run concurrently with each
// other, but never observe a half-applied check-in: the engine mutates a
// clone and installs it in one pointer swap under the write lock.
type CheckinService struct {
	mu     sync.RWMutex
	store  *model.ContextStore
	repo   repository.Store
	logger *slog.Logger

	// reward generates one reward amount. Injectable so tests can pin it;
	// defaults to uniform in [MinReward, MaxReward].
	reward func() int
}

// NewCheckinService loads the store (or starts empty on a storage fault,
// which is logged and otherwise swallowed, since an unreadable data file must
// not keep the bot down) and returns a ready service.
func NewCheckinService(ctx context.Context, repo repository.Store, logger *slog.Logger) *CheckinService {
	store, err := repo.Load(ctx)
	if err != nil {
		fault := apperror.StorageFault("load", err)
		logger.Error("loading check-in data failed, starting with an empty store",
			slog.String("error", fault.Error()),
		)
		store = model.NewContextStore()
	}
	return &CheckinService{
		store:  store,
		repo:   repo,
		logger: logger,
		reward: func() int { return rand.Intn(MaxReward-MinReward+1) + MinReward },
	}
}

// CheckIn applies one check-in event for (contextID, userID) on the given
// calendar date.
//
// The record is mutated as a draft clone; the shared store only sees the
// draft once every step has succeeded, so a fault mid-operation leaves the
// record exactly as it was. Persistence after the commit is best-effort:
// a failed save is logged and in-memory state stays authoritative for the
// rest of the session.
func (s *CheckinService) CheckIn(ctx context.Context, contextID, userID, displayName string, today model.Date) (*CheckInResult, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userID", "sender ID is required")
	}
	if today.IsZero() {
		return nil, apperror.ValidationFailed("today", "check-in date is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.store.GetOrCreate(contextID)

	draft := &model.CheckInRecord{}
	if existing, ok := table.Get(userID); ok {
		draft = existing.Clone()
	}

	// The display name tracks whatever the host says the sender is called
	// right now; it refreshes even on a rejected duplicate.
	draft.DisplayName = displayName

	if draft.LastCheckin == today {
		table.Put(userID, draft)
		return &CheckInResult{
			AlreadyCheckedIn: true,
			ContinuousDays:   draft.ContinuousDays,
		}, nil
	}

	// Streak: only a gap of exactly one day continues it. Same-day is
	// blocked above; everything else (2+ days, a clock that ran backwards,
	// a malformed stored date) resets to 1.
	if draft.LastCheckin.IsZero() {
		draft.ContinuousDays = 1
	} else if today.DaysSince(draft.LastCheckin) == 1 {
		draft.ContinuousDays++
	} else {
		draft.ContinuousDays = 1
	}

	// Month rollover resets the monthly counters before this check-in's
	// increments land, so the new month opens at 1 day / first reward.
	if !draft.LastCheckin.IsZero() && !draft.LastCheckin.SameMonth(today) {
		draft.MonthDays = 0
		draft.MonthRewards = 0
	}

	reward := s.reward()
	if reward < MinReward || reward > MaxReward {
		return nil, apperror.ServiceFault(fmt.Errorf("reward %d outside [%d, %d]", reward, MinReward, MaxReward))
	}

	draft.TotalDays++
	draft.MonthDays++
	draft.TotalRewards += reward
	draft.MonthRewards += reward
	draft.LastCheckin = today

	// Commit point: the shared store sees the fully updated record only now.
	table.Put(userID, draft)

	if err := s.repo.Save(ctx, s.store); err != nil {
		fault := apperror.StorageFault("save", err)
		s.logger.Error("persisting check-in data failed, in-memory state kept",
			slog.String("context", contextID),
			slog.String("user", userID),
			slog.String("error", fault.Error()),
		)
	}

	s.logger.Info("check-in applied",
		slog.String("context", contextID),
		slog.String("user", userID),
		slog.Int("streak", draft.ContinuousDays),
		slog.Int("reward", reward),
	)

	return &CheckInResult{
		ContinuousDays: draft.ContinuousDays,
		Reward:         reward,
	}, nil
}

// Rank returns up to limit leaderboard rows for a context, sorted
// descending by metric. Ties keep the order users were first seen in the
// context (the store preserves it), and a context with no records yields
// an empty slice. Rank never mutates the store.
//
// today is only consulted by MetricTodayStreak; other metrics ignore it.
func (s *CheckinService) Rank(contextID string, metric Metric, today model.Date, limit int) ([]RankEntry, error) {
	value, err := metricValue(metric)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRankLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := []RankEntry{}
	table, ok := s.store.Get(contextID)
	if !ok {
		return entries, nil
	}

	for _, userID := range table.UserIDs() {
		rec, _ := table.Get(userID)
		if metric == MetricTodayStreak && rec.LastCheckin != today {
			continue
		}
		entries = append(entries, RankEntry{
			UserID:      userID,
			DisplayName: rec.DisplayName,
			Value:       value(rec),
		})
	}

	// Stable sort: equal values keep their gathered (insertion) order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// metricValue maps a metric name to its record accessor.
func metricValue(m Metric) (func(*model.CheckInRecord) int, error) {
	switch m {
	case MetricMonthRewards:
		return func(r *model.CheckInRecord) int { return r.MonthRewards }, nil
	case MetricTotalRewards:
		return func(r *model.CheckInRecord) int { return r.TotalRewards }, nil
	case MetricTotalDays:
		return func(r *model.CheckInRecord) int { return r.TotalDays }, nil
	case MetricMonthDays:
		return func(r *model.CheckInRecord) int { return r.MonthDays }, nil
	case MetricTodayStreak:
		return func(r *model.CheckInRecord) int { return r.ContinuousDays }, nil
	default:
		return nil, apperror.ValidationFailed("metric", fmt.Sprintf("unknown leaderboard metric %q", m))
	}
}
