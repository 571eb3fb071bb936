package command

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/checkin-bot/internal/apperror"
	"github.com/sakif/checkin-bot/internal/model"
	"github.com/sakif/checkin-bot/internal/resolver"
	"github.com/sakif/checkin-bot/internal/service"
)

// unknownName is shown on leaderboards for records whose display name was
// never captured (data imported from older files can have it blank).
const unknownName = "unknown"

// Commands wires the bot's command set to the check-in service.
type Commands struct {
	svc    *service.CheckinService
	logger *slog.Logger

	// today supplies the current calendar date. Injectable so tests can
	// drive the engine through specific days.
	today func() model.Date
}

// New creates the command set.
func New(svc *service.CheckinService, logger *slog.Logger) *Commands {
	return &Commands{
		svc:    svc,
		logger: logger,
		today:  model.Today,
	}
}

// resolveContext maps the event to its conversation context. Events with no
// routing fields at all still work, but land in the shared default context;
// that is worth a warning because those records pool together.
func (c *Commands) resolveContext(ev *model.Event) string {
	id := resolver.Resolve(ev)
	if id == resolver.DefaultContext {
		fault := apperror.ResolutionFault("event carries no routing fields, using the shared default context")
		c.logger.Warn(fault.Error())
	}
	return id
}

// Register binds the command set to a router. The extended leaderboards are
// off by default and only registered when enabled in config.
func (c *Commands) Register(r *Router, extended bool) {
	r.Register("checkin", []string{"ci"}, c.CheckIn)
	r.Register("handbook", []string{"tip"}, c.Handbook)
	r.Register("leaderboard", []string{"lb"}, c.leaderboard(
		service.MetricMonthRewards, "🌎 Medal leaderboard — this month", "medals"))

	if extended {
		r.Register("leaderboard-total", []string{"lbt"}, c.leaderboard(
			service.MetricTotalRewards, "🌎 Medal leaderboard — all time", "medals"))
		r.Register("leaderboard-days", []string{"lbd"}, c.leaderboard(
			service.MetricTotalDays, "🏆 Check-in days — all time", "days"))
		r.Register("leaderboard-month-days", []string{"lbmd"}, c.leaderboard(
			service.MetricMonthDays, "🏆 Check-in days — this month", "days"))
		r.Register("leaderboard-today", []string{"lbtd"}, c.todayLeaderboard)
	}
}

// CheckIn runs the daily check-in for the event's sender in the event's
// context.
func (c *Commands) CheckIn(ev *model.Event) ([]string, error) {
	contextID := c.resolveContext(ev)
	result, err := c.svc.CheckIn(context.Background(), contextID, ev.SenderID, ev.SenderName, c.today())
	if err != nil {
		return nil, err
	}

	if result.AlreadyCheckedIn {
		return []string{
			"Terminal denied the request: duplicate check-in.\n" +
				"❕ Try /leaderboard to see this month's medal rankings.",
		}, nil
	}

	reply := fmt.Sprintf(
		"✅ Check-in complete!\n"+
			"Democracy salutes you, %s\n"+
			"🌎 Terminal note: you have spread managed democracy for %d day(s) straight\n"+
			"🎖️ War bond medals earned: %d\n"+
			"🔊 Handbook tip: %s",
		ev.SenderName, result.ContinuousDays, result.Reward, service.PickMessage(),
	)
	return []string{reply}, nil
}

// Handbook replies with one random training tip.
func (c *Commands) Handbook(_ *model.Event) ([]string, error) {
	return []string{"🔊 Handbook tip: " + service.PickMessage()}, nil
}

// leaderboard builds a handler for one ranking metric.
func (c *Commands) leaderboard(metric service.Metric, header, unit string) Handler {
	return func(ev *model.Event) ([]string, error) {
		contextID := c.resolveContext(ev)
		entries, err := c.svc.Rank(contextID, metric, c.today(), service.DefaultRankLimit)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return []string{"No check-ins recorded here yet. Be the first: /checkin"}, nil
		}

		lines := []string{header}
		for i, entry := range entries {
			lines = append(lines, fmt.Sprintf("%d. Diver %s - %d %s",
				i+1, displayName(entry), entry.Value, unit))
		}
		return []string{strings.Join(lines, "\n")}, nil
	}
}

// todayLeaderboard ranks only today's check-ins, by streak length.
func (c *Commands) todayLeaderboard(ev *model.Event) ([]string, error) {
	contextID := c.resolveContext(ev)
	entries, err := c.svc.Rank(contextID, service.MetricTodayStreak, c.today(), service.DefaultRankLimit)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []string{"Nobody has checked in here today. Be the first: /checkin"}, nil
	}

	lines := []string{"🏆 Today's check-ins"}
	for i, entry := range entries {
		lines = append(lines, fmt.Sprintf("%d. Diver %s - %d day(s) straight",
			i+1, displayName(entry), entry.Value))
	}
	return []string{strings.Join(lines, "\n")}, nil
}

func displayName(entry service.RankEntry) string {
	if entry.DisplayName == "" {
		return unknownName
	}
	return entry.DisplayName
}
