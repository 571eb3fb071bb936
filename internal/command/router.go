// Package command maps inbound chat commands to check-in operations and
// formats the reply text. It is the single fault boundary of the bot: no
// error, however unexpected, escapes Dispatch. The worst a user ever sees
// is the generic "temporarily unavailable" line, and the worst the process
// ever does is log.
package command

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/checkin-bot/internal/model"
)

// UnavailableReply is the generic user-facing line for any internal fault.
// Operators get the real error in the log; users get this.
const UnavailableReply = "🔧 Check-in service is temporarily unavailable."

// Handler processes one command event and returns zero or more reply lines.
type Handler func(ev *model.Event) ([]string, error)

// Router dispatches command text to registered handlers.
type Router struct {
	logger   *slog.Logger
	handlers map[string]Handler // primary names and aliases share the map
}

// NewRouter returns an empty router.
func NewRouter(logger *slog.Logger) *Router {
	return &Router{
		logger:   logger,
		handlers: make(map[string]Handler),
	}
}

// Register binds a handler to a primary command name and its aliases.
// Names are matched case-insensitively.
func (r *Router) Register(name string, aliases []string, h Handler) {
	r.handlers[strings.ToLower(name)] = h
	for _, alias := range aliases {
		r.handlers[strings.ToLower(alias)] = h
	}
}

// Dispatch runs the handler for the event's command and returns its replies.
// Unknown commands (and events with no command at all) produce no reply.
//
// Dispatch is the fault boundary: a handler error or panic is logged in
// full and demoted to the generic unavailable reply. Nothing propagates to
// the caller, so a single bad event can never take the bot down.
func (r *Router) Dispatch(ev *model.Event) (replies []string) {
	name := commandName(ev)
	if name == "" {
		return nil
	}
	handler, ok := r.handlers[name]
	if !ok {
		return nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("command handler panicked",
				slog.String("command", name),
				slog.Any("panic", rec),
			)
			replies = []string{UnavailableReply}
		}
	}()

	replies, err := handler(ev)
	if err != nil {
		r.logger.Error("command failed",
			slog.String("command", name),
			slog.String("error", fmt.Sprintf("%+v", err)),
		)
		return []string{UnavailableReply}
	}
	return replies
}

// commandName extracts the command token from the event text:
// "/checkin please" → "checkin". Empty when there is no text.
func commandName(ev *model.Event) string {
	if ev == nil {
		return ""
	}
	text := strings.TrimSpace(ev.Text)
	text = strings.TrimPrefix(text, "/")
	if text == "" {
		return ""
	}
	name, _, _ := strings.Cut(text, " ")
	return strings.ToLower(name)
}
