// Package resolver derives a stable context ID, the leaderboard isolation
// key, from an inbound message event.
//
// The same group must always map to the same ID no matter which event shape
// the host delivered it in, because the ID is the storage key: change it and
// every user's history "disappears". Resolution is therefore a fixed list of
// typed extractor strategies tried in priority order, with the first hit
// winning, rather than ad-hoc field poking scattered through the code.
package resolver

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/sakif/checkin-bot/internal/model"
)

// DefaultContext is the sentinel returned when an event carries nothing
// usable at all. All such events share one bucket, acceptable since a host
// that strips every identifying field has bigger problems.
const DefaultContext = "default_ctx"

// extractor inspects one possible event shape and returns a context ID,
// or "" when the shape doesn't apply. Extractors must not panic on
// partially populated events.
type extractor func(ev *model.Event) string

// Strategies in priority order. The nested message.source shape comes
// first: hosts that use it often also fill the flat fields with values
// that are wrong for routing (the official webhook does exactly this).
var strategies = []extractor{
	fromNestedSource,
	fromFlatFields,
	fromMessageHash,
}

// Resolve returns the context ID for an event. It never fails: any strategy
// that doesn't apply simply falls through to the next, and a nil or empty
// event resolves to DefaultContext.
func Resolve(ev *model.Event) string {
	if ev == nil {
		return DefaultContext
	}
	for _, strategy := range strategies {
		if id := strategy(ev); id != "" {
			return id
		}
	}
	return DefaultContext
}

func fromNestedSource(ev *model.Event) string {
	if ev.Message == nil || ev.Message.Source == nil {
		return ""
	}
	src := ev.Message.Source
	if src.GroupID != "" {
		return "group_" + src.GroupID
	}
	if src.UserID != "" {
		return "private_" + src.UserID
	}
	return ""
}

func fromFlatFields(ev *model.Event) string {
	if ev.GroupID != "" {
		return "group_" + ev.GroupID
	}
	if ev.UserID != "" {
		return "private_" + ev.UserID
	}
	return ""
}

// fromMessageHash builds a deterministic fallback ID from the message ID and
// timestamp. Deterministic matters: redelivery of the same event must land in
// the same bucket. The md5-prefix format is what existing data files already
// contain, so it stays.
func fromMessageHash(ev *model.Event) string {
	if ev.MessageID == "" && ev.Time == 0 {
		return ""
	}
	sum := md5.Sum([]byte(fmt.Sprintf("%s-%d", ev.MessageID, ev.Time)))
	return "ctx_" + hex.EncodeToString(sum[:])[:6]
}
