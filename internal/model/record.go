// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data, similar to classes in other
// languages but without inheritance. Go favours composition over inheritance.
package model

// CheckInRecord holds one user's check-in state within a single context.
//
// The JSON tags match the persisted document format, so a data file written
// by an earlier deployment loads unchanged. "username" is purely cosmetic:
// it is overwritten with the sender's current display name on every check-in
// and must never be used as an identity key (names drift and collide).
//
// Counter invariants:
//   - TotalDays and TotalRewards never decrease.
//   - MonthDays <= TotalDays and MonthRewards <= TotalRewards.
//   - ContinuousDays >= 1 once any check-in has happened.
type CheckInRecord struct {
	DisplayName    string `json:"username"`
	TotalDays      int    `json:"total_days"`
	ContinuousDays int    `json:"continuous_days"`
	MonthDays      int    `json:"month_days"`
	TotalRewards   int    `json:"total_rewards"`
	MonthRewards   int    `json:"month_rewards"`

	// LastCheckin is the date of the most recent successful check-in,
	// or the zero Date before the first one. omitempty keeps the field
	// absent in JSON until it is set, matching older data files that
	// stored null here (JSON null decodes into the zero Date).
	LastCheckin Date `json:"last_checkin,omitempty"`
}

// Clone returns an independent copy of the record.
// The engine mutates a clone and installs it only once the whole
// check-in has been applied, so a fault mid-operation never leaves a
// half-updated record in the shared store.
func (r *CheckInRecord) Clone() *CheckInRecord {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
