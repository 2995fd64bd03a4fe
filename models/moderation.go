package models

import "time"

// Mute is a timed mute entry, stored per guild per user.
type Mute struct {
	MutedAt         time.Time `json:"muted_at"`
	Until           time.Time `json:"mute_until"`
	DurationMinutes int       `json:"duration_minutes"`
	Reason          string    `json:"reason"`
}

// Active reports whether the mute is still in effect at the given time.
func (m Mute) Active(now time.Time) bool {
	return now.Before(m.Until)
}
