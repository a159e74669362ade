package model

import "time"

// StreakRecord tracks the consecutive-day study streak.
//
// LastDate is the calendar day (YYYY-MM-DD, in the device-local timezone) of
// the most recent qualifying action, or "" if none was ever recorded. The
// invariant maintained by the streak engine is that Count is 0 only when
// LastDate is absent or stale beyond one day; the record is mutated at most
// once per calendar day.
type StreakRecord struct {
	Count    int    `json:"count"`
	LastDate string `json:"lastDate"` // YYYY-MM-DD, "" = absent
}

// LearningEntry is a single timestamped free-text record of something learned.
// Entries are immutable once created and identified by ID; the log orders
// them newest first.
type LearningEntry struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

// Stats are the home-screen counters.
//
// Learnings is derived — it always equals the length of the learning log and
// is recomputed on every log mutation, never maintained independently.
type Stats struct {
	TotalHours float64 `json:"totalHours"`
	Skills     int     `json:"skills"`
	Learnings  int     `json:"learnings"`
}
