// Package streak computes the consecutive-day study streak.
//
// The engine is a pure function over (now, record) — no clocks, no storage.
// Callers pass the current time and persist the result themselves, which
// keeps every rule here testable with plain function calls.
//
// Days are compared as calendar days in now's timezone, not as elapsed
// 24-hour windows: studying at 23:59 and again at 00:01 counts as two
// consecutive days. This mirrors how the mobile client behaves, including
// the ambiguity when a user travels across timezones — a deliberate
// carry-over, not an oversight.
package streak

import "time"

// DayFormat is the layout of the calendar-day strings stored in
// StreakRecord.LastDate.
const DayFormat = "2006-01-02"

// Record mirrors model.StreakRecord. The package keeps its own copy of the
// shape so it depends on nothing but time — the service layer converts.
type Record struct {
	Count    int
	LastDate string // YYYY-MM-DD, "" = no prior day recorded
}

// Day returns t's calendar day in t's location, formatted as YYYY-MM-DD.
func Day(t time.Time) string {
	return t.Format(DayFormat)
}

// Update applies one qualifying action at time now to the record.
//
// Three cases, total over the domain:
//   - same calendar day as LastDate → record unchanged (idempotent re-entry)
//   - LastDate is exactly yesterday → streak continues, Count+1
//   - anything else (gap ≥ 2 days, or no prior date) → streak restarts at 1
func Update(now time.Time, rec Record) Record {
	today := Day(now)
	if rec.LastDate == today {
		return rec
	}

	yesterday := Day(now.AddDate(0, 0, -1))
	if rec.LastDate == yesterday {
		return Record{Count: rec.Count + 1, LastDate: today}
	}

	return Record{Count: 1, LastDate: today}
}

// Status maps a streak count to its display label. The ladder is part of the
// API contract — the client renders these strings verbatim.
func Status(count int) string {
	switch {
	case count <= 0:
		return "not started"
	case count == 1:
		return "first day"
	case count < 7:
		return "building momentum"
	case count < 30:
		return "strong"
	default:
		return "legendary"
	}
}
