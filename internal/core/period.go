package core

import (
	"fmt"
	"time"
)

// Period is an inclusive date range. Start is the first instant of the range
// and End the last instant, so Contains is inclusive on both ends.
type Period struct {
	Start time.Time
	End   time.Time
}

// PreviousMonth returns the full calendar month preceding the month that
// contains today: Start is day 1 at 00:00:00 and End is the last day at the
// last representable instant, both in today's location.
func PreviousMonth(today time.Time) Period {
	firstOfCurrent := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	start := firstOfCurrent.AddDate(0, -1, 0)
	end := firstOfCurrent.Add(-time.Nanosecond)
	return Period{Start: start, End: end}
}

// Contains reports whether t falls within the period, inclusive on both ends.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Label renders the period as "January 2026" for use in the email body.
func (p Period) Label() string {
	return p.Start.Format("January 2006")
}

func (p Period) String() string {
	return fmt.Sprintf("%s to %s", p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
}
