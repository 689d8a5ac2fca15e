package recurrence

import (
	"time"

	"github.com/teambition/rrule-go"

	"pabot/internal/models"
)

// Next returns the occurrence immediately after the given one. Daily advances
// one calendar day, weekly seven, both preserving the wall-clock time. A
// non-recurring kind returns the input unchanged.
func Next(kind models.Recurrence, after time.Time) time.Time {
	var freq rrule.Frequency
	switch kind {
	case models.RecurDaily:
		freq = rrule.DAILY
	case models.RecurWeekly:
		freq = rrule.WEEKLY
	default:
		return after
	}

	r, err := rrule.NewRRule(rrule.ROption{Freq: freq, Dtstart: after})
	if err != nil {
		// Plain calendar step as fallback
		if kind == models.RecurWeekly {
			return after.AddDate(0, 0, 7)
		}
		return after.AddDate(0, 0, 1)
	}

	return r.After(after, false)
}

// NextAfter advances occurrence by occurrence until the result is in the
// future relative to now. Used when catching up a recurring reminder that
// missed one or more occurrences.
func NextAfter(kind models.Recurrence, last, now time.Time) time.Time {
	next := last
	for !next.After(now) {
		advanced := Next(kind, next)
		if !advanced.After(next) {
			return next
		}
		next = advanced
	}
	return next
}
