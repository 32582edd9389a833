// Package timeline computes the day-by-day schedule of a trip: arrival and
// departure timestamps for every stop, travel gaps between them, and the
// open/closed status of each stop at its computed arrival time.
//
// Everything in this package is a pure function of its inputs. Nothing here
// consults the wall clock, so results are fully deterministic and replayable.
package timeline

import (
	"time"

	"github.com/sequenceapp/backend/internal/domain"
)

// Evaluate determines whether a place is open at the given arrival instant.
//
// A nil schedule yields StatusUnknown with no message. Otherwise periods are
// filtered to the arrival's weekday: no periods means "Closed today"; an
// arrival inside a period's [open, close) interval is open until that close
// time; an arrival outside every period is closed, with the first period's
// opening time offered as a hint. The hint is the day's first listed period,
// not necessarily the next chronological opening.
func Evaluate(at time.Time, schedule *domain.WeeklySchedule) (domain.OpenStatus, string) {
	if schedule == nil || len(schedule.Periods) == 0 {
		return domain.StatusUnknown, ""
	}

	arrival := at.Hour()*100 + at.Minute()
	weekday := at.Weekday()

	var todays []domain.Period
	for _, p := range schedule.Periods {
		if p.Day == weekday {
			todays = append(todays, p)
		}
	}
	if len(todays) == 0 {
		return domain.StatusClosed, "Closed today"
	}

	for _, p := range todays {
		if p.Open <= arrival && arrival < p.CloseOrEndOfDay() {
			return domain.StatusOpen, "Open until " + domain.FormatHHMM(p.CloseOrEndOfDay())
		}
	}

	return domain.StatusClosed, "Closed (opens " + domain.FormatHHMM(todays[0].Open) + ")"
}
