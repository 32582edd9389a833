package domain

import (
	"fmt"
	"time"
)

// WeeklySchedule is a place's opening hours as a flat list of per-weekday
// periods, mirroring the periods array map services return.
type WeeklySchedule struct {
	Periods []Period `json:"periods"`
}

// Period is one contiguous open interval on a single weekday.
// Times are integer HHMM values on a 24-hour clock (13:05 → 1305).
// Close is nil when the source gave no closing time; consumers treat that as
// open until end of day (2400). Overnight wraparound is not modelled.
type Period struct {
	Day   time.Weekday `json:"day"` // Sunday = 0, matching the wire format
	Open  int          `json:"open"`
	Close *int         `json:"close,omitempty"`
}

// CloseOrEndOfDay returns the period's closing time, defaulting to 2400 when
// no explicit close was supplied.
func (p Period) CloseOrEndOfDay() int {
	if p.Close == nil {
		return 2400
	}
	return *p.Close
}

// FormatHHMM renders an integer HHMM clock value as "HH:MM".
func FormatHHMM(hhmm int) string {
	return fmt.Sprintf("%02d:%02d", hhmm/100, hhmm%100)
}
