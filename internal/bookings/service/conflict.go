package service

import (
	"strconv"
	"strings"

	"kairooms/pkg/model"
)

// toMinutes converts a literal HH:MM wall-clock string to minutes since
// midnight. No timezone conversion is applied. Input is assumed to have
// passed the wallclock validator.
func toMinutes(hhmm string) int {
	parts := strings.SplitN(strings.TrimSpace(hhmm), ":", 2)
	if len(parts) != 2 {
		return 0
	}
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])
	return hour*60 + minute
}

// CheckConflict reports whether the candidate booking overlaps any of the
// existing bookings. Callers pass the set already filtered to the same date
// and room. Intervals are half-open [start, end): back-to-back bookings do
// not conflict. Online meetings never block and are never blocked.
func CheckConflict(candidate *model.Booking, existing []*model.Booking) bool {
	if candidate.MeetingType == model.MeetingTypeOnline {
		return false
	}

	startNew := toMinutes(candidate.StartTime)
	endNew := toMinutes(candidate.EndTime)

	for _, old := range existing {
		if old.MeetingType == model.MeetingTypeOnline {
			continue
		}
		startOld := toMinutes(old.StartTime)
		endOld := toMinutes(old.EndTime)

		if startNew < endOld && startOld < endNew {
			return true
		}
	}

	return false
}
