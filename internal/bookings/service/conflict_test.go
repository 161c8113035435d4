package service

import (
	"testing"

	"kairooms/pkg/model"
)

func booking(room, start, end, meetingType string) *model.Booking {
	return &model.Booking{
		Room:        room,
		Date:        "2026-09-01",
		StartTime:   start,
		EndTime:     end,
		MeetingType: meetingType,
	}
}

func TestCheckConflictOverlaps(t *testing.T) {
	existing := []*model.Booking{
		booking("Boardroom", "10:00", "11:00", model.MeetingTypeOffline),
	}

	tests := []struct {
		name      string
		start     string
		end       string
		wantClash bool
	}{
		{"identical interval", "10:00", "11:00", true},
		{"candidate nested inside", "10:15", "10:45", true},
		{"candidate surrounds existing", "09:30", "11:30", true},
		{"overlaps left edge", "09:30", "10:30", true},
		{"overlaps right edge", "10:30", "11:30", true},
		{"ends exactly at start", "09:00", "10:00", false},
		{"starts exactly at end", "11:00", "12:00", false},
		{"disjoint before", "08:00", "09:00", false},
		{"disjoint after", "12:00", "13:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := booking("Boardroom", tt.start, tt.end, model.MeetingTypeOffline)
			if got := CheckConflict(candidate, existing); got != tt.wantClash {
				t.Errorf("CheckConflict(%s-%s) = %v, want %v", tt.start, tt.end, got, tt.wantClash)
			}
		})
	}
}

func TestCheckConflictOnlineExemption(t *testing.T) {
	offline := []*model.Booking{
		booking("Boardroom", "10:00", "11:00", model.MeetingTypeOffline),
	}

	onlineCandidate := booking("Boardroom", "10:00", "11:00", model.MeetingTypeOnline)
	if CheckConflict(onlineCandidate, offline) {
		t.Error("Online candidate must never conflict with room bookings")
	}

	online := []*model.Booking{
		booking("Boardroom", "10:00", "11:00", model.MeetingTypeOnline),
	}
	offlineCandidate := booking("Boardroom", "10:00", "11:00", model.MeetingTypeOffline)
	if CheckConflict(offlineCandidate, online) {
		t.Error("existing Online booking must not block the room")
	}
}

func TestCheckConflictMultipleExisting(t *testing.T) {
	existing := []*model.Booking{
		booking("Boardroom", "09:00", "10:00", model.MeetingTypeOffline),
		booking("Boardroom", "10:00", "11:00", model.MeetingTypeOnline),
		booking("Boardroom", "13:00", "14:00", model.MeetingTypeOffline),
	}

	// fits in the gap, and the Online one does not count
	candidate := booking("Boardroom", "10:00", "11:30", model.MeetingTypeOffline)
	if CheckConflict(candidate, existing) {
		t.Error("candidate in the free gap must not conflict")
	}

	candidate = booking("Boardroom", "13:30", "15:00", model.MeetingTypeOffline)
	if !CheckConflict(candidate, existing) {
		t.Error("candidate overlapping the afternoon booking must conflict")
	}
}

func TestCheckConflictNoExisting(t *testing.T) {
	candidate := booking("Boardroom", "10:00", "11:00", model.MeetingTypeOffline)
	if CheckConflict(candidate, nil) {
		t.Error("empty day must never conflict")
	}
}

func TestToMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"09:30", 570},
		{"23:59", 1439},
	}
	for _, tt := range tests {
		if got := toMinutes(tt.in); got != tt.want {
			t.Errorf("toMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
