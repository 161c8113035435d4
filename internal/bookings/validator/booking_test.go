package validator

import (
	"io"
	"testing"

	"kairooms/pkg/logger"
	"kairooms/pkg/model"
)

func newValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{Level: "error", Output: io.Discard}))
}

func validBooking() *model.Booking {
	return &model.Booking{
		Organizer:   "Dana",
		MeetingName: "Sprint Review",
		Date:        "2026-09-01",
		StartTime:   "10:00",
		EndTime:     "11:00",
		Room:        "Boardroom",
		MeetingType: model.MeetingTypeOffline,
	}
}

func TestValidateAcceptsWellFormedBooking(t *testing.T) {
	if err := newValidator().Validate(validBooking()); err != nil {
		t.Fatalf("expected valid booking, got %v", err)
	}
}

func TestValidateRejectsBadWallClock(t *testing.T) {
	v := newValidator()

	for _, bad := range []string{"24:00", "9:00", "10:60", "10.30", "", "later"} {
		b := validBooking()
		b.StartTime = bad
		if err := v.Validate(b); err == nil {
			t.Errorf("start_time %q must fail validation", bad)
		}
	}
}

func TestValidateRejectsInvertedInterval(t *testing.T) {
	v := newValidator()

	b := validBooking()
	b.StartTime = "11:00"
	b.EndTime = "10:00"
	if err := v.Validate(b); err == nil {
		t.Error("end before start must fail validation")
	}

	b = validBooking()
	b.EndTime = b.StartTime
	if err := v.Validate(b); err == nil {
		t.Error("zero-length interval must fail validation")
	}
}

func TestValidateRequiresLinkForOnline(t *testing.T) {
	v := newValidator()

	b := validBooking()
	b.MeetingType = model.MeetingTypeOnline
	if err := v.Validate(b); err == nil {
		t.Error("Online meeting without a link must fail validation")
	}

	b.MeetingLink = "https://meet.example.com/abc"
	if err := v.Validate(b); err != nil {
		t.Errorf("Online meeting with a link must pass, got %v", err)
	}
}

func TestValidateRejectsUnknownMeetingType(t *testing.T) {
	b := validBooking()
	b.MeetingType = "Hybrid"
	if err := newValidator().Validate(b); err == nil {
		t.Error("unknown meeting_type must fail validation")
	}
}

func TestValidateInvite(t *testing.T) {
	v := newValidator()

	invite := &model.MeetingInvite{
		Emails:      []string{"dana@example.com"},
		MeetingLink: "https://meet.example.com/abc",
		MeetingName: "Sprint Review",
		Date:        "2026-09-01",
		Time:        "10:00",
	}
	if err := v.ValidateInvite(invite); err != nil {
		t.Fatalf("expected valid invite, got %v", err)
	}

	invite.Emails = []string{"not-an-email"}
	if err := v.ValidateInvite(invite); err == nil {
		t.Error("malformed recipient must fail validation")
	}

	invite.Emails = nil
	if err := v.ValidateInvite(invite); err == nil {
		t.Error("empty recipient list must fail validation")
	}
}
