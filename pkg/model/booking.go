package model

import "time"

const (
	MeetingTypeOnline  = "Online"
	MeetingTypeOffline = "Offline"
)

// Booking is a meeting-room reservation. Date and times are stored as the
// literal strings the frontend sent: date is an opaque calendar-day key and
// start/end are HH:MM wall clock with no timezone semantics. Bookings are
// never updated or deleted.
type Booking struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Organizer   string    `json:"organizer" bson:"organizer" validate:"required,min=2,max=100"`
	MeetingName string    `json:"meeting_name" bson:"meeting_name" validate:"required,min=2,max=200"`
	Date        string    `json:"date" bson:"date" validate:"required,max=40"`
	StartTime   string    `json:"start_time" bson:"start_time" validate:"required,wallclock"`
	EndTime     string    `json:"end_time" bson:"end_time" validate:"required,wallclock"`
	Location    string    `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=200"`
	Room        string    `json:"room" bson:"room" validate:"required,max=100"`
	MeetingType string    `json:"meeting_type" bson:"meeting_type" validate:"required,oneof=Online Offline"`
	Capacity    int       `json:"capacity" bson:"capacity" validate:"omitempty,min=1,max=500"`
	Notes       string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=1000"`
	MeetingLink string    `json:"meeting_link,omitempty" bson:"meeting_link,omitempty" validate:"omitempty,url"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// MeetingInvite is the payload of the send-invite operation.
type MeetingInvite struct {
	Emails      []string `json:"emails" validate:"required,min=1,dive,email"`
	MeetingLink string   `json:"meeting_link" validate:"required,url"`
	MeetingName string   `json:"meeting_name" validate:"required"`
	Date        string   `json:"date" validate:"required"`
	Time        string   `json:"time" validate:"required"`
	Notes       string   `json:"notes,omitempty"`
}
