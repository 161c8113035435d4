package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"kairooms/pkg/logger"
	"kairooms/pkg/model"
)

// wallClockRegex accepts literal HH:MM between 00:00 and 23:59. Times are
// wall clock with no timezone conversion.
var wallClockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("wallclock", validateWallClock); err != nil {
		log.Fatal("Failed to register 'wallclock' validator", "error", err)
	}

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateWallClock(fl validator.FieldLevel) bool {
	return wallClockRegex.MatchString(fl.Field().String())
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translate(validationErrs)
		}
		return err
	}

	// Both times passed the wallclock tag; same-day ordering is the only
	// cross-field rule.
	if minutesOf(booking.EndTime) <= minutesOf(booking.StartTime) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time",
			},
		}
	}

	if booking.MeetingType == model.MeetingTypeOnline && booking.MeetingLink == "" {
		return ValidationErrors{
			ValidationError{
				Field:   "MeetingLink",
				Message: "meeting_link is required for Online meetings",
			},
		}
	}

	return nil
}

// ValidateInvite checks the send-invite payload. Missing fields are a plain
// bad request, mirroring the route's original contract.
func (v *BookingValidator) ValidateInvite(invite *model.MeetingInvite) error {
	if err := v.validate.Struct(invite); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translate(validationErrs)
		}
		return err
	}
	return nil
}

func minutesOf(hhmm string) int {
	var hour, minute int
	fmt.Sscanf(hhmm, "%d:%d", &hour, &minute)
	return hour*60 + minute
}

func (v *BookingValidator) translate(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "wallclock":
			message = fmt.Sprintf("%s must be in HH:MM format (00:00-23:59)", err.Field())
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", err.Field())
		case "email":
			message = fmt.Sprintf("%s must contain valid email addresses", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
