package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"kairooms/internal/bookings/repository"
	"kairooms/internal/bookings/validator"
	"kairooms/pkg/config"
	apperrors "kairooms/pkg/errors"
	"kairooms/pkg/events"
	"kairooms/pkg/mail"
	"kairooms/pkg/model"
	"kairooms/pkg/sanitizer"
)

// lockTTL bounds how long an abandoned room lock can linger before the TTL
// index reaps it.
const lockTTL = 10 * time.Second

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	List(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	SendInvite(ctx context.Context, invite *model.MeetingInvite) error
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.RoomLockRepository
	validator *validator.BookingValidator
	mailer    mail.Mailer
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.RoomLockRepository,
	validator *validator.BookingValidator,
	mailer mail.Mailer,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: validator,
		mailer:    mailer,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create persists a booking after the overlap check. The check and the
// insert run inside one transaction while an advisory lock on the
// (date, room) slot is held, so two simultaneous requests for the same room
// cannot both pass the check.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.sanitize(booking)
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	lockID, err := s.acquireRoomLock(ctx, booking.Date, booking.Room)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.lockRepo.Delete(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release room lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindByDateAndRoom(sessCtx, booking.Date, booking.Room)
		if err != nil {
			return apperrors.Internal("Failed to check existing bookings", err)
		}

		if CheckConflict(booking, existing) {
			return apperrors.Conflict("Schedule conflict: the room is already booked for that time")
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"date", booking.Date,
			"room", booking.Room,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"date", booking.Date,
		"room", booking.Room,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)
	s.publisher.Publish(ctx, slotKey(booking.Date, booking.Room), events.TypeBookingCreated, booking)
	return nil
}

func (s *bookingService) List(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// SendInvite mails a meeting invitation to the listed addresses. Missing
// fields are a plain bad request; a transport failure surfaces as an
// upstream error with no retry.
func (s *bookingService) SendInvite(ctx context.Context, invite *model.MeetingInvite) error {
	if err := s.validator.ValidateInvite(invite); err != nil {
		s.cfg.Log.Warn("Invite validation failed", "error", err)
		return apperrors.InvalidInput("Missing or invalid invite fields: " + err.Error())
	}

	msg := mail.Message{
		To:      invite.Emails,
		Subject: fmt.Sprintf("Meeting Invitation: %s", invite.MeetingName),
		HTML:    inviteBody(invite),
	}

	if err := s.mailer.Send(msg); err != nil {
		s.cfg.Log.Error("Failed to send invitation mail",
			"meeting", invite.MeetingName,
			"recipients", len(invite.Emails),
			"error", err,
		)
		return apperrors.Upstream("mail", err)
	}

	s.cfg.Log.Info("Invitation mail sent",
		"meeting", invite.MeetingName,
		"recipients", len(invite.Emails),
	)
	s.publisher.Publish(ctx, invite.MeetingName, events.TypeBookingInviteSent, invite)
	return nil
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.Organizer = sanitizer.TrimAndNormalize(b.Organizer)
	b.MeetingName = sanitizer.TrimAndNormalize(b.MeetingName)
	b.Date = sanitizer.TrimAndNormalize(b.Date)
	b.StartTime = strings.TrimSpace(b.StartTime)
	b.EndTime = strings.TrimSpace(b.EndTime)
	b.Location = sanitizer.TrimAndNormalize(b.Location)
	b.Room = sanitizer.TrimAndNormalize(b.Room)
	b.MeetingType = strings.TrimSpace(b.MeetingType)
	b.Notes = strings.TrimSpace(b.Notes)
	b.MeetingLink = strings.TrimSpace(b.MeetingLink)
}

// acquireRoomLock inserts the advisory lock for the slot. A duplicate key
// means another request is booking the same room and date right now.
func (s *bookingService) acquireRoomLock(ctx context.Context, date, room string) (string, error) {
	lockID := "room_lock_" + slotKey(date, room)

	lock := &model.RoomLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(lockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This room is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire room lock", err)
	}

	return lockID, nil
}

func slotKey(date, room string) string {
	return fmt.Sprintf("%s_%s", sanitizer.TrimAndNormalize(date), sanitizer.FoldRoom(room))
}
