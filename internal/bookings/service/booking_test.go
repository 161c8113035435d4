package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"kairooms/internal/bookings/validator"
	"kairooms/pkg/config"
	mongotx "kairooms/pkg/db/mongo"
	apperrors "kairooms/pkg/errors"
	"kairooms/pkg/events"
	"kairooms/pkg/logger"
	"kairooms/pkg/mail"
	"kairooms/pkg/model"
)

type mockBookingRepo struct {
	createFn            func(ctx context.Context, booking *model.Booking) error
	findByDateAndRoomFn func(ctx context.Context, date, room string) ([]*model.Booking, error)
	findAllFn           func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	countFn             func(ctx context.Context) (int64, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	return m.createFn(ctx, booking)
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, errors.New("not implemented")
}

func (m *mockBookingRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return m.findAllFn(ctx, limit, offset)
}

func (m *mockBookingRepo) Count(ctx context.Context) (int64, error) {
	return m.countFn(ctx)
}

func (m *mockBookingRepo) FindByDateAndRoom(ctx context.Context, date, room string) ([]*model.Booking, error) {
	return m.findByDateAndRoomFn(ctx, date, room)
}

func (m *mockBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockLockRepo struct {
	createFn func(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error)
	deleted  []string
}

func (m *mockLockRepo) Create(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error) {
	if m.createFn != nil {
		return m.createFn(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepo) Delete(ctx context.Context, lockID string) error {
	m.deleted = append(m.deleted, lockID)
	return nil
}

type mockMailer struct {
	sendFn func(msg mail.Message) error
	sent   []mail.Message
}

func (m *mockMailer) Send(msg mail.Message) error {
	m.sent = append(m.sent, msg)
	if m.sendFn != nil {
		return m.sendFn(msg)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: "error", Output: io.Discard}),
	}
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

func newTestService(repo *mockBookingRepo, locks *mockLockRepo, mailer *mockMailer) BookingService {
	cfg := testConfig()
	return NewBookingService(
		repo,
		locks,
		validator.NewBookingValidator(cfg.Log),
		mailer,
		events.NopPublisher{},
		cfg,
	)
}

func TestCreateSucceedsOnFreeSlot(t *testing.T) {
	created := false
	repo := &mockBookingRepo{
		createFn: func(ctx context.Context, b *model.Booking) error {
			created = true
			b.ID = "68b000000000000000000001"
			return nil
		},
		findByDateAndRoomFn: func(ctx context.Context, date, room string) ([]*model.Booking, error) {
			return nil, nil
		},
	}
	locks := &mockLockRepo{}

	svc := newTestService(repo, locks, &mockMailer{})
	if err := svc.Create(context.Background(), validBooking()); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !created {
		t.Error("expected booking to be persisted")
	}
	if len(locks.deleted) != 1 {
		t.Errorf("expected room lock to be released once, got %d", len(locks.deleted))
	}
}

func TestCreateRejectsOverlap(t *testing.T) {
	repo := &mockBookingRepo{
		createFn: func(ctx context.Context, b *model.Booking) error {
			t.Error("Create must not be called when the slot conflicts")
			return nil
		},
		findByDateAndRoomFn: func(ctx context.Context, date, room string) ([]*model.Booking, error) {
			return []*model.Booking{booking("Boardroom", "10:30", "11:30", model.MeetingTypeOffline)}, nil
		},
	}

	svc := newTestService(repo, &mockLockRepo{}, &mockMailer{})
	err := svc.Create(context.Background(), validBooking())
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestCreateRoomCaseInsensitive(t *testing.T) {
	repo := &mockBookingRepo{
		findByDateAndRoomFn: func(ctx context.Context, date, room string) ([]*model.Booking, error) {
			return []*model.Booking{booking("boardroom", "10:30", "11:30", model.MeetingTypeOffline)}, nil
		},
	}

	svc := newTestService(repo, &mockLockRepo{}, &mockMailer{})
	b := validBooking()
	b.Room = "BOARDROOM"
	err := svc.Create(context.Background(), b)
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict across room casings, got %v", err)
	}
}

func TestCreateFailsValidation(t *testing.T) {
	svc := newTestService(&mockBookingRepo{}, &mockLockRepo{}, &mockMailer{})

	b := validBooking()
	b.EndTime = "09:00"
	err := svc.Create(context.Background(), b)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
}

func TestCreateBusySlotLock(t *testing.T) {
	locks := &mockLockRepo{
		createFn: func(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error) {
			return nil, mongo.WriteException{
				WriteErrors: mongo.WriteErrors{{Code: 11000}},
			}
		},
	}

	svc := newTestService(&mockBookingRepo{}, locks, &mockMailer{})
	err := svc.Create(context.Background(), validBooking())
	if err == nil {
		t.Fatal("expected lock contention error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestListReturnsDataAndCount(t *testing.T) {
	repo := &mockBookingRepo{
		findAllFn: func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
			return []*model.Booking{validBooking(), validBooking()}, nil
		},
		countFn: func(ctx context.Context) (int64, error) {
			return 7, nil
		},
	}

	svc := newTestService(repo, &mockLockRepo{}, &mockMailer{})
	bookings, total, err := svc.List(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(bookings) != 2 || total != 7 {
		t.Errorf("got %d bookings, total %d, want 2 and 7", len(bookings), total)
	}
}

func TestSendInviteValidatesFields(t *testing.T) {
	svc := newTestService(&mockBookingRepo{}, &mockLockRepo{}, &mockMailer{})

	err := svc.SendInvite(context.Background(), &model.MeetingInvite{
		MeetingName: "Sprint Review",
	})
	if err == nil {
		t.Fatal("expected invalid input error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
	}
}

func TestSendInviteMailFailure(t *testing.T) {
	mailer := &mockMailer{
		sendFn: func(msg mail.Message) error {
			return errors.New("smtp down")
		},
	}
	svc := newTestService(&mockBookingRepo{}, &mockLockRepo{}, mailer)

	err := svc.SendInvite(context.Background(), &model.MeetingInvite{
		Emails:      []string{"dana@example.com"},
		MeetingName: "Sprint Review",
		MeetingLink: "https://meet.example.com/abc",
		Date:        "2026-09-01",
		Time:        "10:00",
	})
	if err == nil {
		t.Fatal("expected upstream error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeUpstream {
		t.Errorf("expected %s, got %s", apperrors.CodeUpstream, appErr.Code)
	}
}

func TestSendInviteDeliversToAll(t *testing.T) {
	mailer := &mockMailer{}
	svc := newTestService(&mockBookingRepo{}, &mockLockRepo{}, mailer)

	err := svc.SendInvite(context.Background(), &model.MeetingInvite{
		Emails:      []string{"a@example.com", "b@example.com"},
		MeetingName: "Sprint Review",
		MeetingLink: "https://meet.example.com/abc",
		Date:        "2026-09-01",
		Time:        "10:00",
	})
	if err != nil {
		t.Fatalf("SendInvite returned error: %v", err)
	}
	if len(mailer.sent) != 1 || len(mailer.sent[0].To) != 2 {
		t.Errorf("expected one message to two recipients, got %+v", mailer.sent)
	}
}
