package cancel_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davm17/BLS-BookingService/internal/domain"
	"github.com/davm17/BLS-BookingService/internal/integrations/catalogservice"
	"github.com/davm17/BLS-BookingService/internal/integrations/orderservice"
)

// Фейки зависимостей, фиксирующие вызовы

type fakeBookingRepo struct {
	booking       *domain.Booking
	statusUpdates []domain.BookingStatus
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, _ int64, status domain.BookingStatus) error {
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

type fakeReservationRepo struct {
	entries  []*domain.ReservationEntry
	released []int64
}

func (f *fakeReservationRepo) FindEntriesForOrder(_ context.Context, _ int64) ([]*domain.ReservationEntry, error) {
	return f.entries, nil
}

func (f *fakeReservationRepo) Release(_ context.Context, entryID int64) error {
	f.released = append(f.released, entryID)
	return nil
}

type fakeOrderClient struct {
	notes       []string
	noteErr     error
	refundCalls int
	refundOK    bool
}

func (f *fakeOrderClient) GetUser(_ context.Context, userID int64) (*orderservice.User, error) {
	return &orderservice.User{ID: userID, DisplayName: "Alice"}, nil
}

func (f *fakeOrderClient) AppendNote(_ context.Context, _ int64, text string) error {
	if f.noteErr != nil {
		return f.noteErr
	}
	f.notes = append(f.notes, text)
	return nil
}

func (f *fakeOrderClient) MaybeRefund(_ context.Context, _, _ int64) (bool, error) {
	f.refundCalls++
	return f.refundOK, nil
}

type fakeCatalogClient struct {
	policy catalogservice.CancellationPolicy
}

func (f *fakeCatalogClient) GetProduct(_ context.Context, productID int64) (*catalogservice.Product, error) {
	return &catalogservice.Product{ID: productID, CancellationPolicy: f.policy}, nil
}

func (f *fakeCatalogClient) GetGlobalPolicy(_ context.Context) (*catalogservice.GlobalPolicy, error) {
	return &catalogservice.GlobalPolicy{}, nil
}

type fakeCalendar struct {
	released int
}

func (f *fakeCalendar) BookingReleased(_ context.Context, _ *domain.Booking) { f.released++ }

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type env struct {
	bookingRepo     *fakeBookingRepo
	reservationRepo *fakeReservationRepo
	orderClient     *fakeOrderClient
	calendar        *fakeCalendar
	useCase         *UseCase
}

func newEnv(booking *domain.Booking, entries []*domain.ReservationEntry, now time.Time, processRefunds bool) *env {
	e := &env{
		bookingRepo:     &fakeBookingRepo{booking: booking},
		reservationRepo: &fakeReservationRepo{entries: entries},
		orderClient:     &fakeOrderClient{refundOK: true},
		calendar:        &fakeCalendar{},
	}

	e.useCase = NewUseCase(
		e.bookingRepo,
		e.reservationRepo,
		e.orderClient,
		&fakeCatalogClient{policy: catalogservice.CancellationPolicy{
			Enabled:  true,
			Unit:     "hour",
			Duration: 24,
		}},
		e.calendar,
		&fakeTxManager{},
		PolicyOptions{},
		processRefunds,
		noopLogger{},
	)
	e.useCase.timeProvider = &fixedTime{now: now}

	return e
}

func TestExecute_CancelsAndReleasesReservation(t *testing.T) {
	booking := paidBooking(date(2025, time.June, 10))
	booking.OrderID = 100
	entry := &domain.ReservationEntry{
		ID:        42,
		ProductID: booking.ProductID,
		StartDate: booking.StartDate,
	}

	e := newEnv(booking, []*domain.ReservationEntry{entry}, date(2025, time.June, 8), false)

	resp, err := e.useCase.Execute(context.Background(), &Request{BookingID: 1, UserID: booking.CustomerID})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.False(t, resp.RefundInitiated)

	// Заметка называет пользователя и пишется до мутаций
	require.Len(t, e.orderClient.notes, 1)
	assert.Equal(t, "Alice has cancelled Booking #1.", e.orderClient.notes[0])

	assert.Equal(t, []int64{42}, e.reservationRepo.released)
	assert.Equal(t, []domain.BookingStatus{domain.StatusCancelled}, e.bookingRepo.statusUpdates)
	assert.Equal(t, 1, e.calendar.released)
	assert.Zero(t, e.orderClient.refundCalls)
}

func TestExecute_AlreadyCancelled(t *testing.T) {
	booking := paidBooking(date(2025, time.June, 10))
	booking.Status = domain.StatusCancelled

	e := newEnv(booking, nil, date(2025, time.June, 8), false)

	_, err := e.useCase.Execute(context.Background(), &Request{BookingID: 1, UserID: booking.CustomerID})

	require.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Empty(t, e.orderClient.notes)
	assert.Empty(t, e.bookingRepo.statusUpdates)
}

func TestExecute_AccessDenied(t *testing.T) {
	booking := paidBooking(date(2025, time.June, 10))

	e := newEnv(booking, nil, date(2025, time.June, 8), false)

	_, err := e.useCase.Execute(context.Background(), &Request{BookingID: 1, UserID: booking.CustomerID + 1})

	require.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, e.orderClient.notes)
}

func TestExecute_WindowExpired(t *testing.T) {
	// Окно 24 часа, до начала осталось 12
	booking := paidBooking(date(2025, time.June, 10))

	e := newEnv(booking, nil, time.Date(2025, time.June, 9, 12, 0, 0, 0, time.UTC), false)

	_, err := e.useCase.Execute(context.Background(), &Request{BookingID: 1, UserID: booking.CustomerID})

	require.ErrorIs(t, err, ErrNotCancellable)
	assert.Empty(t, e.orderClient.notes)
	assert.Empty(t, e.bookingRepo.statusUpdates)
}

func TestExecute_NoteFailureBlocksCancellation(t *testing.T) {
	booking := paidBooking(date(2025, time.June, 10))

	e := newEnv(booking, nil, date(2025, time.June, 8), false)
	e.orderClient.noteErr = errors.New("order service unavailable")

	_, err := e.useCase.Execute(context.Background(), &Request{BookingID: 1, UserID: booking.CustomerID})

	require.ErrorIs(t, err, ErrExternalWrite)
	assert.Empty(t, e.bookingRepo.statusUpdates)
	assert.Empty(t, e.reservationRepo.released)
	assert.Zero(t, e.calendar.released)
}

func TestExecute_MissingReservationEntryDoesNotBlock(t *testing.T) {
	booking := paidBooking(date(2025, time.June, 10))

	e := newEnv(booking, nil, date(2025, time.June, 8), false)

	resp, err := e.useCase.Execute(context.Background(), &Request{BookingID: 1, UserID: booking.CustomerID})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Empty(t, e.reservationRepo.released)
	assert.Equal(t, []domain.BookingStatus{domain.StatusCancelled}, e.bookingRepo.statusUpdates)
}

func TestExecute_RefundRunsAfterCancellation(t *testing.T) {
	booking := paidBooking(date(2025, time.June, 10))

	e := newEnv(booking, nil, date(2025, time.June, 8), true)

	resp, err := e.useCase.Execute(context.Background(), &Request{BookingID: 1, UserID: booking.CustomerID})

	require.NoError(t, err)
	assert.True(t, resp.RefundInitiated)
	assert.Equal(t, 1, e.orderClient.refundCalls)
}

func TestExecute_InvalidInput(t *testing.T) {
	e := newEnv(paidBooking(date(2025, time.June, 10)), nil, date(2025, time.June, 8), false)

	_, err := e.useCase.Execute(context.Background(), &Request{BookingID: 0, UserID: 7})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
