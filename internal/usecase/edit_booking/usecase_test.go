package edit_booking

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davm17/BLS-BookingService/internal/domain"
	"github.com/davm17/BLS-BookingService/internal/integrations/catalogservice"
	"github.com/davm17/BLS-BookingService/internal/integrations/orderservice"
	"github.com/davm17/BLS-BookingService/internal/service/sanity"
	"github.com/davm17/BLS-BookingService/pkg/ptr"
	"github.com/davm17/BLS-BookingService/pkg/types"
)

// Фейки зависимостей, фиксирующие вызовы

type fakeBookingRepo struct {
	booking *domain.Booking
	updated []*domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) Update(_ context.Context, b *domain.Booking) error {
	f.updated = append(f.updated, b)
	return nil
}

type fakeReservationRepo struct {
	entries      []*domain.ReservationEntry
	released     []int64
	created      []*domain.ReservationEntry
	deletedLinks []int64
	nextID       int64
}

func (f *fakeReservationRepo) FindEntriesForOrder(_ context.Context, _ int64) ([]*domain.ReservationEntry, error) {
	return f.entries, nil
}

func (f *fakeReservationRepo) Release(_ context.Context, entryID int64) error {
	f.released = append(f.released, entryID)
	return nil
}

func (f *fakeReservationRepo) Create(_ context.Context, _ int64, entry *domain.ReservationEntry) (*domain.ReservationEntry, error) {
	f.nextID++
	entry.ID = f.nextID
	f.created = append(f.created, entry)
	return entry, nil
}

func (f *fakeReservationRepo) DeleteOrderLink(_ context.Context, _, entryID int64) error {
	f.deletedLinks = append(f.deletedLinks, entryID)
	return nil
}

type fakeOrderClient struct {
	order *orderservice.Order
	line  *orderservice.LineItem

	notes       []string
	meta        map[string]string
	amountCalls int
	recalcCalls int
}

func (f *fakeOrderClient) GetOrder(_ context.Context, _ int64) (*orderservice.Order, error) {
	return f.order, nil
}

func (f *fakeOrderClient) GetLineItem(_ context.Context, _, _ int64) (*orderservice.LineItem, error) {
	return f.line, nil
}

func (f *fakeOrderClient) GetUser(_ context.Context, userID int64) (*orderservice.User, error) {
	return &orderservice.User{ID: userID, DisplayName: "Alice"}, nil
}

func (f *fakeOrderClient) UpdateLineItemMeta(_ context.Context, _ int64, key, value string) error {
	if f.meta == nil {
		f.meta = make(map[string]string)
	}
	f.meta[key] = value
	return nil
}

func (f *fakeOrderClient) SetLineAmounts(_ context.Context, _ int64, _, _, _ float64) error {
	f.amountCalls++
	return nil
}

func (f *fakeOrderClient) RecalculateTotals(_ context.Context, _ int64) error {
	f.recalcCalls++
	return nil
}

func (f *fakeOrderClient) AppendNote(_ context.Context, _ int64, text string) error {
	f.notes = append(f.notes, text)
	return nil
}

type fakeCatalogClient struct {
	product *catalogservice.Product
}

func (f *fakeCatalogClient) GetProduct(_ context.Context, _ int64) (*catalogservice.Product, error) {
	return f.product, nil
}

func (f *fakeCatalogClient) GetGlobalPolicy(_ context.Context) (*catalogservice.GlobalPolicy, error) {
	return &catalogservice.GlobalPolicy{}, nil
}

type fakeCalendar struct {
	released int
	created  int
}

func (f *fakeCalendar) BookingReleased(_ context.Context, _ *domain.Booking) { f.released++ }
func (f *fakeCalendar) BookingCreated(_ context.Context, _ *domain.Booking)  { f.created++ }

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

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

func newEnv(booking *domain.Booking, entries []*domain.ReservationEntry) *env {
	e := &env{
		bookingRepo:     &fakeBookingRepo{booking: booking},
		reservationRepo: &fakeReservationRepo{entries: entries, nextID: 500},
		orderClient: &fakeOrderClient{
			order: &orderservice.Order{ID: booking.OrderID, CurrencySymbol: "$"},
			line:  &orderservice.LineItem{ID: booking.OrderItemID, Total: booking.Cost * float64(booking.Quantity)},
		},
		calendar: &fakeCalendar{},
	}

	e.useCase = NewUseCase(
		e.bookingRepo,
		e.reservationRepo,
		e.orderClient,
		&fakeCatalogClient{product: &catalogservice.Product{ID: booking.ProductID}},
		e.calendar,
		sanity.NewValidator(),
		&fakeTxManager{},
		noopLogger{},
	)

	return e
}

func TestExecute_CancelledBookingIsImmutable(t *testing.T) {
	booking := singleDayBooking()
	booking.Status = domain.StatusCancelled

	e := newEnv(booking, nil)

	_, err := e.useCase.Execute(context.Background(), &Request{
		BookingID: booking.ID,
		UserID:    booking.CustomerID,
		Quantity:  ptr.Ptr(5),
	})

	require.ErrorIs(t, err, ErrImmutableBooking)
	assert.Empty(t, e.bookingRepo.updated)
	assert.Empty(t, e.reservationRepo.released)
	assert.Empty(t, e.orderClient.notes)
	assert.Empty(t, e.orderClient.meta)
}

func TestExecute_EmptyChangeSetPerformsNoWrites(t *testing.T) {
	booking := singleDayBooking()

	e := newEnv(booking, nil)

	resp, err := e.useCase.Execute(context.Background(), &Request{
		BookingID: booking.ID,
		UserID:    booking.CustomerID,
		Quantity:  ptr.Ptr(booking.Quantity),
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Changes)
	assert.Empty(t, e.bookingRepo.updated)
	assert.Empty(t, e.reservationRepo.released)
	assert.Empty(t, e.reservationRepo.created)
	assert.Empty(t, e.orderClient.notes)
	assert.Empty(t, e.orderClient.meta)
	assert.Zero(t, e.orderClient.amountCalls)
}

func TestExecute_AccessDenied(t *testing.T) {
	booking := singleDayBooking()
	e := newEnv(booking, nil)

	_, err := e.useCase.Execute(context.Background(), &Request{
		BookingID: booking.ID,
		UserID:    booking.CustomerID + 1,
		Quantity:  ptr.Ptr(3),
	})

	require.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, e.bookingRepo.updated)
}

func TestExecute_QuantityOnlyChange(t *testing.T) {
	// Изменение количества без даты/времени: резервация не трогается,
	// обновляются только количество и цена
	booking := singleDayBooking() // 2 x 50
	entry := &domain.ReservationEntry{
		ID:        42,
		ProductID: booking.ProductID,
		StartDate: booking.StartDate,
		EndDate:   booking.StartDate,
		Quantity:  booking.Quantity,
	}

	e := newEnv(booking, []*domain.ReservationEntry{entry})

	resp, err := e.useCase.Execute(context.Background(), &Request{
		BookingID:     booking.ID,
		UserID:        booking.CustomerID,
		Quantity:      ptr.Ptr(3),
		ChargedAmount: ptr.Ptr(150.0),
	})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"quantity", "price"}, resp.Changes)

	// Резервация нетронута
	assert.Empty(t, e.reservationRepo.released)
	assert.Empty(t, e.reservationRepo.created)

	// Количество и цена применены
	require.Len(t, e.bookingRepo.updated, 1)
	assert.Equal(t, 3, e.bookingRepo.updated[0].Quantity)
	assert.Equal(t, 1, e.orderClient.amountCalls)
	assert.Equal(t, 1, e.orderClient.recalcCalls)
	assert.Equal(t, "3", e.orderClient.meta[domain.MetaKeyQuantity])
}

func TestExecute_DateAndTimeChangeReallocatesReservation(t *testing.T) {
	// Одновременное изменение даты и слота для date_time бронирования:
	// старая запись освобождается по ключу (старая дата, старый слот),
	// создается новая под новое окно
	booking := singleDayBooking()
	booking.BookingType = domain.TypeDateTime
	booking.TimeSlot = types.TimeSlot("10:00 - 12:00")

	matching := &domain.ReservationEntry{
		ID:        42,
		ProductID: booking.ProductID,
		StartDate: booking.StartDate,
		EndDate:   booking.StartDate,
		FromTime:  types.TimeString("10:00"),
		ToTime:    types.TimeString("12:00"),
		Quantity:  booking.Quantity,
	}
	other := &domain.ReservationEntry{
		ID:        43,
		ProductID: booking.ProductID,
		StartDate: date(2025, time.July, 1),
		EndDate:   date(2025, time.July, 1),
		FromTime:  types.TimeString("10:00"),
		ToTime:    types.TimeString("12:00"),
		Quantity:  1,
	}

	e := newEnv(booking, []*domain.ReservationEntry{other, matching})

	newStart := date(2025, time.June, 20)
	newSlot := types.TimeSlot("16:00 - 18:00")

	resp, err := e.useCase.Execute(context.Background(), &Request{
		BookingID: booking.ID,
		UserID:    booking.CustomerID,
		StartDate: &newStart,
		TimeSlot:  &newSlot,
		Quantity:  ptr.Ptr(booking.Quantity),
	})

	require.NoError(t, err)

	// Освобождена именно запись со старым окном
	require.Equal(t, []int64{42}, e.reservationRepo.released)
	assert.Equal(t, []int64{42}, e.reservationRepo.deletedLinks)

	// Новая запись под новое окно
	require.Len(t, e.reservationRepo.created, 1)
	created := e.reservationRepo.created[0]
	assert.Equal(t, newStart, created.StartDate)
	assert.Equal(t, types.TimeString("16:00"), created.FromTime)
	assert.Equal(t, types.TimeString("18:00"), created.ToTime)
	assert.Equal(t, created.ID, resp.ReservationID)

	// Заметки называют пользователя и содержат старые и новые значения
	dateNote := findNote(e.orderClient.notes, "Start Date")
	require.NotEmpty(t, dateNote)
	assert.Contains(t, dateNote, "Alice")
	assert.Contains(t, dateNote, "10.06.2025")
	assert.Contains(t, dateNote, "20.06.2025")

	timeNote := findNote(e.orderClient.notes, "Booking Time")
	require.NotEmpty(t, timeNote)
	assert.Contains(t, timeNote, "10:00 - 12:00")
	assert.Contains(t, timeNote, "16:00 - 18:00")

	// Метаданные позиции приведены к новому окну
	assert.Equal(t, "2025-06-20", e.orderClient.meta[domain.MetaKeyBookingDate])
	assert.Equal(t, "16:00 - 18:00", e.orderClient.meta[domain.MetaKeyTimeSlot])

	// Календарь уведомлен об освобождении и новом окне
	assert.Equal(t, 1, e.calendar.released)
	assert.Equal(t, 1, e.calendar.created)

	// Статус не менялся, поля бронирования записаны
	require.Len(t, e.bookingRepo.updated, 1)
	assert.Equal(t, domain.StatusPaid, e.bookingRepo.updated[0].Status)
	assert.Equal(t, newSlot, e.bookingRepo.updated[0].TimeSlot)
}

func TestExecute_MultiDayKeepsOrderLink(t *testing.T) {
	booking := singleDayBooking()
	booking.BookingType = domain.TypeMultiDay
	booking.EndDate = date(2025, time.June, 12)

	entry := &domain.ReservationEntry{
		ID:        42,
		ProductID: booking.ProductID,
		StartDate: booking.StartDate,
		EndDate:   booking.EndDate,
		Quantity:  booking.Quantity,
	}

	e := newEnv(booking, []*domain.ReservationEntry{entry})

	newStart := date(2025, time.June, 15)
	newEnd := date(2025, time.June, 17)

	_, err := e.useCase.Execute(context.Background(), &Request{
		BookingID: booking.ID,
		UserID:    booking.CustomerID,
		StartDate: &newStart,
		EndDate:   &newEnd,
		Quantity:  ptr.Ptr(booking.Quantity),
	})

	require.NoError(t, err)

	// Запись освобождена, но связка с заказом сохранена
	assert.Equal(t, []int64{42}, e.reservationRepo.released)
	assert.Empty(t, e.reservationRepo.deletedLinks)
	require.Len(t, e.reservationRepo.created, 1)
	assert.Equal(t, newEnd, e.reservationRepo.created[0].EndDate)
}

func TestExecute_StatusCancelledReleasesWithoutCreate(t *testing.T) {
	booking := singleDayBooking()
	entry := &domain.ReservationEntry{
		ID:        42,
		ProductID: booking.ProductID,
		StartDate: booking.StartDate,
		EndDate:   booking.StartDate,
		Quantity:  booking.Quantity,
	}

	e := newEnv(booking, []*domain.ReservationEntry{entry})

	_, err := e.useCase.Execute(context.Background(), &Request{
		BookingID: booking.ID,
		UserID:    booking.CustomerID,
		Status:    ptr.Ptr(domain.StatusCancelled),
		Quantity:  ptr.Ptr(booking.Quantity),
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{42}, e.reservationRepo.released)
	assert.Empty(t, e.reservationRepo.created)

	require.Len(t, e.bookingRepo.updated, 1)
	assert.Equal(t, domain.StatusCancelled, e.bookingRepo.updated[0].Status)

	assert.Equal(t, 1, e.calendar.released)
	assert.Zero(t, e.calendar.created)
}

func TestExecute_ValidationRejectedBlocksWrites(t *testing.T) {
	booking := singleDayBooking()
	e := newEnv(booking, nil)

	_, err := e.useCase.Execute(context.Background(), &Request{
		BookingID: booking.ID,
		UserID:    booking.CustomerID,
		Quantity:  ptr.Ptr(0),
	})

	require.ErrorIs(t, err, ErrValidationRejected)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Violations)

	assert.Empty(t, e.bookingRepo.updated)
	assert.Empty(t, e.orderClient.notes)
	assert.Empty(t, e.orderClient.meta)
}

func findNote(notes []string, substr string) string {
	for _, note := range notes {
		if strings.Contains(note, substr) {
			return note
		}
	}
	return ""
}

func TestExecute_NoOpEditWithAddonPricedLine(t *testing.T) {
	// Итог позиции уже содержит опционную составляющую: пустой набор
	// изменений не должен порождать ценовую дельту и денежные записи
	booking := singleDayBooking()
	booking.Cost = 60 // 50 базовая цена + 10 опции за единицу

	e := newEnv(booking, nil) // line.Total = 120
	e.orderClient.line.AddonPrice = 10

	resp, err := e.useCase.Execute(context.Background(), &Request{
		BookingID: booking.ID,
		UserID:    booking.CustomerID,
		Quantity:  ptr.Ptr(booking.Quantity),
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Changes)
	assert.False(t, resp.PriceChanged)
	assert.Empty(t, e.bookingRepo.updated)
	assert.Empty(t, e.orderClient.notes)
	assert.Zero(t, e.orderClient.amountCalls)
	assert.Zero(t, e.orderClient.recalcCalls)
}

func TestExecute_QuantityChangeWithAddonPricedLine(t *testing.T) {
	// База выделяется из итога позиции, опции добавляются один раз
	// на каждую единицу нового количества
	booking := singleDayBooking()
	booking.Cost = 60

	e := newEnv(booking, nil) // line.Total = 120
	e.orderClient.line.AddonPrice = 10

	resp, err := e.useCase.Execute(context.Background(), &Request{
		BookingID: booking.ID,
		UserID:    booking.CustomerID,
		Quantity:  ptr.Ptr(3),
	})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"quantity", "price"}, resp.Changes)

	// База 120 - 10*2 = 100, опции 10*3, итог 130
	require.Len(t, e.bookingRepo.updated, 1)
	assert.InDelta(t, 130.0/3.0, e.bookingRepo.updated[0].Cost, 0.001)
	assert.Equal(t, 1, e.orderClient.amountCalls)
	assert.Equal(t, 1, e.orderClient.recalcCalls)

	costNote := findNote(e.orderClient.notes, "cost")
	require.NotEmpty(t, costNote)
	assert.Contains(t, costNote, "$120.00")
	assert.Contains(t, costNote, "$130.00")
}

func TestExecute_DisabledPriceRecalculation(t *testing.T) {
	booking := singleDayBooking()

	e := newEnv(booking, nil)
	e.useCase.DisablePriceChanges()

	resp, err := e.useCase.Execute(context.Background(), &Request{
		BookingID:     booking.ID,
		UserID:        booking.CustomerID,
		Quantity:      ptr.Ptr(3),
		ChargedAmount: ptr.Ptr(150.0),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"quantity"}, resp.Changes)
	assert.False(t, resp.PriceChanged)
	assert.Zero(t, e.orderClient.amountCalls)

	// Стоимость за единицу не пересчитывается
	require.Len(t, e.bookingRepo.updated, 1)
	assert.InDelta(t, booking.Cost, e.bookingRepo.updated[0].Cost, 0.001)
}
