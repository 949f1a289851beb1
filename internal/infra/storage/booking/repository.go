package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/davm17/BLS-BookingService/internal/domain"
	"github.com/davm17/BLS-BookingService/pkg/dbmetrics"
	"github.com/davm17/BLS-BookingService/pkg/psqlbuilder"
	"github.com/davm17/BLS-BookingService/pkg/types"
)

// bookingColumns колонки таблицы bookings в порядке сканирования
var bookingColumns = []string{
	"id",
	"product_id",
	"order_id",
	"order_item_id",
	"customer_id",
	"booking_type",
	"start_date",
	"end_date",
	"time_slot",
	"duration",
	"quantity",
	"resource_id",
	"persons",
	"status",
	"cost",
	"created_at",
	"updated_at",
}

// Repository репозиторий канонических записей бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает бронирование по ID.
// Если в контексте есть активная транзакция, строка блокируется FOR UPDATE,
// чтобы конкурентные изменения одного бронирования сериализовались.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByCustomerID получает все бронирования пользователя,
// отсортированные от новых к старым
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("start_date DESC, id DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByOrderID получает все бронирования, привязанные к заказу
func (r *Repository) GetByOrderID(ctx context.Context, orderID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrderID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrderID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Update записывает измененные поля бронирования.
// Статус входит в этот же UPDATE: вызывающая сторона обязана выполнять
// Update последним шагом изменения, после всех внешних записей.
func (r *Repository) Update(ctx context.Context, b *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	personsJSON, err := json.Marshal(b.Persons)
	if err != nil {
		return fmt.Errorf("%w: Update - marshal persons: %v", ErrEncodePersons, err)
	}

	query, args, err := psqlbuilder.Update("bookings").
		Set("start_date", b.StartDate).
		Set("end_date", b.EndDate).
		Set("time_slot", b.TimeSlot.String()).
		Set("duration", b.Duration).
		Set("quantity", b.Quantity).
		Set("resource_id", b.ResourceID).
		Set("persons", personsJSON).
		Set("cost", b.Cost).
		Set("status", b.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// UpdateStatus обновляет только статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в domain.Booking
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking              domain.Booking
		timeSlot             sql.NullString
		resourceID           sql.NullInt64
		personsJSON          []byte
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.ProductID,
		&booking.OrderID,
		&booking.OrderItemID,
		&booking.CustomerID,
		&booking.BookingType,
		&booking.StartDate,
		&booking.EndDate,
		&timeSlot,
		&booking.Duration,
		&booking.Quantity,
		&resourceID,
		&personsJSON,
		&booking.Status,
		&booking.Cost,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if timeSlot.Valid {
		booking.TimeSlot = types.TimeSlot(timeSlot.String)
	}
	if resourceID.Valid {
		booking.ResourceID = &resourceID.Int64
	}
	if len(personsJSON) > 0 {
		if err := json.Unmarshal(personsJSON, &booking.Persons); err != nil {
			return nil, err
		}
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
