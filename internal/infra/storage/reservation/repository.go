package reservation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/davm17/BLS-BookingService/internal/domain"
	"github.com/davm17/BLS-BookingService/pkg/dbmetrics"
	"github.com/davm17/BLS-BookingService/pkg/psqlbuilder"
	"github.com/davm17/BLS-BookingService/pkg/types"
)

// Repository репозиторий записей о зарезервированной вместимости.
//
// Схема повторяет устройство внешнего хранилища резерваций:
//   - reservation_entries: одна запись = один удержанный объем вместимости
//     продукта/ресурса на временное окно
//   - reservation_order_links: связка запись-заказ; у одного заказа может
//     быть несколько записей (например, multi-date бронирования)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория резерваций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindEntriesForOrder возвращает активные (не освобожденные) записи
// резерваций, привязанные к заказу, в порядке их сохранения.
// Порядок важен: при неоднозначном сопоставлении побеждает первая запись.
func (r *Repository) FindEntriesForOrder(ctx context.Context, orderID int64) ([]*domain.ReservationEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"e.id",
		"e.product_id",
		"e.resource_id",
		"e.start_date",
		"e.end_date",
		"e.from_time",
		"e.to_time",
		"e.quantity",
		"e.created_at",
	).
		From("reservation_entries e").
		Join("reservation_order_links l ON l.entry_id = e.id").
		Where(squirrel.Eq{"l.order_id": orderID}).
		Where("e.released_at IS NULL").
		OrderBy("l.id ASC")

	// В транзакции блокируем записи: пара release+create не должна
	// пересекаться с конкурентной резервацией того же слота
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF e")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindEntriesForOrder - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindEntriesForOrder - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.ReservationEntry, 0)

	for rows.Next() {
		var (
			entry      domain.ReservationEntry
			resourceID sql.NullInt64
			fromTime   sql.NullString
			toTime     sql.NullString
			createdAt  sql.NullTime
		)

		err := rows.Scan(
			&entry.ID,
			&entry.ProductID,
			&resourceID,
			&entry.StartDate,
			&entry.EndDate,
			&fromTime,
			&toTime,
			&entry.Quantity,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: FindEntriesForOrder - scan row: %v", ErrScanRow, err)
		}

		if resourceID.Valid {
			entry.ResourceID = &resourceID.Int64
		}
		if fromTime.Valid {
			entry.FromTime = types.TimeString(fromTime.String)
		}
		if toTime.Valid {
			entry.ToTime = types.TimeString(toTime.String)
		}
		entry.CreatedAt = createdAt.Time

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindEntriesForOrder - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

// Release освобождает удержанную вместимость.
// Запись помечается освобожденной, но не удаляется - история резерваций
// сохраняется.
func (r *Repository) Release(ctx context.Context, entryID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservation_entries").
		Set("released_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": entryID}).
		Where("released_at IS NULL").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Release - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// Create создает новую запись резервации и привязывает ее к заказу.
// Возвращает запись с присвоенным ID.
func (r *Repository) Create(ctx context.Context, orderID int64, entry *domain.ReservationEntry) (*domain.ReservationEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservation_entries").
		Columns(
			"product_id",
			"resource_id",
			"start_date",
			"end_date",
			"from_time",
			"to_time",
			"quantity",
		).
		Values(
			entry.ProductID,
			entry.ResourceID,
			entry.StartDate,
			entry.EndDate,
			nullableTime(entry.FromTime),
			nullableTime(entry.ToTime),
			entry.Quantity,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	entry.CreatedAt = createdAt.Time

	linkQuery, linkArgs, err := psqlbuilder.Insert("reservation_order_links").
		Columns("order_id", "entry_id").
		Values(orderID, entry.ID).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build link insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, linkQuery, linkArgs...); err != nil {
		return nil, fmt.Errorf("%w: Create - execute link insert: %v", ErrExecQuery, err)
	}

	return entry, nil
}

// DeleteOrderLink удаляет связку запись-заказ.
// Для multi-day бронирований связка намеренно сохраняется (см. reconciler),
// для остальных типов удаляется перед созданием новой записи.
func (r *Repository) DeleteOrderLink(ctx context.Context, orderID, entryID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("reservation_order_links").
		Where(squirrel.Eq{"order_id": orderID, "entry_id": entryID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteOrderLink - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteOrderLink - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// nullableTime конвертирует TimeString в значение для nullable колонки
func nullableTime(t types.TimeString) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.String()
}
