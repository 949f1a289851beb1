// Package calendarsync клиент уведомлений внешнего календарного сервиса.
// Уведомления fire-and-forget: ошибки логируются, но не прерывают
// обработку изменения бронирования.
package calendarsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/davm17/BLS-BookingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Event payload уведомления о изменении бронирования
type Event struct {
	BookingID   int64  `json:"booking_id"`
	ProductID   int64  `json:"product_id"`
	OrderID     int64  `json:"order_id"`
	OrderItemID int64  `json:"order_item_id"`
	Start       string `json:"start"`
	End         string `json:"end"`
	TimeSlot    string `json:"time_slot,omitempty"`
	Quantity    int    `json:"quantity"`
}

// Client клиент календарного сервиса
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента календарного сервиса
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// BookingReleased уведомляет календарь об освобождении брони
// (событие должно быть удалено из внешнего календаря)
func (c *Client) BookingReleased(ctx context.Context, booking *domain.Booking) {
	if err := c.post(ctx, "/internal/calendar/released", eventFromBooking(booking)); err != nil {
		c.log.Warn("calendarsync: failed to notify booking released, booking_id=%d: %v", booking.ID, err)
		return
	}
	c.log.Info("calendarsync: booking released notification sent, booking_id=%d", booking.ID)
}

// BookingCreated уведомляет календарь о новой брони
// (событие должно быть создано во внешнем календаре)
func (c *Client) BookingCreated(ctx context.Context, booking *domain.Booking) {
	if err := c.post(ctx, "/internal/calendar/created", eventFromBooking(booking)); err != nil {
		c.log.Warn("calendarsync: failed to notify booking created, booking_id=%d: %v", booking.ID, err)
		return
	}
	c.log.Info("calendarsync: booking created notification sent, booking_id=%d", booking.ID)
}

func eventFromBooking(b *domain.Booking) Event {
	return Event{
		BookingID:   b.ID,
		ProductID:   b.ProductID,
		OrderID:     b.OrderID,
		OrderItemID: b.OrderItemID,
		Start:       b.StartDate.Format(domain.DateFormat),
		End:         b.EndDate.Format(domain.DateFormat),
		TimeSlot:    b.TimeSlot.String(),
		Quantity:    b.Quantity,
	}
}

func (c *Client) post(ctx context.Context, path string, payload Event) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
