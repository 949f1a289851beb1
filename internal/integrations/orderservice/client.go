package orderservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с OrderService (внешний реестр заказов).
// Все мутации денег и метаданных позиций проходят через него -
// сам сервис бронирований заказами не владеет.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента OrderService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetOrder получает заказ по ID
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	url := fmt.Sprintf("%s/internal/orders/%d", c.baseURL, orderID)

	var order Order
	if err := c.doGet(ctx, url, &order, ErrOrderNotFound); err != nil {
		return nil, err
	}

	return &order, nil
}

// GetLineItem получает позицию заказа
func (c *Client) GetLineItem(ctx context.Context, orderID, itemID int64) (*LineItem, error) {
	url := fmt.Sprintf("%s/internal/orders/%d/items/%d", c.baseURL, orderID, itemID)

	var item LineItem
	if err := c.doGet(ctx, url, &item, ErrLineItemNotFound); err != nil {
		return nil, err
	}

	return &item, nil
}

// GetUser получает пользователя по ID.
// Имя пользователя используется в аудиторских заметках.
func (c *Client) GetUser(ctx context.Context, userID int64) (*User, error) {
	url := fmt.Sprintf("%s/internal/users/%d", c.baseURL, userID)

	var user User
	if err := c.doGet(ctx, url, &user, ErrUserNotFound); err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateLineItemMeta обновляет метаданные позиции заказа
func (c *Client) UpdateLineItemMeta(ctx context.Context, itemID int64, key, value string) error {
	url := fmt.Sprintf("%s/internal/items/%d/meta", c.baseURL, itemID)
	return c.doWrite(ctx, http.MethodPut, url, lineMetaRequest{Key: key, Value: value}, ErrLineItemNotFound)
}

// SetLineAmounts устанавливает суммы позиции заказа (subtotal, tax, total)
func (c *Client) SetLineAmounts(ctx context.Context, itemID int64, subtotal, tax, total float64) error {
	url := fmt.Sprintf("%s/internal/items/%d/amounts", c.baseURL, itemID)
	return c.doWrite(ctx, http.MethodPut, url, lineAmountsRequest{Subtotal: subtotal, Tax: tax, Total: total}, ErrLineItemNotFound)
}

// RecalculateTotals запускает пересчет итоговых сумм заказа
func (c *Client) RecalculateTotals(ctx context.Context, orderID int64) error {
	url := fmt.Sprintf("%s/internal/orders/%d/recalculate", c.baseURL, orderID)
	return c.doWrite(ctx, http.MethodPost, url, nil, ErrOrderNotFound)
}

// AppendNote добавляет аудиторскую заметку к заказу
func (c *Client) AppendNote(ctx context.Context, orderID int64, text string) error {
	url := fmt.Sprintf("%s/internal/orders/%d/notes", c.baseURL, orderID)
	return c.doWrite(ctx, http.MethodPost, url, noteRequest{Text: text}, ErrOrderNotFound)
}

// MaybeRefund запускает процесс возврата средств за позицию заказа.
// Возвращает true, если возврат был инициирован.
func (c *Client) MaybeRefund(ctx context.Context, orderID, itemID int64) (bool, error) {
	url := fmt.Sprintf("%s/internal/orders/%d/items/%d/refund", c.baseURL, orderID, itemID)

	body, err := c.do(ctx, http.MethodPost, url, nil, ErrLineItemNotFound)
	if err != nil {
		return false, err
	}

	var resp refundResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, fmt.Errorf("%w: failed to decode refund response: %v", ErrInvalidResponse, err)
	}

	return resp.Refunded, nil
}

// doGet выполняет GET запрос и декодирует ответ в out
func (c *Client) doGet(ctx context.Context, url string, out interface{}, notFoundErr error) error {
	body, err := c.do(ctx, http.MethodGet, url, nil, notFoundErr)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}

// doWrite выполняет мутирующий запрос без декодирования ответа
func (c *Client) doWrite(ctx context.Context, method, url string, payload interface{}, notFoundErr error) error {
	_, err := c.do(ctx, method, url, payload, notFoundErr)
	return err
}

func (c *Client) do(ctx context.Context, method, url string, payload interface{}, notFoundErr error) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, notFoundErr
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrInvalidResponse, err)
	}

	return body, nil
}
