package catalogservice

import (
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

// Client клиент для работы с CatalogService (источник политик).
// Значения политик только читаются, никогда не вычисляются здесь.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента CatalogService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetProduct получает конфигурацию бронируемого продукта
func (c *Client) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	url := fmt.Sprintf("%s/internal/products/%d", c.baseURL, productID)

	var product Product
	if err := c.doGet(ctx, url, &product, ErrProductNotFound); err != nil {
		return nil, err
	}

	return &product, nil
}

// GetGlobalPolicy получает глобальную конфигурацию бронирований.
// Конфигурация - singleton на стороне каталога; здесь она передается
// дальше явным значением, без скрытого глобального состояния.
func (c *Client) GetGlobalPolicy(ctx context.Context) (*GlobalPolicy, error) {
	url := fmt.Sprintf("%s/internal/settings/booking", c.baseURL)

	var policy GlobalPolicy
	if err := c.doGet(ctx, url, &policy, ErrInvalidResponse); err != nil {
		return nil, err
	}

	return &policy, nil
}

func (c *Client) doGet(ctx context.Context, url string, out interface{}, notFoundErr error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFoundErr
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
