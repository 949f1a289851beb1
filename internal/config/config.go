// Package config загрузка конфигурации сервиса из TOML файла.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server          ServerConfig       `toml:"server"`
	Database        DatabaseConfig     `toml:"database"`
	Logs            LogsConfig         `toml:"logs"`
	Metrics         MetricsConfig      `toml:"metrics"`
	OrderService    IntegrationConfig  `toml:"order_service"`
	CatalogService  IntegrationConfig  `toml:"catalog_service"`
	CalendarService IntegrationConfig  `toml:"calendar_service"`
	Cancellation    CancellationConfig `toml:"cancellation"`
	Pricing         PricingConfig      `toml:"pricing"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// IntegrationConfig настройки клиента внешнего сервиса
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// CancellationConfig настройки движка отмены бронирований
type CancellationConfig struct {
	// GlobalPrecedence инвертирует обычный приоритет политик:
	// глобальная политика побеждает продуктовую (по умолчанию false)
	GlobalPrecedence bool `toml:"global_precedence"`

	// ExcludedProductIDs продукты, для которых отмена запрещена
	// независимо от политик
	ExcludedProductIDs []int64 `toml:"excluded_product_ids"`

	// ProcessRefunds включает запуск процесса возврата средств
	// при отмене бронирования (по умолчанию выключено)
	ProcessRefunds bool `toml:"process_refunds"`
}

// PricingConfig настройки финансовой сверки при изменении бронирования
type PricingConfig struct {
	// DisableEditPriceChanges выключает пересчет цены при изменении
	// бронирования: меняются только поля, суммы позиции не трогаются
	DisableEditPriceChanges bool `toml:"disable_edit_price_changes"`
}

// Load читает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if c.OrderService.URL == "" {
		return fmt.Errorf("config: order_service.url is required")
	}
	if c.CatalogService.URL == "" {
		return fmt.Errorf("config: catalog_service.url is required")
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("config: metrics.path is required when metrics are enabled")
	}
	return nil
}
