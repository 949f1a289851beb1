package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/davm17/BLS-BookingService/internal/api/handlers/cancel_booking"
	editBookingHandler "github.com/davm17/BLS-BookingService/internal/api/handlers/edit_booking"
	getBookingHandler "github.com/davm17/BLS-BookingService/internal/api/handlers/get_booking"
	getOrderBookingsHandler "github.com/davm17/BLS-BookingService/internal/api/handlers/get_order_bookings"
	getUserBookingsHandler "github.com/davm17/BLS-BookingService/internal/api/handlers/get_user_bookings"
	"github.com/davm17/BLS-BookingService/internal/api/middleware"
	"github.com/davm17/BLS-BookingService/internal/config"
	bookingRepo "github.com/davm17/BLS-BookingService/internal/infra/storage/booking"
	reservationRepo "github.com/davm17/BLS-BookingService/internal/infra/storage/reservation"
	calendarClient "github.com/davm17/BLS-BookingService/internal/integrations/calendarsync"
	catalogServiceClient "github.com/davm17/BLS-BookingService/internal/integrations/catalogservice"
	orderServiceClient "github.com/davm17/BLS-BookingService/internal/integrations/orderservice"
	bookingsService "github.com/davm17/BLS-BookingService/internal/service/bookings"
	"github.com/davm17/BLS-BookingService/internal/service/sanity"
	cancelBookingUC "github.com/davm17/BLS-BookingService/internal/usecase/cancel_booking"
	editBookingUC "github.com/davm17/BLS-BookingService/internal/usecase/edit_booking"
	"github.com/davm17/BLS-BookingService/pkg/dbmetrics"
	"github.com/davm17/BLS-BookingService/pkg/logger"
	"github.com/davm17/BLS-BookingService/pkg/metrics"
	"github.com/davm17/BLS-BookingService/pkg/simpletxmanager"
	"github.com/davm17/BLS-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting BLS-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	orderClient := orderServiceClient.NewClient(
		cfg.OrderService.URL,
		time.Duration(cfg.OrderService.Timeout)*time.Second,
		log,
	)
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	calendar := calendarClient.NewClient(
		cfg.CalendarService.URL,
		time.Duration(cfg.CalendarService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (OrderService=%s, CatalogService=%s, CalendarService=%s)",
		cfg.OrderService.URL, cfg.CatalogService.URL, cfg.CalendarService.URL)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		bookingRepository     *bookingRepo.Repository
		reservationRepository *reservationRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		log.Info("Database metrics collection started")
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		reservationRepository = reservationRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		orderClient,
		log,
	)
	validator := sanity.NewValidator()

	// Инициализируем use cases
	policyOpts := cancelBookingUC.PolicyOptions{
		GlobalPrecedence:   cfg.Cancellation.GlobalPrecedence,
		ExcludedProductIDs: cfg.Cancellation.ExcludedProductIDs,
	}

	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		reservationRepository,
		orderClient,
		catalogClient,
		calendar,
		txMgr,
		policyOpts,
		cfg.Cancellation.ProcessRefunds,
		log,
	)

	editBookingUseCase := editBookingUC.NewUseCase(
		bookingRepository,
		reservationRepository,
		orderClient,
		catalogClient,
		calendar,
		validator,
		txMgr,
		log,
	)
	if cfg.Pricing.DisableEditPriceChanges {
		editBookingUseCase.DisablePriceChanges()
		log.Info("Price recalculation on booking edits is disabled by config")
	}

	// Инициализируем handlers
	editBooking := editBookingHandler.NewHandler(editBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getOrderBookings := getOrderBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// INTERNAL ROUTES (для соседних сервисов, без аутентификации)
	// ============================================================

	// Бронирования заказа
	api.HandleFunc("/orders/{orderId}/bookings", getOrderBookings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Изменение бронирования
	protected.HandleFunc("/bookings/{bookingId}", editBooking.Handle).Methods(http.MethodPut)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
