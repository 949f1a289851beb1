package edit_booking

import (
	"context"

	usecase "github.com/davm17/BLS-BookingService/internal/usecase/edit_booking"
)

type EditBookingUseCase interface {
	Execute(ctx context.Context, req *usecase.Request) (*usecase.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
