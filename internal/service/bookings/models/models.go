package models

import (
	"time"

	"github.com/davm17/BLS-BookingService/internal/domain"
)

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"productId"`
	OrderID     int64  `json:"orderId"`
	OrderItemID int64  `json:"orderItemId"`
	CustomerID  int64  `json:"customerId"`
	BookingType string `json:"bookingType"`

	StartDate string `json:"startDate"`          // "2025-06-10"
	EndDate   string `json:"endDate,omitempty"`  // для multi_day
	TimeSlot  string `json:"timeSlot,omitempty"` // "10:00 - 12:00"
	Duration  int    `json:"duration,omitempty"`

	Quantity   int             `json:"quantity"`
	ResourceID *int64          `json:"resourceId,omitempty"`
	Persons    map[int64]int   `json:"persons,omitempty"`
	Status     string          `json:"status"`
	Cost       float64         `json:"cost"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// UserBookingsResponse история бронирований пользователя,
// разделенная на предстоящие и прошедшие по времени начала
type UserBookingsResponse struct {
	Upcoming []BookingResponse `json:"upcoming"`
	Past     []BookingResponse `json:"past"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:          b.ID,
		ProductID:   b.ProductID,
		OrderID:     b.OrderID,
		OrderItemID: b.OrderItemID,
		CustomerID:  b.CustomerID,
		BookingType: string(b.BookingType),
		StartDate:   b.StartDate.Format(domain.DateFormat),
		TimeSlot:    b.TimeSlot.String(),
		Duration:    b.Duration,
		Quantity:    b.Quantity,
		ResourceID:  b.ResourceID,
		Persons:     b.Persons,
		Status:      string(b.Status),
		Cost:        b.Cost,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}

	if b.BookingType.HasEndDate() && !b.EndDate.IsZero() {
		resp.EndDate = b.EndDate.Format(domain.DateFormat)
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
