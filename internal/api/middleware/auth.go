// Package middleware HTTP middleware: аутентификация и метрики.
package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/davm17/BLS-BookingService/internal/api/handlers"
)

type contextKey string

const userIDKey contextKey = "userID"

// Auth проверяет наличие заголовка X-User-ID и кладет ID пользователя
// в контекст запроса. Сервис живет за API gateway, который уже
// аутентифицировал пользователя.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("X-User-ID")
		if header == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок X-User-ID")
			return
		}

		userID, err := strconv.ParseInt(header, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "некорректный заголовок X-User-ID")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID извлекает ID пользователя из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
