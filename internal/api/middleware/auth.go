package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-BusinessBooking/internal/api/handlers"
)

const (
	HeaderUserID     = "X-User-ID"
	HeaderBusinessID = "X-Business-ID"

	msgMissingUserID     = "отсутствует или некорректен заголовок X-User-ID"
	msgMissingBusinessID = "отсутствует или некорректен заголовок X-Business-ID"
)

type contextKey string

const (
	userIDKey     contextKey = "user_id"
	businessIDKey contextKey = "business_id"
)

// Auth требует заголовок X-User-ID и кладёт ID пользователя в контекст.
// Проверка подлинности выполняется на API gateway.
func Auth(next http.Handler) http.Handler {
	return identity(HeaderUserID, userIDKey, msgMissingUserID, next)
}

// BusinessAuth требует заголовок X-Business-ID и кладёт ID компании в контекст
func BusinessAuth(next http.Handler) http.Handler {
	return identity(HeaderBusinessID, businessIDKey, msgMissingBusinessID, next)
}

// GetUserID ID пользователя из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// GetBusinessID ID компании из контекста запроса
func GetBusinessID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(businessIDKey).(int64)
	return id, ok
}

// WithUserID кладёт ID пользователя в контекст
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// WithBusinessID кладёт ID компании в контекст
func WithBusinessID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, businessIDKey, id)
}

func identity(header string, key contextKey, msg string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.Header.Get(header), 10, 64)
		if err != nil || id <= 0 {
			handlers.RespondUnauthorized(w, msg)
			return
		}

		ctx := context.WithValue(r.Context(), key, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
