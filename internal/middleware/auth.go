package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"taskmanager/internal/logger"
	"taskmanager/internal/models"
	"taskmanager/internal/service"

	"go.uber.org/zap"
)

const UserIdKey contextKey = "user_id"

const tokenHeader = "x-token"

// TokenAuthenticator разбирает токен x-token и возвращает владельца.
type TokenAuthenticator interface {
	AuthenticateToken(ctx context.Context, token string) (*models.User, error)
}

// Auth проверяет токен до поиска строк: отсутствие или неверный токен
// всегда даёт 401, даже если запрошенной задачи не существует.
func Auth(users TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(tokenHeader)
			if token == "" {
				logger.Warn("Auth: Токен отсутствует",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("client_ip", r.RemoteAddr))

				unauthorized(w, "INVALID_TOKEN", "Invalid token format")
				return
			}

			user, err := users.AuthenticateToken(r.Context(), token)
			if err != nil {
				var businessErr *service.BusinessError
				if errors.As(err, &businessErr) {
					logger.Warn("Auth: Неверный токен",
						zap.String("request_id", GetRequestID(r.Context())),
						zap.String("error_code", businessErr.Code),
						zap.String("client_ip", r.RemoteAddr))

					unauthorized(w, businessErr.Code, businessErr.Message)
					return
				}

				logger.Error("Auth: Ошибка проверки токена", err,
					zap.String("request_id", GetRequestID(r.Context())))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]any{"error": err.Error()})
				return
			}

			ctx := context.WithValue(r.Context(), UserIdKey, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIdKey).(int64)
	return id, ok
}

func unauthorized(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"error":   code,
		"message": message,
	})
}
