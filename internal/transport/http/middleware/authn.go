package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jobtrack/auth-service/internal/models"
	"github.com/jobtrack/auth-service/internal/pkg/identity"
	logctx "github.com/jobtrack/auth-service/internal/pkg/log"
)

// Authenticator проверяет access-токен; реализуется сервисным слоем.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.AccessClaims, error)
}

// passthroughPaths — маршруты, где токен не инспектируется вовсе:
// клиент на них по определению ещё не аутентифицирован.
// Logout сюда не входит: ему нужна личность из bearer-токена.
var passthroughPaths = map[string]struct{}{
	"/auth/register": {},
	"/auth/login":    {},
	"/auth/refresh":  {},
}

// Authenticate — per-request фильтр аутентификации.
//
// Машина состояний на запрос:
//   - preflight (OPTIONS), открытые auth-маршруты, уже установленная личность
//     или отсутствие bearer-токена — сквозной проход без инспекции;
//   - токен есть и проверен, все обязательные claims на месте —
//     личность кладётся в контекст запроса;
//   - любой отказ верификации (включая MissingClaims) — запрос продолжается
//     неаутентифицированным; личность не устанавливается.
//
// Фильтр никогда сам не пишет HTTP-ответ: 401/403 для маршрутов,
// требующих личность, возвращают нижестоящие проверки.
func Authenticate(auth Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			if _, open := passthroughPaths[r.URL.Path]; open {
				next.ServeHTTP(w, r)
				return
			}

			// Идемпотентный повторный вход: личность уже установлена.
			if _, ok := identity.From(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				// Невалидный/просроченный/неполный токен — не ошибка запроса,
				// а отсутствие личности. Детали остаются в логах.
				logctx.From(r.Context()).LogAttrs(r.Context(), slog.LevelDebug, "authn_rejected",
					slog.String("path", r.URL.Path),
					slog.String("err", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx := identity.Into(r.Context(), identity.Identity{
				UserID: claims.UserID,
				Email:  claims.Email,
				Role:   claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken извлекает токен из Authorization: Bearer <token>.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) || len(auth) == len(prefix) {
		return ""
	}

	return strings.TrimSpace(auth[len(prefix):])
}
