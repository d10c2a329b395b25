// transport/http собирает HTTP-поверхность auth-сервиса: роутер chi,
// цепочку middleware и регистрацию auth-маршрутов.
//
// Здесь выполняется только маппинг данных и ошибок доменного слоя (service)
// в HTTP; вся валидация и бизнес-логика находятся в пакете service.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jobtrack/auth-service/internal/config"
	"github.com/jobtrack/auth-service/internal/service"
	"github.com/jobtrack/auth-service/internal/transport/http/handlers"
	"github.com/jobtrack/auth-service/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, cfg config.AuthConfig, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(),            // счётчики/гистограммы для /metrics
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}
	root.Use(middleware.Authenticate(svc)) // восстанавливаем личность из bearer-токена

	h := handlers.New(svc, cfg)

	// Регистрация маршрутов.
	root.Post("/auth/register", h.RegisterUser)
	root.Post("/auth/login", h.LoginUser)
	root.Post("/auth/refresh", h.RefreshSession)
	root.Post("/auth/logout", h.LogoutUser)
	root.Get("/auth/verify", h.VerifyToken)

	return root
}
