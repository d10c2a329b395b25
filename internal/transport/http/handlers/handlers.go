package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jobtrack/auth-service/internal/config"
	"github.com/jobtrack/auth-service/internal/service"
)

// refreshCookieName — имя HttpOnly-cookie с refresh-токеном.
const refreshCookieName = "refresh_token"

// refreshCookiePath — cookie отдаётся браузером только на auth-маршруты.
const refreshCookiePath = "/auth"

// Handlers агрегирует зависимости auth-эндпоинтов.
type Handlers struct {
	svc *service.Service
	cfg config.AuthConfig
}

func New(svc *service.Service, cfg config.AuthConfig) *Handlers {
	return &Handlers{svc: svc, cfg: cfg}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// setRefreshCookie выставляет refresh-cookie: HttpOnly, SameSite=Lax,
// путь ограничен auth-маршрутами, Max-Age равен TTL refresh-токена.
func (h *Handlers) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(h.cfg.RefreshTokenTTL / time.Second),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearRefreshCookie стирает refresh-cookie (Max-Age отрицательный -> "Max-Age=0").
func (h *Handlers) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
