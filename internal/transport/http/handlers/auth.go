package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/jobtrack/auth-service/internal/errors"
	"github.com/jobtrack/auth-service/internal/pkg/identity"
	logctx "github.com/jobtrack/auth-service/internal/pkg/log"
	"github.com/jobtrack/auth-service/internal/pkg/redact"
	"github.com/jobtrack/auth-service/internal/service"
)

// RegisterUser — POST /auth/register.
// 200 + access-токен + refresh-cookie; 409, если email занят; 400 на валидации.
func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidEmail)
		return
	}

	pair, user, err := h.svc.RegisterUser(r.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	logctx.From(r.Context()).LogAttrs(r.Context(), slog.LevelInfo, "user_registered",
		slog.Int64("user_id", user.ID),
		slog.String("email", redact.Email(user.Email)),
	)

	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, authResponse{
		UserID:          user.ID,
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt.Unix(),
	})
}

// LoginUser — POST /auth/login.
// 401 одинаков для неизвестного email и неверного пароля.
func (h *Handlers) LoginUser(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidCredentials)
		return
	}

	pair, user, err := h.svc.LoginUser(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, authResponse{
		UserID:          user.ID,
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt.Unix(),
	})
}

// RefreshSession — POST /auth/refresh.
// Токен берётся из cookie, для не-браузерных клиентов — из тела запроса.
// Ротация single-use: повтор предъявленного токена даёт 401.
func (h *Handlers) RefreshSession(w http.ResponseWriter, r *http.Request) {
	presented := h.presentedRefreshToken(r)
	if presented == "" {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	pair, user, err := h.svc.RefreshSession(r.Context(), presented)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, authResponse{
		UserID:          user.ID,
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt.Unix(),
	})
}

// LogoutUser — POST /auth/logout.
// Требует личность; отзывает все refresh-токены пользователя и стирает cookie.
// Cookie стирается независимо от того, нашлись ли активные токены.
func (h *Handlers) LogoutUser(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.From(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	if err := h.svc.Logout(r.Context(), ident.UserID); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	logctx.From(r.Context()).LogAttrs(r.Context(), slog.LevelInfo, "user_logged_out",
		slog.Int64("user_id", ident.UserID),
	)

	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// VerifyToken — GET /auth/verify.
// Read-only интроспекция access-токена: 200 с claims либо 401 с причиной.
// Здесь причины отказа различаются намеренно — см. introspectResponse.
func (h *Handlers) VerifyToken(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		writeJSON(w, http.StatusUnauthorized, introspectResponse{
			Valid: false,
			Error: "missing or invalid Authorization header",
		})
		return
	}

	token := strings.TrimSpace(auth[len(prefix):])
	claims, err := h.svc.Authenticate(r.Context(), token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, introspectResponse{
			Valid: false,
			Error: introspectError(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, introspectResponse{
		Valid:     true,
		Subject:   claims.Email,
		UserID:    claims.UserID,
		Role:      claims.Role.String(),
		IssuedAt:  claims.IssuedAt.Unix(),
		ExpiresAt: claims.ExpiresAt.Unix(),
	})
}

// presentedRefreshToken — cookie приоритетнее поля тела запроса.
func (h *Handlers) presentedRefreshToken(r *http.Request) string {
	if c, err := r.Cookie(refreshCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	var in refreshRequest
	if err := decodeStrict(r, &in); err != nil {
		return ""
	}

	return in.RefreshToken
}

// introspectError — человекочитаемая причина отказа для интроспекции.
func introspectError(err error) string {
	switch {
	case errors.Is(err, service.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, service.ErrSignatureInvalid):
		return "signature invalid"
	case errors.Is(err, service.ErrMissingClaims):
		return "required claims missing"
	case errors.Is(err, service.ErrTokenMalformed):
		return "token malformed"
	default:
		return "token invalid"
	}
}
