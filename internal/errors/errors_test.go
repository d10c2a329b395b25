package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobtrack/auth-service/internal/service"
)

func TestToHTTP_BaseMapping(t *testing.T) {
	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"invalid_email", service.ErrInvalidEmail, http.StatusBadRequest, "invalid_argument"},
		{"weak_password", service.ErrWeakPassword, http.StatusBadRequest, "invalid_argument"},
		{"empty_password", service.ErrEmptyPassword, http.StatusBadRequest, "invalid_argument"},
		{"email_taken", service.ErrEmailTaken, http.StatusConflict, "already_exists"},
		{"invalid_credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "unauthenticated"},
		{"invalid_token", service.ErrInvalidToken, http.StatusUnauthorized, "unauthenticated"},
		{"token_expired", service.ErrTokenExpired, http.StatusUnauthorized, "unauthenticated"},
		{"token_revoked", service.ErrTokenRevoked, http.StatusUnauthorized, "unauthenticated"},
		{"token_malformed", service.ErrTokenMalformed, http.StatusUnauthorized, "unauthenticated"},
		{"signature_invalid", service.ErrSignatureInvalid, http.StatusUnauthorized, "unauthenticated"},
		{"missing_claims", service.ErrMissingClaims, http.StatusUnauthorized, "unauthenticated"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, resp := ToHTTP(tc.in)
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

// Обёрнутые ошибки сервисного слоя (op-префиксы) маппятся так же,
// как и голые sentinel-ошибки.
func TestToHTTP_UnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("service.auth.LoginUser: %w", service.ErrInvalidCredentials)

	gotStatus, resp := ToHTTP(wrapped)
	require.Equal(t, http.StatusUnauthorized, gotStatus)
	require.Equal(t, "unauthenticated", resp.Error.Code)
}

// Все auth-отказы дают побайтово одинаковое тело — ответ не подсказывает,
// какой именно режим отказа сработал.
func TestToHTTP_AuthFailures_Indistinguishable(t *testing.T) {
	authErrs := []error{
		service.ErrInvalidCredentials,
		service.ErrInvalidToken,
		service.ErrTokenExpired,
		service.ErrTokenRevoked,
		service.ErrTokenMalformed,
		service.ErrSignatureInvalid,
		service.ErrMissingClaims,
	}

	baseStatus, baseResp := ToHTTP(authErrs[0])
	for _, err := range authErrs[1:] {
		gotStatus, resp := ToHTTP(err)
		require.Equal(t, baseStatus, gotStatus)
		require.Equal(t, baseResp, resp)
	}
}

func TestToHTTP_NilError_Returns500Internal(t *testing.T) {
	gotStatus, resp := ToHTTP(nil)
	require.Equal(t, http.StatusInternalServerError, gotStatus)
	require.Equal(t, "internal", resp.Error.Code)
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestWriteError_PropagatesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set("X-Request-Id", "rid-123")

	rr := httptest.NewRecorder()
	WriteError(rr, req, service.ErrInvalidCredentials)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "unauthenticated", resp.Error.Code)
	require.Equal(t, "rid-123", resp.Error.RequestID)
}
