// Входные/выходные модели REST-эндпоинтов аутентификации.
package handlers

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type authResponse struct {
	UserID          int64  `json:"user_id"`
	AccessToken     string `json:"access_token"`
	AccessExpiresAt int64  `json:"access_expires_at"` // Unix UTC
}

// introspectResponse — диагностический ответ GET /auth/verify.
// В отличие от login здесь допустимо различать режимы отказа:
// вызывающий и так уже владеет токеном.
type introspectResponse struct {
	Valid     bool   `json:"valid"`
	Subject   string `json:"subject,omitempty"`
	UserID    int64  `json:"uid,omitempty"`
	Role      string `json:"role,omitempty"`
	IssuedAt  int64  `json:"issued_at,omitempty"`  // Unix UTC
	ExpiresAt int64  `json:"expires_at,omitempty"` // Unix UTC
	Error     string `json:"error,omitempty"`
}
