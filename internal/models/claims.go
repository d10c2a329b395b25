package models

import "time"

// AccessClaims — проверенные claims access-токена.
// Возвращаются кодеком только после успешной верификации подписи,
// срока действия и присутствия всех обязательных полей.
type AccessClaims struct {
	// UserID — числовой идентификатор пользователя (claim "uid").
	UserID int64
	// Email — e-mail пользователя (claim "sub").
	Email string
	// Role — роль пользователя (claim "role").
	Role Role
	// IssuedAt — момент выпуска токена (claim "iat", UTC).
	IssuedAt time.Time
	// ExpiresAt — момент истечения токена (claim "exp", UTC).
	ExpiresAt time.Time
}
