package models

import "time"

// RefreshToken - данные refresh-токена для управления сессиями.
// В БД хранится только sha256-хэш секрета; сам секрет существует лишь
// у клиента. Отозванные и просроченные строки сохраняются для аудита.
type RefreshToken struct {
	RefreshTokenHash string
	UserID           int64
	CreatedAt        time.Time
	ExpiresAt        time.Time
	Revoked          bool
}
