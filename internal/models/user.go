package models

import "time"

// User - модель пользователя в системе.
// Ядро аутентификации читает id/email/role для claims и проверяет
// password_hash; остальными полями владеют CRUD-слои приложения.
type User struct {
	ID           int64
	Name         string
	Email        string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
