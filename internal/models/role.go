package models

import "fmt"

// Role — закрытое перечисление ролей пользователя.
// На проводе роль передаётся строкой ("USER"/"ADMIN"), но внутри кода
// сравнение идёт только с этими константами: ParseRole отклоняет всё прочее.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole валидирует строковое представление роли.
// Неизвестная роль — ошибка, а не молчаливый откат к RoleUser.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// String возвращает проводное представление роли.
func (r Role) String() string {
	return string(r)
}
