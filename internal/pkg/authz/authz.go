// authz — простые предикаты авторизации поверх identity.
// Политика намеренно примитивна: роль и владение ресурсом.
package authz

import (
	"github.com/jobtrack/auth-service/internal/models"
	"github.com/jobtrack/auth-service/internal/pkg/identity"
)

// IsAdmin сообщает, имеет ли вызывающий роль ADMIN.
func IsAdmin(id identity.Identity) bool {
	return id.Role == models.RoleAdmin
}

// CanAccessUser — владелец ресурса или администратор.
func CanAccessUser(id identity.Identity, ownerID int64) bool {
	return id.UserID == ownerID || IsAdmin(id)
}
