package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobtrack/auth-service/internal/models"
	"github.com/jobtrack/auth-service/internal/pkg/identity"
)

func TestIsAdmin(t *testing.T) {
	t.Parallel()

	require.True(t, IsAdmin(identity.Identity{UserID: 1, Role: models.RoleAdmin}))
	require.False(t, IsAdmin(identity.Identity{UserID: 1, Role: models.RoleUser}))
	require.False(t, IsAdmin(identity.Identity{}))
}

func TestCanAccessUser(t *testing.T) {
	t.Parallel()

	owner := identity.Identity{UserID: 42, Role: models.RoleUser}
	stranger := identity.Identity{UserID: 7, Role: models.RoleUser}
	admin := identity.Identity{UserID: 7, Role: models.RoleAdmin}

	require.True(t, CanAccessUser(owner, 42), "владелец имеет доступ к своему ресурсу")
	require.False(t, CanAccessUser(stranger, 42), "чужой пользователь доступа не имеет")
	require.True(t, CanAccessUser(admin, 42), "админ имеет доступ к любому ресурсу")
}
