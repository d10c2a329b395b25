package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	t.Run("known roles", func(t *testing.T) {
		r, err := ParseRole("USER")
		require.NoError(t, err)
		require.Equal(t, RoleUser, r)

		r, err = ParseRole("ADMIN")
		require.NoError(t, err)
		require.Equal(t, RoleAdmin, r)
	})

	// Неизвестная роль — ошибка, без молчаливого отката к USER.
	t.Run("unknown rejected", func(t *testing.T) {
		for _, s := range []string{"", "user", "Admin", "SUPERUSER", "USER "} {
			_, err := ParseRole(s)
			require.Error(t, err, "role %q", s)
		}
	})
}

func TestRole_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "USER", RoleUser.String())
	require.Equal(t, "ADMIN", RoleAdmin.String())
}
