package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobtrack/auth-service/internal/models"
)

// Тесты пакета identity: round-trip через контекст, изоляция конкурентных
// контекстов и устойчивость From к отсутствию/перекрытию значения.

func TestFrom_EmptyContext(t *testing.T) {
	t.Parallel()

	id, ok := From(context.Background())
	require.False(t, ok)
	require.Zero(t, id)
}

func TestIntoAndFrom_RoundTrip(t *testing.T) {
	t.Parallel()

	want := Identity{UserID: 42, Email: "user@example.com", Role: models.RoleUser}
	ctx := Into(context.Background(), want)

	got, ok := From(ctx)
	require.True(t, ok)
	require.Equal(t, want, got)

	// Родительский контекст не затронут.
	_, ok = From(context.Background())
	require.False(t, ok)
}

func TestInto_ChildShadowsParent(t *testing.T) {
	t.Parallel()

	parentID := Identity{UserID: 1, Email: "a@example.com", Role: models.RoleUser}
	childID := Identity{UserID: 2, Email: "b@example.com", Role: models.RoleAdmin}

	parent := Into(context.Background(), parentID)
	child := Into(parent, childID)

	got, ok := From(child)
	require.True(t, ok)
	require.Equal(t, childID, got)

	got, ok = From(parent)
	require.True(t, ok)
	require.Equal(t, parentID, got)
}

// Конкурентные запросы не делят личность: каждый контекст несёт свою.
func TestIdentity_IsolatedAcrossGoroutines(t *testing.T) {
	t.Parallel()

	const n = 16
	done := make(chan bool, n)

	for i := 0; i < n; i++ {
		i := i
		go func() {
			ctx := Into(context.Background(), Identity{UserID: int64(i), Role: models.RoleUser})
			got, ok := From(ctx)
			done <- ok && got.UserID == int64(i)
		}()
	}

	for i := 0; i < n; i++ {
		require.True(t, <-done)
	}
}
