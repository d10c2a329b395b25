// identity хранит request-scoped личность вызывающего в context.Context.
//
// Личность восстанавливается из проверенного access-токена ровно один раз
// на запрос (middleware.Authenticate) и существует только в контексте этого
// запроса. Никакого глобального состояния: конкурентные запросы полностью
// независимы.
package identity

import (
	"context"

	"github.com/jobtrack/auth-service/internal/models"
)

type ctxKey struct{}

// Identity — личность вызывающего, восстановленная из access-токена.
type Identity struct {
	UserID int64
	Email  string
	Role   models.Role
}

// Into кладёт личность в контекст.
func Into(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// From достаёт личность из контекста.
// Второе значение false означает неаутентифицированный запрос.
func From(ctx context.Context) (Identity, bool) {
	v := ctx.Value(ctxKey{})
	if v == nil {
		return Identity{}, false
	}

	id, ok := v.(Identity)
	return id, ok
}
