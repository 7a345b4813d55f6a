package middlewares

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/duende/internal"
	"github.com/dmitrymomot/duende/pkg/db"
)

// Database returns middleware giving each request its own scoped database
// session on pool. The connection is acquired on first use.
func Database(pool *pgxpool.Pool) internal.Middleware {
	if pool == nil {
		return DatabaseAcquirer(nil)
	}
	return DatabaseAcquirer(db.PoolAcquirer(pool))
}

// DatabaseAcquirer is Database with a custom connection source.
// The session is released when the rest of the chain returns, whatever the
// outcome, so connections never outlive their request.
func DatabaseAcquirer(acquire db.AcquireFunc) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if acquire == nil {
				return fmt.Errorf("%w: database pool is not configured", ErrMisconfigured)
			}

			s := db.NewScoped(acquire)
			defer s.Release()

			c.Set(internal.DBKey{}, s)
			return next(c)
		}
	}
}
