package middleware

import (
	"context"
	"time"

	"siteavail/internal/app/queries"
)

// QueryTimeout bounds each query by d unless the caller already set an earlier deadline.
func QueryTimeout(d time.Duration) QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		if d <= 0 {
			return next
		}
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= d {
				return nextFn(ctx, q)
			}
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return nextFn(ctx, q)
		})
	}
}
