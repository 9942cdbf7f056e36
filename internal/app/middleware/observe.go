package middleware

import (
	"context"
	"log/slog"
	"time"

	"siteavail/internal/app/queries"
)

// QueryObserver records the outcome of a query, e.g. into metrics.
type QueryObserver interface {
	ObserveQuery(key string, duration time.Duration, err error)
}

func QueryMetrics(o QueryObserver) QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		if o == nil {
			return next
		}
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := nextFn(ctx, q)
			o.ObserveQuery(q.Key(), time.Since(start), err)
			return res, err
		})
	}
}

func QueryLogging(log *slog.Logger) QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		if log == nil {
			return next
		}
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := nextFn(ctx, q)
			if err != nil {
				log.WarnContext(ctx, "query failed", "query", q.Key(), "duration", time.Since(start), "error", err)
				return res, err
			}
			log.DebugContext(ctx, "query served", "query", q.Key(), "duration", time.Since(start))
			return res, nil
		})
	}
}
