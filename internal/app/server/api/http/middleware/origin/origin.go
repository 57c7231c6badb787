package origin

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"credvault/internal/domain/audit"
)

type contextKey string

const originKey contextKey = "origin"

// Middleware captures where the request came from so handlers can stamp audit
// entries without touching transport details themselves.
func Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		o := audit.Origin{
			IP:        ctx.RemoteAddr(),
			UserAgent: ctx.Header("User-Agent"),
		}
		next(huma.WithContext(ctx, context.WithValue(ctx.Context(), originKey, o)))
	}
}

// FromContext returns the request origin, zero when the middleware did not
// run.
func FromContext(ctx context.Context) audit.Origin {
	o, _ := ctx.Value(originKey).(audit.Origin)
	return o
}
