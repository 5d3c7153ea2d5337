package async

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/jari1882/simkb/pkg/utils/logging"
)

// Dispatch runs handler in a new goroutine with a detached context that
// keeps the caller's logger. Panics and errors are logged, never propagated.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := context.Background()
	if logger := logging.From(ctx); logger != nil {
		bgCtx = logging.With(bgCtx, logger)
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			logging.From(bgCtx).Error("async handler failed", "error", goerr.Unwrap(err))
		}
	}()
}
