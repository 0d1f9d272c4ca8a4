package internal

import (
	"context"
	"runtime"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// SetFinalizer registers callback to run when obj becomes unreachable. It is
// meant for leak detection only: the callback must not release resources,
// since the owner may still be releasing them concurrently.
func SetFinalizer[T any](
	ctx context.Context,
	obj T,
	callback func(in T),
) {
	runtime.SetFinalizer(obj, func(in T) {
		logger.Tracef(ctx, "finalizing %T", in)
		callback(in)
	})
}
