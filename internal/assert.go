package internal

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// Assert panics (through the logger in ctx, so the message is also logged)
// if an internal invariant does not hold. extraArgs describe the invariant.
func Assert(
	ctx context.Context,
	mustBeTrue bool,
	extraArgs ...any,
) {
	if mustBeTrue {
		return
	}

	msg := "internal invariant violated"
	if len(extraArgs) > 0 {
		msg += ": " + fmt.Sprint(extraArgs...)
	}
	logger.Panic(ctx, msg)
}
