package libav

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/facebookincubator/go-belt/tool/experimental/errmon"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/observability"
)

type Frame struct {
	Pts      int64
	Position time.Duration

	// Data is owned by the receiver.
	Data []byte
}

// ServeFrames decodes frames in a background goroutine until the end of the
// stream, an error or ctx cancellation. The frames channel is closed when
// serving stops; then the error channel yields the reason, nil meaning the
// end of the stream. A non-positive bufferSize means an unbuffered channel.
func (r *Reader) ServeFrames(
	ctx context.Context,
	bufferSize int,
) (<-chan Frame, <-chan error) {
	if bufferSize < 0 {
		bufferSize = 0
	}
	frames := make(chan Frame, bufferSize)
	errCh := make(chan error, 1)
	observability.Go(ctx, func(context.Context) {
		defer close(errCh)
		defer close(frames)
		err := r.serveFrames(ctx, frames)
		if err != nil && !errors.Is(err, context.Canceled) {
			errmon.ObserveErrorCtx(ctx, err)
		}
		errCh <- err
	})
	return frames, errCh
}

func (r *Reader) serveFrames(
	ctx context.Context,
	frames chan<- Frame,
) (_err error) {
	logger.Debugf(ctx, "serveFrames")
	defer func() { logger.Debugf(ctx, "/serveFrames: %v", _err) }()

	frameSize := r.FrameSize()
	timeBase := r.TimeBase()
	for {
		buf := make([]byte, frameSize)
		pts, err := r.ReadFrame(ctx, buf)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return nil
		default:
			return fmt.Errorf("unable to read a frame: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case frames <- Frame{
			Pts:      pts,
			Position: timeBase.ToDuration(pts),
			Data:     buf,
		}:
		}
	}
}
