package libav

import (
	"context"

	"github.com/xaionaro-go/videoreader"
	"github.com/xaionaro-go/videoreader/reader"
	"github.com/xaionaro-go/xsync"
)

// Reader is a videoreader.Reader safe for concurrent use.
type Reader struct {
	Locker  xsync.Mutex
	Session *reader.Session

	// ctx carries the logger for Close, which has no context argument;
	// it is never cancelled.
	ctx context.Context
}

var _ videoreader.Reader = (*Reader)(nil)

func (r *Reader) Width() int {
	return xsync.DoR1(xsync.WithNoLogging(r.ctx, true), &r.Locker, r.Session.Width)
}

func (r *Reader) Height() int {
	return xsync.DoR1(xsync.WithNoLogging(r.ctx, true), &r.Locker, r.Session.Height)
}

func (r *Reader) TimeBase() videoreader.Rational {
	return xsync.DoR1(xsync.WithNoLogging(r.ctx, true), &r.Locker, r.Session.TimeBase)
}

// Duration is in TimeBase units, 0 if unknown.
func (r *Reader) Duration() int64 {
	return xsync.DoR1(xsync.WithNoLogging(r.ctx, true), &r.Locker, r.Session.Duration)
}

func (r *Reader) FrameSize() int {
	return xsync.DoR1(xsync.WithNoLogging(r.ctx, true), &r.Locker, func() int {
		return videoreader.FrameSize(r.Session.Width(), r.Session.Height())
	})
}

func (r *Reader) Stats() videoreader.Stats {
	return r.Session.Stats()
}

func (r *Reader) ReadFrame(
	ctx context.Context,
	dst []byte,
) (int64, error) {
	return xsync.DoR2(ctx, &r.Locker, func() (int64, error) {
		return r.Session.ReadFrame(ctx, dst)
	})
}

func (r *Reader) Seek(
	ctx context.Context,
	ts int64,
) error {
	return xsync.DoR1(ctx, &r.Locker, func() error {
		return r.Session.Seek(ctx, ts)
	})
}

// Close never fails; release errors are logged.
func (r *Reader) Close() error {
	return xsync.DoR1(r.ctx, &r.Locker, func() error {
		r.Session.Close(r.ctx)
		return nil
	})
}
