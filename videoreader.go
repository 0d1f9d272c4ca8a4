package videoreader

import (
	"context"
	"io"
)

// Reader decodes the video stream of a single media file into packed
// 4-bytes-per-pixel frames.
type Reader interface {
	io.Closer

	Width() int
	Height() int
	TimeBase() Rational

	// ReadFrame decodes the next frame into dst (at least FrameSize(Width(), Height())
	// bytes) and returns its presentation timestamp in TimeBase units.
	// Returns io.EOF when no more frames remain.
	ReadFrame(ctx context.Context, dst []byte) (int64, error)

	// Seek positions the reader so that the next ReadFrame returns the first
	// frame with a timestamp at or after ts.
	Seek(ctx context.Context, ts int64) error

	Stats() Stats
}

type Stats struct {
	PacketsRead     uint64
	PacketsSkipped  uint64
	BytesRead       uint64
	FramesDecoded   uint64
	FramesDiscarded uint64
	FramesConverted uint64
}
