package reader

import (
	"context"
	"errors"
	"math"

	"github.com/xaionaro-go/videoreader"
)

// ErrNeedMoreInput is returned by Decoder.ReceiveFrame when the decoder
// requires another packet before it can output a frame.
var ErrNeedMoreInput = errors.New("the decoder needs more input")

// NoPts is reported by Frame.Pts when the frame carries no timestamp.
const NoPts = int64(math.MinInt64)

type MediaType int

const (
	MediaTypeUnknown = MediaType(iota)
	MediaTypeVideo
	MediaTypeAudio
	MediaTypeSubtitle
	MediaTypeData
)

func (t MediaType) String() string {
	switch t {
	case MediaTypeVideo:
		return "video"
	case MediaTypeAudio:
		return "audio"
	case MediaTypeSubtitle:
		return "subtitle"
	case MediaTypeData:
		return "data"
	}
	return "unknown"
}

// Backend is the demuxing/decoding/scaling library the Session drives.
type Backend interface {
	OpenInput(ctx context.Context, path string, options videoreader.DictionaryItems) (Input, error)
	NewDecoder(ctx context.Context, stream Stream, cfg videoreader.DecoderConfig) (Decoder, error)
	NewScaler(ctx context.Context, params ScalerParams) (Scaler, error)
	AllocPacket() (Packet, error)
	AllocFrame() (Frame, error)
}

type Input interface {
	Streams() []Stream

	// ReadPacket fills pkt with the next packet in container order, or
	// returns io.EOF.
	ReadPacket(ctx context.Context, pkt Packet) error

	// SeekFrame moves to the nearest keyframe at or before ts.
	SeekFrame(ctx context.Context, streamIndex int, ts int64) error

	Close() error
}

type Stream interface {
	Index() int
	MediaType() MediaType
	CodecName() string

	// HasDecoder reports whether a decoder for the stream's codec is available.
	HasDecoder() bool

	Width() int
	Height() int
	TimeBase() videoreader.Rational

	// Duration is in TimeBase units, 0 if unknown.
	Duration() int64
}

type Packet interface {
	StreamIndex() int
	Pts() int64
	Size() int
	Unref()
	Free()
}

type Frame interface {
	// Pts returns NoPts if the timestamp is unknown.
	Pts() int64
	PixelFormat() videoreader.PixelFormat
	Width() int
	Height() int
	Unref()
	Free()
}

type Decoder interface {
	CodecName() string

	SendPacket(ctx context.Context, pkt Packet) error

	// SendEndOfStream switches the decoder into draining mode.
	SendEndOfStream(ctx context.Context) error

	// ReceiveFrame returns ErrNeedMoreInput or io.EOF (fully drained)
	// when there is no frame to output.
	ReceiveFrame(ctx context.Context, frame Frame) error

	Flush(ctx context.Context)
	Close() error
}

type ScalerParams struct {
	SourcePixelFormat      videoreader.PixelFormat
	SourceWidth            int
	SourceHeight           int
	DestinationPixelFormat videoreader.PixelFormat
	DestinationWidth       int
	DestinationHeight      int
	Algorithm              videoreader.ScaleAlgorithm
}

type Scaler interface {
	// ScaleFrame writes the converted picture into dst with a stride of
	// DestinationWidth*4 bytes.
	ScaleFrame(ctx context.Context, frame Frame, dst []byte) error
	Close() error
}
