//go:build with_libav
// +build with_libav

// Package backend implements reader.Backend on top of libav (via go-astiav).
package backend

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/videoreader"
	"github.com/xaionaro-go/videoreader/reader"
)

type Backend struct{}

var _ reader.Backend = (*Backend)(nil)

func New(ctx context.Context) (*Backend, error) {
	astiav.SetLogLevel(logLevelToAstiav(logger.FromCtx(ctx).Level()))
	return &Backend{}, nil
}

func logLevelToAstiav(level logger.Level) astiav.LogLevel {
	switch level {
	case logger.LevelTrace:
		return astiav.LogLevelTrace
	case logger.LevelDebug:
		return astiav.LogLevelDebug
	case logger.LevelInfo:
		return astiav.LogLevelInfo
	case logger.LevelWarning:
		return astiav.LogLevelWarning
	case logger.LevelError:
		return astiav.LogLevelError
	case logger.LevelPanic, logger.LevelFatal:
		return astiav.LogLevelFatal
	default:
		return astiav.LogLevelQuiet
	}
}

func (*Backend) OpenInput(
	ctx context.Context,
	path string,
	options videoreader.DictionaryItems,
) (reader.Input, error) {
	return newInput(ctx, path, options)
}

func (*Backend) NewDecoder(
	ctx context.Context,
	stream reader.Stream,
	cfg videoreader.DecoderConfig,
) (reader.Decoder, error) {
	s, ok := stream.(*Stream)
	if !ok {
		return nil, fmt.Errorf("expected a stream of type %T, but received %T", (*Stream)(nil), stream)
	}
	return newDecoder(ctx, s, cfg)
}

func (*Backend) NewScaler(
	ctx context.Context,
	params reader.ScalerParams,
) (reader.Scaler, error) {
	return newScaler(ctx, params)
}

func (*Backend) AllocPacket() (reader.Packet, error) {
	pkt := astiav.AllocPacket()
	if pkt == nil {
		return nil, fmt.Errorf("unable to allocate a packet")
	}
	return &Packet{Packet: pkt}, nil
}

func (*Backend) AllocFrame() (reader.Frame, error) {
	frame := astiav.AllocFrame()
	if frame == nil {
		return nil, fmt.Errorf("unable to allocate a frame")
	}
	return &Frame{Frame: frame}, nil
}
