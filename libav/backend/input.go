//go:build with_libav
// +build with_libav

package backend

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/videoreader"
	"github.com/xaionaro-go/videoreader/reader"
)

type Input struct {
	*astikit.Closer
	*astiav.FormatContext
	*astiav.Dictionary

	streams []reader.Stream
}

var _ reader.Input = (*Input)(nil)

func newInput(
	ctx context.Context,
	path string,
	options videoreader.DictionaryItems,
) (_ret *Input, _err error) {
	input := &Input{
		Closer: astikit.NewCloser(),
	}
	defer func() {
		if _err != nil {
			_ = input.Close()
		}
	}()

	input.FormatContext = astiav.AllocFormatContext()
	if input.FormatContext == nil {
		return nil, fmt.Errorf("unable to allocate a format context")
	}
	input.Closer.Add(input.FormatContext.Free)

	if len(options) > 0 {
		input.Dictionary = astiav.NewDictionary()
		input.Closer.Add(input.Dictionary.Free)

		for _, opt := range options {
			logger.Debugf(ctx, "input.Dictionary['%s'] = '%s'", opt.Key, opt.Value)
			input.Dictionary.Set(opt.Key, opt.Value, 0)
		}
	}

	if err := input.FormatContext.OpenInput(path, nil, input.Dictionary); err != nil {
		return nil, fmt.Errorf("unable to open input '%s': %w", path, err)
	}
	input.Closer.Add(input.FormatContext.CloseInput)

	if err := input.FormatContext.FindStreamInfo(nil); err != nil {
		return nil, fmt.Errorf("unable to get stream info: %w", err)
	}

	for _, stream := range input.FormatContext.Streams() {
		input.streams = append(input.streams, newStream(input.FormatContext, stream))
	}
	return input, nil
}

func (i *Input) Streams() []reader.Stream {
	return i.streams
}

func (i *Input) ReadPacket(
	_ context.Context,
	pkt reader.Packet,
) error {
	err := i.FormatContext.ReadFrame(pkt.(*Packet).Packet)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, astiav.ErrEof):
		return io.EOF
	default:
		return fmt.Errorf("unable to read a frame: %w", err)
	}
}

func (i *Input) SeekFrame(
	ctx context.Context,
	streamIndex int,
	ts int64,
) error {
	logger.Tracef(ctx, "SeekFrame(ctx, %d, %d)", streamIndex, ts)
	return i.FormatContext.SeekFrame(streamIndex, ts, astiav.NewSeekFlags(astiav.SeekFlagBackward))
}
