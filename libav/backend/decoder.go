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

type Decoder struct {
	codec        *astiav.Codec
	codecContext *astiav.CodecContext
	options      *astiav.Dictionary
	closer       *astikit.Closer
}

var _ reader.Decoder = (*Decoder)(nil)

func newDecoder(
	ctx context.Context,
	stream *Stream,
	cfg videoreader.DecoderConfig,
) (_ret *Decoder, _err error) {
	logger.Debugf(ctx, "newDecoder(ctx, #%d, '%s')", stream.Index(), cfg.CodecName)
	defer func() { logger.Debugf(ctx, "/newDecoder(ctx, #%d, '%s'): %v", stream.Index(), cfg.CodecName, _err) }()

	d := &Decoder{
		closer: astikit.NewCloser(),
	}
	defer func() {
		if _err != nil {
			_ = d.Close()
		}
	}()

	codecParameters := stream.CodecParameters()
	if cfg.CodecName != "" {
		d.codec = astiav.FindDecoderByName(cfg.CodecName)
	} else {
		d.codec = astiav.FindDecoder(codecParameters.CodecID())
	}
	if d.codec == nil {
		return nil, fmt.Errorf("unable to find a codec using name '%s' or codec ID %v", cfg.CodecName, codecParameters.CodecID())
	}

	d.codecContext = astiav.AllocCodecContext(d.codec)
	if d.codecContext == nil {
		return nil, fmt.Errorf("unable to allocate codec context")
	}
	d.closer.Add(d.codecContext.Free)

	if err := codecParameters.ToCodecContext(d.codecContext); err != nil {
		return nil, fmt.Errorf("codecParameters.ToCodecContext(...) returned error: %w", err)
	}

	if frameRate := stream.FormatContext.GuessFrameRate(stream.Stream, nil); frameRate.Num() != 0 {
		d.codecContext.SetFramerate(frameRate)
	}

	if len(cfg.CustomOptions) > 0 {
		d.options = astiav.NewDictionary()
		d.closer.Add(d.options.Free)
		for _, opt := range cfg.CustomOptions {
			logger.Debugf(ctx, "decoder.options['%s'] = '%s'", opt.Key, opt.Value)
			d.options.Set(opt.Key, opt.Value, 0)
		}
	}

	if err := d.codecContext.Open(d.codec, d.options); err != nil {
		return nil, fmt.Errorf("unable to open codec context: %w", err)
	}

	return d, nil
}

func (d *Decoder) CodecName() string {
	return d.codec.Name()
}

func (d *Decoder) SendPacket(
	_ context.Context,
	pkt reader.Packet,
) error {
	return d.codecContext.SendPacket(pkt.(*Packet).Packet)
}

func (d *Decoder) SendEndOfStream(context.Context) error {
	err := d.codecContext.SendPacket(nil)
	if errors.Is(err, astiav.ErrEof) {
		// already draining
		return nil
	}
	return err
}

func (d *Decoder) ReceiveFrame(
	_ context.Context,
	frame reader.Frame,
) error {
	err := d.codecContext.ReceiveFrame(frame.(*Frame).Frame)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, astiav.ErrEagain):
		return reader.ErrNeedMoreInput
	case errors.Is(err, astiav.ErrEof):
		return io.EOF
	default:
		return err
	}
}

func (d *Decoder) Flush(ctx context.Context) {
	logger.Tracef(ctx, "Flush")
	d.codecContext.FlushBuffers()
}

func (d *Decoder) Close() error {
	return d.closer.Close()
}
