package reader

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/videoreader"
)

type FrameDecoder struct {
	StreamIndex int

	decoder    Decoder
	stats      *Statistics
	isDraining bool
	isDrained  bool

	// used to fill in timestamps of frames which have none
	nextGuessedPts int64
}

func NewFrameDecoder(
	ctx context.Context,
	backend Backend,
	stream StreamInfo,
	cfg videoreader.DecoderConfig,
	stats *Statistics,
) (_ret *FrameDecoder, _err error) {
	logger.Debugf(ctx, "NewFrameDecoder(ctx, #%d, %#+v)", stream.Index, cfg)
	defer func() { logger.Debugf(ctx, "/NewFrameDecoder(ctx, #%d, %#+v): %v", stream.Index, cfg, _err) }()

	codecName := cfg.CodecName
	if codecName == "" {
		codecName = stream.Stream.CodecName()
	}

	decoder, err := backend.NewDecoder(ctx, stream.Stream, cfg)
	if err != nil {
		return nil, videoreader.ErrDecoderInit{
			StreamIndex: stream.Index,
			Codec:       codecName,
			Err:         err,
		}
	}

	if stats == nil {
		stats = &Statistics{}
	}
	return &FrameDecoder{
		StreamIndex: stream.Index,
		decoder:     decoder,
		stats:       stats,
	}, nil
}

// DecodeNext decodes the next frame of the selected stream into frame and
// returns its presentation timestamp. On success frame holds a reference the
// caller must Unref. Returns io.EOF once the stream is exhausted and the
// decoder is fully drained.
func (d *FrameDecoder) DecodeNext(
	ctx context.Context,
	demuxer *Demuxer,
	pkt Packet,
	frame Frame,
) (int64, error) {
	if d.isDrained {
		return 0, io.EOF
	}

	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		err := d.decoder.ReceiveFrame(ctx, frame)
		switch {
		case err == nil:
			d.stats.FramesDecoded.Add(1)
			pts := frame.Pts()
			if pts == NoPts {
				pts = d.nextGuessedPts
				logger.Tracef(ctx, "the frame has no timestamp, assuming %d", pts)
			}
			d.nextGuessedPts = pts + 1
			logger.Tracef(ctx, "decoded a frame (pts:%d, fmt:%s)", pts, frame.PixelFormat())
			return pts, nil
		case errors.Is(err, io.EOF):
			d.isDrained = true
			return 0, io.EOF
		case errors.Is(err, ErrNeedMoreInput):
		default:
			return 0, videoreader.ErrDecode{Err: fmt.Errorf("unable to receive a frame: %w", err)}
		}

		if d.isDraining {
			d.isDrained = true
			return 0, io.EOF
		}

		if err := d.feed(ctx, demuxer, pkt); err != nil {
			return 0, err
		}
	}
}

// feed submits the next packet of the selected stream to the decoder, or
// switches the decoder into draining mode if the demuxer is exhausted.
func (d *FrameDecoder) feed(
	ctx context.Context,
	demuxer *Demuxer,
	pkt Packet,
) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		isSent := false
		err := withNextPacket(ctx, demuxer, pkt, func(pkt Packet) error {
			if pkt.StreamIndex() != d.StreamIndex {
				d.stats.PacketsSkipped.Add(1)
				return nil
			}
			if err := d.decoder.SendPacket(ctx, pkt); err != nil {
				return videoreader.ErrDecode{Err: fmt.Errorf("unable to send packet to the decoder: %w", err)}
			}
			isSent = true
			return nil
		})

		var decodeErr videoreader.ErrDecode
		switch {
		case err == nil:
			if isSent {
				return nil
			}
		case errors.Is(err, io.EOF):
			logger.Debugf(ctx, "end of input, draining the decoder")
			if err := d.decoder.SendEndOfStream(ctx); err != nil {
				return videoreader.ErrDecode{Err: fmt.Errorf("unable to drain the decoder: %w", err)}
			}
			d.isDraining = true
			return nil
		case errors.As(err, &decodeErr):
			return err
		default:
			return videoreader.ErrDecode{Err: err}
		}
	}
}

// Flush drops every frame buffered inside the decoder; required after the
// demuxer was repositioned.
func (d *FrameDecoder) Flush(ctx context.Context) {
	logger.Debugf(ctx, "Flush")
	d.decoder.Flush(ctx)
	d.isDraining = false
	d.isDrained = false
}

// GuessMissingPtsFrom makes the next frame without a timestamp be reported
// as ts (and the following ones as ts+1, ts+2, ...).
func (d *FrameDecoder) GuessMissingPtsFrom(ts int64) {
	d.nextGuessedPts = ts
}

func (d *FrameDecoder) CodecName() string {
	return d.decoder.CodecName()
}

func (d *FrameDecoder) Close() error {
	return d.decoder.Close()
}
