package reader

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/videoreader"
)

type Demuxer struct {
	Path  string
	input Input
	stats *Statistics
}

func OpenDemuxer(
	ctx context.Context,
	backend Backend,
	path string,
	cfg videoreader.InputConfig,
	stats *Statistics,
) (_ret *Demuxer, _err error) {
	logger.Debugf(ctx, "OpenDemuxer(ctx, '%s')", path)
	defer func() { logger.Debugf(ctx, "/OpenDemuxer(ctx, '%s'): %v", path, _err) }()

	if path == "" {
		return nil, videoreader.ErrOpen{Path: path, Err: fmt.Errorf("the provided path is empty")}
	}

	input, err := backend.OpenInput(ctx, path, cfg.CustomOptions)
	if err != nil {
		return nil, videoreader.ErrOpen{Path: path, Err: err}
	}

	if stats == nil {
		stats = &Statistics{}
	}
	return &Demuxer{
		Path:  path,
		input: input,
		stats: stats,
	}, nil
}

func (d *Demuxer) Streams() []Stream {
	return d.input.Streams()
}

// ReadPacket fills pkt with the next packet of any stream. On success the
// caller owns a reference in pkt and must Unref it; on error pkt is left empty.
func (d *Demuxer) ReadPacket(
	ctx context.Context,
	pkt Packet,
) error {
	err := d.input.ReadPacket(ctx, pkt)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		return io.EOF
	default:
		return fmt.Errorf("unable to read a packet: %w", err)
	}

	d.stats.PacketsRead.Add(1)
	d.stats.BytesRead.Add(uint64(pkt.Size()))
	logger.Tracef(ctx, "received a packet (stream:%d, pts:%d, size:%d)", pkt.StreamIndex(), pkt.Pts(), pkt.Size())
	return nil
}

// Seek does not touch any decoder state; the caller must flush it.
func (d *Demuxer) Seek(
	ctx context.Context,
	streamIndex int,
	ts int64,
) (_err error) {
	logger.Debugf(ctx, "Seek(ctx, %d, %d)", streamIndex, ts)
	defer func() { logger.Debugf(ctx, "/Seek(ctx, %d, %d): %v", streamIndex, ts, _err) }()

	if err := d.input.SeekFrame(ctx, streamIndex, ts); err != nil {
		return videoreader.ErrSeek{Timestamp: ts, Err: err}
	}
	return nil
}

func (d *Demuxer) Close() error {
	return d.input.Close()
}
