package reader

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/videoreader"
	"github.com/xaionaro-go/videoreader/internal"
)

// Converter turns decoded frames into packed 4-bytes-per-pixel pictures of a
// fixed geometry. The underlying scaler is built once, from the pixel format
// of the first frame; later format changes are not detected.
type Converter struct {
	Width     int
	Height    int
	Format    videoreader.PixelFormat
	Algorithm videoreader.ScaleAlgorithm

	backend      Backend
	scaler       Scaler
	sourceFormat videoreader.PixelFormat
	stats        *Statistics
}

func NewConverter(
	backend Backend,
	width, height int,
	cfg videoreader.OutputConfig,
	stats *Statistics,
) *Converter {
	if stats == nil {
		stats = &Statistics{}
	}
	return &Converter{
		Width:     width,
		Height:    height,
		Format:    cfg.PixelFormat,
		Algorithm: cfg.ScaleAlgorithm,
		backend:   backend,
		stats:     stats,
	}
}

func (c *Converter) IsInitialized() bool {
	return c.scaler != nil
}

// SourcePixelFormat is the (normalized) format the scaler was built for.
func (c *Converter) SourcePixelFormat() videoreader.PixelFormat {
	return c.sourceFormat
}

func (c *Converter) EnsureInitialized(
	ctx context.Context,
	sourceFormat videoreader.PixelFormat,
) (_err error) {
	if c.scaler != nil {
		return nil
	}

	normalized := videoreader.NormalizePixelFormat(sourceFormat)
	logger.Debugf(ctx, "EnsureInitialized(ctx, %s): normalized to %s", sourceFormat, normalized)
	defer func() { logger.Debugf(ctx, "/EnsureInitialized(ctx, %s): %v", sourceFormat, _err) }()

	if !c.Format.IsPacked4() {
		return videoreader.ErrConversionInit{
			PixelFormat: sourceFormat,
			Err:         fmt.Errorf("destination format %s is not a packed 4-bytes-per-pixel format", c.Format),
		}
	}

	scaler, err := c.backend.NewScaler(ctx, ScalerParams{
		SourcePixelFormat:      normalized,
		SourceWidth:            c.Width,
		SourceHeight:           c.Height,
		DestinationPixelFormat: c.Format,
		DestinationWidth:       c.Width,
		DestinationHeight:      c.Height,
		Algorithm:              c.Algorithm,
	})
	if err != nil {
		return videoreader.ErrConversionInit{PixelFormat: sourceFormat, Err: err}
	}
	internal.Assert(ctx, scaler != nil, "the backend returned a nil scaler")

	c.scaler = scaler
	c.sourceFormat = normalized
	return nil
}

// Convert writes the frame into dst (row-major, stride Width*4, no padding).
func (c *Converter) Convert(
	ctx context.Context,
	frame Frame,
	dst []byte,
) error {
	if want := videoreader.FrameSize(c.Width, c.Height); len(dst) < want {
		return videoreader.ErrBufferTooSmall{Have: len(dst), Want: want}
	}
	if err := c.EnsureInitialized(ctx, frame.PixelFormat()); err != nil {
		return err
	}
	if err := c.scaler.ScaleFrame(ctx, frame, dst); err != nil {
		return fmt.Errorf("unable to convert the frame: %w", err)
	}
	c.stats.FramesConverted.Add(1)
	return nil
}

func (c *Converter) Close() error {
	if c.scaler == nil {
		return nil
	}
	err := c.scaler.Close()
	c.scaler = nil
	return err
}
