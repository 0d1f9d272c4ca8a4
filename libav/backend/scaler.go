//go:build with_libav
// +build with_libav

package backend

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/videoreader"
	"github.com/xaionaro-go/videoreader/reader"
)

type Scaler struct {
	Params reader.ScalerParams

	scaleContext *astiav.SoftwareScaleContext
	dstFrame     *astiav.Frame
	closer       *astikit.Closer
}

var _ reader.Scaler = (*Scaler)(nil)

func newScaler(
	ctx context.Context,
	params reader.ScalerParams,
) (_ret *Scaler, _err error) {
	logger.Debugf(ctx, "newScaler(ctx, %#+v)", params)
	defer func() { logger.Debugf(ctx, "/newScaler(ctx, %#+v): %v", params, _err) }()

	srcFormat, err := pixelFormatToAstiav(params.SourcePixelFormat)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	dstFormat, err := pixelFormatToAstiav(params.DestinationPixelFormat)
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}
	flag, err := scaleAlgorithmToAstiav(params.Algorithm)
	if err != nil {
		return nil, err
	}

	s := &Scaler{
		Params: params,
		closer: astikit.NewCloser(),
	}
	defer func() {
		if _err != nil {
			_ = s.Close()
		}
	}()

	s.scaleContext, err = astiav.CreateSoftwareScaleContext(
		params.SourceWidth, params.SourceHeight, srcFormat,
		params.DestinationWidth, params.DestinationHeight, dstFormat,
		astiav.NewSoftwareScaleContextFlags(flag),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create a scale context %s->%s: %w", params.SourcePixelFormat, params.DestinationPixelFormat, err)
	}
	s.closer.Add(s.scaleContext.Free)

	s.dstFrame = astiav.AllocFrame()
	if s.dstFrame == nil {
		return nil, fmt.Errorf("unable to allocate a frame")
	}
	s.closer.Add(s.dstFrame.Free)

	s.dstFrame.SetWidth(params.DestinationWidth)
	s.dstFrame.SetHeight(params.DestinationHeight)
	s.dstFrame.SetPixelFormat(dstFormat)
	if err := s.dstFrame.AllocBuffer(1); err != nil {
		return nil, fmt.Errorf("unable to allocate the destination buffer: %w", err)
	}

	return s, nil
}

func scaleAlgorithmToAstiav(a videoreader.ScaleAlgorithm) (astiav.SoftwareScaleContextFlag, error) {
	switch a {
	case videoreader.ScaleAlgorithmFastBilinear:
		return astiav.SoftwareScaleContextFlagFastBilinear, nil
	case videoreader.ScaleAlgorithmBilinear, videoreader.ScaleAlgorithmUndefined:
		return astiav.SoftwareScaleContextFlagBilinear, nil
	case videoreader.ScaleAlgorithmBicubic:
		return astiav.SoftwareScaleContextFlagBicubic, nil
	case videoreader.ScaleAlgorithmPoint:
		return astiav.SoftwareScaleContextFlagPoint, nil
	case videoreader.ScaleAlgorithmArea:
		return astiav.SoftwareScaleContextFlagArea, nil
	case videoreader.ScaleAlgorithmLanczos:
		return astiav.SoftwareScaleContextFlagLanczos, nil
	}
	return 0, fmt.Errorf("unknown scale algorithm %s", a)
}

// ScaleFrame converts the frame and copies the result into dst without
// row padding.
func (s *Scaler) ScaleFrame(
	_ context.Context,
	frame reader.Frame,
	dst []byte,
) error {
	if err := s.scaleContext.ScaleFrame(frame.(*Frame).Frame, s.dstFrame); err != nil {
		return fmt.Errorf("unable to scale: %w", err)
	}

	size, err := s.dstFrame.ImageBufferSize(1)
	if err != nil {
		return fmt.Errorf("unable to get the image size: %w", err)
	}
	if len(dst) < size {
		return videoreader.ErrBufferTooSmall{Have: len(dst), Want: size}
	}
	if _, err := s.dstFrame.ImageCopyToBuffer(dst[:size], 1); err != nil {
		return fmt.Errorf("unable to copy the image: %w", err)
	}
	return nil
}

func (s *Scaler) Close() error {
	return s.closer.Close()
}
