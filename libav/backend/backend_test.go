//go:build with_libav
// +build with_libav

package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/asticode/go-astiav"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/videoreader"
	"github.com/xaionaro-go/videoreader/reader"
)

func testCtx() context.Context {
	return logger.CtxWithLogger(context.Background(), logrus.Default().WithLevel(logger.LevelDebug))
}

func TestOpenInputNonexistent(t *testing.T) {
	ctx := testCtx()
	b, err := New(ctx)
	require.NoError(t, err)

	_, err = b.OpenInput(ctx, filepath.Join(t.TempDir(), "nonexistent.mp4"), nil)
	require.Error(t, err)

	s, err := reader.Open(ctx, b, filepath.Join(t.TempDir(), "nonexistent.mp4"), videoreader.Config{})
	require.Nil(t, s)
	var openErr videoreader.ErrOpen
	require.ErrorAs(t, err, &openErr)
}

func TestPixelFormatNames(t *testing.T) {
	for _, pf := range []videoreader.PixelFormat{
		videoreader.PixelFormatYUV420P,
		videoreader.PixelFormatYUVJ420P,
		videoreader.PixelFormatNV12,
		videoreader.PixelFormatRGB0,
		videoreader.PixelFormatRGBA,
		videoreader.PixelFormatBGR0,
		videoreader.PixelFormatBGRA,
	} {
		native, err := pixelFormatToAstiav(pf)
		require.NoError(t, err, pf)
		require.Equal(t, pf, pixelFormatFromAstiav(native))
	}

	_, err := pixelFormatToAstiav("yuv420p10le")
	require.Error(t, err)
	require.Equal(t, videoreader.PixelFormat("yuv420p10le"), pixelFormatFromAstiav(astiav.PixelFormatYuv420P10Le))
	native, err := pixelFormatToAstiav("yuv420p10le")
	require.NoError(t, err)
	require.Equal(t, astiav.PixelFormatYuv420P10Le, native)
}

func TestScalerBlackFrame(t *testing.T) {
	ctx := testCtx()
	b, err := New(ctx)
	require.NoError(t, err)

	const width, height = 8, 4
	scaler, err := b.NewScaler(ctx, reader.ScalerParams{
		SourcePixelFormat:      videoreader.PixelFormatYUV420P,
		SourceWidth:            width,
		SourceHeight:           height,
		DestinationPixelFormat: videoreader.PixelFormatRGBA,
		DestinationWidth:       width,
		DestinationHeight:      height,
		Algorithm:              videoreader.ScaleAlgorithmBilinear,
	})
	require.NoError(t, err)
	defer scaler.Close()

	frame, err := b.AllocFrame()
	require.NoError(t, err)
	defer frame.Free()
	src := frame.(*Frame).Frame
	src.SetWidth(width)
	src.SetHeight(height)
	src.SetPixelFormat(astiav.PixelFormatYuv420P)
	require.NoError(t, src.AllocBuffer(1))
	require.NoError(t, src.ImageFillBlack())

	dst := make([]byte, videoreader.FrameSize(width, height))
	require.NoError(t, scaler.ScaleFrame(ctx, frame, dst))
	for i := 0; i < width*height; i++ {
		require.Equal(t, []byte{0, 0, 0, 255}, dst[i*4:i*4+4], i)
	}

	var sizeErr videoreader.ErrBufferTooSmall
	require.ErrorAs(t, scaler.ScaleFrame(ctx, frame, dst[:len(dst)-1]), &sizeErr)
}

func TestScaleAlgorithms(t *testing.T) {
	for a := videoreader.ScaleAlgorithmUndefined; a < videoreader.EndOfScaleAlgorithm; a++ {
		_, err := scaleAlgorithmToAstiav(a)
		require.NoError(t, err, a)
	}
	_, err := scaleAlgorithmToAstiav(videoreader.EndOfScaleAlgorithm)
	require.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	require.Equal(t, astiav.LogLevelQuiet, logLevelToAstiav(logger.LevelUndefined))
	require.Equal(t, astiav.LogLevelWarning, logLevelToAstiav(logger.LevelWarning))
	require.Equal(t, astiav.LogLevelTrace, logLevelToAstiav(logger.LevelTrace))
}
