//go:build with_libav
// +build with_libav

package backend

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/videoreader"
	"github.com/xaionaro-go/xsync"
)

var (
	pixelFormatsLocker xsync.Mutex
	pixelFormats       = map[videoreader.PixelFormat]astiav.PixelFormat{}
)

func init() {
	for _, pf := range []astiav.PixelFormat{
		astiav.PixelFormatYuv420P,
		astiav.PixelFormatYuv411P,
		astiav.PixelFormatYuv422P,
		astiav.PixelFormatYuv440P,
		astiav.PixelFormatYuv444P,
		astiav.PixelFormatYuvj420P,
		astiav.PixelFormatYuvj411P,
		astiav.PixelFormatYuvj422P,
		astiav.PixelFormatYuvj440P,
		astiav.PixelFormatYuvj444P,
		astiav.PixelFormatNv12,
		astiav.PixelFormatRgb24,
		astiav.PixelFormatRgb0,
		astiav.PixelFormatRgba,
		astiav.PixelFormatBgr0,
		astiav.PixelFormatBgra,
	} {
		pixelFormats[videoreader.PixelFormat(pf.String())] = pf
	}
}

// pixelFormatFromAstiav also remembers the format, so that any format a
// decoder produced can be converted back by pixelFormatToAstiav.
func pixelFormatFromAstiav(pf astiav.PixelFormat) videoreader.PixelFormat {
	if pf == astiav.PixelFormatNone {
		return videoreader.PixelFormatUndefined
	}
	return xsync.DoR1(lockCtx(), &pixelFormatsLocker, func() videoreader.PixelFormat {
		name := videoreader.PixelFormat(pf.String())
		if _, ok := pixelFormats[name]; !ok {
			pixelFormats[name] = pf
		}
		return name
	})
}

func lockCtx() context.Context {
	return xsync.WithNoLogging(context.Background(), true)
}

func pixelFormatToAstiav(name videoreader.PixelFormat) (astiav.PixelFormat, error) {
	pf, ok := xsync.DoR2(lockCtx(), &pixelFormatsLocker, func() (astiav.PixelFormat, bool) {
		pf, ok := pixelFormats[name]
		return pf, ok
	})
	if !ok {
		return astiav.PixelFormatNone, fmt.Errorf("unknown pixel format '%s'", name)
	}
	return pf, nil
}
