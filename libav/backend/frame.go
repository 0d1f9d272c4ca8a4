//go:build with_libav
// +build with_libav

package backend

import (
	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/videoreader"
	"github.com/xaionaro-go/videoreader/reader"
)

type Frame struct {
	*astiav.Frame
}

var _ reader.Frame = (*Frame)(nil)

// Pts falls back to the dts of the packet the frame was decoded from; raw
// elementary streams often carry no pts at all.
func (f *Frame) Pts() int64 {
	if pts := f.Frame.Pts(); pts != reader.NoPts {
		return pts
	}
	return f.Frame.PktDts()
}

func (f *Frame) PixelFormat() videoreader.PixelFormat {
	return pixelFormatFromAstiav(f.Frame.PixelFormat())
}
