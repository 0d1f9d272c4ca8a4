package videoreader

// PixelFormat is a pixel format identified by its libav name (e.g. "yuv420p").
type PixelFormat string

const (
	PixelFormatUndefined = PixelFormat("")

	PixelFormatYUV420P = PixelFormat("yuv420p")
	PixelFormatYUV411P = PixelFormat("yuv411p")
	PixelFormatYUV422P = PixelFormat("yuv422p")
	PixelFormatYUV440P = PixelFormat("yuv440p")
	PixelFormatYUV444P = PixelFormat("yuv444p")

	// Deprecated full-range ("JPEG") variants; see NormalizePixelFormat.
	PixelFormatYUVJ420P = PixelFormat("yuvj420p")
	PixelFormatYUVJ411P = PixelFormat("yuvj411p")
	PixelFormatYUVJ422P = PixelFormat("yuvj422p")
	PixelFormatYUVJ440P = PixelFormat("yuvj440p")
	PixelFormatYUVJ444P = PixelFormat("yuvj444p")

	PixelFormatNV12  = PixelFormat("nv12")
	PixelFormatRGB24 = PixelFormat("rgb24")

	PixelFormatRGB0 = PixelFormat("rgb0")
	PixelFormatRGBA = PixelFormat("rgba")
	PixelFormatBGR0 = PixelFormat("bgr0")
	PixelFormatBGRA = PixelFormat("bgra")
)

// BytesPerPixel is the size of one pixel in every supported destination format.
const BytesPerPixel = 4

func (pf PixelFormat) String() string {
	if pf == PixelFormatUndefined {
		return "<undefined>"
	}
	return string(pf)
}

// IsPacked4 reports whether pf may be used as a destination format.
func (pf PixelFormat) IsPacked4() bool {
	switch pf {
	case PixelFormatRGB0, PixelFormatRGBA, PixelFormatBGR0, PixelFormatBGRA:
		return true
	}
	return false
}

// NormalizePixelFormat maps the deprecated full-range planar YUV formats to
// their standard counterparts; the scaler rejects the former.
func NormalizePixelFormat(pf PixelFormat) PixelFormat {
	switch pf {
	case PixelFormatYUVJ420P:
		return PixelFormatYUV420P
	case PixelFormatYUVJ411P:
		return PixelFormatYUV411P
	case PixelFormatYUVJ422P:
		return PixelFormatYUV422P
	case PixelFormatYUVJ440P:
		return PixelFormatYUV440P
	case PixelFormatYUVJ444P:
		return PixelFormatYUV444P
	default:
		return pf
	}
}

// FrameSize returns the destination buffer size required for a frame of the
// given geometry.
func FrameSize(width, height int) int {
	return width * height * BytesPerPixel
}
