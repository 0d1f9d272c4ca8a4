//go:build with_libav
// +build with_libav

package backend

import (
	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/videoreader"
	"github.com/xaionaro-go/videoreader/reader"
)

type Stream struct {
	*astiav.Stream
	FormatContext *astiav.FormatContext
}

var _ reader.Stream = (*Stream)(nil)

func newStream(fc *astiav.FormatContext, stream *astiav.Stream) *Stream {
	return &Stream{
		Stream:        stream,
		FormatContext: fc,
	}
}

func (s *Stream) MediaType() reader.MediaType {
	switch s.CodecParameters().MediaType() {
	case astiav.MediaTypeVideo:
		return reader.MediaTypeVideo
	case astiav.MediaTypeAudio:
		return reader.MediaTypeAudio
	case astiav.MediaTypeSubtitle:
		return reader.MediaTypeSubtitle
	case astiav.MediaTypeData:
		return reader.MediaTypeData
	}
	return reader.MediaTypeUnknown
}

func (s *Stream) CodecName() string {
	return s.CodecParameters().CodecID().String()
}

func (s *Stream) HasDecoder() bool {
	return astiav.FindDecoder(s.CodecParameters().CodecID()) != nil
}

func (s *Stream) Width() int {
	return s.CodecParameters().Width()
}

func (s *Stream) Height() int {
	return s.CodecParameters().Height()
}

func (s *Stream) TimeBase() videoreader.Rational {
	return rationalFromAstiav(s.Stream.TimeBase())
}

func (s *Stream) Duration() int64 {
	d := s.Stream.Duration()
	if d < 0 {
		// AV_NOPTS_VALUE
		return 0
	}
	return d
}

func rationalFromAstiav(r astiav.Rational) videoreader.Rational {
	return videoreader.Rational{Num: r.Num(), Den: r.Den()}
}
