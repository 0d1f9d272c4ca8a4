package videoreader

import (
	"fmt"
)

type ErrOpen struct {
	Path string
	Err  error
}

func (e ErrOpen) Error() string {
	return fmt.Sprintf("unable to open '%s': %v", e.Path, e.Err)
}

func (e ErrOpen) Unwrap() error {
	return e.Err
}

type ErrNoVideoStream struct {
	StreamCount int
}

func (e ErrNoVideoStream) Error() string {
	return fmt.Sprintf("no decodable video stream among %d streams", e.StreamCount)
}

type ErrDecoderInit struct {
	StreamIndex int
	Codec       string
	Err         error
}

func (e ErrDecoderInit) Error() string {
	return fmt.Sprintf("unable to initialize decoder '%s' for stream #%d: %v", e.Codec, e.StreamIndex, e.Err)
}

func (e ErrDecoderInit) Unwrap() error {
	return e.Err
}

type ErrDecode struct {
	Err error
}

func (e ErrDecode) Error() string {
	return fmt.Sprintf("unable to decode: %v", e.Err)
}

func (e ErrDecode) Unwrap() error {
	return e.Err
}

type ErrConversionInit struct {
	PixelFormat PixelFormat
	Err         error
}

func (e ErrConversionInit) Error() string {
	return fmt.Sprintf("unable to initialize conversion from pixel format %s: %v", e.PixelFormat, e.Err)
}

func (e ErrConversionInit) Unwrap() error {
	return e.Err
}

type ErrSeek struct {
	Timestamp int64
	Err       error
}

func (e ErrSeek) Error() string {
	return fmt.Sprintf("unable to seek to %d: %v", e.Timestamp, e.Err)
}

func (e ErrSeek) Unwrap() error {
	return e.Err
}

type ErrBufferTooSmall struct {
	Have int
	Want int
}

func (e ErrBufferTooSmall) Error() string {
	return fmt.Sprintf("destination buffer is too small: %d < %d", e.Have, e.Want)
}

type ErrInvalidState struct {
	Op    string
	State string
}

func (e ErrInvalidState) Error() string {
	return fmt.Sprintf("%s is not allowed in state %s", e.Op, e.State)
}

// ErrSessionFailed is returned by every operation on a session that has
// previously hit a fatal error; Err is that original error.
type ErrSessionFailed struct {
	Err error
}

func (e ErrSessionFailed) Error() string {
	return fmt.Sprintf("the session is unusable due to a previous error: %v", e.Err)
}

func (e ErrSessionFailed) Unwrap() error {
	return e.Err
}
