package reader

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/videoreader"
	"github.com/xaionaro-go/videoreader/internal"
)

type State int

const (
	StateUnopened = State(iota)
	StateOpening
	StateReady
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateOpening:
		return "opening"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("unexpected_state_%d", int(s))
}

// Session decodes the first decodable video stream of a media file.
//
// A Session is not safe for concurrent use; see libav.Reader for a guarded
// wrapper.
type Session struct {
	Backend Backend
	Config  videoreader.Config

	state   State
	failure error
	path    string

	stream           StreamInfo
	videoStreamIndex int

	demuxer   owned[*Demuxer]
	decoder   owned[*FrameDecoder]
	converter owned[*Converter]

	// scratch objects reused by every ReadFrame/Seek
	packet owned[Packet]
	frame  owned[Frame]

	isFramePending bool
	pendingPts     int64

	stats Statistics
}

func New(
	ctx context.Context,
	backend Backend,
	cfg videoreader.Config,
) *Session {
	s := &Session{
		Backend:          backend,
		Config:           cfg.WithDefaults(),
		videoStreamIndex: -1,
	}
	internal.SetFinalizer(ctx, s, func(s *Session) {
		if s.holdsResources() {
			logger.Errorf(ctx, "the session of '%s' was garbage-collected without being closed", s.path)
		}
	})
	return s
}

// Open is a shortcut for New followed by Session.Open; on failure
// everything is released and nil is returned.
func Open(
	ctx context.Context,
	backend Backend,
	path string,
	cfg videoreader.Config,
) (*Session, error) {
	s := New(ctx, backend, cfg)
	if err := s.Open(ctx, path); err != nil {
		s.Close(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Session) Open(
	ctx context.Context,
	path string,
) (_err error) {
	logger.Debugf(ctx, "Open(ctx, '%s')", path)
	defer func() { logger.Debugf(ctx, "/Open(ctx, '%s'): %v", path, _err) }()

	if s.state != StateUnopened {
		return videoreader.ErrInvalidState{Op: "Open", State: s.state.String()}
	}
	s.state = StateOpening
	s.path = path
	defer func() {
		if _err != nil {
			s.fail(ctx, _err)
			s.release(ctx)
			return
		}
		s.state = StateReady
	}()

	if err := s.Config.Validate(); err != nil {
		return videoreader.ErrOpen{Path: path, Err: fmt.Errorf("invalid config: %w", err)}
	}

	demuxer, err := OpenDemuxer(ctx, s.Backend, path, s.Config.Input, &s.stats)
	if err != nil {
		return err
	}
	s.demuxer = own(demuxer, (*Demuxer).Close)

	stream, err := SelectVideoStream(ctx, demuxer.Streams())
	if err != nil {
		return videoreader.ErrOpen{Path: path, Err: err}
	}

	decoder, err := NewFrameDecoder(ctx, s.Backend, stream, s.Config.Decoder, &s.stats)
	if err != nil {
		return err
	}
	s.decoder = own(decoder, (*FrameDecoder).Close)

	frame, err := s.Backend.AllocFrame()
	if err != nil {
		return videoreader.ErrOpen{Path: path, Err: fmt.Errorf("unable to allocate a frame: %w", err)}
	}
	s.frame = own(frame, func(f Frame) error {
		f.Free()
		return nil
	})

	packet, err := s.Backend.AllocPacket()
	if err != nil {
		return videoreader.ErrOpen{Path: path, Err: fmt.Errorf("unable to allocate a packet: %w", err)}
	}
	s.packet = own(packet, func(p Packet) error {
		p.Free()
		return nil
	})

	s.stream = stream
	s.videoStreamIndex = stream.Index
	return nil
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) isOpened() bool {
	return s.videoStreamIndex != -1 && (s.state == StateReady || s.state == StateFailed)
}

func (s *Session) Width() int {
	if !s.isOpened() {
		return 0
	}
	return s.stream.Width
}

func (s *Session) Height() int {
	if !s.isOpened() {
		return 0
	}
	return s.stream.Height
}

func (s *Session) TimeBase() videoreader.Rational {
	if !s.isOpened() {
		return videoreader.Rational{}
	}
	return s.stream.TimeBase
}

func (s *Session) VideoStreamIndex() int {
	return s.videoStreamIndex
}

// Duration of the video stream in TimeBase units, 0 if unknown.
func (s *Session) Duration() int64 {
	if !s.isOpened() {
		return 0
	}
	return s.stream.Duration
}

func (s *Session) Stats() videoreader.Stats {
	return s.stats.Convert()
}

func (s *Session) checkReady(op string) error {
	switch s.state {
	case StateReady:
		return nil
	case StateFailed:
		if s.failure != nil {
			return videoreader.ErrSessionFailed{Err: s.failure}
		}
	}
	return videoreader.ErrInvalidState{Op: op, State: s.state.String()}
}

func (s *Session) fail(ctx context.Context, err error) {
	logger.Debugf(ctx, "the session is failed: %v", err)
	s.state = StateFailed
	s.failure = err
}

// ReadFrame decodes the next frame into dst and returns its presentation
// timestamp in TimeBase units. dst must hold at least
// videoreader.FrameSize(Width(), Height()) bytes; its content is undefined
// if an error is returned.
func (s *Session) ReadFrame(
	ctx context.Context,
	dst []byte,
) (_ int64, _err error) {
	logger.Tracef(ctx, "ReadFrame")
	defer func() { logger.Tracef(ctx, "/ReadFrame: %v", _err) }()

	if err := s.checkReady("ReadFrame"); err != nil {
		return 0, err
	}
	if want := videoreader.FrameSize(s.stream.Width, s.stream.Height); len(dst) < want {
		return 0, videoreader.ErrBufferTooSmall{Have: len(dst), Want: want}
	}

	frame := s.frame.Get()
	var pts int64
	if s.isFramePending {
		pts = s.pendingPts
		s.isFramePending = false
	} else {
		var err error
		pts, err = s.decoder.Get().DecodeNext(ctx, s.demuxer.Get(), s.packet.Get(), frame)
		if err != nil {
			s.failIfFatal(ctx, err)
			return 0, err
		}
	}
	defer frame.Unref()

	converter, err := s.getConverter(ctx, frame.PixelFormat())
	if err != nil {
		s.fail(ctx, err)
		return 0, err
	}

	if err := converter.Convert(ctx, frame, dst); err != nil {
		return 0, err
	}
	return pts, nil
}

func (s *Session) getConverter(
	ctx context.Context,
	sourceFormat videoreader.PixelFormat,
) (*Converter, error) {
	if s.converter.IsSet() {
		return s.converter.Get(), nil
	}

	converter := NewConverter(s.Backend, s.stream.Width, s.stream.Height, s.Config.Output, &s.stats)
	if err := converter.EnsureInitialized(ctx, sourceFormat); err != nil {
		return nil, err
	}
	s.converter = own(converter, (*Converter).Close)
	return converter, nil
}

// Seek repositions the session so that the next ReadFrame returns the first
// frame with a timestamp at or after ts (in TimeBase units). Reaching the end
// of the stream is not an error: the next ReadFrame returns io.EOF.
func (s *Session) Seek(
	ctx context.Context,
	ts int64,
) (_err error) {
	logger.Debugf(ctx, "Seek(ctx, %d)", ts)
	defer func() { logger.Debugf(ctx, "/Seek(ctx, %d): %v", ts, _err) }()

	if err := s.checkReady("Seek"); err != nil {
		return err
	}

	// on failure the position is unchanged, so the pending frame stays valid
	if err := s.demuxer.Get().Seek(ctx, s.videoStreamIndex, ts); err != nil {
		return err
	}

	frame := s.frame.Get()
	if s.isFramePending {
		s.isFramePending = false
		frame.Unref()
	}

	decoder := s.decoder.Get()
	decoder.Flush(ctx)
	decoder.GuessMissingPtsFrom(ts)

	for {
		pts, err := decoder.DecodeNext(ctx, s.demuxer.Get(), s.packet.Get(), frame)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			logger.Debugf(ctx, "reached the end of the stream while seeking to %d", ts)
			return nil
		default:
			s.failIfFatal(ctx, err)
			return err
		}

		if pts >= ts {
			s.isFramePending = true
			s.pendingPts = pts
			return nil
		}

		logger.Tracef(ctx, "discarding frame %d < %d", pts, ts)
		frame.Unref()
		s.stats.FramesDiscarded.Add(1)
	}
}

func (s *Session) failIfFatal(ctx context.Context, err error) {
	var decodeErr videoreader.ErrDecode
	if errors.As(err, &decodeErr) {
		s.fail(ctx, err)
	}
}

// Close releases everything the session holds. It is safe to call in any
// state and more than once.
func (s *Session) Close(ctx context.Context) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close") }()

	if s.state == StateClosed {
		return
	}
	s.release(ctx)
	s.state = StateClosed
}

func (s *Session) holdsResources() bool {
	return s.demuxer.IsSet() || s.decoder.IsSet() || s.converter.IsSet() || s.packet.IsSet() || s.frame.IsSet()
}

// release frees resources in the reverse order of their acquisition.
func (s *Session) release(ctx context.Context) {
	if s.isFramePending {
		s.isFramePending = false
		s.frame.Get().Unref()
	}

	var result *multierror.Error
	for _, release := range []func() error{
		s.converter.Release,
		s.packet.Release,
		s.frame.Release,
		s.decoder.Release,
		s.demuxer.Release,
	} {
		if err := release(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		logger.Errorf(ctx, "unable to release the resources of '%s': %v", s.path, err)
	}
}
