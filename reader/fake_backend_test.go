package reader

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/xaionaro-go/videoreader"
)

// fakeBackend is a reference-counting test double: it tracks every packet
// and frame reference handed out and every one released.
type fakeBackend struct {
	container fakeContainer

	openErr        error
	decoderErr     error
	scalerErr      error
	allocFrameErr  error
	allocPacketErr error

	decoderDelay    int
	framesPerPacket int
	pixelFormat     videoreader.PixelFormat
	failSendAtPts   *int64
	withoutPts      bool

	inputs   []*fakeInput
	decoders []*fakeDecoder
	scalers  []*fakeScaler
	packets  []*fakePacket
	frames   []*fakeFrame

	packetsAcquired  int
	packetsReleased  int
	packetOverwrites int
	framesAcquired   int
	framesReleased   int
	frameOverwrites  int
}

type fakeContainer struct {
	streams []*fakeStream
	packets []fakePacketData
}

type fakePacketData struct {
	streamIndex int
	pts         int64
	isKey       bool
}

var _ Backend = (*fakeBackend)(nil)

// newFakeVideoContainer returns a container with an audio stream (#0) and a
// video stream (#1) of frameCount frames, a keyframe every 5 frames, and an
// audio packet before each video packet.
func newFakeVideoContainer(frameCount int, width, height int, timeBase videoreader.Rational) fakeContainer {
	c := fakeContainer{
		streams: []*fakeStream{
			{index: 0, mediaType: MediaTypeAudio, codecName: "aac", hasDecoder: true, timeBase: videoreader.Rational{Num: 1, Den: 48000}},
			{index: 1, mediaType: MediaTypeVideo, codecName: "h264", hasDecoder: true, width: width, height: height, timeBase: timeBase, duration: int64(frameCount)},
		},
	}
	for i := 0; i < frameCount; i++ {
		c.packets = append(c.packets,
			fakePacketData{streamIndex: 0, pts: int64(i) * 1920, isKey: true},
			fakePacketData{streamIndex: 1, pts: int64(i), isKey: i%5 == 0},
		)
	}
	return c
}

func newFakeBackend(c fakeContainer) *fakeBackend {
	return &fakeBackend{
		container:       c,
		framesPerPacket: 1,
		pixelFormat:     videoreader.PixelFormatYUV420P,
	}
}

func (b *fakeBackend) OpenInput(
	_ context.Context,
	path string,
	_ videoreader.DictionaryItems,
) (Input, error) {
	if b.openErr != nil {
		return nil, b.openErr
	}
	streams := make([]Stream, 0, len(b.container.streams))
	for _, s := range b.container.streams {
		streams = append(streams, s)
	}
	input := &fakeInput{
		backend: b,
		path:    path,
		streams: streams,
		packets: b.container.packets,
	}
	b.inputs = append(b.inputs, input)
	return input, nil
}

func (b *fakeBackend) NewDecoder(
	_ context.Context,
	stream Stream,
	cfg videoreader.DecoderConfig,
) (Decoder, error) {
	if b.decoderErr != nil {
		return nil, b.decoderErr
	}
	codecName := cfg.CodecName
	if codecName == "" {
		codecName = stream.CodecName()
	}
	d := &fakeDecoder{
		backend:   b,
		codecName: codecName,
	}
	b.decoders = append(b.decoders, d)
	return d, nil
}

func (b *fakeBackend) NewScaler(
	_ context.Context,
	params ScalerParams,
) (Scaler, error) {
	if b.scalerErr != nil {
		return nil, b.scalerErr
	}
	s := &fakeScaler{params: params}
	b.scalers = append(b.scalers, s)
	return s, nil
}

func (b *fakeBackend) AllocPacket() (Packet, error) {
	if b.allocPacketErr != nil {
		return nil, b.allocPacketErr
	}
	p := &fakePacket{backend: b}
	b.packets = append(b.packets, p)
	return p, nil
}

func (b *fakeBackend) AllocFrame() (Frame, error) {
	if b.allocFrameErr != nil {
		return nil, b.allocFrameErr
	}
	f := &fakeFrame{backend: b}
	b.frames = append(b.frames, f)
	return f, nil
}

type fakeStream struct {
	index      int
	mediaType  MediaType
	codecName  string
	hasDecoder bool
	width      int
	height     int
	timeBase   videoreader.Rational
	duration   int64
}

func (s *fakeStream) Index() int                     { return s.index }
func (s *fakeStream) MediaType() MediaType           { return s.mediaType }
func (s *fakeStream) CodecName() string              { return s.codecName }
func (s *fakeStream) HasDecoder() bool               { return s.hasDecoder }
func (s *fakeStream) Width() int                     { return s.width }
func (s *fakeStream) Height() int                    { return s.height }
func (s *fakeStream) TimeBase() videoreader.Rational { return s.timeBase }
func (s *fakeStream) Duration() int64                { return s.duration }

type fakeInput struct {
	backend *fakeBackend
	path    string
	streams []Stream
	packets []fakePacketData
	pos     int
	seekErr error
	readErr error
	closed  int
}

func (i *fakeInput) Streams() []Stream {
	return i.streams
}

func (i *fakeInput) ReadPacket(_ context.Context, pkt Packet) error {
	p := pkt.(*fakePacket)
	if p.isSet {
		i.backend.packetOverwrites++
	}
	if i.readErr != nil {
		return i.readErr
	}
	if i.pos >= len(i.packets) {
		return io.EOF
	}
	data := i.packets[i.pos]
	i.pos++
	p.streamIndex = data.streamIndex
	p.pts = data.pts
	p.isSet = true
	i.backend.packetsAcquired++
	return nil
}

func (i *fakeInput) SeekFrame(_ context.Context, streamIndex int, ts int64) error {
	if i.seekErr != nil {
		return i.seekErr
	}
	pos := 0
	for idx, data := range i.packets {
		if data.streamIndex != streamIndex || !data.isKey {
			continue
		}
		if data.pts > ts {
			break
		}
		pos = idx
	}
	i.pos = pos
	return nil
}

func (i *fakeInput) Close() error {
	i.closed++
	return nil
}

type fakePacket struct {
	backend     *fakeBackend
	streamIndex int
	pts         int64
	isSet       bool
	freed       int
}

func (p *fakePacket) StreamIndex() int { return p.streamIndex }
func (p *fakePacket) Pts() int64       { return p.pts }
func (p *fakePacket) Size() int        { return 100 }

func (p *fakePacket) Unref() {
	if !p.isSet {
		return
	}
	p.isSet = false
	p.backend.packetsReleased++
}

func (p *fakePacket) Free() {
	p.Unref()
	p.freed++
}

type fakeFrame struct {
	backend     *fakeBackend
	pts         int64
	pixelFormat videoreader.PixelFormat
	isSet       bool
	freed       int
}

func (f *fakeFrame) Pts() int64                           { return f.pts }
func (f *fakeFrame) PixelFormat() videoreader.PixelFormat { return f.pixelFormat }
func (f *fakeFrame) Width() int                           { return 0 }
func (f *fakeFrame) Height() int                          { return 0 }

func (f *fakeFrame) Unref() {
	if !f.isSet {
		return
	}
	f.isSet = false
	f.backend.framesReleased++
}

func (f *fakeFrame) Free() {
	f.Unref()
	f.freed++
}

// fakeDecoder holds back decoderDelay frames and outputs them in pts order,
// like a codec with frame reordering.
type fakeDecoder struct {
	backend    *fakeBackend
	codecName  string
	queue      []int64
	isDraining bool
	flushes    int
	closed     int
}

func (d *fakeDecoder) CodecName() string {
	return d.codecName
}

func (d *fakeDecoder) SendPacket(_ context.Context, pkt Packet) error {
	if d.isDraining {
		return fmt.Errorf("the decoder is draining")
	}
	p := pkt.(*fakePacket)
	if !p.isSet {
		return fmt.Errorf("sending an unreferenced packet")
	}
	if at := d.backend.failSendAtPts; at != nil && *at == p.pts {
		return fmt.Errorf("Invalid data found when processing input")
	}
	for k := 0; k < d.backend.framesPerPacket; k++ {
		d.queue = append(d.queue, p.pts*int64(d.backend.framesPerPacket)+int64(k))
	}
	sort.Slice(d.queue, func(i, j int) bool { return d.queue[i] < d.queue[j] })
	return nil
}

func (d *fakeDecoder) SendEndOfStream(context.Context) error {
	d.isDraining = true
	return nil
}

func (d *fakeDecoder) ReceiveFrame(_ context.Context, frame Frame) error {
	f := frame.(*fakeFrame)
	if f.isSet {
		d.backend.frameOverwrites++
	}
	if len(d.queue) == 0 || (!d.isDraining && len(d.queue) <= d.backend.decoderDelay) {
		if d.isDraining {
			return io.EOF
		}
		return ErrNeedMoreInput
	}
	f.pts = d.queue[0]
	if d.backend.withoutPts {
		f.pts = NoPts
	}
	f.pixelFormat = d.backend.pixelFormat
	f.isSet = true
	d.queue = d.queue[1:]
	d.backend.framesAcquired++
	return nil
}

func (d *fakeDecoder) Flush(context.Context) {
	d.queue = nil
	d.isDraining = false
	d.flushes++
}

func (d *fakeDecoder) Close() error {
	d.closed++
	return nil
}

type fakeScaler struct {
	params ScalerParams
	scales int
	closed int
}

// ScaleFrame fills dst with bytes derived from the source format and pts, so
// outputs are equal iff the scaler saw equal inputs.
func (s *fakeScaler) ScaleFrame(_ context.Context, frame Frame, dst []byte) error {
	seed := byte(frame.Pts())
	for _, c := range []byte(s.params.SourcePixelFormat) {
		seed = seed*31 + c
	}
	size := videoreader.FrameSize(s.params.DestinationWidth, s.params.DestinationHeight)
	for i := range dst[:size] {
		dst[i] = seed + byte(i%4)
	}
	s.scales++
	return nil
}

func (s *fakeScaler) Close() error {
	s.closed++
	return nil
}

func ptr[T any](in T) *T {
	return &in
}
