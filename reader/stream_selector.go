package reader

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/videoreader"
)

type StreamInfo struct {
	Stream   Stream
	Index    int
	Width    int
	Height   int
	TimeBase videoreader.Rational
	Duration int64
}

// SelectVideoStream returns the first video stream (in container order)
// which has a decoder available.
func SelectVideoStream(
	ctx context.Context,
	streams []Stream,
) (StreamInfo, error) {
	for _, stream := range streams {
		if !stream.HasDecoder() {
			logger.Debugf(ctx, "no decoder for codec '%s' of stream #%d, skipping", stream.CodecName(), stream.Index())
			continue
		}
		if stream.MediaType() != MediaTypeVideo {
			logger.Debugf(ctx, "stream #%d is %s, skipping", stream.Index(), stream.MediaType())
			continue
		}

		info := StreamInfo{
			Stream:   stream,
			Index:    stream.Index(),
			Width:    stream.Width(),
			Height:   stream.Height(),
			TimeBase: stream.TimeBase(),
			Duration: stream.Duration(),
		}
		if info.Width <= 0 || info.Height <= 0 {
			return StreamInfo{}, fmt.Errorf("video stream #%d has invalid geometry %dx%d", info.Index, info.Width, info.Height)
		}
		if !info.TimeBase.IsValid() {
			return StreamInfo{}, fmt.Errorf("video stream #%d has invalid time base %s", info.Index, info.TimeBase)
		}
		logger.Debugf(ctx, "selected video stream #%d (%s, %dx%d, time base %s)", info.Index, stream.CodecName(), info.Width, info.Height, info.TimeBase)
		return info, nil
	}

	return StreamInfo{}, videoreader.ErrNoVideoStream{StreamCount: len(streams)}
}
