package reader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/videoreader"
)

func TestSelectVideoStream(t *testing.T) {
	ctx := testCtx()
	tb := videoreader.Rational{Num: 1, Den: 25}

	type testCase struct {
		streams       []*fakeStream
		expectedIndex int
		expectedErr   bool
	}
	for name, tc := range map[string]testCase{
		"video_after_audio": {
			streams: []*fakeStream{
				{index: 0, mediaType: MediaTypeAudio, hasDecoder: true},
				{index: 1, mediaType: MediaTypeVideo, hasDecoder: true, width: 320, height: 240, timeBase: tb},
			},
			expectedIndex: 1,
		},
		"first_of_two_videos": {
			streams: []*fakeStream{
				{index: 0, mediaType: MediaTypeVideo, hasDecoder: true, width: 1920, height: 1080, timeBase: tb},
				{index: 1, mediaType: MediaTypeVideo, hasDecoder: true, width: 320, height: 240, timeBase: tb},
			},
			expectedIndex: 0,
		},
		"skip_video_without_decoder": {
			streams: []*fakeStream{
				{index: 0, mediaType: MediaTypeVideo, codecName: "prores_raw", width: 640, height: 480, timeBase: tb},
				{index: 1, mediaType: MediaTypeData, hasDecoder: true},
				{index: 2, mediaType: MediaTypeVideo, hasDecoder: true, width: 640, height: 480, timeBase: tb},
			},
			expectedIndex: 2,
		},
		"invalid_geometry": {
			streams: []*fakeStream{
				{index: 0, mediaType: MediaTypeVideo, hasDecoder: true, width: 0, height: 480, timeBase: tb},
			},
			expectedErr: true,
		},
		"invalid_time_base": {
			streams: []*fakeStream{
				{index: 0, mediaType: MediaTypeVideo, hasDecoder: true, width: 640, height: 480},
			},
			expectedErr: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			streams := make([]Stream, 0, len(tc.streams))
			for _, s := range tc.streams {
				streams = append(streams, s)
			}
			info, err := SelectVideoStream(ctx, streams)
			if tc.expectedErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectedIndex, info.Index)
			require.Equal(t, tc.expectedIndex, info.Stream.Index())
		})
	}
}

func TestSelectVideoStreamNone(t *testing.T) {
	ctx := testCtx()

	_, err := SelectVideoStream(ctx, nil)
	var noVideo videoreader.ErrNoVideoStream
	require.True(t, errors.As(err, &noVideo))
	require.Zero(t, noVideo.StreamCount)

	_, err = SelectVideoStream(ctx, []Stream{
		&fakeStream{index: 0, mediaType: MediaTypeAudio, hasDecoder: true},
		&fakeStream{index: 1, mediaType: MediaTypeSubtitle, hasDecoder: true},
		&fakeStream{index: 2, mediaType: MediaTypeVideo},
	})
	require.True(t, errors.As(err, &noVideo))
	require.Equal(t, 3, noVideo.StreamCount)
}
