package reader

import (
	"sync/atomic"

	"github.com/xaionaro-go/videoreader"
)

type Statistics struct {
	PacketsRead     atomic.Uint64
	PacketsSkipped  atomic.Uint64
	BytesRead       atomic.Uint64
	FramesDecoded   atomic.Uint64
	FramesDiscarded atomic.Uint64
	FramesConverted atomic.Uint64
}

func (stats *Statistics) Convert() videoreader.Stats {
	return videoreader.Stats{
		PacketsRead:     stats.PacketsRead.Load(),
		PacketsSkipped:  stats.PacketsSkipped.Load(),
		BytesRead:       stats.BytesRead.Load(),
		FramesDecoded:   stats.FramesDecoded.Load(),
		FramesDiscarded: stats.FramesDiscarded.Load(),
		FramesConverted: stats.FramesConverted.Load(),
	}
}
