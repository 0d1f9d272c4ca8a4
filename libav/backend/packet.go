//go:build with_libav
// +build with_libav

package backend

import (
	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/videoreader/reader"
)

type Packet struct {
	*astiav.Packet
}

var _ reader.Packet = (*Packet)(nil)
