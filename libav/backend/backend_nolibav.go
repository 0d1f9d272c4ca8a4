//go:build !with_libav
// +build !with_libav

package backend

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/videoreader/reader"
)

type Backend struct {
	reader.Backend
}

func New(ctx context.Context) (*Backend, error) {
	return nil, fmt.Errorf("not compiled with libav support")
}
