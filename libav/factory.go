package libav

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/videoreader"
	"github.com/xaionaro-go/videoreader/libav/backend"
	"github.com/xaionaro-go/videoreader/reader"
	"github.com/xaionaro-go/xcontext"
)

type Factory struct {
	Backend *backend.Backend
}

var _ videoreader.Factory = (*Factory)(nil)

func NewFactory(ctx context.Context) (*Factory, error) {
	b, err := backend.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize the backend: %w", err)
	}
	return &Factory{
		Backend: b,
	}, nil
}

func (f *Factory) Open(
	ctx context.Context,
	path string,
	cfg videoreader.Config,
) (videoreader.Reader, error) {
	r, err := Open(ctx, f.Backend, path, cfg)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Open opens path using the given backend; it is exported mostly for tests
// which substitute the backend.
func Open(
	ctx context.Context,
	b reader.Backend,
	path string,
	cfg videoreader.Config,
) (*Reader, error) {
	session, err := reader.Open(ctx, b, path, cfg)
	if err != nil {
		return nil, err
	}
	return &Reader{
		Session: session,
		ctx:     xcontext.DetachDone(ctx),
	}, nil
}
