package reader

import (
	"context"
)

// withNextPacket reads the next packet into the scratch packet and passes it
// to fn. Every packet read here is unreferenced exactly once, after fn returns.
func withNextPacket(
	ctx context.Context,
	demuxer *Demuxer,
	pkt Packet,
	fn func(Packet) error,
) error {
	if err := demuxer.ReadPacket(ctx, pkt); err != nil {
		return err
	}
	defer pkt.Unref()
	return fn(pkt)
}
