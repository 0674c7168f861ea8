package chunked

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/zipnn/zipnn-go/internal/bitpermute"
	"github.com/zipnn/zipnn-go/internal/container"
	"github.com/zipnn/zipnn-go/internal/entropy"
	"github.com/zipnn/zipnn-go/internal/transpose"
	"github.com/zipnn/zipnn-go/internal/zerr"
)

// Decompress mirrors Compress: it parses containerBuf, then for every
// chunk decodes each of its N streams, inverse-transposes them directly
// into the preallocated output buffer, and runs the inverse bit permuter
// over the just-written region. origSize is the declared original length.
func Decompress(ctx context.Context, containerBuf []byte, headerLen int, p Params, origSize int64) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if origSize < 0 {
		return nil, fmt.Errorf("%w: origSize must be >= 0, got %d", zerr.Config, origSize)
	}

	n := numChunks(int(origSize), p.OrigChunkSize)
	view, err := container.Parse(containerBuf, headerLen, p.NumBuffers, n)
	if err != nil {
		return nil, err
	}

	out := make([]byte, origSize)

	threads := p.threads()
	slog.Debug("zipnn: decompress pool starting", "chunks", n, "threads", threads, "numBuffers", p.NumBuffers)
	defer slog.Debug("zipnn: decompress pool done", "chunks", n)

	next := new(atomic.Int64)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < threads; w++ {
		g.Go(func() error {
			for {
				c := int(next.Add(1)) - 1
				if c >= n {
					return nil
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := decompressChunk(out, view, c, p, int(origSize)); err != nil {
					return err
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func decompressChunk(out []byte, view *container.View, c int, p Params, origSize int) error {
	start, length := chunkBounds(c, origSize, p.OrigChunkSize)

	sizes, err := transpose.Sizes(length, p.NumBuffers, p.BytesMode)
	if err != nil {
		return err
	}

	streams := make([][]byte, p.NumBuffers)
	for b := 0; b < p.NumBuffers; b++ {
		method := view.Method(b, c)
		decoded, err := entropy.Decode(method, view.Payload(b, c), sizes[b])
		if err != nil {
			return fmt.Errorf("%w: chunk %d stream %d: %v", zerr.Codec, c, b, err)
		}
		streams[b] = decoded
	}

	region := out[start : start+length]
	if err := transpose.Combine(streams, p.NumBuffers, p.BytesMode, region); err != nil {
		return err
	}

	if p.BitsMode == 1 {
		bitpermute.Apply(region, p.elementWidth(), false)
	}
	return nil
}
