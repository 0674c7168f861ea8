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
	"github.com/zipnn/zipnn-go/internal/selector"
	"github.com/zipnn/zipnn-go/internal/transpose"
	"github.com/zipnn/zipnn-go/internal/zerr"
)

// earlyAbort tracks, per buffer, whether enough chunks have gone by showing
// a poor compression ratio that later chunks should skip straight to
// ORIGINAL. This optimization is disabled by default and never required
// for correctness: a skipped stream is stored as ORIGINAL and decodes to the
// same bytes, but its method label and size can differ from what the normal
// threshold post-check would have produced for that chunk.
type earlyAbort struct {
	enabled     bool
	afterCount  int64
	seen        atomic.Int64
	totalU      []atomic.Int64
	totalC      []atomic.Int64
	noNeedToUse []atomic.Bool
	threshold   float64
}

func newEarlyAbort(p Params, totalChunks int) *earlyAbort {
	e := &earlyAbort{
		enabled:     p.EarlyAbortAfterPercent > 0 && p.EarlyAbortAfterPercent < 100,
		afterCount:  int64(totalChunks) * int64(p.EarlyAbortAfterPercent) / 100,
		threshold:   p.CompThreshold,
		totalU:      make([]atomic.Int64, p.NumBuffers),
		totalC:      make([]atomic.Int64, p.NumBuffers),
		noNeedToUse: make([]atomic.Bool, p.NumBuffers),
	}
	return e
}

func (e *earlyAbort) skip(b int) bool {
	return e.enabled && e.noNeedToUse[b].Load()
}

func (e *earlyAbort) record(b, uncompressed, compressed int) {
	if !e.enabled {
		return
	}
	e.totalU[b].Add(int64(uncompressed))
	e.totalC[b].Add(int64(compressed))
}

func (e *earlyAbort) chunkDone() {
	if !e.enabled {
		return
	}
	n := e.seen.Add(1)
	if n != e.afterCount {
		return // only evaluate once, right after crossing the threshold
	}
	for b := range e.totalU {
		u := e.totalU[b].Load()
		if u == 0 {
			continue
		}
		ratio := float64(e.totalC[b].Load()) / float64(u)
		if ratio >= e.threshold {
			e.noNeedToUse[b].Store(true)
		}
	}
}

// Compress runs the stage-1→2→3 pipeline (bit permute, byte transpose,
// per-stream encode) over every chunk of data and serializes the result
// into a container with header as its caller-supplied prefix.
func Compress(ctx context.Context, header, data []byte, p Params) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := numChunks(len(data), p.OrigChunkSize)
	results := make([][]container.StreamResult, n)
	abort := newEarlyAbort(p, n)

	threads := p.threads()
	slog.Debug("zipnn: compress pool starting", "chunks", n, "threads", threads, "numBuffers", p.NumBuffers)
	defer slog.Debug("zipnn: compress pool done", "chunks", n)

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
				row, err := compressChunk(data, c, p, abort)
				if err != nil {
					return err
				}
				results[c] = row
				abort.chunkDone()
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out, err := container.Write(header, results, p.NumBuffers)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func compressChunk(data []byte, c int, p Params, abort *earlyAbort) ([]container.StreamResult, error) {
	start, length := chunkBounds(c, len(data), p.OrigChunkSize)
	// data is read-only and shared across workers; the bit
	// permuter mutates in place, so each worker needs its own copy.
	chunk := make([]byte, length)
	copy(chunk, data[start:start+length])

	if p.BitsMode == 1 {
		bitpermute.Apply(chunk, p.elementWidth(), true)
	}

	streams, err := transpose.Split(chunk, p.NumBuffers, p.BytesMode)
	if err != nil {
		return nil, err
	}

	methods := make([]entropy.Method, p.NumBuffers)
	if p.Method == entropy.MethodAuto {
		methods = selector.Choose(chunk, p.NumBuffers, int(p.elementWidth()))
	} else {
		for b := range methods {
			methods[b] = p.Method
		}
	}

	row := make([]container.StreamResult, p.NumBuffers)
	opts := entropy.Options{ZSTDLevel: p.ZSTDLevel}
	for b := 0; b < p.NumBuffers; b++ {
		method := methods[b]
		if abort.skip(b) && method != entropy.MethodTruncate {
			method = entropy.MethodOriginal
		}
		used, encoded, err := entropy.Encode(method, streams[b], p.CompThreshold, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %d stream %d: %v", zerr.Codec, c, b, err)
		}
		row[b] = container.StreamResult{Method: used, Data: encoded}
		abort.record(b, len(streams[b]), len(encoded))
	}
	return row, nil
}
