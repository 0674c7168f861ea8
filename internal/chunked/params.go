// Package chunked implements the parallel chunk scheduler
// and its mirror image, the decompression executor. Both
// share the same work-stealing shape: a fixed-size worker pool pulling
// chunk ordinals off a single atomic counter, joined by an errgroup so the
// first hard error cancels the rest and is the one error the caller sees.
package chunked

import (
	"fmt"
	"runtime"

	"github.com/zipnn/zipnn-go/internal/bitpermute"
	"github.com/zipnn/zipnn-go/internal/entropy"
	"github.com/zipnn/zipnn-go/internal/transpose"
	"github.com/zipnn/zipnn-go/internal/zerr"
)

// Params is the internal/chunked view of the caller-facing configuration;
// package zipnn translates its public Config into this shape so that
// internal packages never import the public package.
type Params struct {
	NumBuffers             int
	BitsMode               int
	BytesMode              transpose.Mode
	Method                 entropy.Method // may be MethodAuto
	OrigChunkSize          int
	CompThreshold          float64
	EarlyAbortAfterPercent int
	ZSTDLevel              int
	Threads                int
}

// Validate checks that NumBuffers, BitsMode, the (NumBuffers, BytesMode)
// pair, Method, OrigChunkSize, CompThreshold and Threads are within their
// recognized ranges. EarlyAbortAfterPercent and ZSTDLevel are not checked.
func (p Params) Validate() error {
	switch p.NumBuffers {
	case 2, 4:
	default:
		return fmt.Errorf("%w: numBuffers must be 2 or 4, got %d", zerr.Config, p.NumBuffers)
	}
	if p.BitsMode != 0 && p.BitsMode != 1 {
		return fmt.Errorf("%w: bitsMode must be 0 or 1, got %d", zerr.Config, p.BitsMode)
	}
	if _, err := transpose.Sizes(0, p.NumBuffers, p.BytesMode); err != nil {
		return err
	}
	if p.Method != entropy.MethodAuto && !p.Method.Valid() {
		return fmt.Errorf("%w: method %v is not a requestable method", zerr.Config, p.Method)
	}
	if p.OrigChunkSize < 1 {
		return fmt.Errorf("%w: origChunkSize must be >= 1, got %d", zerr.Config, p.OrigChunkSize)
	}
	if p.CompThreshold <= 0 || p.CompThreshold > 1 {
		return fmt.Errorf("%w: compThreshold must be in (0,1], got %v", zerr.Config, p.CompThreshold)
	}
	if p.Threads < 0 {
		return fmt.Errorf("%w: threads must be >= 0, got %d", zerr.Config, p.Threads)
	}
	return nil
}

func (p Params) threads() int {
	if p.Threads > 0 {
		return p.Threads
	}
	return runtime.GOMAXPROCS(0)
}

func (p Params) elementWidth() bitpermute.Width {
	if p.NumBuffers == 4 {
		return bitpermute.Width32
	}
	return bitpermute.Width16
}

func numChunks(totalLen, chunkSize int) int {
	if totalLen == 0 {
		return 0
	}
	return (totalLen + chunkSize - 1) / chunkSize
}

func chunkBounds(c, totalLen, chunkSize int) (start, length int) {
	start = c * chunkSize
	length = chunkSize
	if start+length > totalLen {
		length = totalLen - start
	}
	return start, length
}
