// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package zipnn

import (
	"context"
	"fmt"

	"github.com/zipnn/zipnn-go/internal/chunked"
	"github.com/zipnn/zipnn-go/internal/container"
	"github.com/zipnn/zipnn-go/internal/entropy"
	"github.com/zipnn/zipnn-go/internal/transpose"
	"github.com/zipnn/zipnn-go/internal/zerr"
)

// Method identifies the encoding used for a single stream of a single
// chunk. The concrete methods mirror the five that can appear in a
// serialized container; MethodAuto additionally selects the AUTO
// heuristic and is never itself written to a container.
type Method = entropy.Method

const (
	MethodOriginal = entropy.MethodOriginal
	MethodHuffman  = entropy.MethodHuffman
	MethodZSTD     = entropy.MethodZSTD
	MethodFSE      = entropy.MethodFSE
	MethodTruncate = entropy.MethodTruncate
	MethodAuto     = entropy.MethodAuto
)

// BytesMode selects the byte-transposition layout. Modes
// 10/1/8 require NumBuffers=2; mode 220 requires NumBuffers=4.
type BytesMode = transpose.Mode

const (
	BytesModeSplit       = transpose.Mode2Split
	BytesModeTruncateLSB = transpose.Mode2TruncLSB
	BytesModeTruncateMSB = transpose.Mode2TruncMSB
	BytesModeInterleave4 = transpose.Mode4Interleave
)

// Sentinel error kinds a caller can test with errors.Is.
var (
	ErrConfig     = zerr.Config
	ErrAllocation = zerr.Allocation
	ErrCodec      = zerr.Codec
	ErrFormat     = zerr.Format
	ErrWorker     = zerr.Worker
)

// Config is the full configuration surface this codec accepts.
type Config struct {
	// NumBuffers is N, the number of byte-transposition streams: 2 or 4.
	NumBuffers int
	// BitsMode enables (1) or disables (0) the bit permuter.
	BitsMode int
	// BytesMode selects the byte-transposition layout; see BytesMode*.
	BytesMode BytesMode
	// Method fixes every stream's encoding, or MethodAuto to let the
	// heuristic selector choose per stream.
	Method Method
	// OrigChunkSize is the caller-supplied chunk size S, in bytes.
	OrigChunkSize int
	// CompressionThreshold is T in (0,1]: a stream whose compressed size
	// is not below U*T is stored instead.
	CompressionThreshold float64
	// EarlyAbortAfterPercent enables the optional early-abort
	// optimization after this percentage of chunks have been processed;
	// 0 disables it. It never changes the decompressed result, only how
	// quickly later chunks give up on compression.
	EarlyAbortAfterPercent int
	// ZSTDLevel is the ZSTD compression level, 1..22. 0 resolves to the
	// package default (1).
	ZSTDLevel int
	// Threads is the worker pool size. 0 resolves to
	// runtime.GOMAXPROCS(0).
	Threads int
	// HeaderLen is the length of the caller-supplied, opaque header
	// prefix passed to Compress (and that must be passed back into
	// Decompress alongside the container bytes). It must be at least
	// container.MinHeaderLen (32) so header[24:32] has room for the
	// total-container-length field the serializer writes.
	HeaderLen int
}

// DefaultConfig returns this codec's documented defaults: N=2, bit
// permutation on, split byte transposition, AUTO method selection, no
// compression ceiling beyond the containment bound, ZSTD level 1, and a
// worker per logical CPU.
func DefaultConfig() Config {
	return Config{
		NumBuffers:           2,
		BitsMode:             1,
		BytesMode:            BytesModeSplit,
		Method:               MethodAuto,
		OrigChunkSize:        1 << 20,
		CompressionThreshold: 1.0,
		ZSTDLevel:            1,
		HeaderLen:            container.MinHeaderLen,
	}
}

// Validate rejects any configuration that isn't usable, before any
// goroutine or allocation is committed to it.
func (c Config) Validate() error {
	if c.HeaderLen < container.MinHeaderLen {
		return fmt.Errorf("%w: HeaderLen %d < %d", ErrConfig, c.HeaderLen, container.MinHeaderLen)
	}
	return c.toParams().Validate()
}

func (c Config) toParams() chunked.Params {
	zstdLevel := c.ZSTDLevel
	if zstdLevel == 0 {
		zstdLevel = 1
	}
	return chunked.Params{
		NumBuffers:             c.NumBuffers,
		BitsMode:               c.BitsMode,
		BytesMode:              c.BytesMode,
		Method:                 c.Method,
		OrigChunkSize:          c.OrigChunkSize,
		CompThreshold:          c.CompressionThreshold,
		EarlyAbortAfterPercent: c.EarlyAbortAfterPercent,
		ZSTDLevel:              zstdLevel,
		Threads:                c.Threads,
	}
}

// Compress splits data into fixed-size chunks and runs the bit-permute /
// byte-transpose / entropy-encode pipeline over each, in parallel,
// serializing the result into a container whose first HeaderLen bytes are
// header (copied verbatim; header[24:32] is then overwritten with the
// total container length).
//
// It is safe to call concurrently from multiple goroutines as long as
// each call owns its own header and data slices.
func Compress(header, data []byte, cfg Config) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(header) != cfg.HeaderLen {
		return nil, fmt.Errorf("%w: len(header)=%d != cfg.HeaderLen=%d", ErrConfig, len(header), cfg.HeaderLen)
	}
	return chunked.Compress(context.Background(), header, data, cfg.toParams())
}

// Decompress parses containerBuf (as produced by Compress, or an
// interoperable container from another implementation of this format)
// and reconstructs the original origSize bytes.
func Decompress(containerBuf []byte, cfg Config, origSize int64) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return chunked.Decompress(context.Background(), containerBuf, cfg.HeaderLen, cfg.toParams(), origSize)
}
