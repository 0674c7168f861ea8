// Package transpose implements byte grouping: splitting a chunk into N
// per-byte-position streams (and the inverse), so that each stream can be
// handed to an entropy coder on its own.
package transpose

import (
	"fmt"

	"github.com/zipnn/zipnn-go/internal/zerr"
)

// Mode selects the split/combine layout. Only the modes actually exercised
// by a reference vector are implemented; the rest are declared in the
// buffer-ratio table inherited from the reference format but were
// commented out there too, so we reject them here (see DESIGN.md).
type Mode int

const (
	Mode2Split      Mode = 10  // N=2: even bytes to stream0, odd to stream1
	Mode2TruncLSB   Mode = 1   // N=2: keep only even bytes
	Mode2TruncMSB   Mode = 8   // N=2: keep only odd bytes
	Mode4Interleave Mode = 220 // N=4: stream b gets bytes at position ≡ b (mod 4)
)

// Sizes returns the uncompressed size of each of the n streams for a chunk
// of length l under mode. It is the single source of truth that Split (used
// by the scheduler) and the decompression executor both call into, so the
// sizing math never drifts between compression and decompression.
func Sizes(l, n int, mode Mode) ([]int, error) {
	if err := validate(n, mode); err != nil {
		return nil, err
	}
	sizes := make([]int, n)
	switch mode {
	case Mode2Split:
		sizes[0] = (l + 1) / 2
		sizes[1] = l / 2
	case Mode2TruncLSB:
		sizes[0] = (l + 1) / 2
		sizes[1] = 0
	case Mode2TruncMSB:
		sizes[0] = l / 2
		sizes[1] = 0
	case Mode4Interleave:
		base, rem := l/4, l%4
		for b := 0; b < 4; b++ {
			sizes[b] = base
			if b < rem {
				sizes[b]++
			}
		}
	}
	return sizes, nil
}

// Split transposes chunk into n freshly allocated streams according to
// mode.
func Split(chunk []byte, n int, mode Mode) ([][]byte, error) {
	if err := validate(n, mode); err != nil {
		return nil, err
	}

	sizes, _ := Sizes(len(chunk), n, mode)
	streams := make([][]byte, n)
	for b := range streams {
		streams[b] = make([]byte, sizes[b])
	}

	switch mode {
	case Mode2Split:
		for i, c := range chunk {
			streams[i%2][i/2] = c
		}
	case Mode2TruncLSB:
		for i := 0; i < len(chunk); i += 2 {
			streams[0][i/2] = chunk[i]
		}
	case Mode2TruncMSB:
		for i := 1; i < len(chunk); i += 2 {
			streams[0][i/2] = chunk[i]
		}
	case Mode4Interleave:
		idx := make([]int, 4)
		for i, c := range chunk {
			b := i % 4
			streams[b][idx[b]] = c
			idx[b]++
		}
	}
	return streams, nil
}

// Combine is the inverse of Split: it writes len(out) bytes into out,
// reconstructing the original chunk from its n streams. Truncated
// positions (empty streams under a truncation mode) are zero-filled.
func Combine(streams [][]byte, n int, mode Mode, out []byte) error {
	if err := validate(n, mode); err != nil {
		return err
	}

	switch mode {
	case Mode2Split:
		for i := range out {
			out[i] = streams[i%2][i/2]
		}
	case Mode2TruncLSB:
		clear(out)
		for i := 0; i < len(out); i += 2 {
			out[i] = streams[0][i/2]
		}
	case Mode2TruncMSB:
		clear(out)
		for i := 1; i < len(out); i += 2 {
			out[i] = streams[0][i/2]
		}
	case Mode4Interleave:
		idx := make([]int, 4)
		for i := range out {
			b := i % 4
			out[i] = streams[b][idx[b]]
			idx[b]++
		}
	}
	return nil
}

func validate(n int, mode Mode) error {
	switch n {
	case 2:
		switch mode {
		case Mode2Split, Mode2TruncLSB, Mode2TruncMSB:
			return nil
		}
	case 4:
		if mode == Mode4Interleave {
			return nil
		}
	}
	return fmt.Errorf("%w: unsupported (numBuffers=%d, bytesMode=%d) combination", zerr.Config, n, mode)
}
