// Package entropy is the uniform adapter over the entropy coders a stream
// can be encoded with: store (ORIGINAL), Huffman, ZSTD, FSE, or a
// constant-zero placeholder (TRUNCATE). The actual coding work is
// delegated to github.com/klauspost/compress; this package only adds the
// "not compressible" detection and the compThreshold store-fallback every
// adapter needs.
package entropy

import (
	"fmt"

	"github.com/zipnn/zipnn-go/internal/zerr"
)

// Method identifies the encoding applied to a single stream of a single
// chunk. The values are fixed and match the on-wire method byte of the
// container format; AUTO is a request-time sentinel that must never be
// serialized.
type Method byte

const (
	MethodOriginal Method = 0
	MethodHuffman  Method = 1
	MethodZSTD     Method = 2
	MethodFSE      Method = 3
	MethodTruncate Method = 4
	MethodAuto     Method = 5
)

func (m Method) String() string {
	switch m {
	case MethodOriginal:
		return "ORIGINAL"
	case MethodHuffman:
		return "HUFFMAN"
	case MethodZSTD:
		return "ZSTD"
	case MethodFSE:
		return "FSE"
	case MethodTruncate:
		return "TRUNCATE"
	case MethodAuto:
		return "AUTO"
	default:
		return fmt.Sprintf("Method(%d)", byte(m))
	}
}

// Valid reports whether m is one of the five methods allowed to appear in
// a serialized container (AUTO and anything else is rejected).
func (m Method) Valid() bool {
	switch m {
	case MethodOriginal, MethodHuffman, MethodZSTD, MethodFSE, MethodTruncate:
		return true
	default:
		return false
	}
}

// Options configures the codecs that need it (currently only ZSTD).
type Options struct {
	ZSTDLevel int // 1..22, default handled by caller (DefaultConfig)
}

// Encode compresses src with method and returns the method actually used
// (which may be demoted to ORIGINAL) and the encoded bytes. For
// MethodTruncate it returns an empty slice without inspecting src — the
// caller is expected to have already verified src is all-zero via the
// selector.
func Encode(method Method, src []byte, compThreshold float64, opts Options) (Method, []byte, error) {
	switch method {
	case MethodOriginal:
		return MethodOriginal, cloneBytes(src), nil
	case MethodTruncate:
		return MethodTruncate, nil, nil
	case MethodHuffman:
		ok, out, err := encodeHuffman(src)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: huffman encode: %v", zerr.Codec, err)
		}
		used := demoteIfNeeded(ok, MethodHuffman, src, out, compThreshold)
		return used, pick(used != MethodOriginal, out, src), nil
	case MethodZSTD:
		ok, out, err := encodeZSTD(src, opts.ZSTDLevel)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: zstd encode: %v", zerr.Codec, err)
		}
		used := demoteIfNeeded(ok, MethodZSTD, src, out, compThreshold)
		return used, pick(used != MethodOriginal, out, src), nil
	case MethodFSE:
		ok, out, err := encodeFSE(src)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: fse encode: %v", zerr.Codec, err)
		}
		used := demoteIfNeeded(ok, MethodFSE, src, out, compThreshold)
		return used, pick(used != MethodOriginal, out, src), nil
	default:
		return 0, nil, fmt.Errorf("%w: unrecognized method %v", zerr.Config, method)
	}
}

// demoteIfNeeded applies the containment-bound post-check: if the encoder
// reported "not compressible", or the result doesn't beat compThreshold,
// the stream is rewritten as ORIGINAL.
func demoteIfNeeded(ok bool, method Method, src, compressed []byte, compThreshold float64) Method {
	if !ok {
		return MethodOriginal
	}
	if float64(len(compressed)) >= float64(len(src))*compThreshold {
		return MethodOriginal
	}
	return method
}

func pick(ok bool, compressed, src []byte) []byte {
	if ok {
		return compressed
	}
	return cloneBytes(src)
}

// Decode reconstructs the uncompressedSize bytes of a single stream from
// its encoded form under method. For MethodOriginal the returned slice
// aliases src (a Borrowed view, never freed by the caller); every other
// method allocates fresh (Owned) memory.
func Decode(method Method, src []byte, uncompressedSize int) ([]byte, error) {
	switch method {
	case MethodOriginal:
		if len(src) != uncompressedSize {
			return nil, fmt.Errorf("%w: ORIGINAL stream length %d != declared %d", zerr.Format, len(src), uncompressedSize)
		}
		return src, nil
	case MethodTruncate:
		return make([]byte, uncompressedSize), nil
	case MethodHuffman:
		out, err := decodeHuffman(src, uncompressedSize)
		if err != nil {
			return nil, fmt.Errorf("%w: huffman decode: %v", zerr.Codec, err)
		}
		return checkSize(out, uncompressedSize)
	case MethodZSTD:
		out, err := decodeZSTD(src, uncompressedSize)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd decode: %v", zerr.Codec, err)
		}
		return checkSize(out, uncompressedSize)
	case MethodFSE:
		out, err := decodeFSE(src, uncompressedSize)
		if err != nil {
			return nil, fmt.Errorf("%w: fse decode: %v", zerr.Codec, err)
		}
		return checkSize(out, uncompressedSize)
	default:
		return nil, fmt.Errorf("%w: unrecognized or reserved method byte %d", zerr.Config, byte(method))
	}
}

func checkSize(out []byte, want int) ([]byte, error) {
	if len(out) != want {
		return nil, fmt.Errorf("%w: decompressedSize %d != declared %d", zerr.Codec, len(out), want)
	}
	return out, nil
}

func cloneBytes(b []byte) []byte {
	return append([]byte(nil), b...)
}
