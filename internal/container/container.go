// Package container implements the on-wire/in-memory layout: an opaque
// caller header, a method matrix, a cumulative compressed-size matrix,
// and the concatenated per-buffer payloads. Both the serializer and the
// parser are bit-exact with that layout so containers interoperate
// regardless of which side produced them.
package container

import (
	"encoding/binary"
	"fmt"

	"github.com/zipnn/zipnn-go/internal/entropy"
	"github.com/zipnn/zipnn-go/internal/zerr"
)

// wordSize is the fixed, portable width of every size field in the
// container, independent of host architecture.
const wordSize = 8

// totalLenOffset is where the serializer writes the total container
// length back into the caller-supplied header.
const totalLenOffset = 24

// MinHeaderLen is the smallest header allowed: it must have room for the
// totalLenOffset..+8 total-length field.
const MinHeaderLen = totalLenOffset + wordSize

// StreamResult is one encoded stream: its method (possibly demoted to
// ORIGINAL by the entropy adapter) and its compressed bytes.
type StreamResult struct {
	Method entropy.Method
	Data   []byte
}

// Write serializes header plus chunks (indexed chunks[c][b], c the chunk
// ordinal, b the buffer index, 0 <= b < n for every row) into one
// contiguous container buffer, and writes the total length into bytes
// 24..32 of the header copy at the start of that buffer; the caller's header
// slice is not modified. The header itself is otherwise caller-supplied and
// caller-consumed.
func Write(header []byte, chunks [][]StreamResult, n int) ([]byte, error) {
	if len(header) < MinHeaderLen {
		return nil, fmt.Errorf("%w: header length %d < %d", zerr.Format, len(header), MinHeaderLen)
	}
	numChunks := len(chunks)
	for c, row := range chunks {
		if len(row) != n {
			return nil, fmt.Errorf("%w: chunk %d has %d streams, want %d", zerr.Format, c, len(row), n)
		}
	}

	tableBytes := n * numChunks * (1 + wordSize)
	var payloadBytes int
	for _, row := range chunks {
		for _, s := range row {
			payloadBytes += len(s.Data)
		}
	}

	totalLen := len(header) + tableBytes + payloadBytes
	out := make([]byte, 0, totalLen)
	out = append(out, header...)

	// Method matrix: buffer b outer, chunk c inner.
	for b := 0; b < n; b++ {
		for c := 0; c < numChunks; c++ {
			out = append(out, byte(chunks[c][b].Method))
		}
	}

	// Cumulative compressed-size matrix, same (b outer, c inner) order.
	var word [wordSize]byte
	for b := 0; b < n; b++ {
		var running uint64
		for c := 0; c < numChunks; c++ {
			running += uint64(len(chunks[c][b].Data))
			binary.LittleEndian.PutUint64(word[:], running)
			out = append(out, word[:]...)
		}
	}

	// Payloads: buffer b outer, chunk c inner, concatenated without padding.
	for b := 0; b < n; b++ {
		for c := 0; c < numChunks; c++ {
			out = append(out, chunks[c][b].Data...)
		}
	}

	binary.LittleEndian.PutUint64(out[totalLenOffset:], uint64(len(out)))

	if len(out) != totalLen {
		return nil, fmt.Errorf("%w: computed length %d != assembled length %d", zerr.Format, totalLen, len(out))
	}
	return out, nil
}

// View is a parsed, read-only projection over a serialized container. Its
// Payload slices alias buf; they are never copied or freed by View itself.
type View struct {
	buf       []byte
	headerLen int
	n         int
	numChunks int
	methods   []entropy.Method // [b*numChunks+c]
	cumSizes  []uint64         // [b*numChunks+c]
	bufBase   []int            // payload start offset of buffer b within buf
}

// Parse reads the method matrix and cumulative-size matrix out of buf,
// validating monotonicity and the declared total length, and returns a
// View that can answer per-(buffer,chunk) queries in O(1).
func Parse(buf []byte, headerLen, n, numChunks int) (*View, error) {
	if headerLen < MinHeaderLen {
		return nil, fmt.Errorf("%w: header length %d < %d", zerr.Format, headerLen, MinHeaderLen)
	}
	if len(buf) < headerLen {
		return nil, fmt.Errorf("%w: container shorter than its own header", zerr.Format)
	}

	declared := binary.LittleEndian.Uint64(buf[totalLenOffset : totalLenOffset+wordSize])
	if declared != uint64(len(buf)) {
		return nil, fmt.Errorf("%w: header declares total length %d, got %d bytes", zerr.Format, declared, len(buf))
	}

	methodBytes := n * numChunks
	sizeBytes := n * numChunks * wordSize
	tableEnd := headerLen + methodBytes + sizeBytes
	if len(buf) < tableEnd {
		return nil, fmt.Errorf("%w: container too short for method/size tables", zerr.Format)
	}

	methods := make([]entropy.Method, methodBytes)
	for i, m := range buf[headerLen : headerLen+methodBytes] {
		method := entropy.Method(m)
		if !method.Valid() {
			return nil, fmt.Errorf("%w: reserved method byte %d at table index %d", zerr.Config, m, i)
		}
		methods[i] = method
	}

	cumSizes := make([]uint64, methodBytes)
	sizeBase := headerLen + methodBytes
	var prevByBuf = make([]uint64, n)
	for b := 0; b < n; b++ {
		for c := 0; c < numChunks; c++ {
			idx := b*numChunks + c
			off := sizeBase + idx*wordSize
			v := binary.LittleEndian.Uint64(buf[off : off+wordSize])
			if v < prevByBuf[b] {
				return nil, fmt.Errorf("%w: cumulative size for buffer %d chunk %d (%d) is less than previous (%d)", zerr.Format, b, c, v, prevByBuf[b])
			}
			prevByBuf[b] = v
			cumSizes[idx] = v
		}
	}

	bufBase := make([]int, n)
	offset := tableEnd
	for b := 0; b < n; b++ {
		bufBase[b] = offset
		if numChunks > 0 {
			offset += int(cumSizes[b*numChunks+numChunks-1])
		}
	}
	if offset != len(buf) {
		return nil, fmt.Errorf("%w: payload sections total %d bytes, container has %d remaining", zerr.Format, offset-tableEnd, len(buf)-tableEnd)
	}

	return &View{
		buf:       buf,
		headerLen: headerLen,
		n:         n,
		numChunks: numChunks,
		methods:   methods,
		cumSizes:  cumSizes,
		bufBase:   bufBase,
	}, nil
}

// Method returns the recorded method for buffer b, chunk c.
func (v *View) Method(b, c int) entropy.Method { return v.methods[b*v.numChunks+c] }

// CompressedSize returns C(b,c), the compressed length of one stream.
func (v *View) CompressedSize(b, c int) int {
	idx := b*v.numChunks + c
	cur := v.cumSizes[idx]
	var prev uint64
	if c > 0 {
		prev = v.cumSizes[idx-1]
	}
	return int(cur - prev)
}

// Payload returns the compressed bytes for buffer b, chunk c as a slice
// aliasing the container buffer — callers must not retain it past the
// container's lifetime without copying.
func (v *View) Payload(b, c int) []byte {
	idx := b*v.numChunks + c
	var prev uint64
	if c > 0 {
		prev = v.cumSizes[idx-1]
	}
	start := v.bufBase[b] + int(prev)
	size := v.CompressedSize(b, c)
	return v.buf[start : start+size]
}

// NumChunks and NumBuffers expose the dimensions Parse was called with,
// so callers that parsed speculatively can sanity-check their own config.
func (v *View) NumChunks() int { return v.numChunks }
func (v *View) NumBuffers() int { return v.n }
