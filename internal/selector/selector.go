// Package selector implements the AUTO method-selection heuristic: it
// inspects the untransposed chunk and proposes a method per target byte
// stream based on how many zero bytes land in that stream and how they
// cluster.
package selector

import "github.com/zipnn/zipnn-go/internal/entropy"

const (
	zeroFractionThreshold   = 0.92
	maxRunFractionThreshold = 0.03
)

// Choose returns one Method per stream (len(result) == n), for a chunk of
// elements each elementWidth bytes wide, stored in byte-position order
// (i.e. before transposition — the selector looks at stride-elementWidth
// byte positions directly in chunk, not at already-split streams).
func Choose(chunk []byte, n, elementWidth int) []entropy.Method {
	elementCount := len(chunk) / elementWidth
	// tail is a trailing partial element; its byte b lands in stream b, so a
	// non-zero tail byte rules out TRUNCATE for that stream.
	tail := chunk[elementCount*elementWidth:]
	tailNonZero := func(b int) bool { return b < len(tail) && tail[b] != 0 }
	methods := make([]entropy.Method, n)
	if elementCount == 0 {
		for b := range methods {
			methods[b] = entropy.MethodTruncate
			if tailNonZero(b) {
				methods[b] = entropy.MethodHuffman
			}
		}
		return methods
	}

	stride := elementWidth

	for b := 0; b < n; b++ {
		zeros, maxRun := streamStats(chunk, b, stride, elementCount)
		p := float64(zeros) / float64(elementCount)
		q := float64(maxRun) / float64(elementCount)

		switch {
		case zeros == elementCount && !tailNonZero(b):
			methods[b] = entropy.MethodTruncate
		case p > zeroFractionThreshold || q > maxRunFractionThreshold:
			methods[b] = entropy.MethodZSTD
		default:
			methods[b] = entropy.MethodHuffman
		}
	}
	return methods
}

// streamStats computes the zero-byte count and longest zero run for target
// stream b: the byte examined for element i is the one at position
// (i*stride + b), i.e. the b-th byte-position within the i-th element,
// pre-transposition. stride always equals the number of streams for the
// byte-transposition modes this codec supports.
func streamStats(chunk []byte, b, stride, elementCount int) (zeros, maxRun int) {
	run := 0
	for i := 0; i < elementCount; i++ {
		if chunk[i*stride+b] == 0 {
			zeros++
			run++
			if run > maxRun {
				maxRun = run
			}
		} else {
			run = 0
		}
	}
	return zeros, maxRun
}
