package entropy

import (
	"errors"
	"sync"

	"github.com/klauspost/compress/huff0"
)

var huffScratchPool = sync.Pool{
	New: func() any { return new(huff0.Scratch) },
}

// encodeHuffman reports ok=false when the block is incompressible rather
// than returning an error — huff0 surfaces this as a sentinel error, and
// the selector/threshold check downstream expects a boolean, not an error,
// for the common "didn't help" case.
func encodeHuffman(src []byte) (ok bool, out []byte, err error) {
	s := huffScratchPool.Get().(*huff0.Scratch)
	defer huffScratchPool.Put(s)

	compressed, _, cerr := huff0.Compress1X(src, s)
	if cerr != nil {
		if errors.Is(cerr, huff0.ErrIncompressible) || errors.Is(cerr, huff0.ErrUseRLE) || errors.Is(cerr, huff0.ErrTooBig) {
			return false, nil, nil
		}
		return false, nil, cerr
	}
	return true, append([]byte(nil), compressed...), nil
}

func decodeHuffman(src []byte, uncompressedSize int) ([]byte, error) {
	if len(src) == 0 {
		if uncompressedSize == 0 {
			return nil, nil
		}
		return nil, errors.New("empty huffman stream for non-empty declared size")
	}

	s := huffScratchPool.Get().(*huff0.Scratch)
	defer huffScratchPool.Put(s)

	s.MaxDecodedSize = uncompressedSize
	table, remain, err := huff0.ReadTable(src, s)
	if err != nil {
		return nil, err
	}
	return table.Decompress1X(remain)
}
