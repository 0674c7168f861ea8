package entropy

import (
	"errors"
	"sync"

	"github.com/klauspost/compress/fse"
)

var fseScratchPool = sync.Pool{
	New: func() any { return new(fse.Scratch) },
}

func encodeFSE(src []byte) (ok bool, out []byte, err error) {
	s := fseScratchPool.Get().(*fse.Scratch)
	defer fseScratchPool.Put(s)

	compressed, cerr := fse.Compress(src, s)
	if cerr != nil {
		if errors.Is(cerr, fse.ErrIncompressible) || errors.Is(cerr, fse.ErrUseRLE) {
			return false, nil, nil
		}
		return false, nil, cerr
	}
	return true, append([]byte(nil), compressed...), nil
}

func decodeFSE(src []byte, uncompressedSize int) ([]byte, error) {
	if len(src) == 0 {
		if uncompressedSize == 0 {
			return nil, nil
		}
		return nil, errors.New("empty fse stream for non-empty declared size")
	}

	s := fseScratchPool.Get().(*fse.Scratch)
	defer fseScratchPool.Put(s)

	s.DecompressLimit = uncompressedSize
	out, err := fse.Decompress(src, s)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), out...), nil
}
