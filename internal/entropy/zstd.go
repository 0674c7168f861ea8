package entropy

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Encoders and decoders carry internal state (window buffers, goroutine
// pools in concurrent mode) that is expensive to set up, so one is kept
// per distinct ZSTD level and reused across chunks rather than created
// per call.
var (
	encoderMu sync.Mutex
	encoders  = map[int]*zstd.Encoder{}

	decoderOnce sync.Once
	decoder     *zstd.Decoder
)

func zstdEncoder(level int) (*zstd.Encoder, error) {
	encoderMu.Lock()
	defer encoderMu.Unlock()

	if enc, ok := encoders[level]; ok {
		return enc, nil
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, err
	}
	encoders[level] = enc
	return enc, nil
}

func zstdDecoder() (*zstd.Decoder, error) {
	var err error
	decoderOnce.Do(func() {
		decoder, err = zstd.NewReader(nil)
	})
	if err != nil {
		return nil, err
	}
	return decoder, nil
}

func encodeZSTD(src []byte, level int) (ok bool, out []byte, err error) {
	if level <= 0 {
		level = 1
	}
	enc, err := zstdEncoder(level)
	if err != nil {
		return false, nil, err
	}
	compressed := enc.EncodeAll(src, make([]byte, 0, len(src)))
	return true, compressed, nil
}

func decodeZSTD(src []byte, uncompressedSize int) ([]byte, error) {
	if len(src) == 0 {
		if uncompressedSize == 0 {
			return nil, nil
		}
		return nil, zstd.ErrMagicMismatch
	}
	dec, err := zstdDecoder()
	if err != nil {
		return nil, err
	}
	return dec.DecodeAll(src, make([]byte, 0, uncompressedSize))
}
