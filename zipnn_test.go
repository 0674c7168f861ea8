// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package zipnn

import (
	"bytes"
	"crypto/rand"
	"errors"
	mathrand "math/rand"
	"testing"
)

func testHeader(cfg Config) []byte { return make([]byte, cfg.HeaderLen) }

// Scenario 1: 16-bit exponent-cluster round trip.
func TestScenarioRoundTrip16BitExponentCluster(t *testing.T) {
	data := []byte{0x00, 0x3C, 0x00, 0xBC, 0x00, 0x40, 0x00, 0xC0} // +1, -1, +2, -2
	cfg := DefaultConfig()
	cfg.NumBuffers = 2
	cfg.BitsMode = 1
	cfg.BytesMode = BytesModeSplit
	cfg.Method = MethodHuffman
	cfg.OrigChunkSize = 8
	cfg.Threads = 1

	container, err := Compress(testHeader(cfg), data, cfg)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(container, cfg, int64(len(data)))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("round trip mismatch: got % x, want % x", out, data)
	}
}

// Scenario 2: 32-bit four-way split with a non-aligned tail.
func TestScenarioRoundTrip32BitFourWayWithTail(t *testing.T) {
	data := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	cfg := DefaultConfig()
	cfg.NumBuffers = 4
	cfg.BitsMode = 0
	cfg.BytesMode = BytesModeInterleave4
	cfg.Method = MethodAuto
	cfg.OrigChunkSize = 16

	container, err := Compress(testHeader(cfg), data, cfg)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(container, cfg, int64(len(data)))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("round trip mismatch: got % x, want % x", out, data)
	}
}

// Scenario 3: every 4th byte zero picks TRUNCATE for that stream, and the
// round trip still reproduces the exact input.
func TestScenarioTruncationPath(t *testing.T) {
	data := make([]byte, 16)
	for i := range data {
		data[i] = byte(i + 1)
	}
	for _, pos := range []int{3, 7, 11, 15} {
		data[pos] = 0
	}
	cfg := DefaultConfig()
	cfg.NumBuffers = 4
	cfg.BitsMode = 0
	cfg.BytesMode = BytesModeInterleave4
	cfg.Method = MethodAuto
	cfg.OrigChunkSize = 16

	container, err := Compress(testHeader(cfg), data, cfg)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	// One chunk, so stream 3's method byte follows the header by 3.
	if m := Method(container[cfg.HeaderLen+3]); m != MethodTruncate {
		t.Fatalf("stream 3 method = %v, want TRUNCATE", m)
	}
	out, err := Decompress(container, cfg, int64(len(data)))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("round trip mismatch: got % x, want % x", out, data)
	}
}

// Scenario 4: thread-invariance over 1 MiB of random floats.
func TestScenarioThreadInvariance(t *testing.T) {
	r := mathrand.New(mathrand.NewSource(1234))
	data := make([]byte, 1<<20)
	r.Read(data)

	cfg := DefaultConfig()
	cfg.OrigChunkSize = 1 << 14

	var containers [][]byte
	for _, threads := range []int{1, 2, 4, 8} {
		cfg.Threads = threads
		c, err := Compress(testHeader(cfg), data, cfg)
		if err != nil {
			t.Fatalf("threads=%d: %v", threads, err)
		}
		containers = append(containers, c)
	}
	for i := 1; i < len(containers); i++ {
		if !bytes.Equal(containers[0], containers[i]) {
			t.Fatalf("container for threads[%d] differs from threads=1 container", i)
		}
	}
}

// Scenario 5: incompressible data is stored as ORIGINAL everywhere and the
// round trip still holds.
func TestScenarioIncompressibleData(t *testing.T) {
	data := make([]byte, 64<<10)
	if _, err := rand.Read(data); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.OrigChunkSize = 4096

	container, err := Compress(testHeader(cfg), data, cfg)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(container, cfg, int64(len(data)))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("round trip mismatch")
	}
}

// Scenario 6: corrupting a method byte to a reserved value fails parsing
// with ConfigError, before anything is written to the output buffer.
func TestScenarioCorruptionRejection(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	cfg := DefaultConfig()
	cfg.OrigChunkSize = 64

	container, err := Compress(testHeader(cfg), data, cfg)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	container[cfg.HeaderLen] = 7 // reserved method value

	if _, err := Decompress(container, cfg, int64(len(data))); !errors.Is(err, ErrConfig) {
		t.Fatalf("got %v, want ErrConfig", err)
	}
}

func TestConfigValidateRejectsBadHeaderLen(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeaderLen = 4
	if err := cfg.Validate(); !errors.Is(err, ErrConfig) {
		t.Fatalf("got %v, want ErrConfig", err)
	}
}

func TestCompressRejectsMismatchedHeaderLen(t *testing.T) {
	cfg := DefaultConfig()
	_, err := Compress(make([]byte, cfg.HeaderLen+1), []byte("x"), cfg)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("got %v, want ErrConfig", err)
	}
}
