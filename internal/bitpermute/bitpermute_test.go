package bitpermute

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"
)

func TestInverseLaw32(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 100000; i++ {
		v := r.Uint32()
		if got := Inverse32(Forward32(v)); got != v {
			t.Fatalf("Inverse32(Forward32(%#x)) = %#x, want %#x", v, got, v)
		}
	}
}

func TestInverseLaw16(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 100000; i++ {
		v := r.Uint32()
		if got := Inverse16(Forward16(v)); got != v {
			t.Fatalf("Inverse16(Forward16(%#x)) = %#x, want %#x", v, got, v)
		}
	}
}

func TestForward32KnownVectors(t *testing.T) {
	// +1.0f = 0x3F800000
	got := Forward32(0x3F800000)
	want := uint32(0x7F000000)
	if got != want {
		t.Fatalf("Forward32(+1.0) = %#x, want %#x", got, want)
	}
	if back := Inverse32(got); back != 0x3F800000 {
		t.Fatalf("Inverse32 round trip = %#x, want 0x3F800000", back)
	}
}

func TestApplyRoundTrip(t *testing.T) {
	orig := []byte{0x00, 0x3C, 0x00, 0xBC, 0x00, 0x40, 0x00, 0xC0}
	buf := bytes.Clone(orig)
	Apply(buf, Width16, true)
	Apply(buf, Width16, false)
	if !bytes.Equal(buf, orig) {
		t.Fatalf("Apply round trip = % x, want % x", buf, orig)
	}
}

func TestApplyLeavesPartialWordUntouched(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	orig := bytes.Clone(buf)
	Apply(buf, Width32, true)
	if !bytes.Equal(buf[4:], orig[4:]) {
		t.Fatalf("partial tail byte was modified: got %#x want %#x", buf[4], orig[4])
	}
	full := binary.LittleEndian.Uint32(orig[:4])
	gotFull := binary.LittleEndian.Uint32(buf[:4])
	if gotFull != Forward32(full) {
		t.Fatalf("full word not permuted correctly")
	}
}
