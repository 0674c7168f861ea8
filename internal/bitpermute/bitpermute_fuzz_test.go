package bitpermute

import "testing"

func FuzzInverse32(f *testing.F) {
	f.Add(uint32(0))
	f.Add(uint32(0xFFFFFFFF))
	f.Add(uint32(0x3F800000))
	f.Fuzz(func(t *testing.T, v uint32) {
		if got := Inverse32(Forward32(v)); got != v {
			t.Fatalf("Inverse32(Forward32(%#x)) = %#x, want %#x", v, got, v)
		}
	})
}

func FuzzInverse16(f *testing.F) {
	f.Add(uint32(0))
	f.Add(uint32(0xFFFFFFFF))
	f.Fuzz(func(t *testing.T, v uint32) {
		if got := Inverse16(Forward16(v)); got != v {
			t.Fatalf("Inverse16(Forward16(%#x)) = %#x, want %#x", v, got, v)
		}
	})
}
