// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package zipnn is a lossless, chunked compression codec specialized for
// arrays of IEEE-754 float16/float32 values. It decomposes each chunk in
// two passes — a bit permutation that clusters exponent bits onto a byte
// boundary, then a byte transposition ("byte grouping") into per-position
// streams — so that a conventional entropy coder sees far more repetition
// than it would in the raw interleaved bytes. Compression and
// decompression are both driven by a small worker pool pulling chunk
// ordinals off a shared atomic counter; see internal/chunked.
package zipnn
