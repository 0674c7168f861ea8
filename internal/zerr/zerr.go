// Package zerr defines the sentinel error kinds shared across the codec's
// internal packages, so every package can wrap its errors consistently
// without importing the public zipnn package (which would create an import
// cycle). Package zipnn re-exports these under its own names.
package zerr

import "errors"

// Sentinel error kinds shared by every codec stage: invalid configuration,
// allocation failure, entropy codec failure, malformed container, and
// worker pool failure.
var (
	Config     = errors.New("zipnn: invalid configuration")
	Allocation = errors.New("zipnn: allocation failed")
	Codec      = errors.New("zipnn: entropy codec error")
	Format     = errors.New("zipnn: malformed container")
	Worker     = errors.New("zipnn: worker pool error")
)
