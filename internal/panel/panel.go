// Package panel models the physical display panel dimensions the OS believes
// are installed, their packed 64-bit wire representation, and the size
// classification that decides whether a dimension override is needed.
package panel

import (
	"fmt"
	"math"
)

const (
	// HandheldMaxDiagonalInches is the largest panel diagonal the shell
	// accepts as handheld-sized. Panels at or below this need no override.
	HandheldMaxDiagonalInches = 9.5

	// MmPerInch converts millimeters to inches.
	MmPerInch = 25.4
)

// Target dimensions applied by the boot-time delivery mechanism, modeling a
// ~7" handheld panel.
const (
	TargetWidthMm  uint32 = 155
	TargetHeightMm uint32 = 87
)

// Dimensions is the physical panel size in millimeters. The zero value (0,0)
// is a sentinel meaning "undefined / never set", not a real zero-size panel.
type Dimensions struct {
	WidthMm  uint32
	HeightMm uint32
}

// Target returns the dimensions the override mechanisms apply on every boot.
func Target() Dimensions {
	return Dimensions{WidthMm: TargetWidthMm, HeightMm: TargetHeightMm}
}

// IsZero reports whether d is the never-set sentinel.
func (d Dimensions) IsZero() bool {
	return d.WidthMm == 0 && d.HeightMm == 0
}

// Encode packs the dimensions into the 64-bit layout the OS state store
// expects: low 32 bits = width, high 32 bits = height.
func (d Dimensions) Encode() uint64 {
	return uint64(d.HeightMm)<<32 | uint64(d.WidthMm)
}

// Decode unpacks a 64-bit state blob. Exact inverse of Encode.
func Decode(blob uint64) Dimensions {
	return Dimensions{
		WidthMm:  uint32(blob & 0xFFFFFFFF),
		HeightMm: uint32(blob >> 32 & 0xFFFFFFFF),
	}
}

// DiagonalInches returns the panel diagonal in inches.
func (d Dimensions) DiagonalInches() float64 {
	w := float64(d.WidthMm)
	h := float64(d.HeightMm)
	return math.Sqrt(w*w+h*h) / MmPerInch
}

// OverrideRequired reports whether the panel needs a dimension override
// before the shell will treat the device as a handheld. The never-set
// sentinel always requires one; it must be checked before the diagonal,
// whose value for (0,0) would otherwise pass the threshold.
func (d Dimensions) OverrideRequired() bool {
	if d.IsZero() {
		return true
	}
	return d.DiagonalInches() > HandheldMaxDiagonalInches
}

// String renders the dimensions the way the CLI prints them.
func (d Dimensions) String() string {
	return fmt.Sprintf("%d mm x %d mm (diagonal approx. %.2f inches)", d.WidthMm, d.HeightMm, d.DiagonalInches())
}
