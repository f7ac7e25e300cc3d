// Package workgroup computes compute-shader dispatch grids.
package workgroup

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLocalSize = errors.New("workgroup: local size must be positive")
	ErrTooManyGroups    = errors.New("workgroup: dispatch exceeds max work group count")
	ErrLocalTooLarge    = errors.New("workgroup: local size exceeds device limits")
)

// Dims is a 3D work group count or size.
type Dims struct {
	X, Y, Z uint32
}

func (d Dims) String() string {
	return fmt.Sprintf("%d x %d x %d", d.X, d.Y, d.Z)
}

// Invocations returns X*Y*Z.
func (d Dims) Invocations() uint64 {
	return uint64(d.X) * uint64(d.Y) * uint64(d.Z)
}

// Count returns the number of groups of size local needed to cover extent,
// i.e. ceil(extent/local). A non-positive extent needs no groups.
func Count(extent, local int) (uint32, error) {
	if local <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLocalSize, local)
	}
	if extent <= 0 {
		return 0, nil
	}
	return uint32((extent + local - 1) / local), nil
}

// Dispatch returns the 2D grid covering a width x height image with
// localX x localY groups. Z is always 1.
func Dispatch(width, height, localX, localY int) (Dims, error) {
	x, err := Count(width, localX)
	if err != nil {
		return Dims{}, err
	}
	y, err := Count(height, localY)
	if err != nil {
		return Dims{}, err
	}
	return Dims{X: x, Y: y, Z: 1}, nil
}

// Limits are the compute limits reported by a device.
type Limits struct {
	MaxCount       Dims
	MaxSize        Dims
	MaxInvocations uint32
}

// Check reports whether a dispatch of groups with the given local size fits
// the limits. Zero-valued limit fields are treated as unknown and skipped.
func (l Limits) Check(groups, local Dims) error {
	if exceeds(groups.X, l.MaxCount.X) || exceeds(groups.Y, l.MaxCount.Y) || exceeds(groups.Z, l.MaxCount.Z) {
		return fmt.Errorf("%w: %s > %s", ErrTooManyGroups, groups, l.MaxCount)
	}
	if exceeds(local.X, l.MaxSize.X) || exceeds(local.Y, l.MaxSize.Y) || exceeds(local.Z, l.MaxSize.Z) {
		return fmt.Errorf("%w: %s > %s", ErrLocalTooLarge, local, l.MaxSize)
	}
	if l.MaxInvocations != 0 && local.Invocations() > uint64(l.MaxInvocations) {
		return fmt.Errorf("%w: %d invocations > %d", ErrLocalTooLarge, local.Invocations(), l.MaxInvocations)
	}
	return nil
}

func exceeds(v, max uint32) bool {
	return max != 0 && v > max
}
