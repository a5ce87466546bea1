// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"fmt"
	"sync"
)

// Result reports the outcome of a Group's GetBuffer call.
type Result int

const (
	// Available means a handle was returned, possibly for fewer
	// segments than requested if the group could not fit the full
	// request.
	Available Result = iota

	// GroupFull means every segment in the group is currently used; no
	// handle was returned.
	GroupFull
)

// Group is a single backing store plus the bitmap pair that tracks
// which of its segments are in use and which are known to be zeroed
// while free. A Group serializes all GetBuffer/ReleaseBuffer calls on
// its own lock; it is created and destroyed only by a Pool.
type Group struct {
	_ noCopy

	mu sync.Mutex

	blockID       uint64
	segmentCount  uint32
	used          flagVec
	zeroed        flagVec
	segmentsInUse uint32
	store         *backingStore
}

// noCopy is a sentinel used to prevent copying of synchronization
// primitives, matching the package-level convention established by
// iobuf.noCopy for BoundedPool.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// newGroup creates a Group with segmentCount segments of SegmentSize
// each, backed by a freshly allocated store of the given kind. A
// Managed store starts with every segment Free-Clean (used=0,
// zeroed=1); a Native store starts with every segment Free-Dirty
// (used=0, zeroed=0), since its initial bytes are unspecified.
func newGroup(blockID uint64, kind storeKind, segmentCount uint32) (*Group, error) {
	store, err := newBackingStore(kind, uintptr(segmentCount)*SegmentSize)
	if err != nil {
		return nil, err
	}
	g := &Group{
		blockID:      blockID,
		segmentCount: segmentCount,
		used:         newFlagVec(segmentCount),
		zeroed:       newFlagVec(segmentCount),
		store:        store,
	}
	if kind == StoreManaged {
		for s := uint32(0); s < segmentCount; s++ {
			g.zeroed.set(s)
		}
	}
	return g, nil
}

// GetBuffer attempts to place a desired_segments = ceil(size /
// SegmentSize) run of free segments, truncated to the group's
// segmentCount. preferredFirstSegment, if >= 0, is tried first; if
// that segment is free, the run starts there and IsPreferred is true
// regardless of whether a longer run exists elsewhere. Otherwise the
// group scans for the largest free run up to desired_segments,
// earliest start breaking ties.
//
// require_zeroed causes every selected segment whose zeroed bit is
// clear to be physically zero-filled before the handle is returned;
// segments already known zeroed are left untouched. Every selected
// segment's zeroed bit is set to 1 afterward (it stays meaningful only
// while the segment is later freed again).
func (g *Group) GetBuffer(size uint32, requireZeroed bool, preferredFirstSegment int) (buf *SegmentBuffer, res Result, isPreferred bool) {
	if size == 0 {
		panic(ErrInvalidArgument)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	desired := desiredSegments(size)
	if desired > g.segmentCount {
		desired = g.segmentCount
	}

	if preferredFirstSegment >= 0 && uint32(preferredFirstSegment) < g.segmentCount {
		p := uint32(preferredFirstSegment)
		if !g.used.get(p) {
			free := g.freeRunFrom(p)
			count := desired
			if free < count {
				count = free
			}
			return g.commit(p, count, requireZeroed), Available, true
		}
	}

	start, length, found := g.scanFreeRun(desired)
	if !found {
		return nil, GroupFull, false
	}
	count := desired
	if length < count {
		count = length
	}
	return g.commit(start, count, requireZeroed), Available, false
}

// ReleaseBuffer returns the segment run described by info to the free
// pool. zeroOnRelease, if true, zero-fills the run and marks it
// Free-Clean; otherwise the run is marked Free-Dirty without touching
// its bytes.
func (g *Group) ReleaseBuffer(info BufferInfo, zeroOnRelease bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if info.BlockID != g.blockID {
		panic(fmt.Errorf("%w: segment buffer owned by block %d, released against block %d", ErrWrongOwner, info.BlockID, g.blockID))
	}

	for s := info.FirstSegment; s < info.FirstSegment+info.SegmentCount; s++ {
		if !g.used.get(s) {
			panic(fmt.Errorf("%w: segment %d is already free", ErrDoubleRelease, s))
		}
		if zeroOnRelease {
			g.store.zero(uintptr(s)*SegmentSize, SegmentSize)
			g.zeroed.set(s)
		} else {
			g.zeroed.clear(s)
		}
		g.used.clear(s)
	}
	g.segmentsInUse -= info.SegmentCount
}

// desiredSegments rounds size up to the nearest whole SegmentSize.
func desiredSegments(size uint32) uint32 {
	return uint32((uint64(size) + uint64(SegmentSize) - 1) / uint64(SegmentSize))
}

// freeRunFrom returns the number of consecutive free segments starting
// at s (which must itself be free), up to the group's segmentCount.
func (g *Group) freeRunFrom(s uint32) uint32 {
	n := uint32(0)
	for ; s < g.segmentCount && !g.used.get(s); s++ {
		n++
	}
	return n
}

// scanFreeRun finds the largest free run in the used bitmap, earliest
// start breaking ties, short-circuiting as soon as a run of at least
// desired segments has been confirmed.
func (g *Group) scanFreeRun(desired uint32) (start, length uint32, found bool) {
	var bestStart, bestLen uint32
	var curStart, curLen uint32
	inRun := false

	closeRun := func() {
		if inRun && curLen > bestLen {
			bestStart, bestLen, found = curStart, curLen, true
		}
		inRun = false
	}

	for s := uint32(0); s < g.segmentCount; s++ {
		if g.used.get(s) {
			closeRun()
			continue
		}
		if !inRun {
			inRun, curStart, curLen = true, s, 0
		}
		curLen++
		if curLen >= desired {
			return curStart, curLen, true
		}
	}
	closeRun()

	return bestStart, bestLen, found
}

// commit marks [start, start+count) as used, zero-filling per policy,
// and returns the resulting handle. Must be called with g.mu held.
func (g *Group) commit(start, count uint32, requireZeroed bool) *SegmentBuffer {
	for s := start; s < start+count; s++ {
		if requireZeroed && !g.zeroed.get(s) {
			g.store.zero(uintptr(s)*SegmentSize, SegmentSize)
		}
		if requireZeroed {
			g.zeroed.set(s)
		}
		g.used.set(s)
	}
	g.segmentsInUse += count

	return &SegmentBuffer{
		info: BufferInfo{
			BlockID:      g.blockID,
			FirstSegment: start,
			SegmentCount: count,
		},
		group: g,
	}
}
