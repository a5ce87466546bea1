// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import "fmt"

// BufferInfo identifies a contiguous segment run within one group. It
// is the stable, comparable identity carried by a SegmentBuffer handle
// and is also accepted as a placement hint on GetBuffer.
type BufferInfo struct {
	BlockID      uint64
	FirstSegment uint32
	SegmentCount uint32
}

// SegmentBuffer is the consumer-facing handle produced by GetBuffer. It
// presents the bytes of its segment run as a flat span. A SegmentBuffer
// does not own memory: it is a back-reference to its owning Group, and
// must be released via Pool.ReleaseBuffer exactly once. Using it after
// release, or releasing it twice, is a fatal programmer error.
type SegmentBuffer struct {
	info  BufferInfo
	group *Group
}

// Len returns the handle's length in bytes: segmentCount * SegmentSize.
func (b *SegmentBuffer) Len() int {
	return int(b.info.SegmentCount) * int(SegmentSize)
}

// SegmentCount returns the number of segments backing this handle.
func (b *SegmentBuffer) SegmentCount() uint32 {
	return b.info.SegmentCount
}

// BufferInfo returns the handle's identity: block id, first segment,
// and segment count.
func (b *SegmentBuffer) BufferInfo() BufferInfo {
	return b.info
}

// AsSpan returns the handle's bytes as a read-write span. The caller
// must not retain the span past release of the handle.
func (b *SegmentBuffer) AsSpan() []byte {
	return b.group.store.slice(uintptr(b.info.FirstSegment)*SegmentSize, uintptr(b.info.SegmentCount)*SegmentSize)
}

// AsMutSpan is an alias of AsSpan kept for symmetry with spec.md's
// as_span/as_mut_span naming; Go slices have no separate mutable view.
func (b *SegmentBuffer) AsMutSpan() []byte {
	return b.AsSpan()
}

// Read copies len(dst) bytes starting at offset into dst, returning the
// number of bytes copied. It returns ErrOutOfRangeAccess, rather than
// panicking, because an oversized read from a stream facade driving a
// retry loop is an expected, recoverable condition rather than a
// contract violation.
func (b *SegmentBuffer) Read(offset int, dst []byte) (int, error) {
	if offset < 0 || offset+len(dst) > b.Len() {
		return 0, fmt.Errorf("%w: read [%d,%d) in buffer of length %d", ErrOutOfRangeAccess, offset, offset+len(dst), b.Len())
	}
	span := b.AsSpan()
	return copy(dst, span[offset:offset+len(dst)]), nil
}

// Write copies src into the buffer starting at offset, returning the
// number of bytes copied.
func (b *SegmentBuffer) Write(offset int, src []byte) (int, error) {
	if offset < 0 || offset+len(src) > b.Len() {
		return 0, fmt.Errorf("%w: write [%d,%d) in buffer of length %d", ErrOutOfRangeAccess, offset, offset+len(src), b.Len())
	}
	span := b.AsMutSpan()
	return copy(span[offset:offset+len(src)], src), nil
}

// IsAllZeroes reports whether every byte of the handle's span is zero.
// It is an O(len) scan intended for tests verifying the zero-fill
// invariant, but is exported because spec.md requires it be publicly
// callable.
func (b *SegmentBuffer) IsAllZeroes() bool {
	for _, c := range b.AsSpan() {
		if c != 0 {
			return false
		}
	}
	return true
}
