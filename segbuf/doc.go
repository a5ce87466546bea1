// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package segbuf implements a segmented buffer allocator: a pool of
// large backing blocks sliced into fixed-size segments, handed out as
// variable-length contiguous runs to callers that do not know their
// required size up front.
//
// Where the sibling package code.hybscloud.com/iobuf offers tiered,
// fixed-size pools (PicoBuffer, SmallBuffer, ... TitanBuffer) for
// callers whose buffer size is known at compile time, segbuf serves
// callers building expandable, growing byte streams: a stream facade
// composing segment runs into a logical contiguous buffer, requesting
// more segments as it grows and releasing them as it shrinks.
//
// # Groups and the bitmap allocator
//
// A Group owns one backing store and a pair of packed bitmaps (used,
// zeroed) over its segments. GetBuffer finds a free run of segments
// using preferred-placement or largest-free-run fallback, optionally
// zero-fills it, and returns a SegmentBuffer handle:
//
//	pool := segbuf.NewPool(segbuf.StoreManaged)
//	buf, err := pool.GetBuffer(4096, true, nil)
//	if err != nil {
//	    // handle segbuf.ErrAllocationFailed
//	}
//	copy(buf.AsMutSpan(), payload)
//	pool.ReleaseBuffer(buf, false)
//
// # Preferred placement
//
// Callers that want logical contiguity across repeated allocations
// (the common case for a growing stream appending to its own tail)
// pass a BufferInfo naming the segment just past a previous buffer as a
// placement hint; the allocator starts the new run at the hint's
// FirstSegment in the hint's BlockID when that segment is free:
//
//	prevInfo := prev.BufferInfo()
//	hint := segbuf.BufferInfo{
//	    BlockID:      prevInfo.BlockID,
//	    FirstSegment: prevInfo.FirstSegment + prevInfo.SegmentCount,
//	}
//	next, err := pool.GetBuffer(size, false, &hint)
//
// # Generations
//
// Groups are created on demand, organized into generations of
// increasing group size (16, 32, 64, ... segments, capped at
// MaxAllowedGroupSegmentCount), so that a stream which stays small
// never pays for oversized groups, while one that grows large is
// served by progressively bigger groups rather than progressively
// more of them.
//
// # Managed vs Native backing stores
//
// StoreManaged backs groups with ordinary Go-heap memory (zero-filled
// at creation, per the language's own guarantee). StoreNative backs
// groups with anonymous memory obtained directly from the OS via mmap,
// bypassing the Go heap and garbage collector for large, long-lived
// allocations; its initial contents are treated as unspecified, so
// every segment starts in the Free-Dirty state regardless of what the
// mapping actually contains.
//
// # Thread safety
//
// Pool and Group are safe for concurrent use. Each Group serializes
// its own GetBuffer/ReleaseBuffer calls on a group-local lock; a
// returned SegmentBuffer is safe to use on any goroutine without
// further synchronization, because the allocator never hands out
// overlapping live handles. Pool's group list and block-id index are
// append-only after construction.
//
// # Dependencies
//
// segbuf depends on:
//   - code.hybscloud.com/iobuf (the root package): Pool[T] (SegmentBuffer
//     Get/Put), AlignedMem/PageSize (page-aligned Managed backing
//     memory), and IoVec (SegmentBuffer.AsIoVec). The dependency runs
//     this direction only; the root package never imports segbuf.
//   - golang.org/x/sys/unix: anonymous memory mapping for StoreNative
//   - code.hybscloud.com/spin: spin-wait primitives used by its
//     concurrency tests, in the manner of iobuf's own bounded_pool tests
//   - code.hybscloud.com/iox: test-only, via admission_test.go, which
//     pairs a segbuf.Pool with an iobuf.BoundedPool of admission tokens
//     to exercise iox.Backoff/iox.ErrWouldBlock under real contention
package segbuf
