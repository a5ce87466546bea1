// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

// Test-only mutators. These live in a _test.go file so they compile
// only under `go test`, never into production binaries; production
// callers have no way to reach into a Group's bitmaps directly. They
// exist to build specific bitmap state patterns (spec.md's S1-S6
// scenarios) without driving dozens of real GetBuffer/ReleaseBuffer
// calls to get there.

// setSegmentsUsed marks each segment index in segments as used,
// without touching the zeroed bitmap or performing any zero-fill.
func (g *Group) setSegmentsUsed(segments ...uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, s := range segments {
		g.used.set(s)
	}
	g.segmentsInUse = g.used.popcount()
}

// setSegmentsFree marks each segment index in segments as free, setting
// its zeroed bit according to clean.
func (g *Group) setSegmentsFree(clean bool, segments ...uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, s := range segments {
		g.used.clear(s)
		if clean {
			g.zeroed.set(s)
		} else {
			g.zeroed.clear(s)
		}
	}
	g.segmentsInUse = g.used.popcount()
}

// replaceFlags overwrites the group's used/zeroed bitmaps wholesale,
// for constructing arbitrary bit patterns directly (e.g. spec.md S2's
// alternating used pattern).
func (g *Group) replaceFlags(used, zeroed flagVec) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.used = used
	g.zeroed = zeroed
	g.segmentsInUse = g.used.popcount()
}

// zeroWriteCounter counts zero-fill calls per segment, so tests can
// verify the "skip zero-fill on already-clean segments" and "idempotent
// zero-fill after zeroing release" properties (spec.md invariants 3 and
// 7) by observation rather than inference.
type zeroWriteCounter struct {
	calls map[uint32]int
}

// install attaches the counter to g's backing store, replacing any
// previously installed hook.
func (z *zeroWriteCounter) install(g *Group) {
	z.calls = make(map[uint32]int)
	g.store.onZero = func(offset, length uintptr) {
		z.calls[uint32(offset/SegmentSize)]++
	}
}
