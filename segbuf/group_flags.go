// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import "math/bits"

// flagSetSize is the number of segments tracked per flagVec word.
const flagSetSize = 64

// flagVec is a packed bit-vector over a Group's segments. Word i holds
// the bits for segments [i*64, i*64+64); bit position s%64 holds
// segment s. Bits past the owning Group's segmentCount are never set
// and must not be inspected.
type flagVec []uint64

// newFlagVec allocates a flagVec sized for segmentCount segments, all
// bits initially clear.
func newFlagVec(segmentCount uint32) flagVec {
	words := (int(segmentCount) + flagSetSize - 1) / flagSetSize
	return make(flagVec, words)
}

// get reports whether segment s's bit is set.
func (f flagVec) get(s uint32) bool {
	return f[s/flagSetSize]&(uint64(1)<<(s%flagSetSize)) != 0
}

// set sets segment s's bit.
func (f flagVec) set(s uint32) {
	f[s/flagSetSize] |= uint64(1) << (s % flagSetSize)
}

// clear clears segment s's bit.
func (f flagVec) clear(s uint32) {
	f[s/flagSetSize] &^= uint64(1) << (s % flagSetSize)
}

// popcount returns the number of set bits across the whole vector.
func (f flagVec) popcount() uint32 {
	var n uint32
	for _, w := range f {
		n += uint32(bits.OnesCount64(w))
	}
	return n
}
