// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"unsafe"

	"code.hybscloud.com/iobuf"
)

// AsIoVec returns b's segment run as a single iobuf.IoVec, pointing
// directly at the backing store without copying, for hand-off to the
// same vectored I/O call sites that accept iobuf's fixed-tier buffers.
func (b *SegmentBuffer) AsIoVec() iobuf.IoVec {
	span := b.AsSpan()
	return iobuf.IoVec{Base: unsafe.SliceData(span), Len: uint64(len(span))}
}

// IoVecFromSegmentBuffers converts a slice of SegmentBuffer handles to an
// iobuf.IoVec slice, one element per handle, for a single vectored I/O
// call spanning buffers that may belong to different groups or pools.
func IoVecFromSegmentBuffers(buffers []*SegmentBuffer) []iobuf.IoVec {
	if len(buffers) == 0 {
		return nil
	}
	vec := make([]iobuf.IoVec, len(buffers))
	for i, buf := range buffers {
		vec[i] = buf.AsIoVec()
	}
	return vec
}
