// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import "code.hybscloud.com/iobuf"

// storeKind distinguishes how a backingStore's memory was obtained.
type storeKind int

const (
	// StoreManaged backs groups with ordinary Go-heap memory, which the
	// language guarantees is zero-filled at allocation time.
	StoreManaged storeKind = iota

	// StoreNative backs groups with memory obtained directly from the
	// OS, outside the Go heap and garbage collector. Its initial
	// contents are treated as unspecified; see doc.go.
	StoreNative
)

// backingStore owns a single contiguous BlockSize region of memory and
// provides bounds-checked span access to it. It is exclusively owned by
// one Group for that Group's lifetime.
type backingStore struct {
	kind storeKind
	buf  []byte
	// release, when non-nil, returns buf's memory to the OS. nil for
	// StoreManaged, where the Go garbage collector reclaims buf.
	release func([]byte) error
	// onZero, when non-nil, is invoked before every zero-fill write.
	// Set only by tests observing spec.md's zero-fill-skip and
	// idempotent-zero-fill invariants; nil in production.
	onZero func(offset, length uintptr)
}

// newBackingStore allocates a BlockSize region of the requested kind.
func newBackingStore(kind storeKind, blockSize uintptr) (store *backingStore, err error) {
	switch kind {
	case StoreManaged:
		buf, allocErr := managedAlloc(blockSize)
		if allocErr != nil {
			return nil, allocErr
		}
		return &backingStore{kind: StoreManaged, buf: buf}, nil
	case StoreNative:
		buf, release, allocErr := nativeAlloc(blockSize)
		if allocErr != nil {
			return nil, allocErr
		}
		return &backingStore{kind: StoreNative, buf: buf, release: release}, nil
	default:
		panic("segbuf: unknown backing store kind")
	}
}

// managedAlloc allocates size bytes of page-aligned heap memory via
// iobuf.AlignedMem, recovering from an allocation-time panic (which a
// pathologically large size can trigger) and surfacing it as
// ErrAllocationFailed instead.
func managedAlloc(size uintptr) (buf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, ErrAllocationFailed
		}
	}()
	return iobuf.AlignedMem(int(size), iobuf.PageSize), nil
}

// slice returns the [offset, offset+length) byte range of the store.
// Panics if the range falls outside the store, matching spec.md's
// "panics if out of range" contract for out-of-bounds access.
func (s *backingStore) slice(offset, length uintptr) []byte {
	end := offset + length
	if end < offset || end > uintptr(len(s.buf)) {
		panic(ErrOutOfRangeAccess)
	}
	return s.buf[offset:end]
}

// zero writes zeros to the [offset, offset+length) byte range.
func (s *backingStore) zero(offset, length uintptr) {
	if s.onZero != nil {
		s.onZero(offset, length)
	}
	span := s.slice(offset, length)
	clear(span)
}

// close releases the store's memory. A no-op for StoreManaged, where
// the Go garbage collector reclaims buf once the last reference drops.
func (s *backingStore) close() error {
	if s.release == nil {
		return nil
	}
	buf := s.buf
	s.buf = nil
	return s.release(buf)
}
