// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import "errors"

// Sentinel errors returned or wrapped by segbuf operations.
//
// ErrInvalidArgument and ErrAllocationFailed are ordinary, recoverable
// conditions returned from Pool.GetBuffer (Group.GetBuffer panics with
// ErrInvalidArgument for a zero size). ErrWrongOwner and ErrDoubleRelease
// mark programmer errors: callers violating a handle's single-owner,
// release-exactly-once contract. The allocator panics with these wrapped
// rather than returning them, since there is no sensible recovery from a
// caller passing a handle it does not own. ErrOutOfRangeAccess is
// returned, wrapped, from SegmentBuffer.Read and Write; the backing
// store panics with it on an out-of-range span.
var (
	// ErrInvalidArgument is returned when a requested size is zero or
	// otherwise out of range.
	ErrInvalidArgument = errors.New("segbuf: invalid argument")

	// ErrAllocationFailed is returned when a backing store could not be
	// obtained, either from the Go heap or from the OS.
	ErrAllocationFailed = errors.New("segbuf: allocation failed")

	// ErrWrongOwner marks a release call whose handle's block id does
	// not belong to the group or pool it was released against.
	ErrWrongOwner = errors.New("segbuf: wrong owner")

	// ErrDoubleRelease marks a release call against a segment that is
	// already free.
	ErrDoubleRelease = errors.New("segbuf: double release")

	// ErrOutOfRangeAccess marks a Read or Write call whose offset and
	// length fall outside a SegmentBuffer's bytes.
	ErrOutOfRangeAccess = errors.New("segbuf: out of range access")
)
