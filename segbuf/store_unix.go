// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package segbuf

import "golang.org/x/sys/unix"

// nativeAlloc obtains size bytes of anonymous, private memory directly
// from the OS via mmap, bypassing the Go heap. This is the mechanism
// used by large, long-lived segment groups under StoreNative so that
// their memory is never scanned or moved by the garbage collector.
func nativeAlloc(size uintptr) (buf []byte, release func([]byte) error, err error) {
	buf, mmapErr := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if mmapErr != nil {
		return nil, nil, ErrAllocationFailed
	}
	return buf, unix.Munmap, nil
}
