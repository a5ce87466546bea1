// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !unix

package segbuf

// nativeAlloc has no raw-mmap equivalent outside unix-family targets;
// it falls back to heap memory so StoreNative remains usable, at the
// cost of losing the bypass-the-GC benefit StoreNative exists for on
// unix. Callers targeting non-unix platforms that need that guarantee
// should use StoreManaged and accept Go's own zero-fill behavior.
func nativeAlloc(size uintptr) (buf []byte, release func([]byte) error, err error) {
	buf, allocErr := managedAlloc(size)
	if allocErr != nil {
		return nil, nil, allocErr
	}
	return buf, func([]byte) error { return nil }, nil
}
