//go:build opencc && cgo

package opencc

/*
#cgo pkg-config: opencc
#include <stdlib.h>
#include <opencc.h>
*/
import "C"

import (
	"unsafe"
)

// Backend 标识编译进来的引擎实现
const Backend = "libopencc"

// opencc_open 失败时返回 (opencc_t)-1，而不是 NULL
const invalidHandle = ^uintptr(0)

type nativeEngine struct {
	h C.opencc_t
}

func openNative(configPath string) (engine, error) {
	cpath := C.CString(configPath)
	defer C.free(unsafe.Pointer(cpath))

	h := C.opencc_open(cpath)
	if uintptr(h) == invalidHandle {
		return nil, lastError()
	}
	return &nativeEngine{h: h}, nil
}

func (e *nativeEngine) convert(src string) (string, error) {
	in := C.CString(src)
	defer C.free(unsafe.Pointer(in))

	out := C.opencc_convert_utf8(e.h, in, C.size_t(len(src)))
	if out == nil {
		return "", lastError()
	}
	defer C.opencc_convert_utf8_free(out)
	return C.GoString(out), nil
}

func (e *nativeEngine) convertTo(dst []byte, src string) (int, error) {
	if len(dst) == 0 {
		return 0, nativeError("empty output buffer")
	}
	in := C.CString(src)
	defer C.free(unsafe.Pointer(in))

	n := C.opencc_convert_utf8_to_buffer(e.h, in, C.size_t(len(src)), (*C.char)(unsafe.Pointer(&dst[0])))
	if n == ^C.size_t(0) {
		return 0, lastError()
	}
	return int(n), nil
}

func (e *nativeEngine) close() error {
	if e.h == nil || uintptr(e.h) == invalidHandle {
		return nil
	}
	rc := C.opencc_close(e.h)
	e.h = nil
	if rc != 0 {
		return lastError()
	}
	return nil
}

// lastError 读取引擎最近一次的错误信息
func lastError() error {
	if msg := C.opencc_error(); msg != nil {
		if s := C.GoString(msg); s != "" {
			return nativeError(s)
		}
	}
	return nativeError("unknown native error")
}
