/*
Command libopencc builds the converter as a C shared library:

	go build -buildmode=c-shared -o libopencc.so ./cmd/libopencc

The generated header declares

	int32_t opencc_create(int32_t config, OpenCCHandle** out_handle);
	void    opencc_destroy(OpenCCHandle* handle);
	char*   opencc_convert(OpenCCHandle* handle, char* text);
	void    opencc_free_string(char* s);

config is one of the built-in configurations, S2T = 0 through T2JP = 13.
opencc_create returns 0 on success; other results are 1 (invalid handle),
2 (invalid argument), 3 (creation failed) and 4 (internal error).
Strings returned by opencc_convert belong to the caller and must be
released with opencc_free_string, exactly once. A handle must not be used
after opencc_destroy.
*/
package main

/*
#include <stdint.h>
#include <stdlib.h>

typedef struct OpenCCHandle {
	uint64_t id;
} OpenCCHandle;
*/
import "C"

import (
	"unsafe"

	"github.com/npillmayer/opencc/internal/ffi"
)

var registry = ffi.NewRegistry(nil)

//export opencc_create
func opencc_create(config C.int32_t, out **C.OpenCCHandle) C.int32_t {
	if out == nil {
		return C.int32_t(ffi.InvalidArgument)
	}
	*out = nil
	h, status := registry.Create(int32(config))
	if status != ffi.Success {
		return C.int32_t(status)
	}
	p := (*C.OpenCCHandle)(C.malloc(C.size_t(unsafe.Sizeof(C.OpenCCHandle{}))))
	if p == nil {
		registry.Destroy(h)
		return C.int32_t(ffi.InternalError)
	}
	p.id = C.uint64_t(h)
	*out = p
	return C.int32_t(ffi.Success)
}

//export opencc_destroy
func opencc_destroy(handle *C.OpenCCHandle) {
	if handle == nil {
		return
	}
	registry.Destroy(ffi.Handle(handle.id))
	handle.id = 0
	C.free(unsafe.Pointer(handle))
}

//export opencc_convert
func opencc_convert(handle *C.OpenCCHandle, text *C.char) *C.char {
	if handle == nil || text == nil {
		return nil
	}
	out, status := registry.Convert(ffi.Handle(handle.id), C.GoString(text))
	if status != ffi.Success {
		return nil
	}
	return C.CString(out)
}

//export opencc_free_string
func opencc_free_string(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

func main() {}
