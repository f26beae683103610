/*
Package ffi holds the state behind the C interface of the converter:
a registry of converters addressed by opaque handles, and the status codes
returned across the boundary. Panics never leave this package; they are
reported as InternalError.
*/
package ffi

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/npillmayer/opencc"
	"github.com/npillmayer/opencc/config"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'opencc'
func tracer() tracing.Trace {
	return tracing.Select("opencc")
}

// Status is the result code of a boundary call. Values are fixed by the
// C header.
type Status int32

const (
	Success         Status = 0
	InvalidHandle   Status = 1
	InvalidArgument Status = 2
	CreationFailed  Status = 3
	InternalError   Status = 4
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case InvalidHandle:
		return "invalid handle"
	case InvalidArgument:
		return "invalid argument"
	case CreationFailed:
		return "creation failed"
	case InternalError:
		return "internal error"
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

// Handle identifies a converter owned by a Registry. The zero Handle is
// never issued.
type Handle uint64

// Converter is the part of *opencc.Converter used across the boundary.
type Converter interface {
	Convert(text string) string
}

// Factory creates the converter for a built-in configuration.
type Factory func(b config.Builtin) (Converter, error)

// BuiltinFactory creates converters with opencc.NewFromBuiltin.
func BuiltinFactory(b config.Builtin) (Converter, error) {
	return opencc.NewFromBuiltin(b)
}

// Registry owns converters on behalf of foreign callers. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	last    Handle
	handles map[Handle]Converter
	factory Factory
}

// NewRegistry creates a registry. A nil factory selects BuiltinFactory.
func NewRegistry(factory Factory) *Registry {
	if factory == nil {
		factory = BuiltinFactory
	}
	return &Registry{
		handles: make(map[Handle]Converter),
		factory: factory,
	}
}

// Create builds the converter for a built-in configuration selector and
// returns its handle.
func (r *Registry) Create(selector int32) (h Handle, status Status) {
	defer recoverInto(&status, "create")
	b := config.Builtin(selector)
	if !b.Valid() {
		return 0, InvalidArgument
	}
	conv, err := r.factory(b)
	if err != nil || conv == nil {
		tracer().Errorf("could not create converter %s: %v", b, err)
		return 0, CreationFailed
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last++
	h = r.last
	r.handles[h] = conv
	return h, Success
}

// Destroy releases the converter behind h. It reports false if h is not
// (or no longer) valid.
func (r *Registry) Destroy(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handles[h]; !ok {
		return false
	}
	delete(r.handles, h)
	return true
}

// Convert converts text with the converter behind h. text must be valid
// UTF-8.
func (r *Registry) Convert(h Handle, text string) (out string, status Status) {
	defer recoverInto(&status, "convert")
	r.mu.RLock()
	conv, ok := r.handles[h]
	r.mu.RUnlock()
	if !ok {
		return "", InvalidHandle
	}
	if !utf8.ValidString(text) {
		return "", InvalidArgument
	}
	return conv.Convert(text), Success
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}

func recoverInto(status *Status, op string) {
	if p := recover(); p != nil {
		tracer().Errorf("%s: recovered from panic: %v", op, p)
		*status = InternalError
	}
}
