package opencc

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/npillmayer/opencc/dictionary"
)

// maxCachedInput is the longest input (in bytes) whose conversion is kept
// in a converter's result cache.
const maxCachedInput = 4096

type options struct {
	cacheSize int
	tie       dictionary.TieBreak
	dictCache bool
	backend   dictionary.Backend
}

// Option configures converter construction.
type Option func(*options)

// WithCache keeps the results of up to n recent conversions of short inputs.
// n <= 0 disables the cache, which is the default.
func WithCache(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithTieBreak sets the policy for dictionary groups whose members match
// keys of equal length. The default is dictionary.FirstListed.
func WithTieBreak(t dictionary.TieBreak) Option {
	return func(o *options) {
		o.tie = t
	}
}

// WithDictionaryCache makes loading of text dictionaries from the file
// system reuse a compiled ".ocb" sibling if it is up to date, and write one
// otherwise.
func WithDictionaryCache(on bool) Option {
	return func(o *options) {
		o.dictCache = on
	}
}

// WithBackend selects the automaton backend for dictionaries compiled from
// text files. Built-in dictionaries always use the default backend.
func WithBackend(b dictionary.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

func collectOptions(opts []Option) options {
	o := options{tie: dictionary.FirstListed, backend: dictionary.BackendDAT}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Converter converts text with one pipeline. It is safe for concurrent use.
type Converter struct {
	pipeline *Pipeline
	cache    *lru.Cache[string, string]
}

// NewConverter wraps pipeline. Of opts, only WithCache has an effect here;
// the others apply to pipeline construction.
func NewConverter(pipeline *Pipeline, opts ...Option) *Converter {
	o := collectOptions(opts)
	c := &Converter{pipeline: pipeline}
	if o.cacheSize > 0 {
		cache, err := lru.New[string, string](o.cacheSize)
		assert(err == nil, "could not create result cache")
		c.cache = cache
	}
	return c
}

// Convert converts text. It never fails.
func (c *Converter) Convert(text string) string {
	if c.cache == nil || len(text) > maxCachedInput {
		return c.pipeline.Run(text)
	}
	if out, ok := c.cache.Get(text); ok {
		return out
	}
	out := c.pipeline.Run(text)
	c.cache.Add(text, out)
	return out
}

// Name returns the name of the underlying pipeline.
func (c *Converter) Name() string { return c.pipeline.Name() }

// Pipeline returns the underlying pipeline.
func (c *Converter) Pipeline() *Pipeline { return c.pipeline }

// Segment splits text into phrases, see Pipeline.Segment.
func (c *Converter) Segment(text string) []string {
	return c.pipeline.Segment(text)
}
