package opencc

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/opencc/config"
	"github.com/npillmayer/opencc/dictionary"
	"github.com/npillmayer/opencc/textdict"
)

// NewFromFile creates a converter from the configuration file at path.
// Dictionary files named by the configuration are searched relative to the
// current working directory first, then relative to the directory of path.
//
// Example usage:
//
//	conv, err := opencc.NewFromFile("config/s2twp.json", opencc.WithCache(1024))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(conv.Convert("我的计算机"))
func NewFromFile(path string, opts ...Option) (*Converter, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, configError("load config", path, err)
	}
	return NewFromConfig(cfg, opts...)
}

// NewFromConfig creates a converter from cfg, loading dictionaries from the
// file system.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Converter, error) {
	p, err := BuildPipeline(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return NewConverter(p, opts...), nil
}

// BuildPipeline assembles the pipeline described by cfg, loading
// dictionaries from the file system. Every failure is reported as a
// *ConfigError.
func BuildPipeline(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, configError("validate config", cfg.Name, err)
	}
	o := collectOptions(opts)
	src := &fileSource{
		dir:   cfg.Dir(),
		opts:  o,
		cache: make(map[string]*dictionary.Dictionary),
	}
	return buildPipeline(cfg, src, o)
}

// dictSource provides the dictionary for a file descriptor of a configuration.
type dictSource interface {
	load(spec config.DictSpec) (*dictionary.Dictionary, error)
}

func buildPipeline(cfg *config.Config, src dictSource, o options) (*Pipeline, error) {
	var segmentation *Stage
	if cfg.Segmentation != nil {
		m, err := buildMatcher(cfg.Segmentation.Dict, src, o.tie)
		if err != nil {
			return nil, err
		}
		segmentation = NewStage(Segmentation, m)
	}
	chain := make([]*Stage, 0, len(cfg.ConversionChain))
	for _, node := range cfg.ConversionChain {
		m, err := buildMatcher(node.Dict, src, o.tie)
		if err != nil {
			return nil, err
		}
		chain = append(chain, NewStage(Substitution, m))
	}
	tracer().Debugf("pipeline %q: %d conversion stages", cfg.Name, len(chain))
	return NewPipeline(cfg.Name, segmentation, chain...), nil
}

func buildMatcher(spec config.DictSpec, src dictSource, tie dictionary.TieBreak) (dictionary.Matcher, error) {
	if spec.Type != config.TypeGroup {
		dict, err := src.load(spec)
		if err != nil {
			return nil, configError("load dictionary", spec.File, err)
		}
		return dict, nil
	}
	members := make([]dictionary.Matcher, 0, len(spec.Dicts))
	for _, sub := range spec.Dicts {
		m, err := buildMatcher(sub, src, tie)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return dictionary.NewGroup(tie, members...), nil
}

// fileSource loads dictionaries from the file system. A dictionary named
// more than once within a configuration is loaded once.
type fileSource struct {
	dir   string
	opts  options
	cache map[string]*dictionary.Dictionary // by resolved path
}

func (s *fileSource) load(spec config.DictSpec) (*dictionary.Dictionary, error) {
	path, err := s.resolve(spec)
	if err != nil {
		return nil, err
	}
	if dict, ok := s.cache[path]; ok {
		return dict, nil
	}
	dict, err := s.open(path)
	if err != nil {
		return nil, err
	}
	s.cache[path] = dict
	return dict, nil
}

func (s *fileSource) locations(file string) []string {
	if filepath.IsAbs(file) || s.dir == "" {
		return []string{file}
	}
	return []string{file, filepath.Join(s.dir, file)}
}

// resolve finds the file for spec. Upstream ".ocd2" files are marisa-based;
// for them a compiled ".ocb" or a ".txt" sibling is preferred.
func (s *fileSource) resolve(spec config.DictSpec) (string, error) {
	for _, p := range s.locations(spec.File) {
		ocd2 := spec.Type == config.TypeOCD2 || strings.EqualFold(filepath.Ext(p), ".ocd2")
		if !ocd2 {
			if isFile(p) {
				return p, nil
			}
			continue
		}
		if isFile(p) {
			if f, err := dictionary.SniffFile(p); err == nil && f == dictionary.FormatContainer {
				return p, nil
			}
		}
		stem := strings.TrimSuffix(p, filepath.Ext(p))
		for _, alt := range []string{stem + ".ocb", stem + ".txt"} {
			if isFile(alt) {
				tracer().Debugf("dictionary %s resolved to %s", spec.File, alt)
				return alt, nil
			}
		}
		if isFile(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("dictionary file %q: %w", spec.File, fs.ErrNotExist)
}

func (s *fileSource) open(path string) (*dictionary.Dictionary, error) {
	format, err := dictionary.SniffFile(path)
	if err != nil {
		return nil, err
	}
	if format != dictionary.FormatUnknown {
		return dictionary.LoadFile(path)
	}
	if s.opts.dictCache {
		return s.openCached(path)
	}
	return textdict.LoadFile(path, dictionary.WithBackend(s.opts.backend))
}

// openCached loads a text dictionary through its compiled ".ocb" sibling,
// which is rewritten if it is older than the text source.
func (s *fileSource) openCached(path string) (*dictionary.Dictionary, error) {
	compiled := strings.TrimSuffix(path, filepath.Ext(path)) + ".ocb"
	if compiled == path {
		return textdict.LoadFile(path, dictionary.WithBackend(s.opts.backend))
	}
	if isNewer(compiled, path) {
		dict, err := dictionary.LoadFile(compiled)
		switch {
		case err != nil:
			tracer().Infof("recompiling %s: %v", path, err)
		case dict.Backend() != s.opts.backend:
			tracer().Infof("recompiling %s for backend %s", path, s.opts.backend)
		default:
			return dict, nil
		}
	}
	dict, err := textdict.LoadFile(path, dictionary.WithBackend(s.opts.backend), dictionary.WithCompression(true))
	if err != nil {
		return nil, err
	}
	if err := dictionary.SaveFile(dict, compiled); err != nil {
		tracer().Errorf("could not write compiled dictionary: %v", err)
	}
	return dict, nil
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// isNewer reports whether file a exists and is not older than file b.
func isNewer(a, b string) bool {
	fa, err := os.Stat(a)
	if err != nil {
		return false
	}
	fb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return !fa.ModTime().Before(fb.ModTime())
}
