package opencc

import (
	"embed"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/npillmayer/opencc/config"
	"github.com/npillmayer/opencc/dictionary"
	"github.com/npillmayer/opencc/textdict"
)

//go:embed assets/config/*.json assets/dict/*.txt
var assets embed.FS

// builtinDictionaries compiles each embedded dictionary on first use. The
// results are shared by all built-in pipelines.
var builtinDictionaries = func() map[string]func() (*dictionary.Dictionary, error) {
	entries, err := fs.ReadDir(assets, "assets/dict")
	assert(err == nil, "embedded dictionaries missing")
	m := make(map[string]func() (*dictionary.Dictionary, error), len(entries))
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".txt")
		file := path.Join("assets/dict", e.Name())
		m[name] = sync.OnceValues(func() (*dictionary.Dictionary, error) {
			f, err := assets.Open(file)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			return textdict.Load(name, f)
		})
	}
	return m
}()

type builtinSource struct{}

func (builtinSource) load(spec config.DictSpec) (*dictionary.Dictionary, error) {
	name := strings.TrimSuffix(path.Base(spec.File), path.Ext(spec.File))
	compile, ok := builtinDictionaries[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return compile()
}

// BuiltinConfig returns the configuration of a built-in conversion.
func BuiltinConfig(b config.Builtin) (*config.Config, error) {
	if !b.Valid() {
		return nil, configError("load builtin", b.String(), ErrUnknownBuiltin)
	}
	f, err := assets.Open(path.Join("assets/config", b.Filename()))
	if err != nil {
		return nil, configError("load builtin", b.String(), err)
	}
	defer f.Close()
	cfg, err := config.Parse(f)
	if err != nil {
		return nil, configError("load builtin", b.String(), err)
	}
	return cfg, nil
}

// BuildBuiltinPipeline assembles the pipeline of a built-in conversion.
// Only WithTieBreak has an effect on built-in pipelines.
func BuildBuiltinPipeline(b config.Builtin, opts ...Option) (*Pipeline, error) {
	cfg, err := BuiltinConfig(b)
	if err != nil {
		return nil, err
	}
	return buildPipeline(cfg, builtinSource{}, collectOptions(opts))
}

// NewFromBuiltin creates a converter for a built-in conversion. Embedded
// dictionaries are compiled once per process and shared.
//
// The embedded dictionaries cover common characters and a small set of
// phrases only. Use NewFromFile with the upstream OpenCC data for full
// coverage.
//
// Example usage:
//
//	conv, _ := opencc.NewFromBuiltin(config.S2T)
//	conv.Convert("开放中文转换") // "開放中文轉換"
func NewFromBuiltin(b config.Builtin, opts ...Option) (*Converter, error) {
	p, err := BuildBuiltinPipeline(b, opts...)
	if err != nil {
		return nil, err
	}
	return NewConverter(p, opts...), nil
}
