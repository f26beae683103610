package opencc

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/npillmayer/opencc/config"
	"github.com/npillmayer/opencc/dictionary"
	"github.com/npillmayer/opencc/textdict"
	"golang.org/x/text/transform"
)

func mustDictionary(t *testing.T, name, src string) *dictionary.Dictionary {
	t.Helper()
	dict, err := textdict.Load(name, strings.NewReader(src))
	if err != nil {
		t.Fatalf("could not load dictionary %s: %v", name, err)
	}
	return dict
}

func mustBuiltin(t *testing.T, b config.Builtin, opts ...Option) *Converter {
	t.Helper()
	conv, err := NewFromBuiltin(b, opts...)
	if err != nil {
		t.Fatalf("could not create converter %s: %v", b, err)
	}
	return conv
}

func TestUntouchedTextIsIdentical(t *testing.T) {
	dict := mustDictionary(t, "d", "中文\t中文\n转换\t轉換\n")
	stage := NewStage(Substitution, dict)
	for _, text := range []string{"", "Hello, World!", "日本語", "\xff\xfe broken \xe4", "中文"} {
		if out := stage.Apply(text); out != text {
			t.Fatalf("text %q should stay unchanged, is %q", text, out)
		}
	}
}

func TestLongestMatchWins(t *testing.T) {
	dict := mustDictionary(t, "d", "中文\tA\n中文转换\tB\n")
	out := NewStage(Substitution, dict).Apply("中文转换测试中文")
	if out != "B测试A" {
		t.Fatalf("expected B测试A, got %q", out)
	}
}

func TestInvalidBytesPassThrough(t *testing.T) {
	dict := mustDictionary(t, "d", "转\t轉\n")
	out := NewStage(Substitution, dict).Apply("\xff转\xe8\xbd")
	if out != "\xff轉\xe8\xbd" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPipelineComposition(t *testing.T) {
	a := NewStage(Substitution, mustDictionary(t, "a", "的\t的\n"))
	b := NewStage(Substitution, mustDictionary(t, "b", "计算机\t電腦\n"))
	p := NewPipeline("composition", nil, a, b)
	if out := p.Run("我的计算机"); out != "我的電腦" {
		t.Fatalf("expected 我的電腦, got %q", out)
	}
}

func TestSegment(t *testing.T) {
	dict := mustDictionary(t, "d", "中文\t中文\n转换\t轉換\n")
	seg := NewStage(Segmentation, dict)
	p := NewPipeline("seg", seg)
	got := p.Segment("中文转换a")
	want := []string{"中文", "转换", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected segments %v, got %v", want, got)
	}
	if p.Run("中文转换") != "中文转换" {
		t.Fatalf("segmentation must not alter text")
	}
}

func TestBuiltinScenarios(t *testing.T) {
	tests := []struct {
		config config.Builtin
		in     string
		want   string
	}{
		{config.S2T, "开放中文转换是完全由 Rust 实现的。", "開放中文轉換是完全由 Rust 實現的。"},
		{config.T2S, "「開放中文轉換」是完全由 Rust 實現的。", "“开放中文转换”是完全由 Rust 实现的。"},
		{config.S2T, "头发干净干活", "頭髮乾淨幹活"},
		{config.S2T, "为什么", "爲什麼"},
		{config.S2TWP, "我的计算机", "我的電腦"},
		{config.S2TWP, "鼠标和软件", "滑鼠和軟體"},
		{config.TW2SP, "電腦", "计算机"},
		{config.S2TW, "里面的线", "裡面的線"},
		{config.TW2S, "裡面的線", "里面的线"},
		{config.S2HK, "为什么", "為什麼"},
		{config.HK2S, "為甚麼", "为什么"},
		{config.T2TW, "裏面", "裡面"},
		{config.TW2T, "裡面", "裏面"},
		{config.T2HK, "爲", "為"},
		{config.HK2T, "為", "爲"},
		{config.T2JP, "國學", "国学"},
		{config.JP2T, "芸香と芸術", "芸香と藝術"},
		{config.T2S, "乾隆皇帝很乾淨", "乾隆皇帝很干净"},
		{config.S2T, "Hello, world!", "Hello, world!"},
	}
	for _, tc := range tests {
		conv := mustBuiltin(t, tc.config)
		if out := conv.Convert(tc.in); out != tc.want {
			t.Fatalf("%s: %q should convert to %q, is %q", tc.config, tc.in, tc.want, out)
		}
	}
}

// Sentences from the OpenCC test suite and everyday text, converted with the
// embedded dictionaries.
func TestBuiltinSentences(t *testing.T) {
	tests := []struct {
		config config.Builtin
		in     string
		want   string
	}{
		{config.S2T, "经济发展与环境保护需要长期规划", "經濟發展與環境保護需要長期規劃"},
		{config.T2S, "經濟發展與環境保護需要長期規劃", "经济发展与环境保护需要长期规划"},
		{config.S2T, "虚伪叹息", "虛僞嘆息"},
		{config.S2T, "潮湿灶台", "潮溼竈臺"},
		{config.S2T, "赞叹沙河涌汹涌的波浪", "讚歎沙河涌洶湧的波浪"},
		{config.T2S, "虛僞嘆息", "虚伪叹息"},
		{config.T2S, "潮溼竈臺", "潮湿灶台"},
		{config.T2S, "讚歎沙河涌洶湧的波浪", "赞叹沙河涌汹涌的波浪"},
		{config.S2T, "批准合并词汇", "批准合併詞彙"},
		{config.S2TWP, "鼠标里面的硅二极管坏了，导致光标分辨率降低。", "滑鼠裡面的矽二極體壞了，導致游標解析度降低。"},
		{config.TW2SP, "滑鼠裡面的矽二極體壞了，導致游標解析度降低。", "鼠标里面的硅二极管坏了，导致光标分辨率降低。"},
		{config.T2JP, "經濟發展", "経済発展"},
		{config.JP2T, "経済発展", "經濟發展"},
	}
	for _, tc := range tests {
		conv := mustBuiltin(t, tc.config)
		if out := conv.Convert(tc.in); out != tc.want {
			t.Fatalf("%s: %q should convert to %q, is %q", tc.config, tc.in, tc.want, out)
		}
	}
}

func TestAllBuiltinsBuild(t *testing.T) {
	for _, b := range config.Builtins() {
		conv := mustBuiltin(t, b)
		if conv.Name() == "" || len(conv.Pipeline().Chain()) == 0 {
			t.Fatalf("%s: incomplete pipeline", b)
		}
		if conv.Pipeline().SegmentationStage() == nil {
			t.Fatalf("%s: missing segmentation stage", b)
		}
	}
}

func TestBuiltinDictionariesAreShared(t *testing.T) {
	a := mustBuiltin(t, config.S2T).Pipeline().SegmentationStage().Matcher()
	b := mustBuiltin(t, config.S2TWP).Pipeline().SegmentationStage().Matcher()
	if a != b {
		t.Fatalf("built-in converters should share the STPhrases dictionary")
	}
}

func TestUnknownBuiltin(t *testing.T) {
	_, err := NewFromBuiltin(config.Builtin(42))
	var cerr *ConfigError
	if !errors.As(err, &cerr) || !errors.Is(err, ErrUnknownBuiltin) {
		t.Fatalf("expected ConfigError wrapping ErrUnknownBuiltin, got %v", err)
	}
}

func TestTransformerEqualsConvert(t *testing.T) {
	inputs := []string{
		"开放中文转换是完全由 Rust 实现的。",
		"我的计算机和鼠标都坏了，头发也乱了。",
		strings.Repeat("计算机软件", 300),
		"\xff计算\xe8",
		"",
	}
	conv := mustBuiltin(t, config.S2TWP)
	for _, in := range inputs {
		want := conv.Convert(in)
		got, _, err := transform.String(conv.Transformer(), in)
		if err != nil || got != want {
			t.Fatalf("transform.String(%.20q) = %q, %v; want %q", in, got, err, want)
		}
		r := transform.NewReader(iotest.OneByteReader(strings.NewReader(in)), conv.Transformer())
		b, err := io.ReadAll(r)
		if err != nil || string(b) != want {
			t.Fatalf("streamed %.20q = %q, %v; want %q", in, b, err, want)
		}
	}
}

func TestResultCache(t *testing.T) {
	conv := mustBuiltin(t, config.S2T, WithCache(2))
	for i := 0; i < 3; i++ {
		if out := conv.Convert("转换"); out != "轉換" {
			t.Fatalf("cached conversion returned %q", out)
		}
	}
	if conv.cache.Len() != 1 {
		t.Fatalf("expected 1 cached result, have %d", conv.cache.Len())
	}
	long := strings.Repeat("转", maxCachedInput)
	conv.Convert(long)
	if conv.cache.Contains(long) {
		t.Fatalf("long inputs must not be cached")
	}
}

func TestConcurrentConvert(t *testing.T) {
	conv := mustBuiltin(t, config.S2T, WithCache(16))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if out := conv.Convert("中文转换"); out != "中文轉換" {
					t.Errorf("concurrent conversion returned %q", out)
					return
				}
			}
		}()
	}
	wg.Wait()
}

// writeFiles creates files in a temporary directory and returns it.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

const groupConfig = `{
  "name": "tie",
  "conversion_chain": [{
    "dict": { "type": "group", "dicts": [
      { "type": "text", "file": "first.txt" },
      { "type": "ocd2", "file": "second.ocd2" }
    ]}
  }]
}`

func TestNewFromFileResolvesAgainstConfigDir(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"tie.json":   groupConfig,
		"first.txt":  "干\t幹\n",
		"second.txt": "干\t乾\n干净\t乾淨\n",
	})
	conv, err := NewFromFile(filepath.Join(dir, "tie.json"))
	if err != nil {
		t.Fatal(err)
	}
	if out := conv.Convert("干净的干"); out != "乾淨的幹" {
		t.Fatalf("unexpected conversion %q", out)
	}
	if conv.Name() != "tie" {
		t.Fatalf("name should be tie, is %q", conv.Name())
	}
}

func TestTieBreakOption(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"tie.json":   groupConfig,
		"first.txt":  "干\t幹\n",
		"second.txt": "干\t乾\n",
	})
	tests := []struct {
		tie  dictionary.TieBreak
		want string
	}{
		{dictionary.FirstListed, "幹"},
		{dictionary.LastListed, "乾"},
	}
	for _, tc := range tests {
		conv, err := NewFromFile(filepath.Join(dir, "tie.json"), WithTieBreak(tc.tie))
		if err != nil {
			t.Fatal(err)
		}
		if out := conv.Convert("干"); out != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.tie, tc.want, out)
		}
	}
}

func TestDictionaryCache(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"tie.json":   groupConfig,
		"first.txt":  "干\t幹\n",
		"second.txt": "干\t乾\n",
	})
	for i := 0; i < 2; i++ {
		conv, err := NewFromFile(filepath.Join(dir, "tie.json"), WithDictionaryCache(true),
			WithBackend(dictionary.BackendFST))
		if err != nil {
			t.Fatal(err)
		}
		if out := conv.Convert("干"); out != "幹" {
			t.Fatalf("run %d: unexpected conversion %q", i, out)
		}
	}
	for _, name := range []string{"first.ocb", "second.ocb"} {
		dict, err := dictionary.LoadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("compiled dictionary %s not written: %v", name, err)
		}
		if dict.Backend() != dictionary.BackendFST {
			t.Fatalf("%s: backend should be fst, is %s", name, dict.Backend())
		}
	}
}

func TestConfigErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"missing.json": `{"name":"m","conversion_chain":[{"dict":{"type":"text","file":"nowhere.txt"}}]}`,
		"broken.json":  `{"name":"b","conversion_chain":[{"dict":{"type":"text","file":"broken.txt"}}]}`,
		"broken.txt":   "ok\tfine\nno separator\n",
		"marisa.json":  `{"name":"u","conversion_chain":[{"dict":{"type":"ocd2","file":"up.ocd2"}}]}`,
		"up.ocd2":      "OPENCC_MARISA_0.2.5\x00\x01\x02",
		"invalid.json": `{"name":"i","conversion_chain":[]}`,
	})
	var perr *dictionary.ParseError
	var ferr *dictionary.FormatError
	tests := []struct {
		file  string
		check func(error) bool
	}{
		{"missing.json", func(err error) bool { return errors.Is(err, fs.ErrNotExist) }},
		{"broken.json", func(err error) bool { return errors.As(err, &perr) && perr.Line == 2 }},
		{"marisa.json", func(err error) bool { return errors.As(err, &ferr) }},
		{"invalid.json", func(err error) bool { return strings.Contains(err.Error(), "conversion_chain") }},
		{"absent.json", func(err error) bool { return errors.Is(err, fs.ErrNotExist) }},
	}
	for _, tc := range tests {
		_, err := NewFromFile(filepath.Join(dir, tc.file))
		var cerr *ConfigError
		if !errors.As(err, &cerr) {
			t.Fatalf("%s: expected ConfigError, got %v", tc.file, err)
		}
		if !tc.check(err) {
			t.Fatalf("%s: unexpected cause %v", tc.file, err)
		}
	}
}
