package opencc

import (
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// Transformer returns a streaming version of Run. Output is identical to
// Run over the complete input.
func (p *Pipeline) Transformer() transform.Transformer {
	if len(p.chain) == 0 {
		return transform.Nop
	}
	ts := make([]transform.Transformer, len(p.chain))
	for i, stage := range p.chain {
		ts[i] = stage.Transformer()
	}
	if len(ts) == 1 {
		return ts[0]
	}
	return transform.Chain(ts...)
}

// Transformer returns a streaming version of Apply.
func (s *Stage) Transformer() transform.Transformer {
	if s.kind == Segmentation {
		return transform.Nop
	}
	return stageTransformer{stage: s}
}

// Transformer returns a streaming version of Convert.
func (c *Converter) Transformer() transform.Transformer {
	return c.pipeline.Transformer()
}

// stageTransformer holds back input until a full key window is available,
// so that matching decisions equal those of Apply.
type stageTransformer struct {
	transform.NopResetter
	stage *Stage
}

func (t stageTransformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	window := t.stage.MaxKeyLength()
	for nSrc < len(src) {
		rest := src[nSrc:]
		if !atEOF && len(rest) < window {
			return nDst, nSrc, transform.ErrShortSrc
		}
		if m, ok := t.stage.matcher.MatchBytes(src, nSrc); ok {
			repl := m.Default()
			if len(dst)-nDst < len(repl) {
				return nDst, nSrc, transform.ErrShortDst
			}
			nDst += copy(dst[nDst:], repl)
			nSrc += m.Length
			continue
		}
		if !atEOF && !utf8.FullRune(rest) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		_, n := utf8.DecodeRune(rest)
		if len(dst)-nDst < n {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], rest[:n])
		nSrc += n
	}
	return nDst, nSrc, nil
}
