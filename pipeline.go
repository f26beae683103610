package opencc

// Pipeline is a named conversion: an optional segmentation stage followed
// by a chain of substitution stages. A Pipeline is immutable and safe for
// concurrent use.
type Pipeline struct {
	name         string
	segmentation *Stage
	chain        []*Stage
}

// NewPipeline assembles a pipeline. segmentation may be nil.
func NewPipeline(name string, segmentation *Stage, chain ...*Stage) *Pipeline {
	p := &Pipeline{
		name:         name,
		segmentation: segmentation,
		chain:        make([]*Stage, len(chain)),
	}
	copy(p.chain, chain)
	return p
}

// Name returns the name of the pipeline.
func (p *Pipeline) Name() string { return p.name }

// Chain returns the conversion stages in order.
func (p *Pipeline) Chain() []*Stage {
	chain := make([]*Stage, len(p.chain))
	copy(chain, p.chain)
	return chain
}

// SegmentationStage returns the segmentation stage, or nil.
func (p *Pipeline) SegmentationStage() *Stage { return p.segmentation }

// Run converts text. The segmentation stage leaves the text unchanged; each
// chain stage converts the output of its predecessor and segments it anew.
func (p *Pipeline) Run(text string) string {
	if p.segmentation != nil {
		text = p.segmentation.Apply(text)
	}
	for _, stage := range p.chain {
		text = stage.Apply(text)
	}
	return text
}

// Segment splits text using the segmentation stage, or the first chain stage
// if the pipeline has none.
func (p *Pipeline) Segment(text string) []string {
	switch {
	case p.segmentation != nil:
		return p.segmentation.Segment(text)
	case len(p.chain) > 0:
		return p.chain[0].Segment(text)
	}
	if text == "" {
		return []string{}
	}
	return []string{text}
}
