package main

import (
	"sync"

	"github.com/npillmayer/opencc"
	"github.com/npillmayer/opencc/config"
	"github.com/npillmayer/opencc/dictionary"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	conversionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "opencc_conversions_total",
		Help: "Number of conversions served.",
	}, []string{"config"})
	convertedBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "opencc_converted_bytes_total",
		Help: "Number of input bytes converted.",
	}, []string{"config"})
	conversionSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "opencc_conversion_duration_seconds",
		Help:    "Time spent converting a request body.",
		Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
	}, []string{"config"})
	requestErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "opencc_request_errors_total",
		Help: "Number of rejected requests.",
	}, []string{"reason"})
)

var (
	dictionaryEntries = prometheus.NewDesc(
		"opencc_dictionary_entries",
		"Number of keys in a loaded dictionary",
		[]string{"config", "dictionary", "backend"}, nil,
	)
	dictionaryBytes = prometheus.NewDesc(
		"opencc_dictionary_automaton_bytes",
		"Encoded size of a loaded dictionary's automaton",
		[]string{"config", "dictionary", "backend"}, nil,
	)
)

// dictionaryCollector reports the dictionaries of all converters that have
// been handed out by a converterSet.
type dictionaryCollector struct {
	set *converterSet
}

// Describe implements the prometheus.Collector interface.
func (c dictionaryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- dictionaryEntries
	ch <- dictionaryBytes
}

// Collect implements the prometheus.Collector interface.
func (c dictionaryCollector) Collect(ch chan<- prometheus.Metric) {
	c.set.each(func(label string, conv *opencc.Converter) {
		seen := make(map[*dictionary.Dictionary]bool)
		for _, dict := range dictionaries(conv.Pipeline()) {
			if seen[dict] {
				continue
			}
			seen[dict] = true
			s := dict.Stats()
			labels := []string{label, dict.Identifier, s.Backend.String()}
			ch <- prometheus.MustNewConstMetric(dictionaryEntries, prometheus.GaugeValue, float64(s.Entries), labels...)
			ch <- prometheus.MustNewConstMetric(dictionaryBytes, prometheus.GaugeValue, float64(s.Bytes), labels...)
		}
	})
}

func dictionaries(p *opencc.Pipeline) []*dictionary.Dictionary {
	var dicts []*dictionary.Dictionary
	var visit func(dictionary.Matcher)
	visit = func(m dictionary.Matcher) {
		switch m := m.(type) {
		case *dictionary.Dictionary:
			dicts = append(dicts, m)
		case *dictionary.Group:
			for _, member := range m.Members() {
				visit(member)
			}
		}
	}
	if s := p.SegmentationStage(); s != nil {
		visit(s.Matcher())
	}
	for _, s := range p.Chain() {
		visit(s.Matcher())
	}
	return dicts
}

// converterSet hands out one converter per built-in configuration, built on
// first request. Converters are labeled by the name they were requested with.
type converterSet struct {
	mu       sync.Mutex
	fallback string
	opts     []opencc.Option
	byLabel  map[string]*opencc.Converter
}

// newConverterSet seeds the set with conv, which serves requests that do
// not name a configuration.
func newConverterSet(label string, conv *opencc.Converter, opts ...opencc.Option) *converterSet {
	if b, err := config.ParseBuiltin(label); err == nil {
		label = b.String()
	}
	return &converterSet{
		fallback: label,
		opts:     opts,
		byLabel:  map[string]*opencc.Converter{label: conv},
	}
}

func (s *converterSet) get(name string) (string, *opencc.Converter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" {
		return s.fallback, s.byLabel[s.fallback], nil
	}
	b, err := config.ParseBuiltin(name)
	if err != nil {
		return "", nil, err
	}
	label := b.String()
	if conv, ok := s.byLabel[label]; ok {
		return label, conv, nil
	}
	conv, err := opencc.NewFromBuiltin(b, s.opts...)
	if err != nil {
		return "", nil, err
	}
	s.byLabel[label] = conv
	return label, conv, nil
}

func (s *converterSet) each(fn func(label string, conv *opencc.Converter)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for label, conv := range s.byLabel {
		fn(label, conv)
	}
}
