package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Dictionary descriptor types.
const (
	TypeText  = "text"  // OpenCC text dictionary
	TypeOCD2  = "ocd2"  // upstream binary dictionary, resolved to a compatible sibling
	TypeOCB   = "ocb"   // container written by this module
	TypeGroup = "group" // ordered group of dictionaries
)

// Segmentation types.
const (
	SegmentMM    = "mm"
	SegmentMMSeg = "mmseg"
)

// Config is a conversion configuration in the OpenCC JSON format.
type Config struct {
	Name            string           `json:"name"`
	Segmentation    *Segmentation    `json:"segmentation,omitempty"`
	ConversionChain []ConversionNode `json:"conversion_chain"`

	dir string // directory of the configuration file, if loaded from one
}

// Segmentation describes the segmentation stage.
type Segmentation struct {
	Type string   `json:"type"`
	Dict DictSpec `json:"dict"`
}

// ConversionNode is one step of the conversion chain.
type ConversionNode struct {
	Dict DictSpec `json:"dict"`
}

// DictSpec is either a single dictionary file or a group of dictionaries.
type DictSpec struct {
	Type  string     `json:"type"`
	File  string     `json:"file,omitempty"`
	Dicts []DictSpec `json:"dicts,omitempty"`
}

// Parse decodes a configuration from reader. The result is validated.
func Parse(reader io.Reader) (*Config, error) {
	var cfg Config
	dec := json.NewDecoder(reader)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the configuration file at path. Relative dictionary paths of the
// result resolve against the file's directory (see Dir).
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Dir returns the directory of the file the configuration was loaded from,
// or "" for configurations parsed from a stream.
func (cfg *Config) Dir() string {
	return cfg.dir
}

// WithDir returns a copy of cfg whose dictionary paths resolve against dir.
func (cfg *Config) WithDir(dir string) *Config {
	c := *cfg
	c.dir = dir
	return &c
}

// Validate checks the structure of cfg. It does not touch the file system.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Name) == "" {
		return errors.New("config: name not set")
	}
	if len(cfg.ConversionChain) == 0 {
		return errors.New("config: conversion_chain empty")
	}
	if seg := cfg.Segmentation; seg != nil {
		switch seg.Type {
		case SegmentMM, SegmentMMSeg:
		default:
			return fmt.Errorf("config: unknown segmentation type %q", seg.Type)
		}
		if err := seg.Dict.validate("segmentation.dict"); err != nil {
			return err
		}
	}
	for i, node := range cfg.ConversionChain {
		if err := node.Dict.validate(fmt.Sprintf("conversion_chain[%d].dict", i)); err != nil {
			return err
		}
	}
	return nil
}

func (d DictSpec) validate(at string) error {
	switch d.Type {
	case TypeText, TypeOCD2, TypeOCB:
		if strings.TrimSpace(d.File) == "" {
			return fmt.Errorf("config: %s: %s dictionary without file", at, d.Type)
		}
		if len(d.Dicts) > 0 {
			return fmt.Errorf("config: %s: %s dictionary must not list dicts", at, d.Type)
		}
	case TypeGroup:
		if len(d.Dicts) == 0 {
			return fmt.Errorf("config: %s: empty group", at)
		}
		for i, sub := range d.Dicts {
			if err := sub.validate(fmt.Sprintf("%s.dicts[%d]", at, i)); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("config: %s: unknown dictionary type %q", at, d.Type)
	}
	return nil
}

// Files lists every dictionary file referenced by d, depth first.
func (d DictSpec) Files() []string {
	if d.Type != TypeGroup {
		return []string{d.File}
	}
	var files []string
	for _, sub := range d.Dicts {
		files = append(files, sub.Files()...)
	}
	return files
}
