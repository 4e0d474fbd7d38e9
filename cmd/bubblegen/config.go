package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/0xhappyboy/bubble/compiler/gen"
	"github.com/0xhappyboy/bubble/compiler/load"
	"github.com/0xhappyboy/bubble/value"
)

const defaultConfigFile = "bubblegen.yaml"

// fileConfig is the content of a bubblegen.yaml file.
type fileConfig struct {
	Packages   []string          `yaml:"packages"`
	Target     string            `yaml:"target"`
	Types      []string          `yaml:"types"`
	Header     string            `yaml:"header"`
	BuildFlags []string          `yaml:"build_flags"`
	Workers    int               `yaml:"workers"`
	Kinds      map[string]string `yaml:"kinds"`

	dir string // directory of the file; relative paths resolve against it
}

// loadFileConfig reads the configuration file at path. A missing file is
// only an error when the path was given explicitly.
func loadFileConfig(path string, explicit bool) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
		return &fileConfig{}, nil
	case err != nil:
		return nil, fmt.Errorf("bubblegen: read config: %w", err)
	}
	fc, err := parseFileConfig(data)
	if err != nil {
		return nil, fmt.Errorf("bubblegen: %s: %w", path, err)
	}
	if fc.dir, err = filepath.Abs(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("bubblegen: %w", err)
	}
	return fc, nil
}

func parseFileConfig(data []byte) (*fileConfig, error) {
	fc := &fileConfig{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return fc, nil
}

// kindOptions converts the kinds section into generator options, in a stable
// order.
func (fc *fileConfig) kindOptions() ([]gen.Option, error) {
	names := make([]string, 0, len(fc.Kinds))
	for name := range fc.Kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	opts := make([]gen.Option, 0, len(names))
	for _, name := range names {
		k, err := value.ParseKind(fc.Kinds[name])
		if err != nil {
			return nil, fmt.Errorf("bubblegen: kinds: %s: %w", name, err)
		}
		opts = append(opts, gen.WithKind(name, k))
	}
	return opts, nil
}

func (fc *fileConfig) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || fc.dir == "" {
		return path
	}
	return filepath.Join(fc.dir, path)
}

// settings is the merged configuration of one bubblegen invocation. Flags
// that were set take precedence over the file.
type settings struct {
	load    load.Config
	opts    []gen.Option
	watch   bool
	verbose bool
}

func merge(fl *flags, fc *fileConfig) (*settings, error) {
	s := &settings{watch: fl.watch, verbose: fl.verbose}
	switch {
	case len(fl.patterns) > 0:
		s.load.Patterns = fl.patterns
	case len(fc.Packages) > 0:
		s.load.Patterns = fc.Packages
		s.load.Dir = fc.dir
	default:
		s.load.Patterns = []string{"."}
	}
	s.load.BuildFlags = slices.Clone(fc.BuildFlags)
	if len(fl.tags) > 0 {
		s.load.BuildFlags = append(s.load.BuildFlags, "-tags="+strings.Join(fl.tags, ","))
	}

	target := fc.resolve(fc.Target)
	if fl.changed("target") {
		target = fl.target
	}
	if target != "" {
		s.opts = append(s.opts, gen.WithTarget(target))
	}
	header := fc.Header
	if fl.changed("header") {
		header = fl.header
	}
	if header != "" {
		s.opts = append(s.opts, gen.WithHeader(header))
	}
	types := fc.Types
	if len(fl.types) > 0 {
		types = fl.types
	}
	if len(types) > 0 {
		s.opts = append(s.opts, gen.WithTypes(types...))
	}
	workers := fc.Workers
	if fl.changed("workers") {
		workers = fl.workers
	}
	if workers != 0 {
		s.opts = append(s.opts, gen.WithWorkers(workers))
	}
	kinds, err := fc.kindOptions()
	if err != nil {
		return nil, err
	}
	s.opts = append(s.opts, kinds...)
	return s, nil
}
