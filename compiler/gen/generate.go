package gen

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/0xhappyboy/bubble"
	"github.com/0xhappyboy/bubble/compiler/load"
)

// Generator generates the data access code of annotated struct types.
type Generator struct {
	cfg *Config
}

// New returns a generator configured with the given options.
func New(opts ...Option) (*Generator, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg}, nil
}

// Config returns the generator configuration.
func (g *Generator) Config() *Config { return g.cfg }

// Result describes a generation run.
type Result struct {
	Files   []string // paths of the generated files, sorted
	Written int      // files whose content changed
}

// Generate writes one file per selected struct type. Every type is derived
// and rendered before the first file is written, so a failing type set
// leaves the file system untouched.
func (g *Generator) Generate(ctx context.Context, structs []*load.Struct) (*Result, error) {
	types, err := g.Types(structs)
	if err != nil {
		return nil, err
	}
	files, err := g.render(ctx, types)
	if err != nil {
		return nil, err
	}
	res := &Result{Files: make([]string, len(files))}
	for i, f := range files {
		res.Files[i] = f.path
	}
	slices.Sort(res.Files)
	if res.Written, err = g.write(ctx, files); err != nil {
		return nil, err
	}
	return res, nil
}

// Types returns the selected struct types prepared for generation. All
// failures are reported together.
func (g *Generator) Types(structs []*load.Struct) ([]*Type, error) {
	var (
		types []*Type
		errs  []error
		found = make(map[string]bool)
	)
	for _, s := range structs {
		if !g.cfg.selected(s.Name) {
			continue
		}
		found[s.Name] = true
		t, err := NewType(s)
		if err != nil {
			if !IsGenerateError(err) {
				err = NewGenerateError(s.Name, "", s.Pos, err)
			}
			errs = append(errs, err)
			continue
		}
		types = append(types, t)
	}
	for _, name := range g.cfg.Types {
		if !found[name] {
			errs = append(errs, NewConfigError("Types", name, "no annotated type with this name"))
		}
	}
	errs = append(errs, g.checkTarget(types)...)
	errs = append(errs, g.conflicts(types)...)
	if err := bubble.NewAggregateError(errs...); err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, NewGenerateError("", "", "no annotated types found", nil)
	}
	return types, nil
}

// conflicts reports types whose generated files or identifiers collide
// within a package.
func (g *Generator) conflicts(types []*Type) []error {
	var (
		errs  []error
		paths = make(map[string]string)
		names = make(map[string]Declaration)
	)
	for _, t := range types {
		names[t.PkgPath+"."+t.Name] = Declaration{t.Name, "type " + t.Name}
	}
	for _, t := range types {
		path := t.OutputPath(g.cfg.Target)
		if prev, ok := paths[path]; ok {
			errs = append(errs, NewGenerateError(t.Name, path, "output file already generated for "+prev, nil))
			continue
		}
		paths[path] = t.Name
		for _, d := range t.Declared() {
			key := t.PkgPath + "." + d.Name
			if prev, ok := names[key]; ok {
				errs = append(errs, NewGenerateError(t.Name, path, fmt.Sprintf("generated identifier %s declared by both %s and %s", d.Name, prev.Origin, d.Origin), nil))
				continue
			}
			names[key] = d
		}
	}
	return errs
}

// Generate loads the packages described by cfg and generates the code of
// their annotated types.
func Generate(ctx context.Context, cfg *load.Config, opts ...Option) (*Result, error) {
	if cfg == nil {
		return nil, NewConfigError("Load", nil, "missing load configuration")
	}
	g, err := New(opts...)
	if err != nil {
		return nil, err
	}
	structs, err := cfg.Load()
	if err != nil {
		return nil, errors.Join(ErrGenerationFailed, err)
	}
	return g.Generate(ctx, structs)
}
