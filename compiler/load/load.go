// Package load reads annotated struct declarations from Go packages at build
// time, using go/packages and go/types.
package load

import (
	"errors"
	"fmt"
	"go/types"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/0xhappyboy/bubble/schema"
)

// Config holds the configuration for loading packages.
type Config struct {
	// Patterns are the package patterns to load, e.g. "./models/...".
	Patterns []string
	// Dir is the directory the patterns are resolved in. Defaults to the
	// working directory.
	Dir string
	// BuildFlags are passed to the go command, e.g. "-tags=integration".
	BuildFlags []string
}

// GeneratedSuffix ends the name of every file written by the generator.
// Type errors in such files do not fail a load, since they are replaced by
// the next generation.
const GeneratedSuffix = "_orm.go"

// Struct is an annotated struct type found in a loaded package.
type Struct struct {
	Name    string // type name
	PkgPath string // import path of the declaring package
	PkgName string // name of the declaring package
	Dir     string // directory of the declaring file
	Pos     string // position of the declaration, for error messages
	Decl    schema.Declaration
}

// Load loads the packages matching the patterns and returns their annotated
// struct types: package level, non generic struct types with at least one
// field tagged with schema.TagKey. Types are returned in package order, and
// sorted by name within a package.
func (c *Config) Load() ([]*Struct, error) {
	if len(c.Patterns) == 0 {
		return nil, errors.New("load: no package patterns")
	}
	pkgs, err := packages.Load(&packages.Config{
		Mode:       packages.NeedName | packages.NeedFiles | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
		Dir:        c.Dir,
		BuildFlags: c.BuildFlags,
	}, c.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("load: loading packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("load: no packages matched %s", strings.Join(c.Patterns, " "))
	}
	var structs []*Struct
	for _, pkg := range pkgs {
		if err := packageError(pkg); err != nil {
			return nil, err
		}
		structs = append(structs, pkgStructs(pkg)...)
	}
	return structs, nil
}

func packageError(pkg *packages.Package) error {
	if len(pkg.Errors) == 0 {
		return nil
	}
	var msgs []string
	for _, e := range pkg.Errors {
		if e.Kind == packages.TypeError && generated(e.Pos) {
			continue
		}
		msgs = append(msgs, e.Error())
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("load: package %s: %s", pkg.PkgPath, strings.Join(msgs, "; "))
}

// generated reports whether an error position ("file:line:col") lies in a
// generated file.
func generated(pos string) bool {
	file, _, ok := strings.Cut(pos, GeneratedSuffix+":")
	return ok && file != ""
}

func pkgStructs(pkg *packages.Package) []*Struct {
	var structs []*Struct
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || obj.IsAlias() {
			continue
		}
		named, ok := obj.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}
		st, ok := named.Underlying().(*types.Struct)
		if !ok || !annotated(st) {
			continue
		}
		pos := pkg.Fset.Position(obj.Pos())
		structs = append(structs, &Struct{
			Name:    name,
			PkgPath: pkg.PkgPath,
			PkgName: pkg.Name,
			Dir:     filepath.Dir(pos.Filename),
			Pos:     pos.String(),
			Decl:    declaration(name, st),
		})
	}
	return structs
}

func annotated(st *types.Struct) bool {
	for i := range st.NumFields() {
		if schema.HasTag(st.Tag(i)) {
			return true
		}
	}
	return false
}

func declaration(name string, st *types.Struct) schema.Declaration {
	decl := schema.Declaration{Name: name, Fields: make([]schema.FieldDecl, st.NumFields())}
	for i := range st.NumFields() {
		f := st.Field(i)
		decl.Fields[i] = schema.FieldDecl{
			Name:     f.Name(),
			Type:     TypeString(f.Type()),
			Tag:      st.Tag(i),
			Embedded: f.Embedded(),
		}
	}
	return decl
}

// TypeString returns the canonical form of t used by the value registry:
// named types are qualified with their full package path.
func TypeString(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string { return p.Path() })
}
