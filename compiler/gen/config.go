package gen

import (
	"runtime"
	"slices"

	"github.com/0xhappyboy/bubble/compiler/load"
)

// DefaultHeader is the first line of every generated file. Tools recognise
// generated files by it.
const DefaultHeader = "Code generated by bubblegen. DO NOT EDIT."

// FileSuffix is appended to the snake_case type name to form the name of a
// generated file.
const FileSuffix = load.GeneratedSuffix

// Config holds the configuration for code generation.
type Config struct {
	// Target is the output directory. Generated code must live in the package
	// of its model, so Target must hold a package of the same name declaring
	// each generated type, e.g. a copy of the model package. By default,
	// files are written next to the declaring source file.
	Target string

	// Header is the header comment of generated files.
	Header string

	// Types restricts generation to the named types. Empty means all
	// annotated types.
	Types []string

	// Workers is the number of files rendered and written in parallel.
	Workers int
}

// header returns the configured header or the default one.
func (c *Config) header() string {
	if c.Header != "" {
		return c.Header
	}
	return DefaultHeader
}

// workers returns the configured worker count or GOMAXPROCS.
func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// selected reports whether the type named name is selected for generation.
func (c *Config) selected(name string) bool {
	return len(c.Types) == 0 || slices.Contains(c.Types, name)
}
