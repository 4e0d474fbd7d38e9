// Command bubblegen generates data access code for struct types annotated
// with `orm` tags.
//
//	bubblegen [flags] [packages]
//
// Without package arguments the packages listed in bubblegen.yaml are used,
// and without those the package in the working directory. A generated
// <type>_orm.go file is written next to each annotated type, or into the
// --target directory, which must hold a package of the same name declaring
// the type.
//
// Example bubblegen.yaml:
//
//	packages: [./models]
//	header: Code generated by bubblegen. DO NOT EDIT.
//	build_flags: [-tags=integration]
//	kinds:
//	  example.com/app/models.Status: text
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/0xhappyboy/bubble"
	"github.com/0xhappyboy/bubble/compiler/gen"
	"github.com/0xhappyboy/bubble/compiler/load"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// flags holds the parsed command line.
type flags struct {
	set      *flag.FlagSet
	config   string
	target   string
	types    []string
	header   string
	tags     []string
	workers  int
	watch    bool
	verbose  bool
	patterns []string
}

func (f *flags) changed(name string) bool {
	return f.set != nil && f.set.Changed(name)
}

func newFlagSet(f *flags) *flag.FlagSet {
	fs := flag.NewFlagSet("bubblegen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.StringVarP(&f.config, "config", "c", defaultConfigFile, "configuration file")
	fs.StringVarP(&f.target, "target", "t", "", "output directory holding the model package (default: the directory of each type)")
	fs.StringArrayVar(&f.types, "type", nil, "generate only the named type (repeatable)")
	fs.StringVar(&f.header, "header", "", "header comment of generated files")
	fs.StringSliceVar(&f.tags, "tags", nil, "build tags used when loading packages")
	fs.IntVar(&f.workers, "workers", 0, "files rendered in parallel (default: number of CPUs)")
	fs.BoolVarP(&f.watch, "watch", "w", false, "regenerate when a source file changes")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log every generated file")
	return fs
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{}
	f.set = newFlagSet(f)
	if err := f.set.Parse(args); err != nil {
		return nil, err
	}
	f.patterns = f.set.Args()
	return f, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: bubblegen [flags] [packages]\n\nflags:\n%s", newFlagSet(&flags{}).FlagUsages())
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fl, err := parseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printUsage(stdout)
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, "bubblegen:", err)
		printUsage(stderr)
		return 2
	}
	fc, err := loadFileConfig(fl.config, fl.changed("config"))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	s, err := merge(fl, fc)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	log := newLogger(stderr, s.verbose)
	defer func() { _ = log.Sync() }()

	g, err := gen.New(s.opts...)
	if err != nil {
		logErrors(log, "invalid configuration", err)
		return 1
	}
	structs, err := generate(ctx, g, &s.load, log)
	if !s.watch {
		if err != nil {
			return 1
		}
		return 0
	}
	if structs == nil {
		log.Error("nothing to watch")
		return 1
	}

	dirs := packageDirs(structs)
	w, err := newWatcher(dirs, debounce, log, func(ctx context.Context) error {
		_, err := generate(ctx, g, &s.load, log)
		return err
	})
	if err != nil {
		log.Error("watch failed", zap.Error(err))
		return 1
	}
	log.Info("watching for changes", zap.Strings("dirs", dirs))
	if err := w.run(ctx); err != nil {
		log.Error("watch failed", zap.Error(err))
		return 1
	}
	return 0
}

// generate loads the configured packages and generates their code. The
// loaded structs are returned even when generation fails, so that watch mode
// knows the directories to watch.
func generate(ctx context.Context, g *gen.Generator, cfg *load.Config, log *zap.Logger) ([]*load.Struct, error) {
	structs, err := cfg.Load()
	if err != nil {
		log.Error("load failed", zap.Strings("patterns", cfg.Patterns), zap.Error(err))
		return nil, err
	}
	res, err := g.Generate(ctx, structs)
	if err != nil {
		logErrors(log, "generation failed", err)
		return structs, err
	}
	for _, f := range res.Files {
		log.Debug("generated file", zap.String("path", f))
	}
	log.Info("generated", zap.Int("files", len(res.Files)), zap.Int("written", res.Written))
	return structs, nil
}

func logErrors(log *zap.Logger, msg string, err error) {
	var agg *bubble.AggregateError
	if !errors.As(err, &agg) {
		log.Error(msg, zap.Error(err))
		return
	}
	for _, e := range agg.Errors {
		log.Error(msg, zap.Error(e))
	}
}

// newLogger returns a JSON logger at info level, or a console logger at
// debug level when verbose is set.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	level := zapcore.InfoLevel
	if verbose {
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		level = zapcore.DebugLevel
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}
