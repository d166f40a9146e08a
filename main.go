// Command fontproof recompiles a proof document once per candidate font
// variant, renders every result, and assembles the renders into a single
// multi-page PDF so the fonts can be judged side by side on identical
// content.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fontproof/fontproof/assemble"
	"github.com/fontproof/fontproof/compare"
	"github.com/fontproof/fontproof/compile"
	"github.com/fontproof/fontproof/fontcat"
	"github.com/fontproof/fontproof/markup"
	"github.com/fontproof/fontproof/render"
)

// Environment overrides for the corresponding flags.
const (
	envRoot      = "FONTPROOF_ROOT"
	envFontPaths = "FONTPROOF_FONT_PATHS"
)

type options struct {
	input     string
	output    string
	variants  bool
	fallback  bool
	baseline  bool
	list      bool
	noSystem  bool
	include   string
	exclude   string
	styles    string
	weights   string
	stretches string
	root      string
	fontPaths pathList
	ppi       float64
	jobs      int
}

// pathList collects repeatable -font-path flags.
type pathList []string

func (p *pathList) String() string { return strings.Join(*p, string(os.PathListSeparator)) }

func (p *pathList) Set(v string) error {
	if v == "" {
		return errors.New("empty path")
	}
	*p = append(*p, v)
	return nil
}

func main() {
	var opts options
	flag.StringVar(&opts.output, "output", "", "output PDF path (default <input>.variants.pdf)")
	flag.StringVar(&opts.output, "o", "", "shorthand for -output")
	flag.BoolVar(&opts.variants, "variants", false, "test every style/weight/stretch variant, not one face per family")
	flag.BoolVar(&opts.variants, "v", false, "shorthand for -variants")
	flag.BoolVar(&opts.fallback, "fallback", false, "enable font fallback for the baseline pass")
	flag.BoolVar(&opts.fallback, "f", false, "shorthand for -fallback")
	flag.BoolVar(&opts.baseline, "baseline", false, "prepend an unpinned \"system fonts\" pass")
	flag.BoolVar(&opts.baseline, "b", false, "shorthand for -baseline")
	flag.BoolVar(&opts.list, "list", false, "print the selected variants and exit without compiling")
	flag.BoolVar(&opts.noSystem, "no-system-fonts", false, "only search -font-path directories")
	flag.StringVar(&opts.include, "include", "", "only include families matching this regexp (exclude wins)")
	flag.StringVar(&opts.include, "i", "", "shorthand for -include")
	flag.StringVar(&opts.exclude, "exclude", "", "exclude families matching this regexp (wins over -include)")
	flag.StringVar(&opts.exclude, "e", "", "shorthand for -exclude")
	flag.StringVar(&opts.styles, "style", "normal", "comma-separated styles to test (normal, italic, oblique)")
	flag.StringVar(&opts.weights, "weight", "", "comma-separated weights to test (names or 1..1000; empty = all)")
	flag.StringVar(&opts.stretches, "stretch", "", "comma-separated stretches to test (empty = all)")
	flag.StringVar(&opts.root, "root", os.Getenv(envRoot), "project root for resolving a relative input")
	flag.Var(&opts.fontPaths, "font-path", "additional font directory (repeatable)")
	flag.Float64Var(&opts.ppi, "ppi", render.DefaultPPI, "render resolution in pixels per inch")
	flag.IntVar(&opts.jobs, "jobs", 1, "variants compiled in parallel (output order stays deterministic)")
	flag.Usage = usage
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}
	opts.input = flag.Arg(0)
	if env := os.Getenv(envFontPaths); env != "" {
		for _, p := range filepath.SplitList(env) {
			if p != "" {
				opts.fontPaths = append(opts.fontPaths, p)
			}
		}
	}

	if err := run(&opts, logger); err != nil {
		logger.Error("fontproof failed", "err", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] <input>\n\n", filepath.Base(os.Args[0]))
	fmt.Fprintf(os.Stderr, "Compiles <input> once per font variant and writes one comparison PDF.\n\nOptions:\n")
	flag.PrintDefaults()
}

func run(opts *options, logger *slog.Logger) error {
	input := opts.input
	if opts.root != "" && !filepath.IsAbs(input) {
		input = filepath.Join(opts.root, input)
	}
	file, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	doc, err := markup.Parse(file)
	file.Close()
	if err != nil {
		return fmt.Errorf("parsing %s: %w", input, err)
	}

	catalog, err := fontcat.Discover(opts.fontPaths, !opts.noSystem, logger)
	if err != nil {
		return err
	}

	selOpts, err := selectOptions(opts)
	if err != nil {
		return err
	}
	sel, err := fontcat.Select(catalog, selOpts)
	if err != nil {
		return err
	}

	if opts.list {
		for _, v := range sel {
			fmt.Printf("%s\t%s\n", v.Label(true), v.Source.Path)
		}
		return nil
	}

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".variants.pdf"
	}
	title := doc.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}

	asm := assemble.New(title)
	runner := &compare.Runner{
		Compiler:     compile.New(doc, catalog),
		Renderer:     render.New(opts.ppi),
		Sink:         asm,
		Jobs:         opts.jobs,
		Baseline:     opts.baseline,
		Fallback:     opts.fallback,
		AspectLabels: opts.variants,
		Logger:       logger,
	}
	sum, err := runner.Run(sel)
	if err != nil {
		return err
	}

	pdfBytes, err := asm.Finalize()
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(sum.Failures) > 0 {
		logger.Warn(sum.String())
	}
	logger.Info("wrote comparison document", "path", output, "pages", asm.Len())
	return nil
}

// selectOptions compiles the regex patterns and axis sets of the CLI into a
// read-only filter configuration.
func selectOptions(opts *options) (fontcat.SelectOptions, error) {
	var sel fontcat.SelectOptions
	var err error
	if opts.include != "" {
		if sel.Include, err = regexp.Compile(opts.include); err != nil {
			return sel, fmt.Errorf("invalid -include pattern: %w", err)
		}
	}
	if opts.exclude != "" {
		if sel.Exclude, err = regexp.Compile(opts.exclude); err != nil {
			return sel, fmt.Errorf("invalid -exclude pattern: %w", err)
		}
	}
	sel.Variants = opts.variants

	for _, s := range splitList(opts.styles) {
		style, err := fontcat.ParseStyle(s)
		if err != nil {
			return sel, err
		}
		sel.Styles = append(sel.Styles, style)
	}
	for _, s := range splitList(opts.weights) {
		weight, err := fontcat.ParseWeight(s)
		if err != nil {
			return sel, err
		}
		sel.Weights = append(sel.Weights, weight)
	}
	for _, s := range splitList(opts.stretches) {
		stretch, err := fontcat.ParseStretch(s)
		if err != nil {
			return sel, err
		}
		sel.Stretches = append(sel.Stretches, stretch)
	}
	return sel, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
