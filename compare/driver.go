// Package compare drives one comparison run: it walks the variant selection
// in order, compiles and renders one variant at a time, and hands the pages
// to the sink. A variant's failure is recorded and skipped, never fatal, so
// one bad font cannot block the whole comparison.
package compare

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bpradana/weave"

	"github.com/fontproof/fontproof/compile"
	"github.com/fontproof/fontproof/fontcat"
	"github.com/fontproof/fontproof/render"
)

// BaselineLabel tags the pages of the unpinned "system fonts" pass.
const BaselineLabel = "system fonts"

// Compiler turns one font binding into compiled pages. A nil variant
// selects the baseline pass with the compiler's normal font resolution.
type Compiler interface {
	Compile(v *fontcat.Variant, fallback bool) ([]compile.Page, error)
}

// Renderer rasterizes one variant's compiled pages and labels them.
type Renderer interface {
	Render(pages []compile.Page, label string) ([]render.Page, error)
}

// Sink consumes rendered pages. Appends arrive one variant at a time, in
// selection order; the sink owns the pages once Append returns.
type Sink interface {
	Append(pages []render.Page) error
}

// Failure records one skipped variant.
type Failure struct {
	Label string
	Err   error
}

// Summary aggregates the outcome of a run.
type Summary struct {
	Total    int
	Appended int
	Failures []Failure
}

// String renders the end-of-run failure summary, e.g.
// "2 of 7 variants failed: Foo italic 700, Bar 400".
func (s *Summary) String() string {
	if len(s.Failures) == 0 {
		return fmt.Sprintf("all %d variants compiled", s.Total)
	}
	labels := make([]string, len(s.Failures))
	for i, f := range s.Failures {
		labels[i] = f.Label
	}
	return fmt.Sprintf("%d of %d variants failed: %s",
		len(s.Failures), s.Total, strings.Join(labels, ", "))
}

// Runner drives one run. All fields are read-only during Run.
type Runner struct {
	Compiler Compiler
	Renderer Renderer
	Sink     Sink

	// Jobs bounds how many variants are in flight at once. Values <= 1
	// select the sequential pipeline: compile, render, append, free, next.
	Jobs int
	// Baseline prepends the unpinned "system fonts" pass.
	Baseline bool
	// Fallback is passed through to the baseline compile.
	Fallback bool
	// AspectLabels spells out style/weight/stretch in page labels
	// (variants mode).
	AspectLabels bool

	Logger *slog.Logger
}

type job struct {
	variant *fontcat.Variant
	label   string
}

// Run processes the selection in order. Per-variant errors are collected
// into the summary; Run itself fails only when no variant at all produced
// output, or when the sink breaks.
func (r *Runner) Run(sel fontcat.Selection) (*Summary, error) {
	jobs := r.buildJobs(sel)
	sum := &Summary{Total: len(jobs)}

	var err error
	if r.Jobs > 1 {
		err = r.runParallel(jobs, sum)
	} else {
		err = r.runSequential(jobs, sum)
	}
	if err != nil {
		return nil, err
	}
	if sum.Appended == 0 {
		return nil, fmt.Errorf("all %d variants failed to compile", sum.Total)
	}
	return sum, nil
}

func (r *Runner) buildJobs(sel fontcat.Selection) []job {
	jobs := make([]job, 0, len(sel)+1)
	if r.Baseline {
		jobs = append(jobs, job{label: BaselineLabel})
	}
	for i := range sel {
		jobs = append(jobs, job{variant: &sel[i], label: sel[i].Label(r.AspectLabels)})
	}
	return jobs
}

// process compiles and renders one variant. Both steps fail per-variant.
func (r *Runner) process(j job) ([]render.Page, error) {
	r.logger().Info("compiling", "font", j.label)
	fallback := r.Fallback && j.variant == nil
	pages, err := r.Compiler.Compile(j.variant, fallback)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	rendered, err := r.Renderer.Render(pages, j.label)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return rendered, nil
}

// runSequential is the default pipeline: one variant's pages exist at a
// time, which bounds peak memory to a single variant regardless of how many
// the selection holds.
func (r *Runner) runSequential(jobs []job, sum *Summary) error {
	for _, j := range jobs {
		pages, err := r.process(j)
		if err != nil {
			r.recordFailure(sum, j, err)
			continue
		}
		if err := r.Sink.Append(pages); err != nil {
			return fmt.Errorf("appending pages for %s: %w", j.label, err)
		}
		sum.Appended++
	}
	return nil
}

// runParallel compiles up to Jobs variants concurrently on a weave worker
// pool, but commits results to the sink strictly in job order. The window
// semaphore is released only when a job's slot has been committed, so at
// most Jobs variants' pages exist at any moment, finished-but-uncommitted
// ones included.
func (r *Runner) runParallel(jobs []job, sum *Summary) error {
	type result struct {
		pages []render.Page
		err   error
	}

	slots := make([]chan result, len(jobs))
	for i := range slots {
		slots[i] = make(chan result, 1)
	}
	window := make(chan struct{}, r.Jobs)

	pool := weave.NewWorkerPoolDispatcher(r.Jobs)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i, j := range jobs {
			window <- struct{}{}
			i, j := i, j
			pool.Submit(func() {
				pages, err := r.process(j)
				slots[i] <- result{pages: pages, err: err}
			})
		}
	}()

	var sinkErr error
	for i, j := range jobs {
		res := <-slots[i]
		if sinkErr == nil {
			switch {
			case res.err != nil:
				r.recordFailure(sum, j, res.err)
			default:
				if err := r.Sink.Append(res.pages); err != nil {
					sinkErr = fmt.Errorf("appending pages for %s: %w", j.label, err)
				} else {
					sum.Appended++
				}
			}
		}
		<-window
	}
	<-done
	pool.Stop()
	return sinkErr
}

func (r *Runner) recordFailure(sum *Summary, j job, err error) {
	r.logger().Warn("variant failed", "font", j.label, "err", err)
	sum.Failures = append(sum.Failures, Failure{Label: j.label, Err: err})
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
