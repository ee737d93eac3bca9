// Package driver runs the per-file translation pipeline: copy to a working
// path, run the front end and dispatcher over it, apply the accumulated
// edits, promote or discard the working file, flush stats.
package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/src-d/enry/v2"

	"github.com/hipifygo/hipify/internal/diagnose"
	"github.com/hipifygo/hipify/internal/edit"
	"github.com/hipifygo/hipify/internal/frontend"
	"github.com/hipifygo/hipify/internal/rename"
	"github.com/hipifygo/hipify/internal/stats"
	"github.com/hipifygo/hipify/internal/translate"
)

// Job is one input file's translation state, created and torn down by the
// Driver's per-file loop. Unlike the original's process-wide "active stats"
// pointer, every field here is local to the job — there is nothing to
// select or reset between files.
type Job struct {
	SrcPath string
	TmpPath string
	DstPath string

	NoOutput bool
	InPlace  bool
	NoBackup bool
}

// Driver holds the process-wide immutable collaborators (rename tables,
// front-end parser, dispatcher, diagnostics sink) shared across every job.
type Driver struct {
	tables      *rename.Tables
	parser      *frontend.Parser
	dispatcher  *translate.Dispatcher
	diag        *diagnose.Reporter
	instruments *stats.Instruments
	opts        Options
}

// New builds a Driver. instruments may be nil to skip otel export.
func New(tables *rename.Tables, parser *frontend.Parser, diag *diagnose.Reporter, instruments *stats.Instruments, opts Options) *Driver {
	return &Driver{
		tables:      tables,
		parser:      parser,
		dispatcher:  translate.New(tables),
		diag:        diag,
		instruments: instruments,
		opts:        opts,
	}
}

// Result is what Run reports back to cmd/hipify for exit-code computation.
type Result struct {
	FailureCount int // summed across jobs; mapped directly to the process exit status
	Counters     []*stats.Counters
}

// Run processes every input file, exactly as the original's `for` loop over
// input files does: a front-end failure on one file never aborts the
// remaining files, and the returned FailureCount is the sum across all of
// them. When Options.Jobs is 0 or 1 the files run sequentially in order, in
// the goroutine Run was called on; when Jobs > 1, files fan out across a
// bounded worker pool, grounded in the teacher's runParseParallel pattern.
// Every job already owns its own *stats.Counters (see Job/Result docs), so
// no field here needs its own synchronization beyond the result slice.
func (d *Driver) Run(ctx context.Context, files []string) (Result, error) {
	if d.opts.Jobs <= 1 || len(files) <= 1 {
		return d.runSequential(ctx, files)
	}

	return d.runParallel(ctx, files)
}

func (d *Driver) runSequential(ctx context.Context, files []string) (Result, error) {
	var res Result

	for _, src := range files {
		counters, failed, err := d.runFile(ctx, src)
		if err != nil {
			return res, err
		}

		if failed {
			res.FailureCount++
		}

		res.Counters = append(res.Counters, counters)
	}

	return res, nil
}

// runParallel fans files out across min(Jobs, len(files)) workers, each
// pulling the next index off a shared channel. Results are written back
// into a fixed-size slice by index so output order matches input order
// regardless of which worker finished first.
func (d *Driver) runParallel(ctx context.Context, files []string) (Result, error) {
	workers := d.opts.Jobs
	if workers > len(files) {
		workers = len(files)
	}

	type outcome struct {
		counters *stats.Counters
		failed   bool
		err      error
	}

	results := make([]outcome, len(files))
	indices := make(chan int, len(files))

	for i := range files {
		indices <- i
	}
	close(indices)

	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range indices {
				counters, failed, err := d.runFile(ctx, files[i])
				results[i] = outcome{counters: counters, failed: failed, err: err}
			}
		}()
	}

	wg.Wait()

	var res Result

	for _, o := range results {
		if o.err != nil {
			return res, o.err
		}

		if o.failed {
			res.FailureCount++
		}

		res.Counters = append(res.Counters, o.counters)
	}

	return res, nil
}

func (d *Driver) runFile(ctx context.Context, src string) (*stats.Counters, bool, error) {
	job := &Job{
		SrcPath:  src,
		TmpPath:  src + ".hipify-tmp",
		DstPath:  d.destinationFor(src),
		NoOutput: d.opts.NoOutput,
		InPlace:  d.opts.InPlace,
		NoBackup: d.opts.NoBackup,
	}

	counters, failed, err := d.runOne(ctx, job)
	if err != nil {
		return counters, failed, fmt.Errorf("hipify: %s: %w", src, err)
	}

	return counters, failed, nil
}

func (d *Driver) destinationFor(src string) string {
	switch {
	case d.opts.InPlace:
		return src
	case d.opts.Output != "":
		return d.opts.Output
	default:
		return src + ".hip"
	}
}

// runOne implements the eight-step per-file pipeline. The returned bool
// reports whether this file contributed a front-end failure to the exit
// code; it does not abort the pipeline — accumulated edits are still
// applied and stats are still flushed on a failure, matching the
// original's unconditional `Rewrite.overwriteChangedFiles()` after
// `Result += Tool.run(...)`.
func (d *Driver) runOne(ctx context.Context, job *Job) (*stats.Counters, bool, error) {
	counters := stats.NewCounters(job.SrcPath, d.instruments)

	src, err := os.ReadFile(job.SrcPath)
	if err != nil {
		return counters, true, fmt.Errorf("read: %w", err)
	}

	if lang := enry.GetLanguage(filepath.Base(job.SrcPath), src); lang != "" && !isCLike(lang) {
		d.diag.Warn(diagnose.Location{File: job.SrcPath, Line: 1, Col: 1},
			"input does not look like C/C++ (detected %s); translating anyway", lang)
	}

	if err := os.WriteFile(job.TmpPath, src, 0o644); err != nil {
		return counters, true, fmt.Errorf("write tmp: %w", err)
	}
	defer os.Remove(job.TmpPath)

	failed := false

	tree, err := d.parser.Parse(ctx, src)
	if err != nil {
		d.diag.Error(diagnose.Location{File: job.SrcPath, Line: 1, Col: 1}, "parse failed: %v", err)

		failed = true
	}

	rs := edit.New()

	if tree != nil {
		d.dispatcher.Run(tree, job.SrcPath, rs, counters, d.diag)
		tree.Close()
	}

	rewritten := rs.Apply(src)

	if d.opts.Diff && rs.Len() > 0 {
		printDiff(os.Stderr, job.SrcPath, string(src), string(rewritten))
	}

	if !job.NoOutput {
		if job.InPlace && !job.NoBackup {
			if err := os.WriteFile(job.SrcPath+".prehip", src, 0o644); err != nil {
				return counters, failed, fmt.Errorf("backup: %w", err)
			}
		}

		if err := os.WriteFile(job.TmpPath, rewritten, 0o644); err != nil {
			return counters, failed, fmt.Errorf("write rewritten: %w", err)
		}

		if err := os.Rename(job.TmpPath, job.DstPath); err != nil {
			return counters, failed, fmt.Errorf("promote: %w", err)
		}
	}

	return counters, failed, nil
}

func isCLike(lang string) bool {
	switch lang {
	case "C", "C++", "C/C++ Header", "Cuda", "CUDA":
		return true
	default:
		return false
	}
}

func printDiff(w io.Writer, name, before, after string) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)

	fmt.Fprintf(w, "--- %s\n+++ %s (hipified)\n", name, name)
	fmt.Fprint(w, dmp.DiffPrettyText(diffs))

	if !strings.HasSuffix(dmp.DiffPrettyText(diffs), "\n") {
		fmt.Fprintln(w)
	}
}
