// Package pipeline runs each source through harvest, raw artifact, cleaning
// and clean artifact. Sources run one after another and a failing source
// never stops the others.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"go-campus-harvester/internal/artifact"
	"go-campus-harvester/internal/browser"
	"go-campus-harvester/internal/capture"
)

// CleanFunc normalizes a raw artifact and returns the records with their count.
type CleanFunc func(rawPath string) (records any, count int, err error)

// Source binds a harvester to its artifacts and cleaning transform.
type Source struct {
	// Key is the name used on the command line and in the config file.
	Key       string
	RawFile   string
	CleanFile string
	Harvester capture.Harvester
	Clean     CleanFunc
}

// Report is what happened to one source during a run.
type Report struct {
	Source string
	// Fetched is false when the capture step did not run.
	Fetched  bool
	Outcome  capture.Outcome
	Raw      int
	Cleaned  bool
	Clean    int
	Err      error
	Duration time.Duration
}

// OK reports whether every step that ran succeeded.
func (r Report) OK() bool {
	return r.Err == nil && r.Outcome.Status != capture.Failed
}

type Runner struct {
	OutputDir string
	Opener    browser.Opener
}

// Fetch harvests src and saves whatever was collected. A failed harvest
// that collected nothing leaves no raw artifact.
func (r *Runner) Fetch(ctx context.Context, src Source) (rep Report) {
	start := time.Now()
	rep = Report{Source: src.Key, Fetched: true}
	defer func() { rep.Duration = time.Since(start) }()

	if r.Opener == nil {
		rep.Outcome = capture.Outcome{Status: capture.Failed, Err: errors.New("no browser")}
		rep.Err = rep.Outcome.Err
		return rep
	}

	res := src.Harvester.Harvest(ctx, r.Opener)
	rep.Outcome = res.Outcome
	rep.Raw = len(res.Entries)

	switch res.Outcome.Status {
	case capture.Completed:
		log.Printf("✅ [%s] Captured %d entries", src.Key, rep.Raw)
	case capture.StoppedEarly:
		log.Printf("⚠️ [%s] Captured %d entries, %s", src.Key, rep.Raw, res.Outcome.Reason)
	case capture.Failed:
		log.Printf("❌ [%s] Capture failed after %d entries: %v", src.Key, rep.Raw, res.Err())
	}

	if res.Failed() && len(res.Entries) == 0 {
		rep.Err = fmt.Errorf("%s capture: %w", src.Key, res.Err())
		return rep
	}

	if _, err := artifact.Save(r.OutputDir, src.RawFile, res.Entries); err != nil {
		rep.Err = fmt.Errorf("%s raw artifact: %w", src.Key, err)
	}
	return rep
}

// Clean normalizes src's raw artifact into its clean artifact.
func (r *Runner) Clean(src Source) Report {
	start := time.Now()
	rep := Report{Source: src.Key}
	rep.mergeClean(r.clean(src))
	rep.Duration = time.Since(start)
	return rep
}

type cleanResult struct {
	count int
	err   error
}

func (rep *Report) mergeClean(c cleanResult) {
	rep.Cleaned = c.err == nil
	rep.Clean = c.count
	if c.err != nil && rep.Err == nil {
		rep.Err = c.err
	}
}

func (r *Runner) clean(src Source) cleanResult {
	rawPath := filepath.Join(r.OutputDir, src.RawFile)
	records, count, err := src.Clean(rawPath)
	if err != nil {
		log.Printf("❌ [%s] Cleaning %s failed: %v", src.Key, rawPath, err)
		return cleanResult{err: fmt.Errorf("%s clean: %w", src.Key, err)}
	}

	if _, err := artifact.Save(r.OutputDir, src.CleanFile, records); err != nil {
		return cleanResult{err: fmt.Errorf("%s clean artifact: %w", src.Key, err)}
	}
	log.Printf("🧹 [%s] %d clean records", src.Key, count)
	return cleanResult{count: count}
}

// Run fetches then cleans every source. Cleaning is skipped for a source
// whose raw artifact could not be written.
func (r *Runner) Run(ctx context.Context, sources []Source) []Report {
	reports := make([]Report, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			reports = append(reports, Report{Source: src.Key, Err: err})
			continue
		}

		start := time.Now()
		rep := r.Fetch(ctx, src)
		if rep.Err == nil {
			rep.mergeClean(r.clean(src))
		}
		rep.Duration = time.Since(start)
		reports = append(reports, rep)
	}
	return reports
}

// FetchAll runs only the capture step for every source.
func (r *Runner) FetchAll(ctx context.Context, sources []Source) []Report {
	reports := make([]Report, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			reports = append(reports, Report{Source: src.Key, Err: err})
			continue
		}
		reports = append(reports, r.Fetch(ctx, src))
	}
	return reports
}

// CleanAll runs only the cleaning step for every source.
func (r *Runner) CleanAll(sources []Source) []Report {
	reports := make([]Report, 0, len(sources))
	for _, src := range sources {
		reports = append(reports, r.Clean(src))
	}
	return reports
}

// Failed counts reports that did not succeed.
func Failed(reports []Report) int {
	n := 0
	for _, r := range reports {
		if !r.OK() {
			n++
		}
	}
	return n
}
