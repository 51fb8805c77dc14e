package stamp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Crinklebine/dirstamp/dirstamp/common"
	"github.com/Crinklebine/dirstamp/dirstamp/options"
	"github.com/Crinklebine/dirstamp/dirstamp/ports"
	"github.com/Crinklebine/dirstamp/dirstamp/traverse"
)

// ChildObservation records the newest mtimes observed among a directory's
// immediate children, files and subdirectories kept separate. Transient,
// recomputed from the filesystem on every visit and never persisted.
type ChildObservation struct {
	NewestFile time.Time
	NewestDir  time.Time
	HasFiles   bool
	HasDirs    bool
}

// Target resolves the file-priority rule: the newest file mtime when the
// directory has any files, otherwise the newest subdirectory mtime. The
// second return is false for a directory with no children of either kind.
func (o ChildObservation) Target() (time.Time, bool) {
	if o.HasFiles {
		return o.NewestFile, true
	}
	if o.HasDirs {
		return o.NewestDir, true
	}
	return time.Time{}, false
}

// Decision is the resolved outcome for a single directory: its current
// mtime, the computed target, and whether the two already agree within
// tolerance.
type Decision struct {
	Path    string
	Current time.Time
	Target  time.Time
	InSync  bool
}

// Result aggregates one propagation pass
type Result struct {
	Visited int // directories examined
	Updated int // changes applied, or reported in dry-run mode
	Skipped int // directories skipped due to recoverable errors
}

// Propagator walks a deepest-first directory sequence and reconciles each
// directory's mtime with its newest immediate child. The caller is
// responsible for the ordering; processing children before parents is
// what lets freshness propagate transitively through directories that
// hold no files of their own.
type Propagator struct {
	opts       options.StampOptions
	reporter   ports.Reporter
	validation *common.ValidationUtils
}

// NewPropagator creates a propagator reporting through the given reporter
func NewPropagator(opts options.StampOptions, reporter ports.Reporter) *Propagator {
	return &Propagator{
		opts:       opts,
		reporter:   reporter,
		validation: common.NewValidationUtils(),
	}
}

// Process reconciles every directory in the sequence. Per-directory I/O
// failures are logged and counted, never escalated; the caller decides
// what to do with the aggregate Result.
func (p *Propagator) Process(ctx context.Context, dirs []traverse.Dir) *Result {
	result := &Result{}

	for _, dir := range dirs {
		if err := p.validation.ValidateContextCancellation(ctx); err != nil {
			slog.Warn("propagation cancelled", "path", dir.Path, "error", err)
			break
		}

		result.Visited++

		decision, ok, err := p.Decide(dir.Path)
		if err != nil {
			slog.Warn("skipped directory", "path", dir.Path, "error", err)
			result.Skipped++
			continue
		}
		if !ok || decision.InSync {
			continue
		}

		if !p.opts.DryRun {
			if err := p.apply(decision); err != nil {
				slog.Warn("skipped (set mtime failed)", "path", dir.Path, "error", err)
				result.Skipped++
				continue
			}
		}

		p.report(decision)
		result.Updated++
	}

	p.summarize(result)
	return result
}

// Decide computes the timestamp decision for a single directory. The
// second return is false when the directory has no children to derive a
// target from; such directories are never modified.
func (p *Propagator) Decide(path string) (Decision, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Decision{}, false, fmt.Errorf("failed to read directory metadata: %w", err)
	}
	current := info.ModTime()

	obs, err := p.ObserveChildren(path)
	if err != nil {
		return Decision{}, false, fmt.Errorf("failed to scan children: %w", err)
	}

	target, ok := obs.Target()
	if !ok {
		return Decision{}, false, nil
	}

	return Decision{
		Path:    path,
		Current: current,
		Target:  target,
		InSync:  withinTolerance(current, target, p.opts.Tolerance),
	}, true, nil
}

// ObserveChildren lists the immediate children of path once and records
// the newest file and newest subdirectory mtimes. A child whose metadata
// cannot be read contributes to neither maximum; that is silent
// recoverable behavior, not an error.
func (p *Propagator) ObserveChildren(path string) (ChildObservation, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return ChildObservation{}, err
	}

	var obs ChildObservation
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			slog.Debug("skipping unreadable child", "path", path, "name", entry.Name(), "error", err)
			continue
		}

		modified := info.ModTime()
		switch {
		case info.Mode().IsRegular():
			if !obs.HasFiles || modified.After(obs.NewestFile) {
				obs.NewestFile = modified
			}
			obs.HasFiles = true
		case info.IsDir():
			if !obs.HasDirs || modified.After(obs.NewestDir) {
				obs.NewestDir = modified
			}
			obs.HasDirs = true
		}
	}
	return obs, nil
}

// apply writes the target mtime. The zero atime leaves the access time
// untouched; only the modification time is rewritten.
func (p *Propagator) apply(d Decision) error {
	return os.Chtimes(d.Path, time.Time{}, d.Target)
}

func (p *Propagator) report(d Decision) {
	verb := "updated"
	if p.opts.DryRun {
		verb = "would update"
	}

	if p.opts.ShowDates {
		days := d.Target.Sub(d.Current).Hours() / 24
		p.reporter.Output(fmt.Sprintf("%s %q (from %s to %s, %+.1f days)",
			verb, d.Path, formatUTC(d.Current), formatUTC(d.Target), days))
		return
	}
	p.reporter.Output(fmt.Sprintf("%s %q", verb, d.Path))
}

func (p *Propagator) summarize(result *Result) {
	if result.Updated == 0 {
		p.reporter.Output("No directory timestamps needed updating.")
		return
	}
	if p.opts.DryRun {
		p.reporter.Output("\nNote: this was a dry run. Use --confirm to apply changes.")
	}
}

// withinTolerance treats a drift of exactly the tolerance as in sync;
// only a strictly greater difference triggers an update.
func withinTolerance(current, target time.Time, tolerance time.Duration) bool {
	diff := target.Sub(current)
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

func formatUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05") + " UTC"
}
