package runner

import (
	"context"
	"log/slog"
	"sort"

	"github.com/Crinklebine/dirstamp/dirstamp/common"
	"github.com/Crinklebine/dirstamp/dirstamp/options"
	"github.com/Crinklebine/dirstamp/dirstamp/ports"
	"github.com/Crinklebine/dirstamp/dirstamp/stamp"
	"github.com/Crinklebine/dirstamp/dirstamp/traverse"

	"github.com/ZanzyTHEbar/assert-lib"
	"github.com/google/uuid"
)

// Runner wires the two run phases together: enumerate the subtree, order
// it deepest-first, then propagate timestamps bottom-up. It carries no
// state between runs; the filesystem is the only persistent store.
type Runner struct {
	reporter      ports.Reporter
	pathUtils     *common.PathUtils
	assertHandler *assert.AssertHandler
}

// New creates a runner reporting through the given reporter
func New(reporter ports.Reporter) *Runner {
	return &Runner{
		reporter:      reporter,
		pathUtils:     common.NewPathUtils(),
		assertHandler: assert.NewAssertHandler(),
	}
}

// Run executes one dirstamp pass over rootPath. Only root-path failures
// surface as errors; everything below the root is handled (and counted)
// by the propagator.
func (r *Runner) Run(ctx context.Context, rootPath string, travOpts options.TraversalOptions, stampOpts options.StampOptions) (*stamp.Result, error) {
	runID := uuid.NewString()
	rootPath = r.pathUtils.NormalizePath(rootPath)

	slog.Info("starting run",
		"run_id", runID,
		"root", rootPath,
		"dry_run", stampOpts.DryRun,
		"follow_symlinks", travOpts.FollowSymlinks)

	enumerator := traverse.NewEnumerator(travOpts)
	dirs, err := enumerator.Enumerate(ctx, rootPath)
	if err != nil {
		return nil, err
	}

	// Deeper paths first so children are stamped before their parents.
	// This ordering is what the subdirectory-fallback rule relies on to
	// propagate freshness through file-less intermediate directories.
	sort.SliceStable(dirs, func(i, j int) bool {
		return dirs[i].Depth > dirs[j].Depth
	})
	r.assertHandler.Assert(ctx, sort.SliceIsSorted(dirs, func(i, j int) bool {
		return dirs[i].Depth > dirs[j].Depth
	}), "directory sequence must be deepest-first")

	result := stamp.NewPropagator(stampOpts, r.reporter).Process(ctx, dirs)

	slog.Info("run complete",
		"run_id", runID,
		"visited", result.Visited,
		"updated", result.Updated,
		"skipped", result.Skipped)

	return result, nil
}
