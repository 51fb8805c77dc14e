package traverse

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	internal "github.com/Crinklebine/dirstamp/dirstamp"
	"github.com/Crinklebine/dirstamp/dirstamp/common"
	"github.com/Crinklebine/dirstamp/dirstamp/options"

	radix "github.com/armon/go-radix"
	ignore "github.com/sabhiram/go-gitignore"
)

// Dir is a single enumerated directory. Depth is the component count
// relative to the traversal root (root itself has depth 0) and is the
// ordering key for the deepest-first propagation pass.
type Dir struct {
	Path  string
	Depth int
}

// Enumerator walks a root path and collects every directory in the
// subtree, root inclusive. It holds no state between runs; the
// filesystem is re-read on every enumeration.
type Enumerator struct {
	opts       options.TraversalOptions
	validation *common.ValidationUtils
	depthUtils *common.DepthUtils

	root    string
	ignored *ignore.GitIgnore
	visited *radix.Tree // resolved physical dir paths, guards symlink cycles
}

// NewEnumerator creates an enumerator with the given traversal options
func NewEnumerator(opts options.TraversalOptions) *Enumerator {
	return &Enumerator{
		opts:       opts,
		validation: common.NewValidationUtils(),
		depthUtils: common.NewDepthUtils(),
	}
}

// Enumerate walks rootPath recursively and returns all directories found,
// each tagged with its depth. Only a failure to establish the root itself
// is fatal; unreadable subtrees are logged and skipped so a single bad
// entry never aborts the run.
func (e *Enumerator) Enumerate(ctx context.Context, rootPath string) ([]Dir, error) {
	if err := e.validation.ValidateRootPath(rootPath); err != nil {
		return nil, err
	}

	e.root = filepath.Clean(rootPath)
	e.visited = radix.New()
	e.loadIgnoreFile()

	entries, err := os.ReadDir(e.root)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", common.ErrAccessDenied, e.root)
		}
		return nil, fmt.Errorf("failed to read root directory %s: %w", e.root, err)
	}

	e.markVisited(e.root)

	dirs := []Dir{{Path: e.root, Depth: 0}}
	e.descend(ctx, e.root, entries, 1, &dirs)
	return dirs, nil
}

// descend processes the entries of one directory and recurses into child
// directories. All failures below the root are recoverable: report and
// skip, siblings continue.
func (e *Enumerator) descend(ctx context.Context, parent string, entries []os.DirEntry, depth int, out *[]Dir) {
	if err := e.validation.ValidateContextCancellation(ctx); err != nil {
		slog.Warn("enumeration cancelled", "path", parent, "error", err)
		return
	}

	for _, entry := range entries {
		childPath := filepath.Join(parent, entry.Name())

		if e.ignored != nil && e.ignored.MatchesPath(childPath) {
			slog.Debug("ignoring entry", "path", childPath)
			continue
		}

		isDir := entry.IsDir()
		if !isDir && entry.Type()&fs.ModeSymlink != 0 && e.opts.FollowSymlinks {
			info, err := os.Stat(childPath)
			if err != nil {
				slog.Warn("skipped (broken link)", "path", childPath, "error", err)
				continue
			}
			isDir = info.IsDir()
		}
		if !isDir {
			continue
		}

		if e.opts.FollowSymlinks && e.alreadyVisited(childPath) {
			slog.Debug("skipping already visited directory", "path", childPath)
			continue
		}

		*out = append(*out, Dir{Path: childPath, Depth: e.depthOf(childPath, depth)})

		childEntries, err := os.ReadDir(childPath)
		if err != nil {
			slog.Warn("skipped (unreadable directory)", "path", childPath, "error", err)
			continue
		}
		e.descend(ctx, childPath, childEntries, depth+1, out)
	}
}

// depthOf computes the authoritative component-count depth for a
// directory. Paths are constructed under the root, so the relative-path
// calculation only fails on exotic volume mixes; the incremental depth is
// the fallback.
func (e *Enumerator) depthOf(path string, fallback int) int {
	depth, err := e.depthUtils.CalculateDepth(e.root, path)
	if err != nil {
		slog.Warn("depth calculation failed, using traversal depth", "path", path, "error", err)
		return fallback
	}
	return depth
}

// loadIgnoreFile compiles the configured ignore file, or the default
// one in the traversal root when present. Matching entries (and their
// subtrees) are pruned from enumeration.
func (e *Enumerator) loadIgnoreFile() {
	ignorePath := e.opts.IgnoreFile
	if ignorePath == "" {
		candidate := filepath.Join(e.root, internal.DefaultIgnoreFileName)
		if _, err := os.Stat(candidate); err != nil {
			return
		}
		ignorePath = candidate
	}

	ignored, err := ignore.CompileIgnoreFile(ignorePath)
	if err != nil {
		slog.Warn("failed to read ignore file", "path", ignorePath, "error", err)
		return
	}
	e.ignored = ignored
}

// alreadyVisited records the physical identity of a directory and reports
// whether it was seen before. Only consulted when link-following is
// enabled; without links every directory is reachable exactly once.
func (e *Enumerator) alreadyVisited(path string) bool {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		slog.Warn("failed to resolve physical path", "path", path, "error", err)
		resolved = path
	}
	if _, seen := e.visited.Get(resolved); seen {
		return true
	}
	e.visited.Insert(resolved, struct{}{})
	return false
}

func (e *Enumerator) markVisited(path string) {
	if !e.opts.FollowSymlinks {
		return
	}
	e.alreadyVisited(path)
}
