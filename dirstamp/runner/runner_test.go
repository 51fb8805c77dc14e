package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Crinklebine/dirstamp/dirstamp/common"
	"github.com/Crinklebine/dirstamp/dirstamp/options"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureReporter struct {
	lines []string
}

func (c *captureReporter) Output(message string)           { c.lines = append(c.lines, message) }
func (c *captureReporter) Warning(message string)          {}
func (c *captureReporter) Error(message string, err error) {}

func applyOpts() options.StampOptions {
	opts := options.DefaultStampOptions()
	opts.DryRun = false
	return opts
}

func mtimeOf(t *testing.T, path string) time.Time {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.ModTime()
}

func TestRun_TransitivePropagation(t *testing.T) {
	// root/sub/file.txt carries T; sub lags by 10 days and root by 20.
	// One apply run must pull both directories up to T, root included,
	// even though root itself holds no files.
	base := time.Now().Add(-2 * time.Hour).Truncate(time.Second)
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	file := filepath.Join(sub, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(file, base, base))
	require.NoError(t, os.Chtimes(sub, base.Add(-10*24*time.Hour), base.Add(-10*24*time.Hour)))
	require.NoError(t, os.Chtimes(root, base.Add(-20*24*time.Hour), base.Add(-20*24*time.Hour)))

	result, err := New(&captureReporter{}).Run(context.Background(), root,
		options.DefaultTraversalOptions(), applyOpts())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Updated)
	assert.WithinDuration(t, base, mtimeOf(t, sub), time.Second)
	assert.WithinDuration(t, base, mtimeOf(t, root), time.Second)
	assert.WithinDuration(t, base, mtimeOf(t, file), time.Second,
		"file timestamps are never modified")
}

func TestRun_MissingRootIsFatal(t *testing.T) {
	_, err := New(&captureReporter{}).Run(context.Background(),
		filepath.Join(t.TempDir(), "nope"),
		options.DefaultTraversalOptions(), applyOpts())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrPathNotFound)
}

func TestRun_DryRunDefaultTouchesNothing(t *testing.T) {
	base := time.Now().Add(-2 * time.Hour).Truncate(time.Second)
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(file, base, base))
	stale := base.Add(-10 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(root, stale, stale))

	reporter := &captureReporter{}
	result, err := New(reporter).Run(context.Background(), root,
		options.DefaultTraversalOptions(), options.DefaultStampOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.WithinDuration(t, stale, mtimeOf(t, root), time.Second)
	require.NotEmpty(t, reporter.lines)
	assert.Contains(t, reporter.lines[0], "would update")
}

func TestRun_AlreadySynchronizedTree(t *testing.T) {
	base := time.Now().Add(-2 * time.Hour).Truncate(time.Second)
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(file, base, base))
	require.NoError(t, os.Chtimes(root, base, base))

	reporter := &captureReporter{}
	result, err := New(reporter).Run(context.Background(), root,
		options.DefaultTraversalOptions(), applyOpts())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Updated)
	require.NotEmpty(t, reporter.lines)
	assert.Contains(t, reporter.lines[0], "No directory timestamps needed updating.")
}

func TestRun_DeepTreeOrdering(t *testing.T) {
	// Three levels of file-less directories above the single file: the
	// deepest-first pass must carry the file mtime all the way up.
	base := time.Now().Add(-2 * time.Hour).Truncate(time.Second)
	root := t.TempDir()
	leaf := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(leaf, 0o755))
	file := filepath.Join(leaf, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(file, base, base))

	stale := base.Add(-30 * 24 * time.Hour)
	for _, dir := range []string{leaf, filepath.Join(root, "a", "b"), filepath.Join(root, "a"), root} {
		require.NoError(t, os.Chtimes(dir, stale, stale))
	}

	result, err := New(&captureReporter{}).Run(context.Background(), root,
		options.DefaultTraversalOptions(), applyOpts())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Updated)
	for _, dir := range []string{leaf, filepath.Join(root, "a", "b"), filepath.Join(root, "a"), root} {
		assert.WithinDuration(t, base, mtimeOf(t, dir), time.Second, dir)
	}
}
