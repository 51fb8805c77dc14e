package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathUtils provides path manipulation utilities used across dirstamp packages
type PathUtils struct{}

// NewPathUtils creates a new PathUtils instance
func NewPathUtils() *PathUtils {
	return &PathUtils{}
}

// NormalizePath normalizes a file path for cross-platform compatibility
func (pu *PathUtils) NormalizePath(path string) string {
	// Convert to absolute path
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Clean(abs)
}

// IsSubpath checks if child is a subpath of parent
func (pu *PathUtils) IsSubpath(parent, child string) bool {
	parent = pu.NormalizePath(parent)
	child = pu.NormalizePath(child)

	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}

	return !strings.HasPrefix(rel, "..") && rel != "."
}

// DepthUtils provides depth calculation utilities used across packages
type DepthUtils struct{}

// NewDepthUtils creates a new DepthUtils instance
func NewDepthUtils() *DepthUtils {
	return &DepthUtils{}
}

// CalculateDepth calculates the depth of a path relative to a base path.
// The base path itself has depth 0; each path component below it adds one.
// Depth by component count is the authoritative ordering key for the
// deepest-first pass; a lexicographic sort on path strings can misorder
// entries across separators and is not used anywhere in this codebase.
func (du *DepthUtils) CalculateDepth(basePath, targetPath string) (int, error) {
	relPath, err := filepath.Rel(basePath, targetPath)
	if err != nil {
		return 0, fmt.Errorf("failed to calculate relative path: %w", err)
	}

	if relPath == "." {
		return 0, nil
	}

	if strings.HasPrefix(relPath, "..") {
		return 0, fmt.Errorf("target path is not under base path")
	}

	return strings.Count(relPath, string(os.PathSeparator)) + 1, nil
}
