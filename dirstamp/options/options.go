package options

import (
	"time"

	internal "github.com/Crinklebine/dirstamp/dirstamp"
)

// TraversalOptions configures directory enumeration
type TraversalOptions struct {
	FollowSymlinks bool   // Follow symbolic links (cycle-guarded)
	IgnoreFile     string // Explicit ignore file path (gitignore syntax)
}

// StampOptions configures the timestamp propagation pass
type StampOptions struct {
	DryRun    bool          // Preview decisions without touching the filesystem
	ShowDates bool          // Include before/after timestamps and day delta in reports
	Tolerance time.Duration // Minimum drift before a directory counts as out of sync
}

// DefaultTraversalOptions returns sensible defaults for enumeration
func DefaultTraversalOptions() TraversalOptions {
	return TraversalOptions{
		FollowSymlinks: false,
		IgnoreFile:     "",
	}
}

// DefaultStampOptions returns sensible defaults for propagation.
// Dry run is the default mode; callers opt into applying changes.
func DefaultStampOptions() StampOptions {
	return StampOptions{
		DryRun:    true,
		ShowDates: false,
		Tolerance: time.Duration(internal.DefaultToleranceSeconds) * time.Second,
	}
}
