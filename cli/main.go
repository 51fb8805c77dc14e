package main

import (
	"errors"
	"os"

	internal "github.com/Crinklebine/dirstamp/dirstamp"
	"github.com/Crinklebine/dirstamp/dirstamp/common"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := internal.GetLogger()

	if err := newRootCmd().Execute(); err != nil {
		logger.Error().Err(err).Msg("dirstamp failed")

		// Root-path failures carry a distinct exit code so callers can
		// tell "nothing to do here" from plain argument errors.
		if errors.Is(err, common.ErrPathNotFound) ||
			errors.Is(err, common.ErrAccessDenied) ||
			errors.Is(err, common.ErrNotADirectory) {
			return 2
		}
		return 1
	}
	return 0
}
