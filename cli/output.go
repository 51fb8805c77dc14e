package main

import (
	"fmt"
	"os"

	internal "github.com/Crinklebine/dirstamp/dirstamp"

	"github.com/rs/zerolog"
)

// terminalReporter is the CLI implementation of ports.Reporter. Change
// reports and summaries go to stdout so they can be piped; warnings and
// errors go to the stderr logger.
type terminalReporter struct {
	out *os.File
	log zerolog.Logger
}

func newTerminalReporter() *terminalReporter {
	return &terminalReporter{
		out: os.Stdout,
		log: internal.GetLogger(),
	}
}

func (t *terminalReporter) Output(message string) {
	fmt.Fprintln(t.out, message)
}

func (t *terminalReporter) Warning(message string) {
	t.log.Warn().Msg(message)
}

func (t *terminalReporter) Error(message string, err error) {
	t.log.Error().Err(err).Msg(message)
}
