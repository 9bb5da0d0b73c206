package qsearch

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix:          "qsearch",
	ReportTimestamp: true,
})

// Logger exposes the package logger so callers can redirect or silence it.
func Logger() *log.Logger {
	return logger
}

// SetLogLevel accepts debug, info, warn, error or fatal.
func SetLogLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger.SetLevel(lvl)
	return nil
}

func warn(w NumericalPrecisionWarning) {
	logger.Warn(
		"numerical precision",
		"stage", w.Stage,
		"deviation", w.Deviation,
		"tolerance", w.Tolerance,
	)
}
