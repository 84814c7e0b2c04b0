// Package log configures loggers for the resampipe command. Samples may
// flow over standard output when it is used as the writable endpoint, so
// loggers always write to standard error.
package log

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// debug is controlled with the RESAMPIPE_DEBUG environment variable and
// enables per-block read/write logging of the stream.
var debug bool

func init() {
	var err error
	debug, err = strconv.ParseBool(os.Getenv("RESAMPIPE_DEBUG"))
	if err != nil {
		debug = false
	}
}

// GetLogger returns a new logger instance writing to standard error.
func GetLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}
