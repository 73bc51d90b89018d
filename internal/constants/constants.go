// Package constants is responsible for defining the constants used in the application.
// It also provides utility functions to get the default configuration path.
package constants

import (
	"log/slog"
	"os"
	"path/filepath"
)

var (
	// Version is the version of the application.
	Version = "Dev"
)

const (
	// CmdName is the name of the command line tool.
	CmdName = "hrfilter"

	// DefaultAppFolder is the name of the default configuration folder.
	DefaultAppFolder = "hrfilter"

	// DefaultLogLevel is the default log level selected without any verbosity flags.
	DefaultLogLevel = slog.LevelWarn

	// DefaultInputPath is the heart-rate export read when no input is configured.
	DefaultInputPath = "heartRateData.json"

	// DefaultOutputPath is the file the filtered samples are written to when no output is configured.
	DefaultOutputPath = "filtered_output.json"

	// DefaultCutoff is the cutoff used when none is configured, in the YYYY-MM-DD HH:MM:SS layout.
	DefaultCutoff = "2024-02-20 07:26:31"

	// OutputIndent is the indentation used when pretty-printing the output document.
	OutputIndent = "  "
)

type options struct {
	baseDir func() (string, error)
}

type option func(*options)

// GetDefaultConfigPath is the default directory holding the configuration file.
// It returns an empty string if the user configuration directory can't be determined.
func GetDefaultConfigPath(opts ...option) string {
	o := options{baseDir: os.UserConfigDir}
	for _, opt := range opts {
		opt(&o)
	}

	dir := getBaseDir(o.baseDir)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, DefaultAppFolder)
}

// getBaseDir is a helper function to handle the case where the baseDir function returns an error, and instead return an empty string.
func getBaseDir(baseDirFunc func() (string, error)) string {
	dir, err := baseDirFunc()
	if err != nil {
		return ""
	}
	return dir
}
