package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	logLevelFlag  = "loglevel"
	logFormatFlag = "logformat"
)

func registerLoggingFlags(flags *pflag.FlagSet) {
	flags.String(logLevelFlag, "warn", "set the log level (debug, info, warn, error)")
	flags.String(logFormatFlag, "text", "set the log format (text, json)")
}

// baseLogger builds the logger selected by the logging flags. Logs go to
// stderr so that stdout stays usable for command output.
func baseLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level, err := loggerLevel(cmd)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	format, _ := cmd.Flags().GetString(logFormatFlag)
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	case "text":
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	return slog.New(handler), nil
}

func loggerLevel(cmd *cobra.Command) (slog.Level, error) {
	name, _ := cmd.Flags().GetString(logLevelFlag)
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelWarn, fmt.Errorf("invalid log level: %s", name)
}
