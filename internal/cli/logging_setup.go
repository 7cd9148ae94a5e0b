package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/amlscreen/internal/config"
	"github.com/rshade/amlscreen/internal/logging"
)

// setupLogging configures logging based on config file, environment, and CLI flags.
// An interactive command never logs to the terminal it draws on: without a
// log file its output is discarded.
func setupLogging(cmd *cobra.Command, interactive bool) logging.LogPathResult {
	loggingCfg := config.GetLoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		if !interactive {
			loggingCfg.Format = logging.FormatConsole
			loggingCfg.File = ""
		}
	}

	// Ensure log directory exists after all overrides have been applied.
	if loggingCfg.File != "" {
		if err := config.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	logCfg := loggingCfg.ToLoggingConfig()
	if interactive && logCfg.Output != logging.OutputFile {
		logCfg.Output = logging.OutputNone
	}

	result := logging.NewLoggerWithPath(logCfg)
	if interactive && !result.UsingFile {
		// A failed log file falls back to stderr, which the TUI owns.
		result.Logger = zerolog.Nop()
	}
	baseLogger = result.Logger
	logger = logging.ComponentLogger(result.Logger, "cli")

	if !interactive {
		if result.UsingFile {
			logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
		} else if result.FallbackUsed {
			logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
		}
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")

	return result
}

// cleanupLogging closes the log file handle, if any.
func cleanupLogging(_ *cobra.Command, logResult *logging.LogPathResult) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}
