// Package cmd provides the root command and command registration
// functionality for the deja CLI application. It handles global flags,
// logging configuration, and the exit-status plumbing that lets a
// subcommand carry a child process's exit code out of the process.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/lucho00cuba/deja/internal/logger"
	"github.com/lucho00cuba/deja/version"
	"github.com/spf13/cobra"
)

var (
	// logLevel stores the logging level flag value.
	logLevel string

	// logFormat stores the logging format flag value (text or json).
	logFormat string

	// logOutput stores the log output destination flag value (stderr or filename).
	logOutput string

	// verbose stores the count of -v flags (0, 1, or 2).
	verbose int

	// quiet stores the quiet mode flag value.
	quiet bool

	// logFile stores the opened log file handle when logging to a file.
	logFile *os.File
)

// rootCmd is the root command for the deja CLI application.
var rootCmd = &cobra.Command{
	Use:   "deja",
	Short: "deja - run commands once, replay their output forever after",
	Long: `deja runs a command, captures its exit status and output streams, and
stores the result under a key derived from the command and its declared
inputs. Run the same command again and deja replays the recorded outcome
without executing anything.`,
	Example: `  # Run a slow command, caching its result
  deja run ./generate-report.sh

  # Re-run when a watched file changes
  deja run --watch-path config.yaml make lint

  # Cache for one hour only
  deja run --cache-for 1h date

  # Check whether a result is cached without running anything
  deja test ./generate-report.sh

  # Inspect the cache key inputs
  deja explain --watch-env HOME env`,
	Version: version.VERSION,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Determine log level based on flags
		level := logLevel
		if quiet {
			level = "error"
		} else if verbose > 0 {
			// -v = info, -vv = debug
			if verbose >= 2 {
				level = "debug"
			} else {
				level = "info"
			}
		} else if level == "" {
			// Default to warn level when no verbose flag is set
			level = "warn"
		}

		// Determine log output destination. Logs default to stderr:
		// stdout belongs to the child's replayed output.
		var output io.Writer
		if logOutput == "" || logOutput == "stderr" {
			output = os.Stderr
		} else {
			// Clean and validate log file path to prevent directory traversal
			cleanPath := filepath.Clean(logOutput)
			absPath, err := filepath.Abs(cleanPath)
			if err != nil {
				return fmt.Errorf("error resolving log file path %s: %w", logOutput, err)
			}

			// Validate the cleaned path matches the resolved absolute path
			if filepath.Clean(absPath) != absPath {
				return fmt.Errorf("invalid log file path: %s", logOutput)
			}

			// Open file for writing (create if not exists, append if exists)
			logFile, err = os.OpenFile(absPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
			if err != nil {
				return fmt.Errorf("error opening log file %s: %w", logOutput, err)
			}
			output = logFile
		}

		// Initialize logger
		logger.Init(level, logFormat, output)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		// Close log file if it was opened
		if logFile != nil {
			if err := logFile.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", err)
			}
			logFile = nil
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// statusError carries an exit status through cobra's error return
// without being a diagnostic. The normal success path of run and read
// reports the child's exit code this way; the other actions report
// their own status (force always 0, test and remove 0 or 1).
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Exit converts an action's status into the error a RunE should
// return: nil for zero, a status-bearing error otherwise.
func Exit(code int) error {
	if code == 0 {
		return nil
	}
	return &statusError{code: code}
}

// Register adds a subcommand to the root command. Subcommand packages
// call this from their init() functions.
func Register(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// GetRootCmd returns the root command instance. This is primarily
// useful for testing and for the completions generator.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// Execute executes the root command and maps its outcome onto the
// process exit code: a recorded or replayed child status is carried
// through unchanged, while a hard failure of the tool itself prints a
// single-line diagnostic to stderr and exits 1.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var status *statusError
	if errors.As(err, &status) {
		os.Exit(status.code)
	}

	fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("deja:"), err)
	os.Exit(1)
}

func init() {
	// Configure Cobra to handle errors gracefully
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	// The completions subcommand replaces cobra's builtin generator.
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Set custom version template to display version, commit, and date information.
	rootCmd.SetVersionTemplate(fmt.Sprintf("deja %s (%s) %s\n", version.VERSION, version.COMMIT, version.DATE))

	// Set custom help template to show Examples after Flags
	rootCmd.SetHelpTemplate(`{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}
{{end}}{{if or .Runnable .HasSubCommands}}{{if .Runnable}}
Usage:
{{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`)

	// Add persistent flags for logging
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set the logging level (debug, info, warn, error). Default: warn (only warnings and errors)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Set the logging format (text, json). Default: text")
	rootCmd.PersistentFlags().StringVar(&logOutput, "log-output", "stderr", "Set the log output destination (stderr or a filename). Default: stderr")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Enable verbose output: -v for info level, -vv for debug level")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output (equivalent to --log-level=error)")
}
