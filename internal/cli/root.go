// Package cli implements the sweep command: batch conversion, inspection
// and directory watching of CSV and Excel files.
package cli

import (
	"io"
	"log/slog"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datasweep/internal/logging"
)

const exampleUsage = `  sweep convert sales.csv q1.xlsx --dedup --fill --format excel --out cleaned/
  sweep convert data/*.csv --recipe recipe.toml
  sweep inspect sales.csv --rows 10
  sweep watch inbox/ --out cleaned/ --recipe recipe.toml`

// app carries state shared by the subcommands.
type app struct {
	logLevel  string
	logFormat string
	logger    *slog.Logger
}

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// NewRootCommand builds the sweep command tree. Results go to the
// command's output; logs go to its error stream.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "sweep",
		Short:         "Clean, inspect and convert CSV and Excel files",
		Example:       exampleUsage,
		Version:       version() + " " + runtime.GOOS + "/" + runtime.GOARCH,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logger = a.newLogger(cmd.ErrOrStderr())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(
		newConvertCommand(a),
		newInspectCommand(a),
		newWatchCommand(a),
	)
	return root
}

func (a *app) newLogger(w io.Writer) *slog.Logger {
	return logging.NewLogger(w, a.logLevel, a.logFormat)
}
