package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datasweep/internal/core"
)

var errOverwrite = errors.New("output would overwrite its input")

// outcome is the result of converting one file.
type outcome struct {
	Input   string
	Output  string
	Rows    int
	Columns int
	Err     error
}

// converter loads files through a Service and writes each cleaned export.
type converter struct {
	svc    *core.Service
	outDir string // empty writes next to each input
	logger *slog.Logger
}

func newConverter(recipe core.Recipe, outDir string, logger *slog.Logger) *converter {
	return &converter{
		svc:    core.NewService(core.Options{Defaults: &recipe}),
		outDir: outDir,
		logger: logger,
	}
}

// run converts every path. A failure is recorded on that path's outcome
// and never stops the others. Outcomes are in input order.
func (c *converter) run(ctx context.Context, paths []string) []outcome {
	outcomes := make([]outcome, len(paths))

	var (
		files []core.UploadedFile
		index []int
	)
	for i, p := range paths {
		outcomes[i].Input = p
		data, err := os.ReadFile(p)
		if err != nil {
			outcomes[i].Err = err
			continue
		}
		files = append(files, core.NewUploadedFile(filepath.Base(p), data))
		index = append(index, i)
	}

	for j, res := range c.svc.Ingest(ctx, files) {
		i := index[j]
		if res.Err != nil {
			outcomes[i].Err = res.Err
			continue
		}
		outcomes[i] = c.write(ctx, paths[i], res.Workspace)
	}

	for _, o := range outcomes {
		if o.Err != nil {
			c.logger.Warn("convert failed", "input", o.Input, "error", o.Err)
		} else {
			c.logger.Info("converted", "input", o.Input, "output", o.Output, "rows", o.Rows, "columns", o.Columns)
		}
	}
	return outcomes
}

func (c *converter) write(ctx context.Context, input string, ws *core.Workspace) outcome {
	defer c.svc.Remove(ws.ID)

	o := outcome{Input: input}
	art, err := c.svc.Export(ctx, ws.ID, "")
	if err != nil {
		o.Err = err
		return o
	}

	dir := c.outDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	o.Output = filepath.Join(dir, art.Filename)
	if samePath(o.Output, input) {
		o.Err = fmt.Errorf("%w: %s", errOverwrite, o.Output)
		return o
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		o.Err = err
		return o
	}
	if err := os.WriteFile(o.Output, art.Data, 0o644); err != nil {
		o.Err = err
		return o
	}

	view := ws.Result().Table
	o.Rows, o.Columns = view.NumRows(), view.NumCols()
	return o
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// printOutcome writes one line per file.
func printOutcome(w io.Writer, o outcome) {
	if o.Err == nil {
		fmt.Fprintf(w, "ok    %s -> %s (%d rows, %d columns)\n", o.Input, o.Output, o.Rows, o.Columns)
		return
	}
	msg := o.Err.Error()
	if core.IsUserFacing(o.Err) {
		msg = core.FormatUserError(o.Err)
	}
	fmt.Fprintf(w, "FAIL  %s: %s\n", o.Input, msg)
}

func newConvertCommand(a *app) *cobra.Command {
	var (
		flags  recipeFlags
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "convert FILE...",
		Short: "Clean and convert files; each file succeeds or fails on its own",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipe, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			c := newConverter(recipe, outDir, a.logger)
			failed := 0
			for _, o := range c.run(cmd.Context(), args) {
				printOutcome(cmd.OutOrStdout(), o)
				if o.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: next to each input)")
	return cmd
}
