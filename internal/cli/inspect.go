package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datasweep/internal/core"
)

func newInspectCommand(a *app) *cobra.Command {
	var rows, chartLimit int

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print a file's summary, column profile, preview and chart columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			file := core.NewUploadedFile(filepath.Base(args[0]), data)
			t, err := core.Load(file)
			if err != nil {
				return err
			}
			a.logger.Debug("loaded", "file", args[0], "rows", t.NumRows(), "columns", t.NumCols())

			return writeInspection(cmd.OutOrStdout(), file, t, rows, chartLimit)
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", core.DefaultPreviewRows, "preview rows")
	cmd.Flags().IntVar(&chartLimit, "chart-limit", core.DefaultChartLimit, "numeric columns to chart")
	return cmd
}

func writeInspection(w io.Writer, file core.UploadedFile, t *core.Table, rows, chartLimit int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	sum := core.Describe(file, t)
	fmt.Fprintf(tw, "File:\t%s\n", sum.Filename)
	fmt.Fprintf(tw, "Size:\t%s KB\n", strconv.FormatFloat(sum.SizeKB, 'f', 2, 64))
	fmt.Fprintf(tw, "Rows:\t%d\n", sum.Rows)
	fmt.Fprintf(tw, "Columns:\t%d\n", sum.Columns)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(tw, "COLUMN\tTYPE\tCOUNT\tMISSING\tMIN\tMAX\tMEAN")
	for _, p := range core.Profile(t) {
		kind := "text"
		if p.Numeric {
			kind = "numeric"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			p.Name, kind, p.Count, p.Missing, optional(p.Min), optional(p.Max), optional(p.Mean))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	preview := core.Preview(t, rows)
	fmt.Fprintf(w, "\nPreview (%d of %d rows)\n", preview.NumRows(), t.NumRows())
	if preview.NumCols() > 0 {
		fmt.Fprintln(tw, strings.Join(preview.Columns(), "\t"))
		for r := 0; r < preview.NumRows(); r++ {
			cells := make([]string, preview.NumCols())
			for c, v := range preview.Row(r) {
				cells[c] = v.String()
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	chart := core.NumericSummary(t, chartLimit)
	fmt.Fprintln(w, "\nChart")
	if chart.Empty {
		fmt.Fprintln(w, chart.Message)
		return nil
	}
	_, err := fmt.Fprintln(w, strings.Join(chart.Columns(), ", "))
	return err
}

func optional(f *float64) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(*f, 'g', 6, 64)
}
