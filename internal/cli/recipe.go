package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/JonMunkholm/datasweep/internal/core"
)

// recipeFlags are the cleaning options shared by convert and watch.
type recipeFlags struct {
	file    string
	format  string
	dedup   bool
	fill    bool
	columns []string
}

func (f *recipeFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.file, "recipe", "", "TOML recipe file; flags override its values")
	fs.StringVar(&f.format, "format", "csv", "output format: csv or excel")
	fs.BoolVar(&f.dedup, "dedup", false, "remove duplicate rows, keeping the first")
	fs.BoolVar(&f.fill, "fill", false, "fill missing numeric cells with the column mean")
	fs.StringSliceVar(&f.columns, "columns", nil, "columns to keep, in file order (default all)")
}

// LoadRecipeFile reads a TOML recipe. Keys it does not set keep their
// defaults; unknown keys are an error.
func LoadRecipeFile(path string) (core.Recipe, error) {
	r := core.DefaultRecipe()

	b, err := os.ReadFile(path)
	if err != nil {
		return r, err
	}
	dec := toml.NewDecoder(bytes.NewReader(b)).DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return r, fmt.Errorf("parse %s: %w", path, err)
	}

	if r.Format, err = core.ParseExportFormat(string(r.Format)); err != nil {
		return r, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// resolve builds the recipe: defaults, then the recipe file, then any flag
// set on the command line.
func (f *recipeFlags) resolve(cmd *cobra.Command) (core.Recipe, error) {
	r := core.DefaultRecipe()
	if f.file != "" {
		var err error
		if r, err = LoadRecipeFile(f.file); err != nil {
			return r, err
		}
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(fl *pflag.Flag) { changed[fl.Name] = true })

	if changed["format"] || f.file == "" {
		format, err := core.ParseExportFormat(f.format)
		if err != nil {
			return r, err
		}
		r.Format = format
	}
	if changed["dedup"] {
		r.RemoveDuplicates = f.dedup
	}
	if changed["fill"] {
		r.FillMissing = f.fill
	}
	if changed["columns"] {
		r.Columns = make([]string, 0, len(f.columns))
		for _, c := range f.columns {
			if c = strings.TrimSpace(c); c != "" {
				r.Columns = append(r.Columns, c)
			}
		}
	}
	return r, nil
}
