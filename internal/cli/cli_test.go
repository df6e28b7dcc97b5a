package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/datasweep/internal/core"
)

const salesCSV = "a,b\n1,\n2,4\n1,\n"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	return p
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConvert_PartialFailure(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	data := writeFile(t, in, "data.csv", salesCSV)
	pdf := writeFile(t, in, "report.pdf", "%PDF-1.4")
	missing := filepath.Join(in, "missing.csv")

	stdout, err := execute(t, "convert", pdf, data, missing, "--dedup", "--fill", "--out", out)
	require.Error(t, err)
	assert.Equal(t, "2 of 3 files failed", err.Error())

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "FAIL  "+pdf))
	assert.Contains(t, lines[0], "FILE006")
	assert.True(t, strings.HasPrefix(lines[1], "ok    "+data))
	assert.Contains(t, lines[1], "(2 rows, 2 columns)")
	assert.True(t, strings.HasPrefix(lines[2], "FAIL  "+missing))

	assert.Equal(t, "a,b\n1,4\n2,4\n", readFile(t, filepath.Join(out, "data.csv")))
}

func TestConvert_Excel(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	data := writeFile(t, in, "data.v1.csv", salesCSV)

	_, err := execute(t, "convert", data, "--format", "excel", "--out", out)
	require.NoError(t, err)

	f, err := excelize.OpenFile(filepath.Join(out, "data.v1.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"a", "b"}, rows[0])
}

func TestConvert_RefusesToOverwriteInput(t *testing.T) {
	in := t.TempDir()
	data := writeFile(t, in, "data.csv", salesCSV)

	stdout, err := execute(t, "convert", data)
	require.Error(t, err)
	assert.Contains(t, stdout, "overwrite")
	assert.Equal(t, salesCSV, readFile(t, data))
}

func TestConvert_NextToInput(t *testing.T) {
	in := t.TempDir()
	data := writeFile(t, in, "data.csv", salesCSV)

	_, err := execute(t, "convert", data, "--format", "xlsx")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(in, "data.xlsx"))
}

func TestConvert_RecipeFileAndOverrides(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	data := writeFile(t, in, "data.csv", salesCSV)
	recipe := writeFile(t, in, "recipe.toml", `
remove_duplicates = true
format = "excel"
columns = ["a"]
`)

	_, err := execute(t, "convert", data, "--recipe", recipe, "--format", "csv", "--out", out)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n2\n", readFile(t, filepath.Join(out, "data.csv")))

	_, err = execute(t, "convert", data, "--recipe", recipe, "--columns", "a,b", "--dedup=false", "--out", out)
	require.NoError(t, err)

	f, err := excelize.OpenFile(filepath.Join(out, "data.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	assert.Len(t, rows, 4, "header plus three rows with dedup overridden off")
}

func TestLoadRecipeFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("defaults for absent keys", func(t *testing.T) {
		r, err := LoadRecipeFile(writeFile(t, dir, "fill.toml", "fill_missing = true\n"))
		require.NoError(t, err)
		assert.True(t, r.FillMissing)
		assert.False(t, r.RemoveDuplicates)
		assert.Nil(t, r.Columns)
		assert.Equal(t, core.FormatCSV, r.Format)
		assert.Equal(t, core.DefaultPreviewRows, r.PreviewRows)
	})

	t.Run("format is normalised", func(t *testing.T) {
		r, err := LoadRecipeFile(writeFile(t, dir, "xlsx.toml", `format = "XLSX"`+"\n"))
		require.NoError(t, err)
		assert.Equal(t, core.FormatExcel, r.Format)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadRecipeFile(writeFile(t, dir, "bad.toml", "sort_by = \"a\"\n"))
		assert.Error(t, err)
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := LoadRecipeFile(writeFile(t, dir, "pdf.toml", `format = "pdf"`+"\n"))
		assert.ErrorIs(t, err, core.ErrInvalidFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRecipeFile(filepath.Join(dir, "nope.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestConvert_BadFormatFlag(t *testing.T) {
	data := writeFile(t, t.TempDir(), "data.csv", salesCSV)
	_, err := execute(t, "convert", data, "--format", "pdf")
	assert.ErrorIs(t, err, core.ErrInvalidFormat)
}

func TestInspect(t *testing.T) {
	data := writeFile(t, t.TempDir(), "sales.csv", "name,qty,price\nann,1,2.5\nbob,,3\ncat,4,1\n")

	stdout, err := execute(t, "inspect", data, "--rows", "2", "--chart-limit", "1")
	require.NoError(t, err)

	assert.Contains(t, stdout, "sales.csv")
	assert.Contains(t, stdout, "COLUMN")
	assert.Regexp(t, `qty\s+numeric\s+2\s+1`, stdout)
	assert.Regexp(t, `name\s+text\s+3\s+0`, stdout)
	assert.Contains(t, stdout, "Preview (2 of 3 rows)")
	assert.NotContains(t, stdout, "cat")
	assert.True(t, strings.HasSuffix(stdout, "Chart\nqty\n"))
}

func TestInspect_NoNumericData(t *testing.T) {
	data := writeFile(t, t.TempDir(), "names.csv", "name\nann\n")

	stdout, err := execute(t, "inspect", data)
	require.NoError(t, err)
	assert.Contains(t, stdout, core.NoNumericData)
}

func TestInspect_Unsupported(t *testing.T) {
	data := writeFile(t, t.TempDir(), "notes.txt", "hello")
	_, err := execute(t, "inspect", data)
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
}

func TestWatch_ConvertsNewFiles(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()

	var stdout bytes.Buffer
	d := newDirWatcher(newConverter(core.Recipe{RemoveDuplicates: true, Format: core.FormatCSV}, out, discardLogger()), &stdout)
	d.delay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx, in) }()

	target := filepath.Join(out, "data.csv")
	assert.Eventually(t, func() bool {
		writeFile(t, in, "notes.txt", "ignored")
		writeFile(t, in, "data.csv", salesCSV)
		_, err := os.Stat(target)
		return err == nil
	}, 5*time.Second, 300*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	assert.Equal(t, "a,b\n1,\n2,4\n", readFile(t, target))
	assert.Contains(t, stdout.String(), "ok    ")
	assert.NoFileExists(t, filepath.Join(out, "notes.txt"))
}

func TestWatch_RejectsSameDirectory(t *testing.T) {
	dir := t.TempDir()
	d := newDirWatcher(newConverter(core.DefaultRecipe(), dir, discardLogger()), io.Discard)
	assert.ErrorIs(t, d.Run(context.Background(), dir), errWatchOutput)

	_, err := execute(t, "watch", dir)
	assert.Error(t, err, "--out is required")
}
