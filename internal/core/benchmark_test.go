package core

import (
	"bytes"
	"fmt"
	"testing"
)

// ============================================================================
// Fixtures
// ============================================================================

// benchCSV builds a CSV with a text column, two numeric columns, every
// tenth row repeated and every seventh amount missing.
func benchCSV(rows int) []byte {
	var buf bytes.Buffer
	buf.WriteString("id,region,amount,qty\n")
	for i := 0; i < rows; i++ {
		id := i
		if i%10 == 9 {
			id = i - 1
		}
		amount := fmt.Sprintf("%d.%02d", id*3, id%100)
		if id%7 == 0 {
			amount = ""
		}
		fmt.Fprintf(&buf, "%d,region-%d,%s,%d\n", id, id%5, amount, id%13)
	}
	return buf.Bytes()
}

// ============================================================================
// Loader Benchmarks
// ============================================================================

// BenchmarkParseCell benchmarks cell classification, the hot path of loading.
func BenchmarkParseCell(b *testing.B) {
	inputs := []string{"12345", "-456.78", "1.5e3", "region-4", "", "NaN"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, s := range inputs {
			ParseCell(s)
		}
	}
}

func BenchmarkLoadCSV_10k(b *testing.B) {
	file := NewUploadedFile("bench.csv", benchCSV(10000))

	b.SetBytes(file.Size)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(file); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// Cleaner Benchmarks
// ============================================================================

func BenchmarkRemoveDuplicates_10k(b *testing.B) {
	tbl := mustLoadCSV(b, "bench.csv", string(benchCSV(10000)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		RemoveDuplicates(tbl)
	}
}

func BenchmarkFillMissingNumeric_10k(b *testing.B) {
	tbl := mustLoadCSV(b, "bench.csv", string(benchCSV(10000)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		FillMissingNumeric(tbl)
	}
}

// ============================================================================
// Exporter Benchmarks
// ============================================================================

func BenchmarkExportCSV_10k(b *testing.B) {
	tbl := mustLoadCSV(b, "bench.csv", string(benchCSV(10000)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Export(tbl, FormatCSV, "bench.csv", ".csv"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkExportExcel_10k(b *testing.B) {
	tbl := mustLoadCSV(b, "bench.csv", string(benchCSV(10000)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Export(tbl, FormatExcel, "bench.csv", ".csv"); err != nil {
			b.Fatal(err)
		}
	}
}
