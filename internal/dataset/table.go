package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/kjstillabower/climate-trends-service/internal/noise"
)

const (
	YearColumn        = "Year"
	TemperatureColumn = "Temperature"

	firstSyntheticYear = 1970
	lastSyntheticYear  = 2020

	syntheticBaseTemp = 20.0
	syntheticStep     = 0.02
	syntheticNoise    = 1.0
)

// Table is a normalized per-city dataset.
//
// When the file has no Year column, Years is always 1970..2020 (51 values) no matter how
// many rows the file has, so Years and Temperatures can differ in length.
type Table struct {
	Years        []int
	Temperatures []float64

	Columns           []string
	YearsSynthesized  bool
	TemperatureSource string // column copied into Temperatures; empty when synthesized
}

// Load reads a CSV file into a data frame with per-column type detection. Data cells are
// trimmed first so "2000, 10.5" detects as numeric; header names are kept as written.
func Load(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(records) > 1 {
		trimCells(records[1:])
	}

	df := dataframe.LoadRecords(records)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read %s: %w", filepath.Base(path), df.Err)
	}
	return df, nil
}

func trimCells(rows [][]string) {
	for _, row := range rows {
		for i, cell := range row {
			row[i] = strings.TrimSpace(cell)
		}
	}
}

// Normalize extracts Year and Temperature series from df, filling missing columns:
// Year falls back to 1970..2020; Temperature falls back to the first numeric column, then
// to 20 + 0.02*i + N(0, 1) per row drawn from g.
func Normalize(df dataframe.DataFrame, g *noise.Gaussian) (Table, error) {
	names := df.Names()
	t := Table{Columns: names}

	if hasColumn(names, YearColumn) {
		years, err := df.Col(YearColumn).Int()
		if err != nil {
			return Table{}, fmt.Errorf("column %s: %w", YearColumn, err)
		}
		t.Years = years
	} else {
		t.Years = SyntheticYears()
		t.YearsSynthesized = true
	}

	if hasColumn(names, TemperatureColumn) {
		col := df.Col(TemperatureColumn)
		if !isNumeric(col) {
			return Table{}, fmt.Errorf("column %s: not numeric (%s)", TemperatureColumn, col.Type())
		}
		t.Temperatures = col.Float()
		t.TemperatureSource = TemperatureColumn
		return t, nil
	}

	for _, name := range names {
		if col := df.Col(name); isNumeric(col) {
			t.Temperatures = col.Float()
			t.TemperatureSource = name
			return t, nil
		}
	}

	rows := df.Nrow()
	t.Temperatures = make([]float64, rows)
	for i := range t.Temperatures {
		t.Temperatures[i] = syntheticBaseTemp + syntheticStep*float64(i) + g.Sample(0, syntheticNoise)
	}
	return t, nil
}

// SyntheticYears returns 1970..2020 inclusive.
func SyntheticYears() []int {
	years := make([]int, 0, lastSyntheticYear-firstSyntheticYear+1)
	for y := firstSyntheticYear; y <= lastSyntheticYear; y++ {
		years = append(years, y)
	}
	return years
}

func hasColumn(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func isNumeric(s series.Series) bool {
	return s.Type() == series.Int || s.Type() == series.Float
}
