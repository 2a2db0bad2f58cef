package dataset

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjstillabower/climate-trends-service/internal/noise"
	"github.com/kjstillabower/climate-trends-service/internal/testhelpers"
)

func readFrame(t *testing.T, csv string) dataframe.DataFrame {
	t.Helper()
	df := dataframe.ReadCSV(strings.NewReader(csv))
	require.NoError(t, df.Err)
	return df
}

func TestLoad_ReadsTypedColumns(t *testing.T) {
	dir := testhelpers.WriteDataDir(t, testhelpers.Datasets{"AGRA.csv": testhelpers.YearlyCSV})

	df, err := Load(dir + "/AGRA.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"Year", "Temperature"}, df.Names())
	assert.Equal(t, 3, df.Nrow())
}

func TestLoad_HeaderOnlyFails(t *testing.T) {
	dir := testhelpers.WriteDataDir(t, testhelpers.Datasets{"EMPTY.csv": "Year,Temperature\n"})

	_, err := Load(dir + "/EMPTY.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMPTY.csv")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.TempDir() + "/NOPE.csv")
	require.Error(t, err)
}

func TestLoad_PaddedNumericCells(t *testing.T) {
	dir := testhelpers.WriteDataDir(t, testhelpers.Datasets{
		"SPACED.csv": "Year,Temperature\n2000, 10.5\n2001, 11.5 \n",
	})

	df, err := Load(dir + "/SPACED.csv")
	require.NoError(t, err)
	tbl, err := Normalize(df, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2000, 2001}, tbl.Years)
	assert.Equal(t, []float64{10.5, 11.5}, tbl.Temperatures)
}

func TestLoad_PaddedCellsKeepNumericFallback(t *testing.T) {
	dir := testhelpers.WriteDataDir(t, testhelpers.Datasets{
		"KOTA.csv": "Station,Tavg\nK, 30.5\nK, 31.0\n",
	})

	df, err := Load(dir + "/KOTA.csv")
	require.NoError(t, err)
	tbl, err := Normalize(df, nil)
	require.NoError(t, err)
	assert.Equal(t, "Tavg", tbl.TemperatureSource)
	assert.Equal(t, []float64{30.5, 31.0}, tbl.Temperatures)
}

func TestLoad_HeaderNamesNotTrimmed(t *testing.T) {
	dir := testhelpers.WriteDataDir(t, testhelpers.Datasets{
		"PUNE.csv": "Year, Temperature\n2000,10.5\n",
	})

	df, err := Load(dir + "/PUNE.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"Year", " Temperature"}, df.Names())
}

func TestNormalize_UsesExistingColumns(t *testing.T) {
	df := readFrame(t, testhelpers.YearlyCSV)

	tbl, err := Normalize(df, noise.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	assert.Equal(t, []int{2000, 2001, 2002}, tbl.Years)
	assert.Equal(t, []float64{10, 11, 9}, tbl.Temperatures)
	assert.False(t, tbl.YearsSynthesized)
	assert.Equal(t, TemperatureColumn, tbl.TemperatureSource)
}

func TestNormalize_IntegerTemperatureColumn(t *testing.T) {
	df := readFrame(t, "Year,Temperature\n1990,21\n1991,22\n")

	tbl, err := Normalize(df, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{21, 22}, tbl.Temperatures)
}

func TestNormalize_MissingYearAndTemperatureUsesFirstNumericColumn(t *testing.T) {
	df := readFrame(t, "Station,Tavg,Tmax\nX,25.5,30.1\nX,26.0,31.0\nX,24.75,29.9\n")

	tbl, err := Normalize(df, noise.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	assert.Equal(t, []float64{25.5, 26.0, 24.75}, tbl.Temperatures)
	assert.Equal(t, "Tavg", tbl.TemperatureSource)

	// Year is always 1970..2020 when synthesized, even though the file has 3 rows.
	assert.True(t, tbl.YearsSynthesized)
	require.Len(t, tbl.Years, 51)
	assert.Equal(t, 1970, tbl.Years[0])
	assert.Equal(t, 2020, tbl.Years[50])
	assert.Len(t, tbl.Temperatures, 3)
}

func TestNormalize_RealYearCanBeFirstNumericColumn(t *testing.T) {
	df := readFrame(t, "Year,Station\n2001,A\n2002,B\n")

	tbl, err := Normalize(df, nil)
	require.NoError(t, err)
	assert.Equal(t, YearColumn, tbl.TemperatureSource)
	assert.Equal(t, []float64{2001, 2002}, tbl.Temperatures)
}

func TestNormalize_BoolColumnIsNotNumeric(t *testing.T) {
	df := readFrame(t, "Flag,Value\ntrue,1.5\nfalse,2.5\n")

	tbl, err := Normalize(df, nil)
	require.NoError(t, err)
	assert.Equal(t, "Value", tbl.TemperatureSource)
}

func TestNormalize_SynthesizesTemperatureWithoutNumericColumns(t *testing.T) {
	rows := "Station\n" + strings.Repeat("S\n", 60)
	df := readFrame(t, rows)

	tbl, err := Normalize(df, noise.New(rand.NewPCG(9, 9)))
	require.NoError(t, err)
	assert.Empty(t, tbl.TemperatureSource)
	require.Len(t, tbl.Temperatures, 60)
	for i, v := range tbl.Temperatures {
		base := 20 + 0.02*float64(i)
		assert.InDelta(t, base, v, 6, "row %d", i)
	}

	again, err := Normalize(df, noise.New(rand.NewPCG(9, 9)))
	require.NoError(t, err)
	assert.Equal(t, tbl.Temperatures, again.Temperatures)
}

func TestNormalize_NonNumericTemperatureFails(t *testing.T) {
	df := readFrame(t, "Year,Temperature\n2000,warm\n2001,cold\n")

	_, err := Normalize(df, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Temperature")
}

func TestNormalize_NonIntegerYearFails(t *testing.T) {
	df := readFrame(t, "Year,Temperature\nfirst,1.0\nsecond,2.0\n")

	_, err := Normalize(df, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Year")
}

func TestSyntheticYears(t *testing.T) {
	years := SyntheticYears()
	require.Len(t, years, 51)
	for i, y := range years {
		assert.Equal(t, 1970+i, y)
	}
}
