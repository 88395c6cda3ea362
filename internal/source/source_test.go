package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/gyeh/claimstats/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	data := "\xEF\xBB\xBFClaim#, Coverage ,Open Reserves,Days\n" +
		"65-158035-01,BI,\"$1,500.00\",400\n" +
		",,,\n" +
		"65-158035-02,UM\n"

	tbl, err := ReadCSV(context.Background(), strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, tbl.Format)
	assert.Equal(t, []string{"Claim#", "Coverage", "Open Reserves", "Days"}, tbl.Columns)
	assert.Equal(t, int64(1), tbl.BlankRows)
	require.Len(t, tbl.Records, 2)

	assert.Equal(t, "65-158035-01", tbl.Records[0].ClaimNumber())
	assert.Equal(t, "$1,500.00", tbl.Records[0].OpenReserves())
	assert.Equal(t, "UM", tbl.Records[1].Coverage())
	assert.Equal(t, "", tbl.Records[1].OpenReserves())
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoad_CSVMissingRequiredColumn(t *testing.T) {
	path := writeFile(t, "export.csv", "Claimant,Open Reserves\nDoe,100\n")
	_, err := Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Claim#")
	assert.Contains(t, err.Error(), "Coverage")
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "export.json", "{}")
	_, err := Load(context.Background(), path)
	assert.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	for path, want := range map[string]Format{
		"a.csv":         FormatCSV,
		"b.CSV":         FormatCSV,
		"c.xlsx":        FormatXLSX,
		"d.parquet":     FormatParquet,
		"dir/e.PARQUET": FormatParquet,
	} {
		got, err := DetectFormat(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := DetectFormat("f.xls")
	assert.Error(t, err)
}

func TestLoad_XLSX(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Open Exposures")
	require.NoError(t, err)
	for _, cells := range [][]string{
		{"Claim#", "Coverage", "Open Reserves", "Fatality"},
		{"10-2000-01", "BI", "25000", "Yes"},
		{"10-2000-02", "PD", "0", ""},
	} {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}
	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.Save(path))

	tbl, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, tbl.Format)
	require.Len(t, tbl.Records, 2)
	assert.Equal(t, "10-2000-01", tbl.Records[0].ClaimNumber())
	assert.Equal(t, "Yes", tbl.Records[0].Get("Fatality"))
	assert.Equal(t, "PD", tbl.Records[1].Coverage())
}

func TestLoadXLSX_SheetNotFound(t *testing.T) {
	f := xlsx.NewFile()
	_, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.Save(path))

	_, err = LoadXLSX(context.Background(), path, XLSXOptions{SheetName: "Missing"})
	assert.Error(t, err)
}

type parquetExportRow struct {
	ClaimNumber  string  `parquet:"Claim#"`
	Coverage     string  `parquet:"Coverage"`
	OpenReserves float64 `parquet:"Open Reserves"`
	Days         int32   `parquet:"Days"`
	State        *string `parquet:"Accident Location State,optional"`
}

func TestLoad_Parquet(t *testing.T) {
	tx := "TX"
	path := filepath.Join(t.TempDir(), "export.parquet")
	out, err := os.Create(path)
	require.NoError(t, err)

	w := parquet.NewGenericWriter[parquetExportRow](out)
	_, err = w.Write([]parquetExportRow{
		{ClaimNumber: "65-158035-01", Coverage: "BI", OpenReserves: 1500.5, Days: 400, State: &tx},
		{ClaimNumber: "65-158035-02", Coverage: "UM", OpenReserves: 0, Days: 12},
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, out.Close())

	tbl, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, FormatParquet, tbl.Format)
	assert.ElementsMatch(t,
		[]string{"Claim#", "Coverage", "Open Reserves", "Days", "Accident Location State"},
		tbl.Columns)
	require.Len(t, tbl.Records, 2)

	first := tbl.Records[0]
	assert.Equal(t, "65-158035-01", first.ClaimNumber())
	assert.Equal(t, "1500.5", first.OpenReserves())
	assert.Equal(t, "400", first.Days())
	assert.Equal(t, "TX", first.State())
	assert.Equal(t, "", tbl.Records[1].State())
}

func TestCheckColumns(t *testing.T) {
	r := CheckColumns([]string{model.ColClaimNumber, model.ColCoverage, "Notes"})
	assert.Equal(t, []string{model.ColClaimNumber, model.ColCoverage}, r.Present)
	assert.Equal(t, []string{"Notes"}, r.Unknown)
	assert.Len(t, r.Missing, len(model.KnownColumns())-2)
}
