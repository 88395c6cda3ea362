package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"reflect"

	goparquet "github.com/parquet-go/parquet-go"
	"github.com/tealeg/xlsx/v2"

	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/source"
)

// exportRow is the Parquet layout of a claims export. Every column is kept
// as text, as the upstream generator writes it.
type exportRow struct {
	ClaimNumber          string `parquet:"Claim#"`
	Claimant             string `parquet:"Claimant"`
	Coverage             string `parquet:"Coverage"`
	ExposureCategory     string `parquet:"Exposure Category"`
	TypeGroup            string `parquet:"Type Group"`
	Days                 string `parquet:"Days"`
	Age                  string `parquet:"Age"`
	OpenReserves         string `parquet:"Open Reserves"`
	Low                  string `parquet:"Low"`
	High                 string `parquet:"High"`
	OverallCP1           string `parquet:"Overall CP1 Flag"`
	ExposureCP1          string `parquet:"Exposure CP1 Flag"`
	ClaimCP1             string `parquet:"Claim CP1 Flag"`
	EvaluationPhase      string `parquet:"Evaluation Phase"`
	DemandType           string `parquet:"Demand Type"`
	Team                 string `parquet:"Team"`
	Adjuster             string `parquet:"Adjuster"`
	BIStatus             string `parquet:"BI Status"`
	DaysSinceNegotiation string `parquet:"Days Since Negotiation Date"`
	InLitigation         string `parquet:"In Litigation"`
	State                string `parquet:"Accident Location State"`
	Fatality             string `parquet:"Fatality"`
	Surgery              string `parquet:"Surgery"`
	Hospitalization      string `parquet:"Hospitalization"`
	MedsVsLimits         string `parquet:"Meds vs Limits"`
	LossOfConsciousness  string `parquet:"Loss of Consciousness"`
	LifeCarePlanner      string `parquet:"Life Care Planner"`
	Injections           string `parquet:"Injections"`
	EmergencyRoom        string `parquet:"Emergency Room"`
	Ambulance            string `parquet:"Ambulance"`
	Fractures            string `parquet:"Fractures"`
	BrainInjury          string `parquet:"Brain Injury"`
	SpinalInjury         string `parquet:"Spinal Injury"`
	PermanentImpairment  string `parquet:"Permanent Impairment"`
	Scarring             string `parquet:"Scarring"`
	LostWages            string `parquet:"Lost Wages"`
	Pregnancy            string `parquet:"Pregnancy"`
	MinorClaimant        string `parquet:"Minor Claimant"`
}

func toExportRow(raw model.RawRecord) exportRow {
	var row exportRow
	v := reflect.ValueOf(&row).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		v.Field(i).SetString(raw.Get(t.Field(i).Tag.Get("parquet")))
	}
	return row
}

// writeExport writes rows in the format implied by the path's extension,
// with the known columns as the header.
func writeExport(path string, rows []model.RawRecord) error {
	format, err := source.DetectFormat(path)
	if err != nil {
		return err
	}
	columns := model.KnownColumns()

	switch format {
	case source.FormatXLSX:
		f := xlsx.NewFile()
		sheet, err := f.AddSheet("Claims")
		if err != nil {
			return fmt.Errorf("add sheet: %w", err)
		}
		addRow(sheet, columns)
		for _, raw := range rows {
			addRow(sheet, rowCells(raw, columns))
		}
		return f.Save(path)

	case source.FormatParquet:
		out, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer out.Close()
		buf := make([]exportRow, len(rows))
		for i, raw := range rows {
			buf[i] = toExportRow(raw)
		}
		writer := goparquet.NewGenericWriter[exportRow](out)
		if _, err := writer.Write(buf); err != nil {
			return err
		}
		if err := writer.Close(); err != nil {
			return fmt.Errorf("close writer: %w", err)
		}
		return out.Close()

	default:
		out, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer out.Close()
		w := csv.NewWriter(out)
		if err := w.Write(columns); err != nil {
			return err
		}
		for _, raw := range rows {
			if err := w.Write(rowCells(raw, columns)); err != nil {
				return err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
		return out.Close()
	}
}

func rowCells(raw model.RawRecord, columns []string) []string {
	cells := make([]string, len(columns))
	for i, c := range columns {
		cells[i] = raw.Get(c)
	}
	return cells
}

func addRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, v := range cells {
		row.AddCell().SetString(v)
	}
}
