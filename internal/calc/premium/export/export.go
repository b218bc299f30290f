package export

import (
	"fmt"

	"Illuminate/internal/calc/efficacy"
	"Illuminate/internal/room"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Efficacy"

var header = []interface{}{
	"Species",
	"k [cm2/mJ]",
	"eACH-UV",
	"CADR-UV [cfm]",
	"CADR-UV [lps]",
	"Reference",
}

// EfficacyWorkbook lays the disinfection table out as a single sheet with a
// summary block below the rows. The caller closes the file.
func EfficacyWorkbook(table efficacy.Table, r *room.Room) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, err
	}
	if err := write(f, table, r); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func write(f *excelize.File, table efficacy.Table, r *room.Room) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return err
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{row.Species, row.K, row.EACH, row.CADRCFM, row.CADRLPS, row.Reference}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return err
		}
	}

	next := len(table.Rows) + 3
	summary := [][]interface{}{
		{"Average fluence [uW/cm2]", table.AvgFluence},
		{"Room volume [ft3]", efficacy.VolumeCubicFeet(r)},
		{"Wavelength [nm]", efficacy.Wavelength},
	}
	for i, values := range summary {
		cell := fmt.Sprintf("A%d", next+i)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 32); err != nil {
		return err
	}
	return f.SetColWidth(SheetName, "F", "F", 60)
}
