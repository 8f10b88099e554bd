package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/franciscopereira987/opensky-flights/pkg/typing"
)

const (
	DefaultSheet = "flights"
	defaultSheet = "Sheet1"
)

// XLSXWriter writes flights into a single sheet of a new workbook. Distances
// are stored as numbers, absent values as empty cells.
type XLSXWriter struct {
	w     io.Writer
	sheet string
}

func XLSX(w io.Writer, sheet string) *XLSXWriter {
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &XLSXWriter{w: w, sheet: sheet}
}

func (xw *XLSXWriter) Write(flights []typing.Flight) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(defaultSheet, xw.sheet)

	header := make([]any, len(typing.FlightFields))
	for i, field := range typing.FlightFields {
		header[i] = field
	}
	if err := xw.setRow(f, 1, header); err != nil {
		return err
	}
	for i := range flights {
		if err := xw.setRow(f, i+2, flights[i].AsValues()); err != nil {
			return err
		}
	}
	return f.Write(xw.w)
}

func (xw *XLSXWriter) setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(xw.sheet, cell, &values)
}
