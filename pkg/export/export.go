// Package export writes enriched flights as tables.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/franciscopereira987/opensky-flights/pkg/store"
	"github.com/franciscopereira987/opensky-flights/pkg/typing"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Writer serializes a set of flights.
type Writer interface {
	Write(flights []typing.Flight) error
}

// CSVWriter writes a header row followed by one row per flight.
type CSVWriter struct {
	w *csv.Writer
}

func CSV(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

func (cw *CSVWriter) Write(flights []typing.Flight) error {
	if err := cw.w.Write(typing.FlightFields); err != nil {
		return err
	}
	for i := range flights {
		if err := cw.w.Write(flights[i].AsRecord()); err != nil {
			return err
		}
	}
	cw.w.Flush()
	return cw.w.Error()
}

// JSONWriter writes an array of objects keyed by column name.
type JSONWriter struct {
	enc *json.Encoder
}

func JSON(w io.Writer) *JSONWriter {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &JSONWriter{enc: enc}
}

func (jw *JSONWriter) Write(flights []typing.Flight) error {
	if flights == nil {
		flights = []typing.Flight{}
	}
	return jw.enc.Encode(flights)
}

// Formats supported by ToFile, by file extension.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// FormatOf returns the export format implied by the extension of path.
func FormatOf(path string) (string, error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch format {
	case FormatCSV, FormatXLSX, FormatJSON:
		return format, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// ToFile writes flights to path, choosing the format from its extension.
// The file only appears under path once it is complete.
func ToFile(path string, flights []typing.Flight) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	f, err := store.Create(path)
	if err != nil {
		return err
	}

	var w Writer
	switch format {
	case FormatCSV:
		w = CSV(f)
	case FormatXLSX:
		w = XLSX(f, DefaultSheet)
	default:
		w = JSON(f)
	}
	if err := w.Write(flights); err != nil {
		f.Abort()
		return err
	}
	return f.Commit()
}
