package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

type Format uint8

const (
	FormatJSON Format = iota
	FormatCSV
)

var FormatNameMap = map[string]Format{
	"json": FormatJSON,
	"csv":  FormatCSV,
}

func NewFormat(label string) (f Format, err error) {
	var ok bool
	if f, ok = FormatNameMap[label]; !ok {
		err = fmt.Errorf("unsupported output format %q, use json or csv", label)
	}
	return
}

// Write dispatches on f; stride only applies to tabular output.
func (r *Record) Write(w io.Writer, f Format, stride int) error {
	switch f {
	case FormatCSV:
		return r.WriteCSV(w, stride)
	default:
		return r.WriteJSON(w)
	}
}

func (r *Record) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode run %s: %w", r.RunID, err)
	}
	return nil
}

// WriteCSV writes one row per reported year, every stride years plus the
// final year. Series shorter than the year axis leave the trailing cells
// empty.
func (r *Record) WriteCSV(w io.Writer, stride int) (err error) {
	cw := csv.NewWriter(w)
	header := make([]string, len(r.Series))
	for j, f := range r.Series {
		header[j] = f.Name
	}
	if err = cw.Write(header); err != nil {
		return
	}
	row := make([]string, len(r.Series))
	for _, i := range ReportedYears(r.Years, stride) {
		for j, f := range r.Series {
			row[j] = ""
			if i < len(f.Values) {
				row[j] = strconv.FormatFloat(f.Values[i], 'g', -1, 64)
			}
		}
		if err = cw.Write(row); err != nil {
			return
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReportedYears is the year index of every reported row.
func ReportedYears(years, stride int) (idx []int) {
	if stride < 1 {
		stride = 1
	}
	for i := 0; i <= years; i += stride {
		idx = append(idx, i)
	}
	if years%stride != 0 {
		idx = append(idx, years)
	}
	return
}
