package calibration

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// CubicFeetToCubicMetres converts ft3/s to m3/s.
const CubicFeetToCubicMetres = 0.0283168466

type DischargeAnalysis struct {
	// Yearly mean discharge, m3/s
	Yearly    []YearValue
	Mean, Max float64
	// Smoothed is the centred mean of Yearly at the selected years, m3/s
	Smoothed []YearValue
}

// SuggestedQr0 is the mean smoothed discharge in m3/s.
func (da *DischargeAnalysis) SuggestedQr0() float64 {
	return meanOf(da.Smoothed)
}

// ReadDischarge reads a whitespace separated gauge table with columns
// agency, site, parameter, code, year and discharge in ft3/s. Lines starting
// with # are comments; the first skip remaining lines are headers.
func ReadDischarge(r io.Reader, skip int, sel Selection) (da *DischargeAnalysis, err error) {
	var (
		sc   = bufio.NewScanner(r)
		line int
	)
	da = &DischargeAnalysis{}
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 6 {
			return nil, fmt.Errorf("discharge table line %d: %d columns, need 6", line, len(fields))
		}
		var (
			year int
			q    float64
		)
		if year, err = parseInt(fields[4]); err == nil {
			q, err = strconv.ParseFloat(fields[5], 64)
		}
		if err != nil {
			return nil, fmt.Errorf("discharge table line %d: %w", line, err)
		}
		da.Yearly = append(da.Yearly, YearValue{Year: year, Value: q * CubicFeetToCubicMetres})
	}
	if err = sc.Err(); err != nil {
		return nil, fmt.Errorf("discharge table: %w", err)
	}
	if len(da.Yearly) == 0 {
		return nil, fmt.Errorf("discharge table: no data rows")
	}
	values := make([]float64, len(da.Yearly))
	for i, yv := range da.Yearly {
		values[i] = yv.Value
	}
	da.Mean = meanOf(da.Yearly)
	da.Max = floats.Max(values)
	da.Smoothed = smooth(da.Yearly, sel)
	return
}
