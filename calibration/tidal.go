package calibration

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type TidalAnalysis struct {
	// Range is the midpoint of the extreme daily values, mm
	Range float64
	// Yearly is the mean of the monthly min/max midpoints, mm
	Yearly []YearValue
	// Trend line of Yearly, mm and mm/yr
	Intercept, Slope float64
	// Smoothed is the centred mean of Yearly at the selected years, mm
	Smoothed []YearValue
}

// SuggestedDH is the mean smoothed tidal range in metres.
func (ta *TidalAnalysis) SuggestedDH() float64 {
	return meanOf(ta.Smoothed) / 1000
}

// ReadTidal reads daily water levels as Year,month,day,value[mm] rows, no
// header. Negative values mark missing data and are dropped.
func ReadTidal(r io.Reader, sel Selection) (ta *TidalAnalysis, err error) {
	var (
		cr      = csv.NewReader(r)
		monthly = make(map[int][2]float64) // year*100+month -> min, max
		days    []float64
		line    int
	)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true
	for {
		var rec []string
		rec, err = cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("tidal record: %w", err)
		}
		var (
			year, month int
			val         float64
		)
		if year, err = parseInt(rec[0]); err == nil {
			if month, err = parseInt(rec[1]); err == nil {
				val, err = strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("tidal record line %d: %w", line, err)
		}
		if month < 1 || month > 12 {
			return nil, fmt.Errorf("tidal record line %d: month %d", line, month)
		}
		if val < 0 {
			continue
		}
		days = append(days, val)
		key := year*100 + month
		mm, ok := monthly[key]
		if !ok {
			mm = [2]float64{val, val}
		}
		mm[0], mm[1] = min(mm[0], val), max(mm[1], val)
		monthly[key] = mm
	}
	err = nil
	if len(days) == 0 {
		return nil, fmt.Errorf("tidal record: no valid values")
	}
	ta = &TidalAnalysis{Range: (floats.Max(days) + floats.Min(days)) / 2}

	// Yearly mean of the monthly midpoints, keys sort chronologically
	var (
		sum   float64
		count int
	)
	keys := slices.Sorted(maps.Keys(monthly))
	for i, key := range keys {
		mm := monthly[key]
		sum += mm[0] + (mm[1]-mm[0])/2
		count++
		if i == len(keys)-1 || keys[i+1]/100 != key/100 {
			ta.Yearly = append(ta.Yearly, YearValue{Year: key / 100, Value: sum / float64(count)})
			sum, count = 0, 0
		}
	}

	if len(ta.Yearly) > 1 {
		x := make([]float64, len(ta.Yearly))
		y := make([]float64, len(ta.Yearly))
		for i, yv := range ta.Yearly {
			x[i], y[i] = float64(yv.Year), yv.Value
		}
		ta.Intercept, ta.Slope = stat.LinearRegression(x, y, nil, false)
	}
	ta.Smoothed = smooth(ta.Yearly, sel)
	return
}
