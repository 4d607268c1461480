// Package calibration derives estuary parameters from observed records: the
// tidal range from daily water levels and the river discharge from yearly
// gauge tables.
package calibration

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/mreyesc22/MorQuestCode/utils"
)

// SmoothingWindow is the width, in years, of the centred mean reported at the
// selected years.
const SmoothingWindow = 3

type YearValue struct {
	Year  int
	Value float64
}

// Selection picks the years reported after smoothing: From, From+Step, ...
// while below To.
type Selection struct {
	From, To, Step int
}

// DefaultSelection matches the survey years of the intertidal area record.
var DefaultSelection = Selection{From: 1985, To: 2017, Step: 3}

func (s Selection) contains(year int) bool {
	if s.Step <= 0 || year < s.From || year >= s.To {
		return false
	}
	return (year-s.From)%s.Step == 0
}

// smooth applies the centred window over consecutive yearly values and keeps
// the selected years with a full window.
func smooth(yearly []YearValue, sel Selection) (sm []YearValue) {
	values := make([]float64, len(yearly))
	for i, yv := range yearly {
		values[i] = yv.Value
	}
	rm := utils.RollingMean(values, SmoothingWindow)
	for i, yv := range yearly {
		if sel.contains(yv.Year) && !math.IsNaN(rm[i]) {
			sm = append(sm, YearValue{Year: yv.Year, Value: rm[i]})
		}
	}
	return
}

func meanOf(yvs []YearValue) float64 {
	if len(yvs) == 0 {
		return math.NaN()
	}
	values := make([]float64, len(yvs))
	for i, yv := range yvs {
		values[i] = yv.Value
	}
	return stat.Mean(values, nil)
}

// parseInt accepts integral values written as floats, as in 1985.0.
func parseInt(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
