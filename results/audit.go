package results

import (
	"fmt"
	"math"
	"sort"
)

// AuditedReservoirs are the series that must never go negative.
var AuditedReservoirs = []string{"Ac", "Ai", "Vc", "Vi", "Vi_sed", "Vs", "Vd", "Vout"}

const AreaTolerance = 1.e-9

type AuditReport struct {
	MaxAreaError float64            // max |Ac+Ai-Ab|/Ab over all years
	Minimum      map[string]float64 // smallest value of each audited reservoir
	Negative     []string
	NonFinite    []string
}

// Audit checks the mass balance of a record: basin area conservation,
// non-negative reservoirs and finite values everywhere.
func Audit(r *Record) (a AuditReport, err error) {
	ab, ok := r.Scalar("Ab")
	if !ok {
		return a, fmt.Errorf("audit run %s: no basin area", r.RunID)
	}
	ac, okc := r.Get("Ac")
	ai, oki := r.Get("Ai")
	if !okc || !oki || len(ac) != len(ai) {
		return a, fmt.Errorf("audit run %s: missing area series", r.RunID)
	}
	for i := range ac {
		e := math.Abs(ac[i] + ai[i] - ab)
		if ab > 0 {
			e /= ab
		}
		a.MaxAreaError = math.Max(a.MaxAreaError, e)
	}

	a.Minimum = make(map[string]float64, len(AuditedReservoirs))
	for _, name := range AuditedReservoirs {
		v, ok := r.Get(name)
		if !ok || len(v) == 0 {
			continue
		}
		min := v[0]
		for _, val := range v {
			min = math.Min(min, val)
		}
		a.Minimum[name] = min
		if min < 0 {
			a.Negative = append(a.Negative, name)
		}
	}
	for _, f := range r.Series {
		for _, val := range f.Values {
			if math.IsNaN(val) || math.IsInf(val, 0) {
				a.NonFinite = append(a.NonFinite, f.Name)
				break
			}
		}
	}
	sort.Strings(a.NonFinite)
	return
}

func (a AuditReport) OK() bool {
	return a.MaxAreaError <= AreaTolerance && len(a.Negative) == 0 && len(a.NonFinite) == 0
}

func (a AuditReport) String() string {
	status := "ok"
	if !a.OK() {
		status = fmt.Sprintf("FAILED negative=%v nonfinite=%v", a.Negative, a.NonFinite)
	}
	return fmt.Sprintf("area error %.3g, %s", a.MaxAreaError, status)
}
