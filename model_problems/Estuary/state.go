package Estuary

import (
	"github.com/mreyesc22/MorQuestCode/types"
	"github.com/mreyesc22/MorQuestCode/utils"
)

// Empirical equilibrium power laws of tidal prism P (Eysink 1990):
// Vceq = Vca*P^Vce for the channel water volume, Vdeq = Vda*P^Vde for the
// ebb delta sediment volume.
const (
	Vca = 65e-6
	Vce = 1.5
	Vda = 2.9e-3
	Vde = 1.23
)

// Slot is the state of every reservoir in one year.
type Slot struct {
	Ac, Ai    float64 // channel and intertidal area, m2
	Vc, Vceq  float64 // channel water volume and its equilibrium, m3
	Hc, Hcod  float64 // channel depth and its departure from equilibrium, m
	Vi, ViSed float64 // intertidal water and sediment volume, m3
	Hi, Hiod  float64 // intertidal depth and its anomaly since onset, m
	Vs        float64 // shoreface sediment volume, m3
	Vd, Vdeq  float64 // delta sediment volume and its equilibrium, m3
	Vout      float64 // offshore sink, m3
	Vr        float64 // cumulative river supply, m3
	P         float64 // tidal prism, m3
	At        float64 // adaptation timescale, yr
	Regime    types.FlatRegime
	Pending   Correction // overwash terms applied in the following step
}

// FluxSet holds the sediment transport rates of one year, m3/yr.
type FluxSet struct {
	Qrc        float64 // river to channel
	Qri        float64 // river to intertidal flat
	Qcieq      float64 // channel to flat, equilibrium requirement
	QciAt      float64 // channel to flat, lagged by the adaptation timescale
	Qci        float64 // channel to flat, realised
	Qcdeq, Qcd float64 // channel to delta
	Qcs        float64 // channel to shoreface
	Qsd        float64 // shoreface to delta
	Qco        float64 // channel to offshore
	Qdo        float64 // delta to offshore
	Qso        float64 // shoreface to offshore
	Erc        float64 // river entrapment fraction
}

// Correction is the overwash width correction computed in one step and
// consumed by the next one.
type Correction struct {
	DAi, DVi, DViSed, DVc float64
}

func (wh Correction) IsZero() bool { return wh == Correction{} }

// Delta holds the increments committed between year yr and yr+1.
type Delta struct {
	DAi, DAiSl, DAiWh          float64
	DAc                        float64
	DVc, DVcSl, DVcWh          float64
	DVi, DViSl, DViWh          float64
	DViSed, DViSedSl, DViSedWh float64
	DVs, DVd, DVout            float64
	Ds                         float64 // shoreface retreat, m/yr
	DBr                        float64 // Bruun rule reference retreat, m/yr
}

// Reservoirs is the per-year record of every Slot, years 0..Years.
type Reservoirs struct {
	Years               int
	Ac, Ai, Vc, Vceq    utils.Vector
	Hc, Hcod            utils.Vector
	Vi, ViSed, Hi, Hiod utils.Vector
	Vs, Vd, Vdeq, Vout  utils.Vector
	Vr, P, At           utils.Vector
}

func NewReservoirs(years int) (r *Reservoirs) {
	N := years + 1
	r = &Reservoirs{Years: years}
	for _, v := range r.fields() {
		*v = utils.NewVector(N)
	}
	return
}

func (r *Reservoirs) fields() []*utils.Vector {
	return []*utils.Vector{
		&r.Ac, &r.Ai, &r.Vc, &r.Vceq, &r.Hc, &r.Hcod,
		&r.Vi, &r.ViSed, &r.Hi, &r.Hiod,
		&r.Vs, &r.Vd, &r.Vdeq, &r.Vout, &r.Vr, &r.P, &r.At,
	}
}

func (s *Slot) values() []float64 {
	return []float64{
		s.Ac, s.Ai, s.Vc, s.Vceq, s.Hc, s.Hcod,
		s.Vi, s.ViSed, s.Hi, s.Hiod,
		s.Vs, s.Vd, s.Vdeq, s.Vout, s.Vr, s.P, s.At,
	}
}

func (r *Reservoirs) Store(t int, s Slot) {
	for i, val := range s.values() {
		r.fields()[i].DataP[t] = val
	}
}

// Load rebuilds the stored part of year t; Regime and Pending are not kept in
// the arrays.
func (r *Reservoirs) Load(t int) (s Slot) {
	f := r.fields()
	ptrs := []*float64{
		&s.Ac, &s.Ai, &s.Vc, &s.Vceq, &s.Hc, &s.Hcod,
		&s.Vi, &s.ViSed, &s.Hi, &s.Hiod,
		&s.Vs, &s.Vd, &s.Vdeq, &s.Vout, &s.Vr, &s.P, &s.At,
	}
	for i, p := range ptrs {
		*p = f[i].DataP[t]
	}
	return
}

// Fluxes is the per-year record of every FluxSet.
type Fluxes struct {
	Qrc, Qri, Qcieq, QciAt, Qci utils.Vector
	Qcdeq, Qcd, Qcs, Qsd, Qco   utils.Vector
	Qdo, Qso, Erc               utils.Vector
}

func NewFluxes(years int) (f *Fluxes) {
	f = &Fluxes{}
	for _, v := range f.fields() {
		*v = utils.NewVector(years + 1)
	}
	return
}

func (f *Fluxes) fields() []*utils.Vector {
	return []*utils.Vector{
		&f.Qrc, &f.Qri, &f.Qcieq, &f.QciAt, &f.Qci,
		&f.Qcdeq, &f.Qcd, &f.Qcs, &f.Qsd, &f.Qco,
		&f.Qdo, &f.Qso, &f.Erc,
	}
}

func (f *Fluxes) Store(t int, fx FluxSet) {
	vals := []float64{
		fx.Qrc, fx.Qri, fx.Qcieq, fx.QciAt, fx.Qci,
		fx.Qcdeq, fx.Qcd, fx.Qcs, fx.Qsd, fx.Qco,
		fx.Qdo, fx.Qso, fx.Erc,
	}
	for i, v := range f.fields() {
		v.DataP[t] = vals[i]
	}
}

// Deltas is the per-step record of every Delta. Index yr holds the step
// yr -> yr+1, the last slot stays zero.
type Deltas struct {
	DAi, DAiSl, DAiWh, DAc     utils.Vector
	DVc, DVcSl, DVcWh          utils.Vector
	DVi, DViSl, DViWh          utils.Vector
	DViSed, DViSedSl, DViSedWh utils.Vector
	DVs, DVd, DVout, Ds, DBr   utils.Vector
}

func NewDeltas(years int) (d *Deltas) {
	d = &Deltas{}
	for _, v := range d.fields() {
		*v = utils.NewVector(years + 1)
	}
	return
}

func (d *Deltas) fields() []*utils.Vector {
	return []*utils.Vector{
		&d.DAi, &d.DAiSl, &d.DAiWh, &d.DAc,
		&d.DVc, &d.DVcSl, &d.DVcWh,
		&d.DVi, &d.DViSl, &d.DViWh,
		&d.DViSed, &d.DViSedSl, &d.DViSedWh,
		&d.DVs, &d.DVd, &d.DVout, &d.Ds, &d.DBr,
	}
}

func (d *Deltas) Store(yr int, dl Delta) {
	vals := []float64{
		dl.DAi, dl.DAiSl, dl.DAiWh, dl.DAc,
		dl.DVc, dl.DVcSl, dl.DVcWh,
		dl.DVi, dl.DViSl, dl.DViWh,
		dl.DViSed, dl.DViSedSl, dl.DViSedWh,
		dl.DVs, dl.DVd, dl.DVout, dl.Ds, dl.DBr,
	}
	for i, v := range d.fields() {
		v.DataP[yr] = vals[i]
	}
}
