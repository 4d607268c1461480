// Package results turns a completed estuary run into a named collection of
// scalars and yearly series, and writes or stores it.
package results

import (
	"github.com/google/uuid"

	"github.com/mreyesc22/MorQuestCode/model_problems/Estuary"
	"github.com/mreyesc22/MorQuestCode/utils"
)

type Scalar struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Field is one named series. Most are indexed by year 0..Years, slrr and the
// step increments are indexed by the step starting year.
type Field struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

type Record struct {
	RunID    uuid.UUID `json:"run_id"`
	Title    string    `json:"title"`
	SLRType  string    `json:"slrtype"`
	Years    int       `json:"years"`
	ClosedAt int       `json:"closed_at"`
	Scalars  []Scalar  `json:"scalars"`
	Series   []Field   `json:"series"`
}

func (r *Record) Get(name string) (values []float64, ok bool) {
	for _, f := range r.Series {
		if f.Name == name {
			return f.Values, true
		}
	}
	return
}

func (r *Record) Scalar(name string) (value float64, ok bool) {
	for _, s := range r.Scalars {
		if s.Name == name {
			return s.Value, true
		}
	}
	return
}

func (r *Record) add(name string, v utils.Vector) {
	r.Series = append(r.Series, Field{Name: name, Values: v.Copy().DataP})
}

// Package assembles the record of a completed run, echoing its configuration.
func Package(c *Estuary.Estuary) (r *Record) {
	var (
		ip  = c.Params
		frc = c.Forcing
		res = c.Res
		fx  = c.Flux
		dl  = c.Delta
		N   = ip.Dur + 1
	)
	r = &Record{
		RunID:    uuid.New(),
		Title:    ip.Title,
		SLRType:  frc.Profile.String(),
		Years:    ip.Dur,
		ClosedAt: c.ClosedAt,
	}
	names, values := ip.Scalars()
	for i, name := range names {
		r.Scalars = append(r.Scalars, Scalar{Name: name, Value: values[i]})
	}
	r.Scalars = append(r.Scalars,
		Scalar{Name: "Ab", Value: c.Ab},
		Scalar{Name: "onset", Value: float64(frc.Onset)},
	)

	yr, closed := utils.NewVector(N), utils.NewVector(N)
	for i := 0; i < N; i++ {
		yr.DataP[i] = float64(i)
		if !c.Regime(i).IsOpen() {
			closed.DataP[i] = 1
		}
	}
	r.add("yr", yr)
	r.add("slr", frc.SLR)
	r.add("slrr", frc.SLRR)
	r.add("ssc", frc.SSC)
	r.add("Qr", frc.Qr)
	r.add("Qssec", frc.Qssec)
	r.add("Qs", frc.Sediment)

	for _, f := range []struct {
		name string
		v    utils.Vector
	}{
		{"Ac", res.Ac}, {"Ai", res.Ai}, {"Vc", res.Vc}, {"Vceq", res.Vceq},
		{"hc", res.Hc}, {"hcod", res.Hcod}, {"Vi", res.Vi}, {"Vi_sed", res.ViSed},
		{"hi", res.Hi}, {"hiod", res.Hiod}, {"Vs", res.Vs}, {"Vd", res.Vd},
		{"Vdeq", res.Vdeq}, {"Vout", res.Vout}, {"Vr", res.Vr}, {"P", res.P},
		{"at", res.At}, {"closed", closed},

		{"Qrc", fx.Qrc}, {"Qri", fx.Qri}, {"Qcieq", fx.Qcieq}, {"Qci_at", fx.QciAt},
		{"Qci", fx.Qci}, {"Qcdeq", fx.Qcdeq}, {"Qcd", fx.Qcd}, {"Qcs", fx.Qcs},
		{"Qsd", fx.Qsd}, {"Qco", fx.Qco}, {"Qdo", fx.Qdo}, {"Qso", fx.Qso},
		{"erc", fx.Erc},

		{"dAi", dl.DAi}, {"dAi_sl", dl.DAiSl}, {"dAi_wh", dl.DAiWh}, {"dAc", dl.DAc},
		{"dVc", dl.DVc}, {"dVc_sl", dl.DVcSl}, {"dVc_wh", dl.DVcWh},
		{"dVi", dl.DVi}, {"dVi_sl", dl.DViSl}, {"dVi_wh", dl.DViWh},
		{"dVi_sed", dl.DViSed}, {"dVi_sed_sl", dl.DViSedSl}, {"dVi_sed_wh", dl.DViSedWh},
		{"dVs", dl.DVs}, {"dVd", dl.DVd}, {"dVout", dl.DVout},
		{"ds", dl.Ds}, {"dBr", dl.DBr},
	} {
		r.add(f.name, f.v)
	}

	// Cumulative sediment exchanged by each reservoir since year 0
	sedVc := utils.NewVector(N)
	for i := 0; i < N; i++ {
		sedVc.DataP[i] = fx.Qrc.DataP[i] - fx.Qci.DataP[i] - fx.Qcd.DataP[i] -
			fx.Qcs.DataP[i] - fx.Qco.DataP[i]
	}
	r.add("sedVc", sedVc.CumSum())
	r.add("sedVi", res.ViSed.Offset())
	r.add("sedVd", res.Vd.Offset())
	r.add("sedVs", res.Vs.Offset())
	r.add("sedVr", res.Vr.Offset())
	r.add("sedVout", res.Vout.Offset())
	return
}
