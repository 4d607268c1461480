package Estuary

import (
	"math"

	"github.com/mreyesc22/MorQuestCode/utils"
)

// Reference carries the values of earlier years a step depends on.
type Reference struct {
	Hi0   float64 // flat depth in year 0
	HiRef float64 // flat depth in the onset year
	AiLag float64 // flat area one year before yr
}

// Advance moves the estuary from year yr to yr+1. It only reads the
// immutable configuration of c, so the same inputs give the same outputs.
func (c *Estuary) Advance(yr int, cur Slot, fx FluxSet, ref Reference, final bool) (next Slot, d Delta, nfx FluxSet) {
	var (
		ip   = c.Params
		dH   = ip.DH
		slrr = c.Forcing.SLRR.DataP[yr]
	)
	if wh := cur.Pending; !wh.IsZero() {
		d.DAiWh = wh.DAi
		d.DVcWh, d.DViWh, d.DViSedWh = wh.DVc, wh.DVi, wh.DViSed
	}
	// Sea level drowns the flat into the channel, corrected by overwash
	d.DAiSl = -slrr * cur.Ai / dH / ip.Si
	d.DAi = ip.IncAi*ref.AiLag + d.DAiSl + d.DAiWh
	d.DAc = -d.DAi

	d.DVcSl = -dH*d.DAiSl*0.5*(1-slrr/dH) + (cur.Ac-d.DAi)*slrr
	d.DViSl = dH*d.DAiSl*(1-0.5*slrr/dH) + (cur.Ai+d.DAi)*slrr
	d.DViSedSl = -cur.Ai*slrr + 0.5*d.DAi*slrr

	d.DVc = -fx.Qrc + fx.QciAt + fx.Qcd + fx.Qcs + fx.Qco + d.DVcSl + d.DVcWh
	d.DVi = -fx.QciAt + d.DViSl + d.DViWh
	d.DViSed = fx.QciAt + d.DViSedSl + d.DViSedWh

	d.DVs = fx.Qcs - fx.Qsd - fx.Qso
	d.DVd = fx.Qcd + fx.Qsd - fx.Qdo
	d.DVout = fx.Qco + fx.Qdo + fx.Qso
	d.Ds = d.DVs / (ip.Cl * ip.Cd)
	d.DBr = -slrr * ip.Cd / ip.Betas / (ip.Cd + ip.Du)

	// Areas trade one for one and neither goes negative
	d.DAi = utils.ClampDelta(cur.Ai, d.DAi)
	d.DAc = utils.ClampDelta(cur.Ac, -d.DAi)
	d.DAi = -d.DAc
	d.DVc = utils.ClampDelta(cur.Vc, d.DVc)
	d.DVi = utils.ClampDelta(cur.Vi, d.DVi)

	next.Regime = cur.Regime
	if c.closes(cur, d) {
		next.Regime = cur.Regime.Close()
		d.closeFlat(cur, c.Ab)
	}
	d.DVs = utils.ClampDelta(cur.Vs, d.DVs)
	d.DVd = utils.ClampDelta(cur.Vd, d.DVd)
	d.DVout = utils.ClampDelta(cur.Vout, d.DVout)

	next.Ac = cur.Ac + d.DAc
	next.Ai = cur.Ai + d.DAi
	next.Vc = cur.Vc + d.DVc
	next.Vi = cur.Vi + d.DVi
	next.ViSed = cur.ViSed + d.DViSed
	next.Vs = cur.Vs + d.DVs
	next.Vd = cur.Vd + d.DVd
	next.Vout = cur.Vout + d.DVout
	next.Vr = cur.Vr + fx.Qrc
	if !next.Regime.IsOpen() {
		next.Ac, next.Ai = c.Ab, 0
		next.Vi, next.ViSed = 0, 0
	}
	c.derive(yr+1, &next, ref)

	nfx = c.NextFluxes(yr, cur, &next, final)
	return
}

// closes reports whether the flat can no longer exist after applying d.
func (c *Estuary) closes(cur Slot, d Delta) bool {
	switch {
	case !cur.Regime.IsOpen():
		return true
	case cur.ViSed+d.DViSed <= 0, cur.Hi >= c.Params.DH:
		return true
	case cur.Ai+d.DAi <= 0, cur.Vi+d.DVi <= 0:
		return true
	}
	return false
}

// closeFlat hands the whole basin to the channel, the water over the flat
// included.
func (d *Delta) closeFlat(cur Slot, ab float64) {
	d.DVc += cur.Vi
	d.DVi = -cur.Vi
	d.DViSed = -cur.ViSed
	d.DAi = -cur.Ai
	d.DAc = ab - cur.Ac
}

// derive recomputes depths, prism, equilibria and the adaptation timescale of
// a committed slot for year t.
func (c *Estuary) derive(t int, s *Slot, ref Reference) {
	dH := c.Params.DH
	s.Hc = depth(s.Vc, s.Ac)
	s.Hi = depth(s.Vi, s.Ai)
	s.P = dH*s.Ac + s.Vi
	s.Vceq = Vca * math.Pow(s.P, Vce)
	s.Vdeq = Vda * math.Pow(s.P, Vde)
	s.Hcod = 0
	if s.Ac > 0 {
		s.Hcod = (s.Vc - s.Vceq) / s.Ac
	}
	s.Hiod = 0
	if t > c.Forcing.Onset {
		s.Hiod = s.Hi - ref.HiRef
	}
	s.At = c.adaptation(s.Hi, ref.Hi0)
}

func depth(v, a float64) float64 {
	if a <= 0 {
		return 0
	}
	return v / a
}
