package Estuary

import (
	"math"

	"github.com/mreyesc22/MorQuestCode/utils"
)

// NextFluxes evaluates the transport rates for year t = yr+1 from the state
// just committed (next) and the state it was advanced from (cur). It also
// sets next.Pending to the overwash correction for the following step and
// applies the starvation guards to next.
func (c *Estuary) NextFluxes(yr int, cur Slot, next *Slot, final bool) (fx FluxSet) {
	var (
		ip   = c.Params
		frc  = c.Forcing
		t    = yr + 1
		open = next.Regime.IsOpen()
	)
	fx.Qrc = frc.Sediment.DataP[t]
	// Entrapment of river sediment in the channel is not modelled
	fx.Erc = 0
	if open {
		fx.Qri = c.riverToFlat(frc.Sediment.DataP[t] - frc.Sediment.DataP[yr])
		fx.Qcieq = frc.SLRR.DataP[yr] * cur.Ai
		fx.QciAt = c.lagged(fx.Qcieq, t, next.At)
	}
	fx.Qci = fx.QciAt + fx.Qri
	fx.Qcdeq = next.Vdeq - cur.Vdeq
	fx.Qcd = fx.Qcdeq
	fx.Qcs = (1-fx.Erc)*fx.Qrc - ip.Fis*fx.Qri + ip.Tr*(next.Vceq-next.Vc)
	fx.Qso = c.shorefaceExport(fx.Qcs)

	next.Pending = Correction{}
	if open && !final && yr >= 2 {
		next.Pending = c.overwash(fx.Qri, cur, *next)
	}
	c.starve(next, &fx)
	return
}

// riverToFlat splits the change in river supply onto the flat; losses are
// damped by the overwash fraction.
func (c *Estuary) riverToFlat(dq float64) float64 {
	if dq >= 0 {
		return c.Params.Fis * dq
	}
	return c.Params.Faw * c.Params.Fis * dq
}

// lagged relaxes the equilibrium channel to flat demand towards qcieq with
// e-folding time at, counting from the sea level onset.
func (c *Estuary) lagged(qcieq float64, t int, at float64) float64 {
	onset := c.Forcing.Onset
	switch {
	case t < onset:
		return 0
	case at == 0:
		return qcieq
	}
	return qcieq * (1 - math.Exp(-float64(t-onset)/at))
}

func (c *Estuary) shorefaceExport(qcs float64) float64 {
	if qcs >= 0 {
		return (1 - c.Params.Ecs) * qcs
	}
	return c.Params.Ecs * qcs
}

// adaptation scales the base timescale T*lsys/dH with the squared relative
// flat depth.
func (c *Estuary) adaptation(hi, hi0 float64) float64 {
	ip := c.Params
	if hi0 <= 0 {
		return 0
	}
	return utils.POW(hi/hi0, 2) * ip.T * ip.Lsys / ip.DH / utils.SecondsPerYear
}

// overwash widens (or narrows) the flat in response to the river share
// delivered to it. All terms depend on channel depth and flat area of cur.
func (c *Estuary) overwash(qri float64, cur, next Slot) (wh Correction) {
	var (
		ip = c.Params
		dH = ip.DH
	)
	if next.Hi == 0 || cur.Hc == 0 || qri == 0 || next.Ai <= 0 || cur.Ai <= 0 {
		return
	}
	f := ip.Fs
	if qri < 0 {
		f = ip.Faw * ip.Fs
	}
	wh.DAi = qri * f / cur.Hc
	wh.DVi = dH*wh.DAi - qri*(1-f)
	wh.DViSed = qri*(1-f) + wh.DAi*dH*ip.Si/cur.Ai*(0.5*wh.DAi+cur.Ai)
	wh.DVc = -wh.DAi * (dH + cur.Hc)
	return
}

// starve stops exports out of empty reservoirs.
func (c *Estuary) starve(s *Slot, fx *FluxSet) {
	if s.Vout <= 0 {
		s.Vout = 0
		if fx.Qso < 0 {
			fx.Qso = 0
		}
	}
	if s.Vs <= 0 {
		s.Vs = 0
		if fx.Qcs <= 0 {
			fx.Qcs = 0
		}
		if fx.Qso >= s.Vs+fx.Qcs {
			fx.Qso = fx.Qcs
		}
	}
	if s.Vc <= 0 {
		s.Vc, s.Hc, s.Hcod = 0, 0, 0
		outbound := fx.QciAt + fx.Qcd + fx.Qcs + fx.Qco
		if outbound-fx.Qrc < 0 {
			fx.Qrc = math.Max(outbound, 0)
		}
	}
}
