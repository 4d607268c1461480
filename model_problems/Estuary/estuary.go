// Package Estuary integrates the aggregated sediment budget of a tidal inlet
// system: channel, intertidal flat, shoreface, ebb delta and an offshore sink,
// advanced one year at a time under sea level and river forcing.
package Estuary

import (
	"log/slog"
	"math"
	"time"

	"github.com/mreyesc22/MorQuestCode/InputParameters"
	"github.com/mreyesc22/MorQuestCode/forcing"
	"github.com/mreyesc22/MorQuestCode/types"
	"github.com/mreyesc22/MorQuestCode/utils"
)

type Estuary struct {
	Params  *InputParameters.Parameters
	Forcing *forcing.Series
	Ab      float64 // basin area, Ac+Ai for every year
	// Results, years 0..Dur
	Res      *Reservoirs
	Flux     *Fluxes
	Delta    *Deltas
	ClosedAt int // first year the flat is closed, -1 if it never closes
	Elapsed  time.Duration

	LogFrequency int
	Logger       *slog.Logger
}

// NewEstuary validates ip and prepares the forcing; the caller keeps
// ownership of ip, which must not be modified during Run.
func NewEstuary(ip *InputParameters.Parameters) (c *Estuary, err error) {
	if err = ip.Validate(); err != nil {
		return
	}
	c = &Estuary{
		Params:       ip,
		Forcing:      forcing.NewSeries(ip),
		Ab:           ip.Ac0 + ip.Ai0,
		ClosedAt:     -1,
		LogFrequency: 100,
		Logger:       slog.Default(),
	}
	return
}

// InitialSlot is year 0: channel and delta in equilibrium with the initial
// prism, the flat half filled.
func (c *Estuary) InitialSlot() (s Slot) {
	var (
		ip = c.Params
		dH = ip.DH
	)
	s.Ac, s.Ai = ip.Ac0, ip.Ai0
	s.Vi = 0.5 * ip.Ai0 * dH
	s.ViSed = s.Vi
	s.P = dH*ip.Ac0 + s.Vi
	s.Vceq = Vca * math.Pow(s.P, Vce)
	s.Vc = s.Vceq
	s.Vdeq = Vda * math.Pow(s.P, Vde)
	s.Vd = s.Vdeq
	s.Hc = depth(s.Vc, s.Ac)
	s.Hi = depth(s.Vi, s.Ai)
	s.Vs = 1.5 * ip.Cl * 0.5 * utils.POW(ip.Cd, 2) / ip.Betas
	s.Vout = ip.Vout
	s.At = ip.T * ip.Lsys / dH / utils.SecondsPerYear
	s.Regime = types.FlatOpen
	if ip.Ai0 <= 0 {
		s.Regime = s.Regime.Close()
	}
	return
}

func (c *Estuary) InitialFluxes(s Slot) (fx FluxSet) {
	fx.Qrc = c.Forcing.Sediment.DataP[0]
	if s.Regime.IsOpen() {
		fx.Qcieq = c.Forcing.SLRR.DataP[0] * s.Ai
	}
	fx.Qcs = fx.Qrc
	fx.Qso = c.shorefaceExport(fx.Qcs)
	return
}

// Run integrates all years and stores every slot, flux and delta.
func (c *Estuary) Run() {
	var (
		ip    = c.Params
		dur   = ip.Dur
		start = time.Now()
		log   = c.Logger
	)
	if log == nil {
		log = slog.Default()
	}
	c.Res, c.Flux, c.Delta = NewReservoirs(dur), NewFluxes(dur), NewDeltas(dur)
	c.ClosedAt = -1

	cur := c.InitialSlot()
	fx := c.InitialFluxes(cur)
	c.Res.Store(0, cur)
	c.Flux.Store(0, fx)
	if !cur.Regime.IsOpen() {
		c.ClosedAt = 0
	}
	ref := Reference{Hi0: cur.Hi, HiRef: cur.Hi}
	log.Info("estuary run",
		"title", ip.Title, "slrtype", c.Forcing.Profile.String(),
		"years", dur, "Ab", c.Ab, "P0", cur.P)

	for yr := 0; yr < dur; yr++ {
		ref.AiLag = c.Res.Ai.DataP[max(0, yr-1)]
		next, d, nfx := c.Advance(yr, cur, fx, ref, yr == dur-1)
		if yr+1 == c.Forcing.Onset {
			ref.HiRef = next.Hi
		}
		c.Res.Store(yr+1, next)
		c.Flux.Store(yr+1, nfx)
		c.Delta.Store(yr, d)
		if c.ClosedAt < 0 && !next.Regime.IsOpen() {
			c.ClosedAt = yr + 1
			log.Info("intertidal flat closed", "year", yr+1, "Ac", next.Ac)
		}
		if c.LogFrequency > 0 && (yr+1)%c.LogFrequency == 0 {
			log.Debug("step", "year", yr+1,
				"Ai", next.Ai, "Vc", next.Vc, "Vi", next.Vi, "Vs", next.Vs, "Vd", next.Vd)
		}
		cur, fx = next, nfx
	}
	c.Elapsed = time.Since(start)
	log.Info("estuary run complete", "years", dur, "elapsed", c.Elapsed,
		"Ai", cur.Ai, "Ac", cur.Ac, "closedAt", c.ClosedAt, "mem", utils.GetMemUsage())
}

// Regime returns the flat regime of year t of a completed run.
func (c *Estuary) Regime(t int) types.FlatRegime {
	if c.ClosedAt >= 0 && t >= c.ClosedAt {
		return types.FlatClosed
	}
	return types.FlatOpen
}
