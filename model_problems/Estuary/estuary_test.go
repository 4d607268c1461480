package Estuary

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/mreyesc22/MorQuestCode/InputParameters"
	"github.com/mreyesc22/MorQuestCode/types"
	"github.com/mreyesc22/MorQuestCode/utils"
)

var baseline = []byte(`
title: Baseline decay
Ac0: 20000000
Ai0: 10000000
dH: 2
Qr0: 50
ssc0: 100
slr: 0.3
slrtype: linear
dur: 50
T: 44700
lsys: 5000
si: 1
fis: 0.3
faw: 0.5
fs: 0.5
betas: 0.01
cd: 10
du: 2
cl: 10000
por: 0.4
rho: 2650
`)

func newTestEstuary(t *testing.T, overrides map[string]any) (c *Estuary) {
	ip := InputParameters.NewParameters()
	require.NoError(t, ip.Parse(baseline))
	if len(overrides) != 0 {
		var err error
		ip, err = ip.Override(overrides)
		require.NoError(t, err)
	}
	c, err := NewEstuary(ip)
	require.NoError(t, err)
	c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return
}

func checkConservation(t *testing.T, c *Estuary) {
	for i := 0; i <= c.Params.Dur; i++ {
		assert.InDelta(t, c.Ab, c.Res.Ac.DataP[i]+c.Res.Ai.DataP[i], 1.e-9*c.Ab, "year %d", i)
	}
}

func checkNonNegative(t *testing.T, c *Estuary) {
	r := c.Res
	for name, v := range map[string]utils.Vector{
		"Ac": r.Ac, "Ai": r.Ai, "Vc": r.Vc, "Vi": r.Vi, "ViSed": r.ViSed,
		"Vs": r.Vs, "Vd": r.Vd, "Vout": r.Vout, "Hc": r.Hc, "Hi": r.Hi,
	} {
		assert.GreaterOrEqual(t, floats.Min(v.DataP), 0., name)
		assert.False(t, utils.IsNan(v), name)
	}
}

func TestNewEstuary(t *testing.T) {
	_, err := NewEstuary(InputParameters.NewParameters())
	require.Error(t, err)
	assert.True(t, errors.Is(err, InputParameters.ErrConfiguration))

	c := newTestEstuary(t, nil)
	assert.Equal(t, 3.e7, c.Ab)
	s := c.InitialSlot()
	assert.Equal(t, 1.e7, s.Vi)
	assert.Equal(t, s.Vi, s.ViSed)
	assert.Equal(t, 5.e7, s.P)
	assert.Equal(t, Vca*math.Pow(5.e7, Vce), s.Vc)
	assert.Equal(t, s.Vc, s.Vceq)
	assert.Equal(t, s.Vd, s.Vdeq)
	assert.Equal(t, 1., s.Hi)
	assert.InDelta(t, 7.5e7, s.Vs, 1.e-6)
	assert.Equal(t, InputParameters.DefaultVout, s.Vout)
	assert.InDelta(t, 44700.*5000/2/utils.SecondsPerYear, s.At, 1.e-12)
	assert.True(t, s.Regime.IsOpen())

	fx := c.InitialFluxes(s)
	assert.Equal(t, c.Forcing.Sediment.DataP[0], fx.Qrc)
	assert.Equal(t, fx.Qrc, fx.Qcs)
	assert.Equal(t, fx.Qcs, fx.Qso)
	assert.InDelta(t, 0.3/50*1.e7, fx.Qcieq, 1.e-6)
}

func TestBaselineRun(t *testing.T) {
	c := newTestEstuary(t, nil)
	c.Run()
	var (
		r   = c.Res
		dur = c.Params.Dur
	)
	require.Equal(t, dur+1, r.Ai.Len())
	assert.Less(t, r.Ai.Last(), c.Params.Ai0)
	assert.Greater(t, r.Ac.Last(), c.Params.Ac0)
	assert.Equal(t, -1, c.ClosedAt)
	checkConservation(t, c)
	checkNonNegative(t, c)
	// Equilibria always follow the power laws of the current prism
	for i := 0; i <= dur; i++ {
		assert.Equal(t, Vca*math.Pow(r.P.DataP[i], Vce), r.Vceq.DataP[i])
		assert.Equal(t, Vda*math.Pow(r.P.DataP[i], Vde), r.Vdeq.DataP[i])
	}
	// Equilibrium exchange uses the flat area of the year just advanced from
	for i := 1; i <= dur; i++ {
		assert.Equal(t, c.Forcing.SLRR.DataP[i-1]*r.Ai.DataP[i-1], c.Flux.Qcieq.DataP[i], "year %d", i)
	}
	// The river record is cumulative
	for i := 1; i <= dur; i++ {
		assert.InDelta(t, r.Vr.DataP[i-1]+c.Flux.Qrc.DataP[i-1], r.Vr.DataP[i], 1.e-3)
	}
	assert.Equal(t, 0., r.Vr.DataP[0])
	// Deltas of the last slot are never written
	assert.Equal(t, 0., c.Delta.DAi.DataP[dur])
	assert.NotEqual(t, 0., c.Delta.DAiSl.DataP[0])
}

func TestZeroForcing(t *testing.T) {
	c := newTestEstuary(t, map[string]any{
		"slr": 0, "Qr0": 0, "ssc0": 0, "fssc": 0, "fQr": 0, "incAi": 0, "tr": 0,
	})
	c.Run()
	r := c.Res
	for i := 1; i <= c.Params.Dur; i++ {
		assert.Equal(t, r.Ai.DataP[0], r.Ai.DataP[i])
		assert.Equal(t, r.Ac.DataP[0], r.Ac.DataP[i])
		assert.InDelta(t, r.Vc.DataP[0], r.Vc.DataP[i], 1.e-6)
		assert.InDelta(t, r.Vi.DataP[0], r.Vi.DataP[i], 1.e-6)
		assert.InDelta(t, r.ViSed.DataP[0], r.ViSed.DataP[i], 1.e-6)
		assert.InDelta(t, r.Vs.DataP[0], r.Vs.DataP[i], 1.e-6)
		assert.InDelta(t, r.Vd.DataP[0], r.Vd.DataP[i], 1.e-6)
		assert.InDelta(t, r.Vout.DataP[0], r.Vout.DataP[i], 1.e-6)
		assert.Equal(t, 0., r.Hiod.DataP[i])
	}
}

func TestNoSeaLevelRise(t *testing.T) {
	c := newTestEstuary(t, map[string]any{"slr": 0})
	c.Run()
	for i := 1; i <= c.Params.Dur; i++ {
		assert.Equal(t, c.Params.Ai0, c.Res.Ai.DataP[i])
		assert.Equal(t, c.Params.Ac0, c.Res.Ac.DataP[i])
	}
	checkNonNegative(t, c)
}

func TestFlatClosure(t *testing.T) {
	c := newTestEstuary(t, map[string]any{"Ai0": 10000, "Ac0": 10000000, "slr": 20, "dur": 10})
	c.Run()
	require.Equal(t, 1, c.ClosedAt)
	assert.Equal(t, types.FlatOpen, c.Regime(0))
	r := c.Res
	for i := c.ClosedAt; i <= c.Params.Dur; i++ {
		assert.Equal(t, types.FlatClosed, c.Regime(i))
		assert.Equal(t, 0., r.Ai.DataP[i])
		assert.Equal(t, c.Ab, r.Ac.DataP[i])
		assert.Equal(t, 0., r.Vi.DataP[i])
		assert.Equal(t, 0., r.ViSed.DataP[i])
		// No exchange with a closed flat
		assert.Equal(t, 0., c.Flux.Qci.DataP[i])
	}
	checkConservation(t, c)
	checkNonNegative(t, c)
}

func TestChannelOnly(t *testing.T) {
	c := newTestEstuary(t, map[string]any{"Ai0": 0})
	c.Run()
	assert.Equal(t, 0, c.ClosedAt)
	for i := 0; i <= c.Params.Dur; i++ {
		assert.Equal(t, 0., c.Res.Ai.DataP[i])
		assert.Equal(t, c.Ab, c.Res.Ac.DataP[i])
	}
	checkNonNegative(t, c)
}

func TestAdvanceIsRepeatable(t *testing.T) {
	c := newTestEstuary(t, nil)
	c.Run()
	cur := c.InitialSlot()
	fx := c.InitialFluxes(cur)
	ref := Reference{Hi0: cur.Hi, HiRef: cur.Hi, AiLag: cur.Ai}
	n1, d1, f1 := c.Advance(0, cur, fx, ref, false)
	n2, d2, f2 := c.Advance(0, cur, fx, ref, false)
	assert.Equal(t, n1, n2)
	assert.Equal(t, d1, d2)
	assert.Equal(t, f1, f2)

	stored := c.Res.Load(1)
	n1.Regime, n1.Pending = stored.Regime, stored.Pending
	assert.Equal(t, stored, n1)
}

func TestOverwash(t *testing.T) {
	c := newTestEstuary(t, map[string]any{"fQr": 0.01})
	c.Run()
	d := c.Delta
	// Corrections start at year 2 and land one step later
	for yr := 0; yr < 3; yr++ {
		assert.Equal(t, 0., d.DAiWh.DataP[yr])
	}
	assert.Greater(t, d.DAiWh.DataP[3], 0.)
	assert.Less(t, d.DVcWh.DataP[3], 0.)
	assert.Greater(t, c.Flux.Qri.DataP[1], 0.)
	checkConservation(t, c)
	checkNonNegative(t, c)
}

func TestLaggedExchange(t *testing.T) {
	c := newTestEstuary(t, map[string]any{"slrtype": "timep", "dur": 250})
	assert.Equal(t, 0., c.lagged(1, 199, 5))
	assert.Equal(t, 1., c.lagged(1, 205, 0))
	assert.InDelta(t, 1-math.Exp(-1), c.lagged(1, 205, 5), 1.e-15)
	// The clock starts in the onset year itself
	assert.Equal(t, 0., c.lagged(1, 200, 5))
	assert.InDelta(t, 1-math.Exp(-0.2), c.lagged(1, 201, 5), 1.e-15)
	c.Run()
	for i := 0; i < c.Forcing.Onset; i++ {
		assert.Equal(t, 0., c.Flux.QciAt.DataP[i])
		assert.Equal(t, 0., c.Res.Hiod.DataP[i])
	}
	assert.Equal(t, 0., c.Res.Hiod.DataP[c.Forcing.Onset])
	checkConservation(t, c)
}

func TestStarvation(t *testing.T) {
	c := newTestEstuary(t, nil)
	{ // Empty offshore sink cannot export back to the shoreface
		s := Slot{Vout: 0, Vs: 1, Vc: 1}
		fx := FluxSet{Qso: -5}
		c.starve(&s, &fx)
		assert.Equal(t, 0., fx.Qso)
		assert.Equal(t, 0., s.Vout)
	}
	{ // Empty shoreface neither feeds the channel nor exports more than it gets
		s := Slot{Vout: 1, Vs: -1, Vc: 1}
		fx := FluxSet{Qcs: -3, Qso: 2}
		c.starve(&s, &fx)
		assert.Equal(t, 0., s.Vs)
		assert.Equal(t, 0., fx.Qcs)
		assert.Equal(t, 0., fx.Qso)
	}
	{ // Empty channel passes on at most what leaves it
		s := Slot{Vout: 1, Vs: 1, Vc: 0, Hc: 2, Hcod: 1}
		fx := FluxSet{Qrc: 10, QciAt: 1, Qcd: 2, Qcs: 3}
		c.starve(&s, &fx)
		assert.Equal(t, 6., fx.Qrc)
		assert.Equal(t, 0., s.Hc)
		assert.Equal(t, 0., s.Hcod)

		fx = FluxSet{Qrc: 10, Qcd: -20}
		c.starve(&s, &fx)
		assert.Equal(t, 0., fx.Qrc)
	}
	{ // Full reservoirs are left alone
		s := Slot{Vout: 1, Vs: 1, Vc: 1}
		fx := FluxSet{Qrc: 10, Qcs: -3, Qso: -2}
		c.starve(&s, &fx)
		assert.Equal(t, FluxSet{Qrc: 10, Qcs: -3, Qso: -2}, fx)
	}
}

func TestReservoirClamps(t *testing.T) {
	c := newTestEstuary(t, nil)
	s0 := c.InitialSlot()
	ref := Reference{Hi0: s0.Hi, HiRef: s0.Hi, AiLag: s0.Ai}
	advance := func(cur Slot, fx FluxSet) (Slot, Delta, FluxSet) {
		return c.Advance(0, cur, fx, ref, false)
	}
	{
		cur, fx := s0, c.InitialFluxes(s0)
		cur.Vout, fx.Qso = 0, -1.e6
		next, d, _ := advance(cur, fx)
		assert.Equal(t, 0., d.DVout)
		assert.Equal(t, 0., next.Vout)
	}
	{
		cur, fx := s0, c.InitialFluxes(s0)
		cur.Vs, fx.Qso = 10, 1.e12
		next, d, nfx := advance(cur, fx)
		assert.Equal(t, -10., d.DVs)
		assert.Equal(t, 0., next.Vs)
		assert.GreaterOrEqual(t, nfx.Qcs, 0.)
	}
	{
		cur, fx := s0, c.InitialFluxes(s0)
		cur.Vd, fx.Qdo = 5, 1.e12
		next, d, _ := advance(cur, fx)
		assert.Equal(t, -5., d.DVd)
		assert.Equal(t, 0., next.Vd)
	}
	{
		cur, fx := s0, c.InitialFluxes(s0)
		cur.Vc, fx.Qrc = 1, 1.e12
		next, d, nfx := advance(cur, fx)
		assert.Equal(t, -1., d.DVc)
		assert.Equal(t, 0., next.Vc)
		assert.Equal(t, 0., next.Hc)
		assert.LessOrEqual(t, nfx.Qrc, math.Max(nfx.QciAt+nfx.Qcd+nfx.Qcs+nfx.Qco, 0))
	}
}

func TestEmptyOffshoreSink(t *testing.T) {
	c := newTestEstuary(t, map[string]any{"Vout": 0, "ecs": 0.5, "tr": 0.5})
	c.Run()
	checkConservation(t, c)
	checkNonNegative(t, c)
	for i := 1; i <= c.Params.Dur; i++ {
		if c.Res.Vout.DataP[i] == 0 {
			assert.GreaterOrEqual(t, c.Flux.Qso.DataP[i], 0., "year %d", i)
		}
	}
}

func TestPendingCorrection(t *testing.T) {
	assert.True(t, Correction{}.IsZero())
	assert.False(t, Correction{DVc: -1}.IsZero())

	c := newTestEstuary(t, nil)
	cur := c.InitialSlot()
	fx := c.InitialFluxes(cur)
	ref := Reference{Hi0: cur.Hi, HiRef: cur.Hi, AiLag: cur.Ai}
	cur.Pending = Correction{DAi: 100, DVi: 200, DViSed: 50, DVc: -300}
	_, d, _ := c.Advance(0, cur, fx, ref, false)
	assert.Equal(t, 100., d.DAiWh)
	assert.Equal(t, 200., d.DViWh)
	assert.Equal(t, 50., d.DViSedWh)
	assert.Equal(t, -300., d.DVcWh)

	cur.Pending = Correction{}
	_, d, _ = c.Advance(0, cur, fx, ref, false)
	assert.Equal(t, 0., d.DAiWh)
	assert.Equal(t, 0., d.DVcWh)
}
