// Package forcing builds the exogenous yearly drivers of an estuary run: sea
// level, suspended sediment concentration, river discharge and the sediment
// supply volume derived from the last two.
package forcing

import (
	"math"

	"github.com/mreyesc22/MorQuestCode/InputParameters"
	"github.com/mreyesc22/MorQuestCode/types"
	"github.com/mreyesc22/MorQuestCode/utils"
)

// The time pulse profile is a fixed scenario: a half-sine ramp starting at
// PulseOnset and peaking PulseRamp years later, sampled over PulseSamples
// years.
const (
	PulseOnset   = 200
	PulseRamp    = 100
	PulseSamples = 103
)

type Series struct {
	Years    int
	Profile  types.SLRType
	Onset    int          // year the sea level response clock starts
	SLR      utils.Vector // cumulative rise, Years+1
	SLRR     utils.Vector // rise per year, Years
	SSC      utils.Vector // mg/l, Years+1
	Qr       utils.Vector // m3/s, Years+1
	Qssec    utils.Vector // Qr*ssc
	Sediment utils.Vector // yearly supply volume incl. porosity, m3/yr
}

// NewSeries expects validated parameters.
func NewSeries(ip *InputParameters.Parameters) (fs *Series) {
	var (
		N = ip.Dur + 1
	)
	fs = &Series{
		Years:   ip.Dur,
		Profile: ip.Profile(),
	}
	fs.SLR, fs.Onset = SeaLevel(fs.Profile, ip.SLR, ip.Dur)
	fs.SLRR = fs.SLR.Diff()
	fs.SSC = Growth(ip.SSC0, ip.FSSC, N)
	fs.Qr = Growth(ip.Qr0, ip.FQr, N)
	fs.Qssec = utils.NewVector(N)
	fs.Sediment = utils.NewVector(N)
	for i := 0; i < N; i++ {
		fs.Qssec.DataP[i] = fs.Qr.DataP[i] * fs.SSC.DataP[i]
		fs.Sediment.DataP[i] = SupplyVolume(fs.Qssec.DataP[i], ip.Rho, ip.Por)
	}
	return
}

// SeaLevel returns the cumulative rise over years 0..dur and the onset year.
func SeaLevel(profile types.SLRType, total float64, dur int) (slr utils.Vector, onset int) {
	var (
		N = dur + 1
	)
	slr = utils.NewVector(N)
	switch profile {
	case types.SLR_Accel:
		for t := 0; t < N; t++ {
			slr.DataP[t] = total * (math.Sin(2*math.Pi/float64(4*dur)*float64(t)-math.Pi/2) + 1)
		}
	case types.SLR_TimePulse:
		onset = PulseOnset
		var last float64
		for t := PulseOnset; t < N; t++ {
			if k := t - PulseOnset + 1; k <= PulseSamples {
				last = total * (math.Sin(2*math.Pi/float64(4*PulseRamp)*float64(k)-math.Pi/2) + 1)
			}
			slr.DataP[t] = last
		}
	case types.SLR_Linear:
		fallthrough
	default:
		rate := total / float64(dur)
		for t := 1; t < N; t++ {
			slr.DataP[t] = rate
		}
		slr.CumSum()
	}
	return
}

// Growth adds x0*f every year: x[t] = x0 + t*x0*f. A reporting step of n years
// therefore adds x0*f*n.
func Growth(x0, f float64, N int) (x utils.Vector) {
	x = utils.NewVector(N)
	if N == 0 {
		return
	}
	x.DataP[0] = x0
	for i := 1; i < N; i++ {
		x.DataP[i] = x.DataP[i-1] + x0*f
	}
	return
}

// SupplyVolume converts a sediment mass rate into a deposited volume per year.
func SupplyVolume(qssec, rho, por float64) float64 {
	if qssec == 0 {
		return 0
	}
	return qssec * utils.SecondsPerYear / rho / (1 - por)
}
