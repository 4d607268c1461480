package InputParameters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ghodss/yaml"

	"github.com/mreyesc22/MorQuestCode/types"
)

// Parameters obtained from the YAML input file. Every field defaults to zero
// except SLRType, Vout and PlotTimeRes, see NewParameters.
type Parameters struct {
	Title       string  `json:"title,omitempty"`
	Ac0         float64 `json:"Ac0"`         // channel area, m2
	Ai0         float64 `json:"Ai0"`         // intertidal area, m2
	DH          float64 `json:"dH"`          // tidal range, m
	Qr0         float64 `json:"Qr0"`         // river discharge, m3/s
	FQr         float64 `json:"fQr"`         // yearly discharge growth, fraction of Qr0
	SSC0        float64 `json:"ssc0"`        // suspended sediment concentration, mg/l
	FSSC        float64 `json:"fssc"`        // yearly concentration growth, fraction of ssc0
	SLR         float64 `json:"slr"`         // sea level rise after dur years, m
	SLRType     string  `json:"slrtype"`     // linear, accel or timep
	IncAi       float64 `json:"incAi"`       // yearly intertidal area growth, fraction
	Tr          float64 `json:"tr"`          // channel to shore exchange fraction
	Lsys        float64 `json:"lsys"`        // system length scale, m
	Cl          float64 `json:"cl"`          // coastline length, m
	Betas       float64 `json:"betas"`       // active shoreface slope
	Cd          float64 `json:"cd"`          // closure depth, m
	Fd          float64 `json:"fd"`          // dune factor, m
	Du          float64 `json:"du"`          // dune height above the active zone, m
	Por         float64 `json:"por"`         // porosity
	Rho         float64 `json:"rho"`         // sediment density, kg/m3
	Dur         int     `json:"dur"`         // simulated span, yr
	T           float64 `json:"T"`           // tidal period, s
	Erc         float64 `json:"erc"`         // river to channel entrapment fraction
	Ecs         float64 `json:"ecs"`         // channel to shore entrapment fraction
	Fis         float64 `json:"fis"`         // river to intertidal transfer factor
	Faw         float64 `json:"faw"`         // damping of fis and fs for falling discharge
	Si          float64 `json:"si"`          // intertidal edge slope factor
	Fs          float64 `json:"fs"`          // width versus deposition split factor
	Vout        float64 `json:"Vout"`        // offshore sink volume, m3
	PlotTimeRes int     `json:"plottimeres"` // reporting cadence, yr
}

const (
	DefaultVout        = 1e10
	DefaultPlotTimeRes = 1
)

func NewParameters() *Parameters {
	return &Parameters{
		SLRType:     types.SLR_Linear.String(),
		Vout:        DefaultVout,
		PlotTimeRes: DefaultPlotTimeRes,
	}
}

// Parse overlays the YAML document onto ip. Keys not present keep their
// current value, unknown keys are rejected.
func (ip *Parameters) Parse(data []byte) (err error) {
	var (
		js []byte
	)
	if js, err = yaml.YAMLToJSON(data); err != nil {
		return &ConfigError{Reason: fmt.Sprintf("malformed YAML: %v", err)}
	}
	return ip.decodeStrict(js)
}

func (ip *Parameters) decodeStrict(js []byte) (err error) {
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.DisallowUnknownFields()
	if err = dec.Decode(ip); err != nil && err != io.EOF {
		return &ConfigError{Reason: err.Error()}
	}
	return nil
}

// ReadParameters loads a parameter file on top of the defaults. The result is
// not validated.
func ReadParameters(fileName string) (ip *Parameters, err error) {
	var (
		data []byte
	)
	if data, err = os.ReadFile(fileName); err != nil {
		return nil, fmt.Errorf("read parameters: %w", err)
	}
	ip = NewParameters()
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return
}

// Override returns a copy of ip with the named fields replaced. Keys follow
// the YAML names.
func (ip *Parameters) Override(overrides map[string]any) (op *Parameters, err error) {
	var (
		js []byte
	)
	cp := *ip
	op = &cp
	if len(overrides) == 0 {
		return
	}
	if js, err = json.Marshal(overrides); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("overrides: %v", err)}
	}
	if err = op.decodeStrict(js); err != nil {
		return nil, err
	}
	return
}

// Profile is the parsed SLRType, valid after Validate.
func (ip *Parameters) Profile() types.SLRType {
	st, _ := types.NewSLRType(ip.SLRType)
	return st
}

// Scalars returns the configuration echo in a fixed order.
func (ip *Parameters) Scalars() (names []string, values []float64) {
	names = []string{
		"Ac0", "Ai0", "dH", "Qr0", "fQr", "ssc0", "fssc", "slr", "incAi", "tr",
		"lsys", "cl", "betas", "cd", "fd", "du", "por", "rho", "dur", "T",
		"erc", "ecs", "fis", "faw", "si", "fs", "Vout", "plottimeres",
	}
	values = []float64{
		ip.Ac0, ip.Ai0, ip.DH, ip.Qr0, ip.FQr, ip.SSC0, ip.FSSC, ip.SLR, ip.IncAi, ip.Tr,
		ip.Lsys, ip.Cl, ip.Betas, ip.Cd, ip.Fd, ip.Du, ip.Por, ip.Rho, float64(ip.Dur), ip.T,
		ip.Erc, ip.Ecs, ip.Fis, ip.Faw, ip.Si, ip.Fs, ip.Vout, float64(ip.PlotTimeRes),
	}
	return
}

func (ip *Parameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "[%s]\t\t= Sea Level Rise Type\n", ip.SLRType)
	names, values := ip.Scalars()
	for i, name := range names {
		fmt.Fprintf(w, "%12.5g\t= %s\n", values[i], name)
	}
}
