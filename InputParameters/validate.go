package InputParameters

import (
	_ "embed"
	"errors"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/mreyesc22/MorQuestCode/types"
)

//go:embed bounds.cue
var boundsSchema string

// Validate checks every rule and returns all violations joined together.
func (ip *Parameters) Validate() error {
	var errs []error
	positive := func(name string, val float64) {
		if !(val > 0) {
			errs = append(errs, &ConfigError{Field: name, Value: val, Reason: "must be positive"})
		}
	}
	nonNegative := func(name string, val float64) {
		if !(val >= 0) {
			errs = append(errs, &ConfigError{Field: name, Value: val, Reason: "must not be negative"})
		}
	}
	positive("dH", ip.DH)
	positive("cl", ip.Cl)
	positive("betas", ip.Betas)
	positive("cd", ip.Cd)
	positive("rho", ip.Rho)
	positive("si", ip.Si)
	if ip.Dur <= 0 {
		errs = append(errs, &ConfigError{Field: "dur", Value: ip.Dur, Reason: "must be a positive number of years"})
	}
	if ip.PlotTimeRes < 1 {
		errs = append(errs, &ConfigError{Field: "plottimeres", Value: ip.PlotTimeRes, Reason: "must be at least one year"})
	}
	nonNegative("Ac0", ip.Ac0)
	nonNegative("Ai0", ip.Ai0)
	if ip.Ac0+ip.Ai0 <= 0 {
		errs = append(errs, &ConfigError{Field: "Ac0+Ai0", Value: ip.Ac0 + ip.Ai0, Reason: "basin area must be positive"})
	}
	if _, err := types.NewSLRType(ip.SLRType); err != nil {
		errs = append(errs, &ConfigError{Field: "slrtype", Value: ip.SLRType, Reason: err.Error()})
	}
	errs = append(errs, ip.checkBounds()...)
	return errors.Join(errs...)
}

// checkBounds unifies the parameters with the embedded CUE ranges.
func (ip *Parameters) checkBounds() (errs []error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(boundsSchema).LookupPath(cue.ParsePath("parameters"))
	if err := schema.Err(); err != nil {
		return []error{&ConfigError{Reason: "bounds schema: " + err.Error()}}
	}
	data := ctx.Encode(ip)
	err := schema.Unify(data).Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}
	for _, ce := range cueerrors.Errors(err) {
		var (
			field string
			value any
			path  = ce.Path()
		)
		if len(path) != 0 {
			field = path[len(path)-1]
			if fv := data.LookupPath(cue.MakePath(cue.Str(field))); fv.Exists() {
				value, _ = fv.Float64()
			}
		}
		errs = append(errs, &ConfigError{Field: field, Value: value, Reason: ce.Error()})
	}
	return
}
