package InputParameters

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baselineInput = []byte(`
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

func TestParse(t *testing.T) {
	ip := NewParameters()
	require.NoError(t, ip.Parse(baselineInput))
	assert.Equal(t, "Baseline decay", ip.Title)
	assert.Equal(t, 2.e7, ip.Ac0)
	assert.Equal(t, 1.e7, ip.Ai0)
	assert.Equal(t, 50, ip.Dur)
	assert.Equal(t, 44700., ip.T)
	assert.Equal(t, 0.3, ip.Fis)
	// Untouched keys keep their defaults
	assert.Equal(t, DefaultVout, ip.Vout)
	assert.Equal(t, DefaultPlotTimeRes, ip.PlotTimeRes)
	assert.Equal(t, 0., ip.FQr)
	assert.NoError(t, ip.Validate())

	var buf bytes.Buffer
	ip.Print(&buf)
	assert.Contains(t, buf.String(), "= dH\n")
	assert.Contains(t, buf.String(), "[linear]")
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	ip := NewParameters()
	err := ip.Parse([]byte("dH: 2\nfluxType: Roe\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Contains(t, err.Error(), "fluxType")

	err = ip.Parse([]byte("dH: [2\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestReadParameters(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "estuary.yaml")
	require.NoError(t, os.WriteFile(fileName, baselineInput, 0o644))
	ip, err := ReadParameters(fileName)
	require.NoError(t, err)
	assert.Equal(t, 2650., ip.Rho)

	_, err = ReadParameters(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	// Defaults alone are not a runnable estuary
	err := NewParameters().Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	for _, field := range []string{"dH", "cl", "betas", "cd", "dur", "rho", "si", "Ac0+Ai0"} {
		assert.Contains(t, err.Error(), field+" = ")
	}
	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "dH", ce.Field)

	base := NewParameters()
	require.NoError(t, base.Parse(baselineInput))

	bad, err := base.Override(map[string]any{"slrtype": "exponential"})
	require.NoError(t, err)
	err = bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slrtype")

	bad, err = base.Override(map[string]any{"por": 1.5, "fis": -0.1})
	require.NoError(t, err)
	err = bad.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Contains(t, err.Error(), "por")
	assert.Contains(t, err.Error(), "fis")

	bad, err = base.Override(map[string]any{"plottimeres": 0, "Ai0": -1})
	require.NoError(t, err)
	err = bad.Validate()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "plottimeres"))
	assert.True(t, strings.Contains(err.Error(), "Ai0"))
}

func TestOverride(t *testing.T) {
	base := NewParameters()
	require.NoError(t, base.Parse(baselineInput))
	op, err := base.Override(map[string]any{"slr": 1.0, "slrtype": "accel", "dur": 100})
	require.NoError(t, err)
	assert.Equal(t, 1.0, op.SLR)
	assert.Equal(t, 100, op.Dur)
	assert.Equal(t, "accel", op.Profile().String())
	// The receiver is untouched
	assert.Equal(t, 0.3, base.SLR)
	assert.Equal(t, 50, base.Dur)

	_, err = base.Override(map[string]any{"notAParameter": 1})
	assert.True(t, errors.Is(err, ErrConfiguration))

	names, values := base.Scalars()
	require.Equal(t, len(names), len(values))
	assert.Equal(t, "Ac0", names[0])
	assert.Equal(t, 2.e7, values[0])
}
