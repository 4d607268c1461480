// Package batch runs many estuary configurations derived from one base
// parameter file: named scenarios and one-parameter sweeps.
package batch

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/mreyesc22/MorQuestCode/InputParameters"
)

// Manifest describes a batch. Paths are relative to the manifest file.
type Manifest struct {
	// Base is the parameter file every job starts from.
	Base string `yaml:"base"`

	// Workers bounds the number of concurrent runs, 0 leaves it to the caller.
	Workers int `yaml:"workers,omitempty"`

	Scenarios []Scenario `yaml:"scenarios,omitempty"`

	// Sweeps vary one parameter over an evenly spaced span.
	Sweeps []Sweep `yaml:"sweeps,omitempty"`
}

type Scenario struct {
	Name      string         `yaml:"name"`
	Overrides map[string]any `yaml:"overrides,omitempty"`
}

type Sweep struct {
	Name      string         `yaml:"name"`
	Parameter string         `yaml:"parameter"`
	From      float64        `yaml:"from"`
	To        float64        `yaml:"to"`
	N         int            `yaml:"n"`
	Overrides map[string]any `yaml:"overrides,omitempty"`
}

// Job is one fully resolved configuration.
type Job struct {
	Name   string
	Params *InputParameters.Parameters
}

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	if m.Base != "" && !filepath.IsAbs(m.Base) {
		m.Base = filepath.Join(filepath.Dir(path), m.Base)
	}
	return m, nil
}

func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Base == "" {
		return fmt.Errorf("base is required")
	}
	if m.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	names := make(map[string]bool)
	for _, sc := range m.Scenarios {
		if sc.Name == "" {
			return fmt.Errorf("scenario without a name")
		}
		if names[sc.Name] {
			return fmt.Errorf("duplicate name %q", sc.Name)
		}
		names[sc.Name] = true
	}
	for _, sw := range m.Sweeps {
		switch {
		case sw.Name == "":
			return fmt.Errorf("sweep without a name")
		case names[sw.Name]:
			return fmt.Errorf("duplicate name %q", sw.Name)
		case sw.Parameter == "":
			return fmt.Errorf("sweep %q: parameter is required", sw.Name)
		case sw.N < 2:
			return fmt.Errorf("sweep %q: n must be at least 2", sw.Name)
		}
		names[sw.Name] = true
	}
	return nil
}

// Jobs expands the manifest against base. Without scenarios or sweeps the
// base itself is the only job. Overrides are applied here but not validated;
// invalid jobs fail when they run.
func (m *Manifest) Jobs(base *InputParameters.Parameters) (jobs []Job, err error) {
	add := func(name string, overrides map[string]any) error {
		ip, err := base.Override(overrides)
		if err != nil {
			return fmt.Errorf("job %s: %w", name, err)
		}
		ip.Title = jobTitle(base.Title, name)
		jobs = append(jobs, Job{Name: name, Params: ip})
		return nil
	}
	if len(m.Scenarios) == 0 && len(m.Sweeps) == 0 {
		err = add("base", nil)
		return
	}
	for _, sc := range m.Scenarios {
		if err = add(sc.Name, sc.Overrides); err != nil {
			return
		}
	}
	for _, sw := range m.Sweeps {
		values := floats.Span(make([]float64, sw.N), sw.From, sw.To)
		for _, v := range values {
			overrides := make(map[string]any, len(sw.Overrides)+1)
			for k, val := range sw.Overrides {
				overrides[k] = val
			}
			overrides[sw.Parameter] = v
			if err = add(fmt.Sprintf("%s/%s=%g", sw.Name, sw.Parameter, v), overrides); err != nil {
				return
			}
		}
	}
	return
}

func jobTitle(title, name string) string {
	if title == "" {
		return name
	}
	return title + " / " + name
}
