// Package filter holds the active scoring preferences: five criteria, each
// independently toggled and switchable between strict and flexible mode.
// Configurations are immutable; every mutator returns a fresh copy so a
// batch always scores against one consistent snapshot.
package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/alexgrove/dealflow-cli/internal/model"
)

// Criterion names, in scoring order.
const (
	CriterionStage       = "stage"
	CriterionAI          = "ai"
	CriterionSector      = "sector"
	CriterionGeography   = "geography"
	CriterionFundingSize = "funding_size"
)

// criterionOrder is the fixed order criteria are applied in.
var criterionOrder = []string{
	CriterionStage,
	CriterionAI,
	CriterionSector,
	CriterionGeography,
	CriterionFundingSize,
}

var (
	// ErrUnknownCriterion is returned when a criterion name is not one of
	// the five built-ins.
	ErrUnknownCriterion = eris.New("unknown filter criterion")

	// ErrUnknownPreset is returned for an unrecognized preset name.
	ErrUnknownPreset = eris.New("unknown filter preset")
)

// Criterion is one scoring dimension's configuration. StrictMode converts a
// failed match into a hard rejection instead of a score penalty.
type Criterion struct {
	Name       string `json:"name" yaml:"name"`
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	StrictMode bool   `json:"strict_mode" yaml:"strict_mode"`

	// Stage parameters.
	AllowedStages []string `json:"allowed_stages,omitempty" yaml:"allowed_stages,omitempty"`

	// AI parameters.
	RequireAI bool `json:"require_ai,omitempty" yaml:"require_ai,omitempty"`

	// Sector parameters.
	TargetSectors []string `json:"target_sectors,omitempty" yaml:"target_sectors,omitempty"`

	// Geography parameters.
	PreferredCountries []string `json:"preferred_countries,omitempty" yaml:"preferred_countries,omitempty"`

	// Funding size parameters (USD).
	MinAmount  float64 `json:"min_amount,omitempty" yaml:"min_amount,omitempty"`
	MaxAmount  float64 `json:"max_amount,omitempty" yaml:"max_amount,omitempty"`
	OptimalMin float64 `json:"optimal_min,omitempty" yaml:"optimal_min,omitempty"`
	OptimalMax float64 `json:"optimal_max,omitempty" yaml:"optimal_max,omitempty"`
}

// Configuration is an ordered collection of criteria keyed by name. The
// zero value is not usable; construct via Default, ApplyPreset, or LoadFile.
type Configuration struct {
	criteria []Criterion
}

// Default returns the built-in configuration: all five criteria enabled,
// flexible mode, with the production default parameter sets.
func Default() Configuration {
	return Configuration{criteria: []Criterion{
		{
			Name:          CriterionStage,
			Enabled:       true,
			AllowedStages: []string{"pre-seed", "seed", "series a"},
		},
		{
			Name:      CriterionAI,
			Enabled:   true,
			RequireAI: true,
		},
		{
			Name:    CriterionSector,
			Enabled: true,
			TargetSectors: []string{
				"Climate Tech - Energy & Grid",
				"Climate Tech - Industrial Software",
				"Climate Tech - Energy Storage",
				"Climate Tech - Smart Manufacturing",
				"Climate Tech - Carbon & Emissions",
			},
		},
		{
			Name:               CriterionGeography,
			Enabled:            true,
			PreferredCountries: []string{"US", "Canada", "UK"},
		},
		{
			Name:       CriterionFundingSize,
			Enabled:    true,
			MinAmount:  500_000,
			MaxAmount:  15_000_000,
			OptimalMin: 1_000_000,
			OptimalMax: 8_000_000,
		},
	}}
}

// Criteria returns the criteria in scoring order. The slice is a copy;
// mutating it does not affect the configuration.
func (c Configuration) Criteria() []Criterion {
	out := make([]Criterion, len(c.criteria))
	copy(out, c.criteria)
	return out
}

// Get returns the named criterion.
func (c Configuration) Get(name string) (Criterion, error) {
	for _, crit := range c.criteria {
		if crit.Name == name {
			return crit, nil
		}
	}
	return Criterion{}, eris.Wrapf(ErrUnknownCriterion, "get %q", name)
}

// Toggle returns a copy of the configuration with the named criterion's
// Enabled flag set. The receiver is unchanged.
func (c Configuration) Toggle(name string, enabled bool) (Configuration, error) {
	out := Configuration{criteria: make([]Criterion, len(c.criteria))}
	copy(out.criteria, c.criteria)
	for i := range out.criteria {
		if out.criteria[i].Name == name {
			out.criteria[i].Enabled = enabled
			return out, nil
		}
	}
	return Configuration{}, eris.Wrapf(ErrUnknownCriterion, "toggle %q", name)
}

// SetStrict returns a copy with the named criterion's StrictMode flag set.
func (c Configuration) SetStrict(name string, strict bool) (Configuration, error) {
	out := Configuration{criteria: make([]Criterion, len(c.criteria))}
	copy(out.criteria, c.criteria)
	for i := range out.criteria {
		if out.criteria[i].Name == name {
			out.criteria[i].StrictMode = strict
			return out, nil
		}
	}
	return Configuration{}, eris.Wrapf(ErrUnknownCriterion, "set strict %q", name)
}

// MarshalJSON encodes the configuration as its ordered criteria list, the
// shape persisted by the store's filter_settings snapshots.
func (c Configuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.criteria)
}

// UnmarshalJSON decodes a criteria list and validates it.
func (c *Configuration) UnmarshalJSON(data []byte) error {
	var criteria []Criterion
	if err := json.Unmarshal(data, &criteria); err != nil {
		return eris.Wrap(err, "filter: unmarshal config")
	}
	cfg := Configuration{criteria: criteria}
	if err := cfg.Validate(); err != nil {
		return err
	}
	*c = cfg
	return nil
}

// Validate checks that a configuration is internally consistent: exactly the
// five built-in criteria, unique names, and non-inverted amount bands.
func (c Configuration) Validate() error {
	var errs []string

	seen := make(map[string]bool, len(c.criteria))
	known := make(map[string]bool, len(criterionOrder))
	for _, name := range criterionOrder {
		known[name] = true
	}

	for _, crit := range c.criteria {
		if !known[crit.Name] {
			errs = append(errs, fmt.Sprintf("unknown criterion %q", crit.Name))
			continue
		}
		if seen[crit.Name] {
			errs = append(errs, fmt.Sprintf("duplicate criterion %q", crit.Name))
		}
		seen[crit.Name] = true

		if crit.Name == CriterionFundingSize {
			if crit.MinAmount < 0 {
				errs = append(errs, "min_amount must be >= 0")
			}
			if crit.MaxAmount > 0 && crit.MaxAmount < crit.MinAmount {
				errs = append(errs, "max_amount must be >= min_amount")
			}
			if crit.OptimalMax > 0 && crit.OptimalMax < crit.OptimalMin {
				errs = append(errs, "optimal_max must be >= optimal_min")
			}
		}
	}

	for _, name := range criterionOrder {
		if !seen[name] {
			errs = append(errs, fmt.Sprintf("missing criterion %q", name))
		}
	}

	if len(errs) > 0 {
		return eris.Wrapf(model.ErrValidation, "filter: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
