package filter

import "github.com/rotisserie/eris"

// Preset names. Each is a bundle of enabled/strict settings layered over
// the defaults for quick switching between investment views.
const (
	PresetAlexDefault = "alex_default"
	PresetAlexStrict  = "alex_strict"
	PresetAllDeals    = "all_deals"
	PresetClimateOnly = "climate_only"
	PresetAIOnly      = "ai_only"
)

// PresetNames lists the available presets in display order.
func PresetNames() []string {
	return []string{
		PresetAlexDefault,
		PresetAlexStrict,
		PresetAllDeals,
		PresetClimateOnly,
		PresetAIOnly,
	}
}

// ApplyPreset returns a new configuration derived from the defaults with the
// named preset's enabled/strict overrides applied.
func ApplyPreset(name string) (Configuration, error) {
	cfg := Default()

	switch name {
	case PresetAlexDefault:
		// Defaults as-is: everything enabled, flexible mode.
		return cfg, nil

	case PresetAlexStrict:
		for i := range cfg.criteria {
			cfg.criteria[i].StrictMode = true
		}
		return cfg, nil

	case PresetAllDeals:
		for i := range cfg.criteria {
			cfg.criteria[i].Enabled = false
		}
		return cfg, nil

	case PresetClimateOnly:
		for i := range cfg.criteria {
			switch cfg.criteria[i].Name {
			case CriterionSector:
				cfg.criteria[i].StrictMode = true
			case CriterionAI:
				cfg.criteria[i].Enabled = false
			}
		}
		return cfg, nil

	case PresetAIOnly:
		for i := range cfg.criteria {
			switch cfg.criteria[i].Name {
			case CriterionAI:
				cfg.criteria[i].StrictMode = true
			case CriterionSector:
				cfg.criteria[i].Enabled = false
			}
		}
		return cfg, nil
	}

	return Configuration{}, eris.Wrapf(ErrUnknownPreset, "apply %q", name)
}
