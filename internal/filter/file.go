package filter

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk YAML shape: a top-level "filters" key holding
// the criteria list.
type fileConfig struct {
	Filters []Criterion `yaml:"filters"`
}

// LoadFile reads a criteria list from a YAML file and validates it. Missing
// criteria are an error; persisted snapshots must be complete.
func LoadFile(path string) (Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Configuration{}, eris.Wrapf(err, "filter: read config %s", path)
	}

	var wrapper fileConfig
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return Configuration{}, eris.Wrap(err, "filter: parse config")
	}

	cfg := Configuration{criteria: wrapper.Filters}
	if err := cfg.Validate(); err != nil {
		return Configuration{}, err
	}
	return cfg, nil
}

// SaveFile writes a configuration snapshot as YAML, the inverse of LoadFile.
func SaveFile(cfg Configuration, path string) error {
	data, err := yaml.Marshal(fileConfig{Filters: cfg.criteria})
	if err != nil {
		return eris.Wrap(err, "filter: marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "filter: write config %s", path)
	}
	return nil
}
