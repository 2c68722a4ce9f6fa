package cli

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig holds defaults loadable from a YAML file via --config. Explicit
// flags always win over file values.
type FileConfig struct {
	Engine      string   `yaml:"engine"`
	Options     []string `yaml:"options"`
	Threads     int      `yaml:"threads"`
	Depth       uint32   `yaml:"depth"`
	Nodes       uint64   `yaml:"nodes"`
	ReportEvery int      `yaml:"report_every"`
	Database    string   `yaml:"database"`
}

// LoadConfig reads and parses a YAML config file. Unknown keys are rejected
// so typos surface instead of being silently ignored.
func LoadConfig(path string) (FileConfig, error) {
	var cfg FileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
