package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/fedroute/fedroute/routing"
)

// GetCoreConfig returns the core parameters: defaults, overlaid with the
// YAML file at path when non-empty.
func GetCoreConfig(path string) routing.Config {
	cfg := routing.DefaultConfig()
	if path == "" {
		return cfg
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Fatalf("unable to read config file %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Fatalf("unable to parse config file %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid config %s: %v", path, err)
	}
	logrus.Infof("Loaded core config from %s", path)
	return cfg
}
