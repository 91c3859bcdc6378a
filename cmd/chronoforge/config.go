package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// appConfig holds the knobs a run of the demo cares about. Decoded from
// a TOML file if one is present at the given path, on top of the
// defaults returned by defaultAppConfig.
type appConfig struct {
	Strategy    string `toml:"strategy"`
	Muted       bool   `toml:"muted"`
	Aggressive  bool   `toml:"aggressive_jitter"`
	Primed      bool   `toml:"primed_jitter"`
	Debug       bool   `toml:"debug"`
	MetricsAddr string `toml:"metrics_addr"`
}

func defaultAppConfig() appConfig {
	return appConfig{
		Strategy:    "background",
		Muted:       false,
		Aggressive:  false,
		Primed:      false,
		Debug:       false,
		MetricsAddr: "",
	}
}

// loadAppConfig reads path if it exists, overlaying onto the defaults.
// A missing file is not an error; this is a demo, not a deployed
// service with a provisioning contract. Unknown keys are reported as
// warnings rather than failures, so an older config file still loads
// against a newer binary.
func loadAppConfig(path string) (appConfig, []string, error) {
	cfg := defaultAppConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil, nil
		}
		return cfg, nil, err
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	var warnings []string
	for _, key := range md.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("unknown config key: %s", strings.Join(key, ".")))
	}
	return cfg, warnings, nil
}
