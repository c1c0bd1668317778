// Package config loads a RunConfig — the World constructor's scalar
// arguments — from environment variables and an optional config file,
// using viper the way the pack's reinforcement-learning trainer loads
// its own YAML config. No CLI flag binding is wired in: a CLI
// front-end is explicitly out of scope for this module.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// RunConfig mirrors new_world's keyword arguments.
type RunConfig struct {
	Name                   string  `mapstructure:"name"`
	TMax                   float64 `mapstructure:"t_max"`
	DeltaN                 float64 `mapstructure:"delta_n"`
	Tau                    float64 `mapstructure:"tau"`
	DuoUpdateTime          float64 `mapstructure:"duo_update_time"`
	DuoUpdateWeight        float64 `mapstructure:"duo_update_weight"`
	RouteChoiceUncertainty float64 `mapstructure:"route_choice_uncertainty"`
	PrintMode              bool    `mapstructure:"print_mode"`
	RandomSeed             int64   `mapstructure:"random_seed"`
	VehicleLogMode         int     `mapstructure:"vehicle_log_mode"`
	ScenarioPath           string  `mapstructure:"scenario_path"`
}

func defaults() RunConfig {
	return RunConfig{
		Name:            "uxsimpp",
		TMax:            3600,
		DeltaN:          5,
		Tau:             1,
		DuoUpdateTime:   300,
		DuoUpdateWeight: 0.5,
		PrintMode:       true,
		RandomSeed:      42,
		VehicleLogMode:  1,
	}
}

// configKeys lists every RunConfig mapstructure tag. AutomaticEnv alone
// only makes UXSIMPP_* env vars visible to viper's Get; Unmarshal walks
// viper's own key registry, which only gains an entry per key via
// SetDefault or BindEnv. Both are done here so every field can be
// overridden by its env var even when it's left at its zero value.
var configKeys = []string{
	"name", "t_max", "delta_n", "tau", "duo_update_time",
	"duo_update_weight", "route_choice_uncertainty", "print_mode",
	"random_seed", "vehicle_log_mode", "scenario_path",
}

// Load reads a RunConfig from UXSIMPP_-prefixed environment variables,
// optionally overlaid on a config file at filePath (ignored when
// empty). Values not set in either source keep their default.
func Load(filePath string) (RunConfig, error) {
	def := defaults()

	vp := viper.New()
	vp.SetEnvPrefix("UXSIMPP")
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()

	defaultsByKey := map[string]any{
		"name":                     def.Name,
		"t_max":                    def.TMax,
		"delta_n":                  def.DeltaN,
		"tau":                      def.Tau,
		"duo_update_time":          def.DuoUpdateTime,
		"duo_update_weight":        def.DuoUpdateWeight,
		"route_choice_uncertainty": def.RouteChoiceUncertainty,
		"print_mode":               def.PrintMode,
		"random_seed":              def.RandomSeed,
		"vehicle_log_mode":         def.VehicleLogMode,
		"scenario_path":            def.ScenarioPath,
	}
	for _, key := range configKeys {
		vp.SetDefault(key, defaultsByKey[key])
		if err := vp.BindEnv(key); err != nil {
			return def, fmt.Errorf("config: bind env %s: %w", key, err)
		}
	}

	if filePath != "" {
		vp.SetConfigFile(filePath)
		if err := vp.ReadInConfig(); err != nil {
			return def, fmt.Errorf("config: read %s: %w", filePath, err)
		}
	}

	var cfg RunConfig
	if err := vp.Unmarshal(&cfg); err != nil {
		return def, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
