package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// loadConfig merges an optional YAML/JSON config file with environment
// variables (VULCN_ prefix) and the already-parsed flag set, flags taking
// precedence. Config loading is one of spec.md §1's named external
// collaborators ("YAML/JSON config loading"); viper is the teacher pack's
// idiom for it (streamspace's api service wires it the same way).
func loadConfig(flags *pflag.FlagSet, configPath string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("vulcn")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configPath, err)
		}
	}

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("config: bind flags: %w", err)
	}
	return v, nil
}
