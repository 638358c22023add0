package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds all user-facing configuration for worldmapper.
type Config struct {
	Data    DataConfig    `toml:"data"`
	Mapping MappingConfig `toml:"mapping"`
	LLM     LLMConfig     `toml:"llm"`
}

type DataConfig struct {
	Dir string `toml:"dir"`
}

type MappingConfig struct {
	// AnchorSpread selects how the anchor spiral scales longitude:
	// "compressed" keeps anchors inside ±40° lon, "full" uses ±180°.
	AnchorSpread      string  `toml:"anchor_spread"`
	MinSeparationKm   float64 `toml:"min_separation_km"`
	ConflictOffsetKm  float64 `toml:"conflict_offset_km"`
	OracleConstraints bool    `toml:"oracle_constraints"`
}

type LLMConfig struct {
	Model          string `toml:"model"`
	MaxTokens      int    `toml:"max_tokens"`
	CallsPerMinute int    `toml:"calls_per_minute"`
}

// Defaults returns a Config populated with built-in default values.
func Defaults() *Config {
	return &Config{
		Data: DataConfig{Dir: "data"},
		Mapping: MappingConfig{
			AnchorSpread:      "compressed",
			MinSeparationKm:   5,
			ConflictOffsetKm:  10,
			OracleConstraints: true,
		},
		LLM: LLMConfig{
			Model:          "claude-haiku-4-5-20251001",
			MaxTokens:      1024,
			CallsPerMinute: 20,
		},
	}
}

// Load reads a TOML config file. If the file does not exist, built-in
// defaults are returned without error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Mapping.AnchorSpread {
	case "compressed", "full":
	default:
		return fmt.Errorf("mapping.anchor_spread must be \"compressed\" or \"full\", got %q", c.Mapping.AnchorSpread)
	}
	if c.Mapping.MinSeparationKm <= 0 {
		return fmt.Errorf("mapping.min_separation_km must be positive")
	}
	if c.Mapping.ConflictOffsetKm <= 0 {
		return fmt.Errorf("mapping.conflict_offset_km must be positive")
	}
	return nil
}
