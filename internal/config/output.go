package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type OutputConfig struct {
	Format string
	Out    string
}

func (c OutputConfig) Validate() error {
	if c.Format != "json" && c.Format != "tsv" {
		return fmt.Errorf("invalid output format: %s. Valid formats are: json|tsv", c.Format)
	}
	if c.Out == "" {
		return fmt.Errorf("missing output location")
	}
	return nil
}

func LoadOutputConfigFromCLI() OutputConfig {
	return OutputConfig{
		Format: viper.GetString("format"),
		Out:    viper.GetString("out"),
	}
}
