package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type RunConfig struct {
	BlockTime        time.Duration
	MaxBlocks        uint64
	EnablePrometheus bool
	PrometheusAddr   string
}

func (c RunConfig) Validate() error {
	if c.BlockTime <= 0 {
		return fmt.Errorf("block time must be positive")
	}
	if c.EnablePrometheus && c.PrometheusAddr == "" {
		return fmt.Errorf("missing Prometheus address")
	}
	return nil
}

func LoadRunConfigFromCLI() RunConfig {
	return RunConfig{
		BlockTime:        viper.GetDuration("block-time"),
		MaxBlocks:        viper.GetUint64("max-blocks"),
		EnablePrometheus: viper.GetBool("enable-prometheus"),
		PrometheusAddr:   viper.GetString("prometheus-addr"),
	}
}
