package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type MineConfig struct {
	ID       uint64
	PrevHash string
	Timeout  time.Duration
}

func (c MineConfig) Validate() error {
	if c.PrevHash == "" {
		return fmt.Errorf("missing previous hash")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

func LoadMineConfigFromCLI() MineConfig {
	return MineConfig{
		ID:       viper.GetUint64("id"),
		PrevHash: viper.GetString("prev-hash"),
		Timeout:  viper.GetDuration("timeout"),
	}
}
