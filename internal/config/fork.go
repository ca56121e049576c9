package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type ForkConfig struct {
	LocalLength  uint
	RemoteLength uint
}

func (c ForkConfig) Validate() error {
	if c.LocalLength == 0 || c.RemoteLength == 0 {
		return fmt.Errorf("chain lengths must be at least 1 (the genesis block)")
	}
	return nil
}

func LoadForkConfigFromCLI() ForkConfig {
	return ForkConfig{
		LocalLength:  viper.GetUint("local"),
		RemoteLength: viper.GetUint("remote"),
	}
}
