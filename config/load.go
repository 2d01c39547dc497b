package config

import (
	"lendpool/core"

	"github.com/asaskevich/govalidator"
	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file, env vars with the LENDPOOL prefix override
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("LENDPOOL")
	if err := configUtil.LoadYaml(configFile, config); err != nil {
		return err
	}

	if _, err := govalidator.ValidateStruct(config.App); err != nil {
		return err
	}

	return nil
}
