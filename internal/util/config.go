package util

import (
	"github.com/spf13/viper"
)

// InitConfig initializes the config system. Settings come from the
// environment with a GATT_ prefix.
func InitConfig() {
	viper.SetEnvPrefix("gatt")
	viper.AutomaticEnv()
}

// AllConfigSettings returns all flags, configs and environment variables.
func AllConfigSettings() map[string]interface{} {
	return viper.AllSettings()
}
