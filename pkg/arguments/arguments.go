package arguments

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// AppMetadata identifies this running instance of orreryd for logging
// and for the port it should bind to. PublicIPv4/InstanceID let
// several instances on the same fleet be told apart in aggregated
// logs; Environment tags which config file was loaded.
type AppMetadata struct {
	PublicIPv4  string `json:"public_ipv4"`
	InstanceID  string `json:"instance_id"`
	Environment string `json:"environment"`
	Port        int
}

// Parse loads configFile through viper (also honoring ENV_-prefixed
// environment variables) and derives the process's AppMetadata from
// it, generating a fresh InstanceID for this run.
func Parse(configFile string) AppMetadata {
	viper.SetEnvPrefix("ENV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(configFile)
	viper.AddConfigPath(".")
	viper.AddConfigPath("data/config")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("could not parse configuration %q (err: %v)", configFile, err))
	}

	metadata := AppMetadata{
		PublicIPv4:  "localhost",
		InstanceID:  uuid.New().String(),
		Environment: "unknown",
		Port:        3000,
	}

	if configFile != "" {
		metadata.Environment = configFile
	}
	if viper.IsSet("App.Port") {
		metadata.Port = viper.GetInt("App.Port")
	}

	return metadata
}
