package config

import (
	"errors"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
)

var (
	// AllowFlags defines processing the cli arguments
	// true by default
	// false on init of C-shared library libsfml
	AllowFlags = true
	// EnvPrefix defines name prefix for environment variables
	// with struct-path selector and value, for example:
	//    GOSFML_LOG_LEVEL=3
	EnvPrefix = "GOSFML_"
	// ConfigEnv defines environment variable for config file path, overrides the ConfigName
	ConfigEnv = "GOSFML_CONFIG"
	// ConfigName defines default filename for look in work directory if ConfigEnv is empty
	ConfigName = "gosfml.yaml"
)

func applyFlags() {
	if !AllowFlags {
		return
	}
	/* as applyFlags (via GetConfig) used to be called in tests init
	and std flag doesn't support it, using github.com/spf13/pflag instead */
	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	flags.StringVar(&EnvPrefix, "env-prefix", "GOSFML_",
		`prefix for environment variables, "GOSFML_" by default`)
	flags.StringVar(&ConfigEnv, "config-env", "GOSFML_CONFIG",
		`environment variable for config file path, "GOSFML_CONFIG" by default`)
	_ = flags.Parse(os.Args[1:])

	ConfigEnv = strings.TrimPrefix(ConfigEnv, "GOSFML_")
	ConfigEnv = strings.TrimPrefix(ConfigEnv, EnvPrefix)
	ConfigEnv = EnvPrefix + ConfigEnv
}

func applyEnv(v ...any) error {
	var ee []error
	for i := range v {
		if err := env.ParseWithOptions(v[i], env.Options{Prefix: EnvPrefix}); err != nil {
			ee = append(ee, err)
		}
	}
	if len(ee) > 0 {
		return errors.Join(ee...)
	}
	return nil
}
