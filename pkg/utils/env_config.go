package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var ErrMissingConfig = errors.New("missing config value")

// InitConfig layers flags over environment variables (PREFIX_KEY_NAME) over
// the config file at configPath. bindings maps config keys to flag names.
// An empty or missing configPath is not an error.
func InitConfig(prefix, configPath string, flags *pflag.FlagSet, bindings map[string]string) (*viper.Viper, error) {
	v := viper.New()

	v.AutomaticEnv()
	v.SetEnvPrefix(prefix)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			return nil, fmt.Errorf("%w: flag %s", ErrMissingConfig, name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, err
		}
	}

	if configPath == "" {
		return v, nil
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		return nil, err
	}
	return v, nil
}

// Require fails with ErrMissingConfig when any of keys is unset.
func Require(v *viper.Viper, keys ...string) error {
	for _, key := range keys {
		if v.GetString(key) == "" {
			return fmt.Errorf("%w: %s", ErrMissingConfig, key)
		}
	}
	return nil
}
