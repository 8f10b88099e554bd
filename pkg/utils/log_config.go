package utils

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

func InitLogger(logLevel string) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}

	customFormatter := &logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   false,
	}
	logrus.SetFormatter(customFormatter)
	logrus.SetLevel(level)
	return nil
}

func PrintConfig(v *viper.Viper, configVars ...string) {
	var vars []string
	for _, variable := range configVars {
		value := v.GetString(variable)
		if strings.Contains(variable, "password") || strings.Contains(variable, "secret") {
			value = "***"
		}
		vars = append(vars, variable+"="+value)
	}
	logrus.Infof("action: config | result: success | variables: %s", strings.Join(vars, "; "))
}
