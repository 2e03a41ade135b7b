// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/absmach/telequery/pkg/errors"
	tqsdk "github.com/absmach/telequery/pkg/sdk/go"
	"github.com/pelletier/go-toml"
	"github.com/spf13/cobra"
)

const defaultQueryURL = "http://localhost:9099"

type remotes struct {
	QueryURL        string `toml:"query_url"`
	TLSVerification bool   `toml:"tls_verification"`
	Timeout         string `toml:"timeout"`
}

type credentials struct {
	Target    string `toml:"target"`
	AuthType  string `toml:"authtype"`
	SecretKey string `toml:"secret_key"`
}

type analysisDefaults struct {
	GroupBy    string `toml:"group_by"`
	TimeColumn string `toml:"time_column"`
	TimeLayout string `toml:"time_layout"`
}

type config struct {
	Remotes   remotes          `toml:"remotes"`
	Auth      credentials      `toml:"auth"`
	Analysis  analysisDefaults `toml:"analysis"`
	RawOutput string           `toml:"raw_output"`
}

// Readable by all user groups but writeable by the user only.
const filePermission = 0o644

var (
	errReadFail            = errors.New("failed to read config file")
	errNoKey               = errors.New("no such key")
	errUnsupportedKeyValue = errors.New("unsupported data type for key")
	errWritingConfig       = errors.New("error in writing the updated config to file")
	errInvalidURL          = errors.New("invalid url")
	errURLParseFail        = errors.New("failed to parse url")
	defaultConfigPath      = "./config.toml"
)

func read(file string) (config, error) {
	c := config{}
	data, err := os.Open(file)
	if err != nil {
		return c, errors.Wrap(errReadFail, err)
	}
	defer data.Close()

	buf, err := io.ReadAll(data)
	if err != nil {
		return c, errors.Wrap(errReadFail, err)
	}

	if err := toml.Unmarshal(buf, &c); err != nil {
		return config{}, errors.Wrap(errReadFail, err)
	}

	return c, nil
}

// ParseConfig parses the config file, creating it with defaults when missing.
// Values already set on sdkConf or through flags take precedence.
func ParseConfig(sdkConf tqsdk.Config) (tqsdk.Config, error) {
	if ConfigPath == "" {
		ConfigPath = defaultConfigPath
	}

	_, err := os.Stat(ConfigPath)
	switch {
	// If the file does not exist, create it with default values.
	case os.IsNotExist(err):
		defaultConfig := config{
			Remotes: remotes{
				QueryURL:        defaultQueryURL,
				TLSVerification: false,
			},
		}
		buf, err := toml.Marshal(defaultConfig)
		if err != nil {
			return sdkConf, err
		}
		if err = os.WriteFile(ConfigPath, buf, filePermission); err != nil {
			return sdkConf, errors.Wrap(errWritingConfig, err)
		}
	case err != nil:
		return sdkConf, err
	}

	config, err := read(ConfigPath)
	if err != nil {
		return sdkConf, err
	}

	if config.RawOutput != "" {
		rawOutput, err := strconv.ParseBool(config.RawOutput)
		if err != nil {
			return sdkConf, err
		}
		RawOutput = RawOutput || rawOutput
	}

	setDefault(&Target, config.Auth.Target)
	setDefault(&AuthType, config.Auth.AuthType)
	setDefault(&Secret, config.Auth.SecretKey)
	setDefault(&GroupBy, config.Analysis.GroupBy)
	setDefault(&TimeColumn, config.Analysis.TimeColumn)
	setDefault(&TimeLayout, config.Analysis.TimeLayout)

	if sdkConf.HostURL == "" {
		sdkConf.HostURL = config.Remotes.QueryURL
	}
	if sdkConf.HostURL == "" {
		sdkConf.HostURL = defaultQueryURL
	}
	sdkConf.TLSVerification = sdkConf.TLSVerification || config.Remotes.TLSVerification
	if sdkConf.Timeout == 0 && config.Remotes.Timeout != "" {
		timeout, err := time.ParseDuration(config.Remotes.Timeout)
		if err != nil {
			return sdkConf, err
		}
		sdkConf.Timeout = timeout
	}

	return sdkConf, nil
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// NewConfigCmd returns config command to store params to local TOML file.
func NewConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config <key> <value>",
		Short: "CLI local config",
		Long:  "Local param storage to prevent repetitive passing of keys",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 2 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}

			if err := setConfigValue(args[0], args[1]); err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logOKCmd(*cmd)
		},
	}
}

func setConfigValue(key, value string) error {
	if ConfigPath == "" {
		ConfigPath = defaultConfigPath
	}
	config, err := read(ConfigPath)
	if err != nil {
		return err
	}

	if strings.Contains(key, "url") {
		u, err := url.Parse(value)
		if err != nil {
			return errors.Wrap(errInvalidURL, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return errInvalidURL
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return errURLParseFail
		}
	}
	if key == "timeout" {
		if _, err := time.ParseDuration(value); err != nil {
			return errors.Wrap(errUnsupportedKeyValue, err)
		}
	}

	configKeyToField := map[string]interface{}{
		"query_url":        &config.Remotes.QueryURL,
		"tls_verification": &config.Remotes.TLSVerification,
		"timeout":          &config.Remotes.Timeout,
		"target":           &config.Auth.Target,
		"authtype":         &config.Auth.AuthType,
		"secret_key":       &config.Auth.SecretKey,
		"group_by":         &config.Analysis.GroupBy,
		"time_column":      &config.Analysis.TimeColumn,
		"time_layout":      &config.Analysis.TimeLayout,
		"raw_output":       &config.RawOutput,
	}

	fieldPtr, ok := configKeyToField[key]
	if !ok {
		return errNoKey
	}

	fieldValue := reflect.ValueOf(fieldPtr).Elem()

	switch fieldValue.Kind() {
	case reflect.String:
		fieldValue.SetString(value)
	case reflect.Bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrap(errUnsupportedKeyValue, err)
		}
		fieldValue.SetBool(boolValue)
	default:
		return errUnsupportedKeyValue
	}

	buf, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	if err = os.WriteFile(ConfigPath, buf, filePermission); err != nil {
		return errors.Wrap(errWritingConfig, err)
	}

	return nil
}
