package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rob3c/aws-resource-providers/internal/meta"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var defaultConfigFileName = "config.yaml"

// GetDefaultConfigPath returns the expanded default config directory
// depending on what environment variables are set. If XDG_CONFIG_HOME is
// set, the default is $XDG_CONFIG_HOME/awsrp, otherwise it is
// os.UserHomeDir()/.config/awsrp.
func GetDefaultConfigPath() (string, error) {
	val, set := os.LookupEnv("XDG_CONFIG_HOME")
	if !set || val == "" {
		var err error
		val, err = os.UserHomeDir()
		if err != nil {
			return "", err
		}
		val = filepath.Join(val, ".config")
	}
	val = filepath.Join(val, meta.CLIName)
	return os.ExpandEnv(val), nil
}

// ExpandDefaultConfigFilePath returns the default config file path,
// or an empty string when the home directory cannot be resolved.
func ExpandDefaultConfigFilePath() string {
	path, err := GetDefaultConfigPath()
	if err != nil {
		return ""
	}
	return filepath.Join(path, defaultConfigFileName)
}

// GetConfig returns the configuration for this instance of the CLI. A
// missing file at the default path is not an error; the configuration then
// consists of environment variables and bound flags only. A user-provided
// path that does not exist is a hard error.
func GetConfig(path string, profile string) (*ProfiledConfig, error) {
	path = os.ExpandEnv(path)

	mainv := v.New()
	mainv.SetConfigFile(path)
	mainv.SetConfigType("yaml")

	if _, err := os.Stat(path); err == nil {
		if err := mainv.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if path != ExpandDefaultConfigFilePath() {
		return nil, fmt.Errorf("the provided config file path does not exist: %s", path)
	}

	return BuildProfiledConfig(profile, path, mainv), nil
}

// Empty type to represent the _type_ Config. Genesis is to support a key in a Context
type Key struct{}

// ConfigKey is a global instance of the Key type
var ConfigKey = Key{}

// Hook provides a generalization of the Viper interface with a restricted
// surface for commands.
type Hook interface {
	// Save writes the configuration to the file system
	Save() error
	// GetString returns a string value from the configuration
	GetString(key string) string
	// GetBool returns a boolean value from the configuration
	GetBool(key string) bool
	// GetInt returns an integer value from the configuration
	GetInt(key string) int
	// GetIntOrElse returns an integer value from the configuration or a default
	GetIntOrElse(key string, orElse int) int
	// SetString sets an override for a given string
	SetString(key string, value string)
	// Set sets an override for a given key
	Set(k string, v any)
	// Get returns a value from the configuration
	Get(key string) any
	// BindFlag takes a specific configuration path and binds it to a specific flag
	BindFlag(configPath string, f *pflag.Flag) error
	// GetProfile returns the profile for this configuration
	GetProfile() string
	// GetPath returns the file path used to load this configuration
	GetPath() string
}

// ProfiledConfig is a Viper with an associated profile name. Values are
// resolved from the profile specific sub-configuration, which allows one
// config file to hold multiple named profiles at its top level.
type ProfiledConfig struct {
	*v.Viper
	subViper    *v.Viper
	ProfileName string
	Path        string
}

func (p *ProfiledConfig) GetProfile() string {
	return p.ProfileName
}

func (p *ProfiledConfig) Save() error {
	return p.WriteConfig()
}

func (p *ProfiledConfig) GetString(key string) string {
	return p.subViper.GetString(key)
}

func (p *ProfiledConfig) GetBool(key string) bool {
	return p.subViper.GetBool(key)
}

func (p *ProfiledConfig) GetInt(key string) int {
	return p.subViper.GetInt(key)
}

func (p *ProfiledConfig) GetIntOrElse(key string, orElse int) int {
	if p.subViper.IsSet(key) {
		return p.subViper.GetInt(key)
	}
	return orElse
}

func (p *ProfiledConfig) BindFlag(configPath string, f *pflag.Flag) error {
	return p.subViper.BindPFlag(configPath, f)
}

func (p *ProfiledConfig) SetString(k string, v string) {
	p.subViper.Set(k, v)
}

func (p *ProfiledConfig) Set(k string, v any) {
	p.subViper.Set(k, v)
}

func (p *ProfiledConfig) Get(key string) any {
	return p.subViper.Get(key)
}

func (p *ProfiledConfig) GetPath() string {
	return p.Path
}

func BuildProfiledConfig(profile string, path string, mainv *v.Viper) *ProfiledConfig {
	subv := mainv.Sub(profile)
	if subv == nil {
		// the main viper is valid, but there is no key or data under the
		// key for this profile name
		subv = v.New()
	}

	// Profile-specific environment variables can be read even when the
	// profile does not exist in the config file, e.g.
	// AWSRP_DEFAULT_AWS_REGION -> aws.region for the "default" profile.
	envPrefix := strings.ToUpper(meta.CLIName) + "_" + strings.ToUpper(strings.ReplaceAll(profile, "-", "_"))
	subv.SetEnvPrefix(envPrefix)
	subv.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	subv.AutomaticEnv()

	return &ProfiledConfig{
		Viper:       mainv,
		ProfileName: profile,
		subViper:    subv,
		Path:        path,
	}
}
