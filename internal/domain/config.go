package domain

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/ghprofile.yaml"
	DefaultEndpoint   = "https://github.com/api/v2/json/user/show"
	DefaultAuthScheme = "OAuth"
)

// Config is base config in /etc/ghprofile.yaml
type Config struct {
	GitHub          GitHubConfig  `yaml:"github"`
	DBPath          string        `yaml:"db_path"`
	LogLevel        string        `yaml:"log_level"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

type GitHubConfig struct {
	AccessToken string        `yaml:"access_token"`
	Endpoint    string        `yaml:"endpoint"`
	AuthScheme  string        `yaml:"auth_scheme"`
	Timeout     time.Duration `yaml:"timeout"`
	Debug       bool          `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		GitHub: GitHubConfig{
			Endpoint:   DefaultEndpoint,
			AuthScheme: DefaultAuthScheme,
			Timeout:    10 * time.Second,
		},
		DBPath:          "/var/lib/ghprofile/profiles.db",
		LogLevel:        "info",
		RefreshInterval: time.Minute,
	}
}

// LoadConfig reads the yaml file at path on top of the defaults. A missing or
// broken file is not fatal, the defaults are used instead.
func LoadConfig(path string) *Config {
	cfg := DefaultConfig()

	cfgfile, cfgErr := os.ReadFile(path)
	if cfgErr != nil {
		log.Warn().Msgf("open config file, using defaults: %s", cfgErr.Error())
		return &cfg
	}

	cfgErr = yaml.Unmarshal(cfgfile, &cfg)
	if cfgErr != nil {
		log.Warn().Msgf("parse config file, using defaults: %s", cfgErr.Error())
		def := DefaultConfig()
		return &def
	}

	return &cfg
}
