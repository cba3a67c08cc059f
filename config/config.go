package config

import (
	"errors"
	"fmt"
	"strings"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/sevphysionet/sectioner/internal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// We're bootstrapping so avoid any imports from other packages
var log = logrus.New()

var validate = validator.New()

const (
	SourceTypePostgres   = "postgres"
	SourceTypeFilesystem = "filesystem"
)

// Defaults returns the values applied to any setting left empty in the
// config file and environment.
func Defaults() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Lexicon: LexiconConfig{
			Duplicates: "warn",
		},
		Source: SourceConfig{
			Type:      SourceTypePostgres,
			BatchSize: 1000,
			Postgres: PostgresConfig{
				Table: "mimiciii.noteevents",
			},
		},
		Sectioning: SectioningConfig{
			Workers:       4,
			ProgressEvery: 1000,
		},
		Output: OutputConfig{Dir: "."},
		Server: ServerConfig{Host: "0.0.0.0", Port: 8000},
	}
}

// LoadConfig loads the config file and ENV variables into a Config struct
func LoadConfig(configFile string) (*Config, error) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("SECTIONER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	// Environment variables take precedence over config file
	loadDotEnv()

	for key, env := range map[string]string{
		"source.postgres.dsn": "SECTIONER_SOURCE_POSTGRES_DSN",
		"auth.secret":         "SECTIONER_AUTH_SECRET",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", env, err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := ApplyDefaults(&cfg); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills every zero-valued setting in cfg from Defaults.
func ApplyDefaults(cfg *Config) error {
	if err := mergo.Merge(cfg, Defaults()); err != nil {
		return fmt.Errorf("failed to apply config defaults: %w", err)
	}
	return nil
}

// Validate checks cfg for settings the application cannot run with.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return NewConfigError(err)
	}
	if cfg.Source.Type == SourceTypeFilesystem && cfg.Source.Filesystem.Dir == "" {
		return NewConfigError(errors.New("source.filesystem.dir must be set"))
	}
	return nil
}

// loadDotEnv loads environment variables from .env file
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Debug(".env file not found or unable to load")
	}
}

// SetLogLevel sets the log level based on the config file. Defaults to INFO if not set or invalid
func SetLogLevel(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	internal.SetLogLevel(level)
	log.Info("Log level set to: ", level)
}
