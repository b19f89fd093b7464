package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Service        ServiceConfig        `mapstructure:"service"`
	Databases      DatabasesConfig      `mapstructure:"databases"`
	Auth           AuthConfig           `mapstructure:"auth"`
	AWS            AWSConfig            `mapstructure:"aws"`
	Fees           FeesConfig           `mapstructure:"fees"`
	Reconciliation ReconciliationConfig `mapstructure:"reconciliation"`
}

type ServiceConfig struct {
	Port     string `mapstructure:"port"`
	LogLevel string `mapstructure:"logLevel"`
}

type DatabasesConfig struct {
	SQL   SQLConfig   `mapstructure:"sql"`
	Redis RedisConfig `mapstructure:"redis"`
}

type SQLConfig struct {
	Host             string `mapstructure:"host"`
	Port             string `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Database         string `mapstructure:"database"`
	ConnectionString string `mapstructure:"connection_string"`
	// SecretName, when set, resolves the password from AWS Secrets Manager.
	SecretName string `mapstructure:"secret_name"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
}

type FeesConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type ReconciliationConfig struct {
	// CronSpec schedules the nightly holdings reconciliation; empty disables it.
	CronSpec string `mapstructure:"cron_spec"`
}

// LoadConfig reads settings/appsettings.yaml, or the env-specific variant
// appsettings.<ENV>.yaml when env is non-empty. A local .env file, when
// present, is loaded first so yaml values can reference the environment.
func LoadConfig(path, env string) (*Config, error) {
	var cfg Config

	_ = godotenv.Load()

	viper.AddConfigPath(path)
	if env != "" {
		viper.SetConfigName("appsettings." + env)
	} else {
		viper.SetConfigName("appsettings")
	}
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}
	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
