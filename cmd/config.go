package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/yukitake212/first-hackathon-product/internal/config"
	"github.com/yukitake212/first-hackathon-product/types"
)

const (
	projectConfigDir = ".taskcal"
	envPrefix        = "TASKCAL"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// configErr is the error from the last InitConfig. Commands that need the
// configuration report it instead of exiting during initialization.
var configErr error

// validate is a single instance of Validate, it caches struct info
var validate = validator.New()

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(cfg *types.AppConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// It's okay if .env doesn't exist.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	cfgFileFlag := viper.GetString("config")
	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		viper.SetConfigName(config.ConfigFileName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(projectConfigDir)
		if dir, err := config.GetGlobalConfigDir(); err == nil {
			viper.AddConfigPath(dir)
		}
	}

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		case cfgFileFlag != "":
			configErr = fmt.Errorf("read config file %s: %w", cfgFileFlag, err)
			return
		default:
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	cfg, err := loadAppConfig()
	if err != nil {
		configErr = err
		return
	}
	GlobalAppConfig = *cfg
	configErr = nil
}

// setDefaults registers every key so AutomaticEnv overrides reach Unmarshal.
func setDefaults() {
	viper.SetDefault("data.dir", "")
	viper.SetDefault("data.file", "tasks.json")
	viper.SetDefault("data.format", "json")
	viper.SetDefault("data.backend", "file")
	viper.SetDefault("data.dsn", "")

	viper.SetDefault("user.id", "")

	viper.SetDefault("llm.provider", "")
	viper.SetDefault("llm.model", "")
	viper.SetDefault("llm.apiKey", "")
	viper.SetDefault("llm.baseURL", "")
	viper.SetDefault("llm.requestTimeoutSeconds", int(config.DefaultRequestTimeout.Seconds()))
	viper.SetDefault("llm.language", "English")

	viper.SetDefault("prompts.templatesDir", "")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowedOrigins", []string{})

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.apiKey", "")
	viper.SetDefault("telemetry.endpoint", "")
}

func loadAppConfig() (*types.AppConfig, error) {
	var cfg types.AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validateAppConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetConfig returns the loaded configuration, or the error that prevented loading it.
func GetConfig() (*types.AppConfig, error) {
	if configErr != nil {
		return nil, configErr
	}
	return &GlobalAppConfig, nil
}
