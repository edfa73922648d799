package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load merges configuration from global and project sources, then applies
// environment overrides for secrets. Missing files fall back to defaults;
// missing credentials degrade features downstream, never abort startup.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err == nil {
		globalPath := filepath.Join(home, ".todo", "config.yaml")
		if err := loadFile(globalPath, cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	cwd, err := os.Getwd()
	if err == nil {
		projectPath := filepath.Join(cwd, ".todo", "config.yaml")
		if err := loadFile(projectPath, cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}

// applyEnv pulls secrets and overrides from the environment. Credentials are
// never read from config files.
func applyEnv(cfg *Config) {
	cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.AIMon.APIKey = os.Getenv("AIMON_API_KEY")

	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Email.Region = v
	}
	if v := os.Getenv("EMAIL_SENDER"); v != "" {
		cfg.Email.Sender = v
	}
	if v := os.Getenv("TODO_USER_EMAIL"); v != "" {
		cfg.Email.Recipient = v
	}
	if v := os.Getenv("TODO_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".todo", "config.yaml")
}

// ProjectConfigPath returns the path to the project config file.
func ProjectConfigPath() string {
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, ".todo", "config.yaml")
}
