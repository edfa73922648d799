package config

// Config represents the full application configuration.
type Config struct {
	Version string `yaml:"version" mapstructure:"version"`

	// Storage configuration
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`

	// Anthropic (estimation + day summary) configuration
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`

	// AIMon instruction-adherence configuration
	AIMon AIMonConfig `yaml:"aimon" mapstructure:"aimon"`

	// Email reminder delivery configuration
	Email EmailConfig `yaml:"email" mapstructure:"email"`

	// Reminder loop configuration
	Reminder ReminderConfig `yaml:"reminder" mapstructure:"reminder"`

	// Web dashboard configuration
	Web WebConfig `yaml:"web" mapstructure:"web"`

	// Timezone naive timestamps are localized to
	Timezone string `yaml:"timezone" mapstructure:"timezone"`
}

// StorageConfig locates the task file.
type StorageConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// AnthropicConfig configures the LLM client. The API key comes from the
// ANTHROPIC_API_KEY environment variable, never the file.
type AnthropicConfig struct {
	APIKey string `yaml:"-" mapstructure:"-"`
	Model  string `yaml:"model" mapstructure:"model"`
}

// AIMonConfig configures the adherence detector. The API key comes from the
// AIMON_API_KEY environment variable.
type AIMonConfig struct {
	APIKey string `yaml:"-" mapstructure:"-"`
}

// EmailConfig configures Amazon SES delivery.
type EmailConfig struct {
	Region    string `yaml:"region" mapstructure:"region"`
	Sender    string `yaml:"sender" mapstructure:"sender"`
	Recipient string `yaml:"recipient" mapstructure:"recipient"`
}

// ReminderConfig configures the background loop.
type ReminderConfig struct {
	IntervalSeconds int `yaml:"interval_seconds" mapstructure:"interval_seconds"`
}

// WebConfig configures the dashboard server.
type WebConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}
