package config

import (
	"os"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Storage: StorageConfig{
			Path: "tasks.json",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-3-opus-20240229",
		},
		Email: EmailConfig{
			Region: "us-east-1",
		},
		Reminder: ReminderConfig{
			IntervalSeconds: 60,
		},
		Web: WebConfig{
			Addr: ":8080",
		},
		Timezone: "UTC",
	}
}

// WriteDefault writes the default global configuration to a file.
func WriteDefault(path string) error {
	content := `# Todo Global Configuration
version: "1"

# Task storage (a single JSON file, rewritten on every change)
storage:
  path: tasks.json

# Anthropic model for time estimation and day summaries.
# The API key is read from the ANTHROPIC_API_KEY environment variable.
anthropic:
  model: claude-3-opus-20240229

# AIMon instruction-adherence checking.
# The API key is read from the AIMON_API_KEY environment variable.
# aimon: {}

# Email reminders via Amazon SES. Leave sender empty to disable.
# EMAIL_SENDER and TODO_USER_EMAIL environment variables override these.
email:
  region: us-east-1
  sender: ""
  recipient: ""

# Background reminder loop
reminder:
  interval_seconds: 60

# Web dashboard
web:
  addr: ":8080"

# Timezone naive timestamps are localized to
timezone: UTC
`
	return os.WriteFile(path, []byte(content), 0644)
}
