package config

const (
	// MaxMessageLength is the maximum length for a single user message.
	// Longer input is rejected at the HTTP boundary before it reaches a session;
	// backends impose their own context limits well above this.
	MaxMessageLength = 16000

	// MaxSystemPromptLength is the maximum length for the configured system prompt.
	MaxSystemPromptLength = 8000

	// DefaultMaxLogFiles is how many rotated log files are kept.
	DefaultMaxLogFiles = 10
)
