package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose   bool            `mapstructure:"verbose"`
	Config    string          `mapstructure:"config"`
	Data      DataConfig      `mapstructure:"data" validate:"required"`
	User      UserConfig      `mapstructure:"user"`
	LLM       LLMConfig       `mapstructure:"llm" validate:"omitempty"`
	Prompts   PromptsConfig   `mapstructure:"prompts"`
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// DataConfig holds data storage configuration
type DataConfig struct {
	Dir    string `mapstructure:"dir"`
	File   string `mapstructure:"file" validate:"required"`
	Format string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
	// Backend picks the TaskStore implementation.
	Backend string `mapstructure:"backend" validate:"required,oneof=file sqlite postgres"`
	// DSN is the postgres connection string.
	DSN string `mapstructure:"dsn" validate:"required_if=Backend postgres"`
}

// UserConfig holds the default owner for new tasks
type UserConfig struct {
	ID string `mapstructure:"id"`
}

// LLMConfig holds configuration for the suggestion provider
type LLMConfig struct {
	Provider string `mapstructure:"provider" validate:"omitempty,oneof=openai ollama anthropic gemini"`
	Model    string `mapstructure:"model" validate:"omitempty,min=1"`
	APIKey   string `mapstructure:"apiKey"`
	BaseURL  string `mapstructure:"baseURL" validate:"omitempty,url"`
	// RequestTimeoutSeconds bounds one breakdown request before falling back
	RequestTimeoutSeconds int `mapstructure:"requestTimeoutSeconds" validate:"omitempty,min=1,max=600"`
	// Language is the natural language suggestions are written in
	Language string `mapstructure:"language"`
}

// PromptsConfig points at a directory of prompt overrides
type PromptsConfig struct {
	TemplatesDir string `mapstructure:"templatesDir"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// TelemetryConfig holds usage analytics settings
type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	APIKey   string `mapstructure:"apiKey"`
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}
