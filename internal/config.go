package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/mkraus/slovnik/internal/mdtable"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Vault    VaultConfig       `yaml:"vault"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Auth     AuthConfig        `yaml:"auth"`
	Analyzer AnalyzerConfig    `yaml:"analyzer"`
	TTS      TTSConfig         `yaml:"tts"`
	LLM      LLMConfig         `yaml:"llm"`
	Notes    NotesConfig       `yaml:"notes"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Analyzer.Validate(); err != nil {
		return err
	}
	return c.Notes.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VaultConfig holds the path to the Markdown vault directory.
type VaultConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// AnalyzerConfig holds the grammar-analysis service settings. An empty
// server list means offline mode: notes are produced without remote
// analysis.
type AnalyzerConfig struct {
	Servers             []string `yaml:"servers"`
	RetryMax            int      `yaml:"retry_max"`
	RetryBaseSeconds    int      `yaml:"retry_base_seconds"`
	RequestDelaySeconds int      `yaml:"request_delay_seconds"`
}

// Validate validates the analyzer configuration.
func (c *AnalyzerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Servers, validation.Each(is.URL)),
		validation.Field(&c.RetryMax, validation.Min(0), validation.Max(10)),
	)
}

// Enabled reports whether remote analysis is configured.
func (c *AnalyzerConfig) Enabled() bool {
	return len(c.Servers) > 0
}

// TTSConfig holds the text-to-speech service settings. An empty URL disables
// the speak endpoint.
type TTSConfig struct {
	URL      string  `yaml:"url"`
	Voice    string  `yaml:"voice"`
	Speed    float64 `yaml:"speed"`
	Language string  `yaml:"language"`
}

// LLMConfig holds the chat-completions provider used by pattern generation.
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// NotesConfig controls where generated notes land and how vocabulary tables
// are read.
type NotesConfig struct {
	Folder            string          `yaml:"folder"`
	PatternsFolder    string          `yaml:"patterns_folder"`
	FlashcardsSection string          `yaml:"flashcards_section"`
	Columns           mdtable.Columns `yaml:"columns"`
}

// Validate validates the notes configuration.
func (c *NotesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Folder, validation.Required),
		validation.Field(&c.FlashcardsSection, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			Path: "./vault",
		},
		SQLite: SQLiteConfig{
			Path: "./slovnik.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Analyzer: AnalyzerConfig{
			RetryMax:            3,
			RetryBaseSeconds:    2,
			RequestDelaySeconds: 10,
		},
		TTS: TTSConfig{
			Voice:    "cs-CZ-standard",
			Speed:    1.0,
			Language: "cs-CZ",
		},
		Notes: NotesConfig{
			Folder:            "words",
			PatternsFolder:    "patterns",
			FlashcardsSection: "Flashcards",
			Columns:           mdtable.DefaultColumns(),
		},
	}
}
