package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database    DatabaseConfig    `mapstructure:"database"`
	AI          AIConfig          `mapstructure:"ai"`
	Application ApplicationConfig `mapstructure:"application"`
}

type ApplicationConfig struct {
	Name        string        `mapstructure:"name"`
	Version     string        `mapstructure:"version"`
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	MaxUploadMB int64         `mapstructure:"max_upload_mb"`
	Storage     StorageConfig `mapstructure:"storage"`
}

type StorageConfig struct {
	// Stage is watched for incoming presentations.
	Stage string `mapstructure:"stage"`
	// Processed receives presentations once extracted; empty leaves them in Stage.
	Processed string `mapstructure:"processed"`
	// Output receives one <name>.json document per presentation.
	Output string `mapstructure:"output"`
}

type AIConfig struct {
	ActiveProvider string                      `mapstructure:"active_provider"`
	Providers      map[string]ProviderSettings `mapstructure:"providers"`
}

type ProviderSettings struct {
	Driver      string  `mapstructure:"driver"` // gemini, mock
	Key         string  `mapstructure:"key"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// Active returns the settings of the active provider. The driver defaults to
// the provider name.
func (c *AIConfig) Active() (ProviderSettings, bool) {
	name := strings.ToLower(c.ActiveProvider)
	if name == "" || name == "none" {
		return ProviderSettings{}, false
	}
	p, ok := c.Providers[name]
	if !ok {
		p = ProviderSettings{}
	}
	if p.Driver == "" {
		p.Driver = name
	}
	return p, true
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Options  string `mapstructure:"options"`
}

// IsConfigured reports whether enough settings exist to attempt a connection.
func (c *DatabaseConfig) IsConfigured() bool {
	return c.URL != "" || (c.Host != "" && c.DBName != "")
}

func (c *DatabaseConfig) GetConnectStr() string {
	if c.URL != "" {
		return c.URL
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	port := c.Port
	if port == "" {
		port = "5432"
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, port, c.DBName, sslmode)

	if c.Options != "" {
		encodedOptions := strings.ReplaceAll(c.Options, " ", "%20")
		connStr += fmt.Sprintf("&options=%s", encodedOptions)
	}

	return connStr
}

// LoadConfig reads .env, an optional config.yaml and the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: .env file not found, using system environment variables")
	}
	return loadFile("config.yaml")
}

func loadFile(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.AutomaticEnv()

	mappings := []struct {
		key, env string
	}{
		{"database.url", "DB_URL"},
		{"database.host", "PG_HOST"},
		{"database.port", "PG_PORT"},
		{"database.user", "PG_USER"},
		{"database.password", "PG_PASSWORD"},
		{"database.dbname", "PG_DB"},
		{"database.sslmode", "PG_SSLMODE"},
		{"database.options", "PG_OPTIONS"},
		{"application.host", "HOST"},
		{"application.port", "PORT"},
		{"application.max_upload_mb", "MAX_UPLOAD_MB"},
		{"ai.active_provider", "AI_PROVIDER"},

		// Storage
		{"application.storage.stage", "STORAGE_STAGE"},
		{"application.storage.processed", "STORAGE_PROCESSED"},
		{"application.storage.output", "STORAGE_OUTPUT"},

		// AI Providers
		{"ai.providers.gemini.key", "GEMINI_KEY"},
		{"ai.providers.gemini.model", "GEMINI_MODEL"},
	}

	for _, m := range mappings {
		v.BindEnv(m.key, m.env)
	}

	// Defaults
	v.SetDefault("application.name", "pptxtext")
	v.SetDefault("application.port", 8080)
	v.SetDefault("application.max_upload_mb", 64)
	v.SetDefault("application.storage.stage", "stage")
	v.SetDefault("application.storage.output", "output")
	v.SetDefault("ai.active_provider", "none")
	v.SetDefault("ai.providers.gemini.model", "gemini-2.5-flash")

	if err := v.ReadInConfig(); err != nil {
		// Ignore if config.yaml is missing
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return &cfg, nil
}
