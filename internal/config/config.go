// Load envs from .env
// Load YAML config
// Apply defaults and env overrides
// Validate config

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	Paths    PathsConfig       `yaml:"paths"`
	Scraper  ScraperConfig     `yaml:"scraper"`
	LLM      LLMConfig         `yaml:"llm"`
	PDF      PDFConfig         `yaml:"pdf"`
	Store    StoreConfig       `yaml:"store"`
	Telegram TelegramConfig    `yaml:"telegram"`
	Server   ServerConfig      `yaml:"server"`
	Log      LogConfig         `yaml:"log"`
	Aliases  map[string]string `yaml:"aliases"`
}

type PathsConfig struct {
	Selectors   string `yaml:"selectors"`
	Resume      string `yaml:"resume"`
	Template    string `yaml:"template"`
	OutputDir   string `yaml:"output_dir"`
	DataDir     string `yaml:"data_dir"`
	Screenshots string `yaml:"screenshots"`
}

type ScraperConfig struct {
	MaxRetries      int           `yaml:"max_retries"`
	Delay           *time.Duration `yaml:"delay"`
	BackoffFactor   float64       `yaml:"backoff_factor"`
	NavTimeout      time.Duration `yaml:"nav_timeout"`
	SelectorTimeout time.Duration `yaml:"selector_timeout"`
	Headless        *bool         `yaml:"headless"`
	ScrollAfterLoad bool          `yaml:"scroll_after_load"`
}

type LLMConfig struct {
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url"`
	Model             string        `yaml:"model"`
	Temperature       float64       `yaml:"temperature"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxRetries        int           `yaml:"max_retries"`
	Delay             time.Duration `yaml:"delay"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	BulletsPerRole    int           `yaml:"bullets_per_role"`
}

type PDFConfig struct {
	Renderer string `yaml:"renderer"`
	Format   string `yaml:"format"`
	Margin   string `yaml:"margin"`
	Auto     bool   `yaml:"auto"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// IsHeadless reports whether the scraper browser runs headless (default true).
func (s ScraperConfig) IsHeadless() bool {
	return s.Headless == nil || *s.Headless
}

// RetryDelay is the pause before the second attempt. An explicit 0 disables
// the pause; unset defaults to 2s in ApplyDefaults.
func (s ScraperConfig) RetryDelay() time.Duration {
	if s.Delay == nil {
		return 0
	}
	return *s.Delay
}

// Load reads .env, the YAML file at path and env overrides, then applies
// defaults and validates. A missing YAML file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		//fall through to defaults
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.Store.DSN = dsn
		if c.Store.Driver == "" {
			c.Store.Driver = "postgres"
		}
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		c.Telegram.Token = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if level := os.Getenv("JOBBER_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	return nil
}

// ApplyDefaults fills every unset knob.
func (c *Config) ApplyDefaults() {
	//paths
	if c.Paths.Selectors == "" {
		c.Paths.Selectors = "configs/job_app_selectors.json"
	}
	if c.Paths.Resume == "" {
		c.Paths.Resume = "resources/inputs/resume_data/resume.json"
	}
	if c.Paths.Template == "" {
		c.Paths.Template = "resources/inputs/templates/default_template.html"
	}
	if c.Paths.OutputDir == "" {
		c.Paths.OutputDir = "output"
	}
	if c.Paths.DataDir == "" {
		c.Paths.DataDir = ".data"
	}
	if c.Paths.Screenshots == "" {
		c.Paths.Screenshots = filepath.Join("logs", "screenshots")
	}

	//scraper
	if c.Scraper.MaxRetries == 0 {
		c.Scraper.MaxRetries = 3
	}
	if c.Scraper.Delay == nil {
		d := 2 * time.Second
		c.Scraper.Delay = &d
	}
	if c.Scraper.BackoffFactor == 0 {
		c.Scraper.BackoffFactor = 1
	}
	if c.Scraper.NavTimeout == 0 {
		c.Scraper.NavTimeout = 10 * time.Second
	}
	if c.Scraper.SelectorTimeout == 0 {
		c.Scraper.SelectorTimeout = 3 * time.Second
	}

	//llm
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.groq.com/openai/v1/chat/completions"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "llama-3.3-70b-versatile"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.3
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 60 * time.Second
	}
	if c.LLM.MaxRetries == 0 {
		c.LLM.MaxRetries = 3
	}
	if c.LLM.Delay == 0 {
		c.LLM.Delay = 2 * time.Second
	}
	if c.LLM.RequestsPerMinute == 0 {
		c.LLM.RequestsPerMinute = 30
	}
	if c.LLM.BulletsPerRole == 0 {
		c.LLM.BulletsPerRole = 5
	}

	//pdf
	if c.PDF.Renderer == "" {
		c.PDF.Renderer = "playwright"
	}
	if c.PDF.Format == "" {
		c.PDF.Format = "Letter"
	}
	if c.PDF.Margin == "" {
		c.PDF.Margin = "0.75in"
	}

	//store
	if c.Store.Driver == "" {
		c.Store.Driver = "sqlite"
	}
	if c.Store.Driver == "sqlite" && c.Store.DSN == "" {
		c.Store.DSN = filepath.Join(c.Paths.DataDir, "jobber.db")
	}

	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if c.Scraper.MaxRetries < 1 {
		return fmt.Errorf("scraper.max_retries must be >= 1, got %d", c.Scraper.MaxRetries)
	}
	if c.Scraper.RetryDelay() < 0 {
		return fmt.Errorf("scraper.delay must not be negative")
	}
	if c.Scraper.BackoffFactor < 1 {
		return fmt.Errorf("scraper.backoff_factor must be >= 1, got %v", c.Scraper.BackoffFactor)
	}
	if c.Scraper.NavTimeout <= 0 || c.Scraper.SelectorTimeout <= 0 {
		return fmt.Errorf("scraper timeouts must be positive")
	}
	if c.LLM.MaxRetries < 1 {
		return fmt.Errorf("llm.max_retries must be >= 1, got %d", c.LLM.MaxRetries)
	}
	switch c.PDF.Renderer {
	case "playwright", "chromedp":
	default:
		return fmt.Errorf("unknown pdf.renderer %q", c.PDF.Renderer)
	}
	switch c.Store.Driver {
	case "sqlite", "postgres", "none":
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	if c.Store.Driver == "postgres" && c.Store.DSN == "" {
		return fmt.Errorf("store.dsn (or DATABASE_URL) is required for postgres")
	}
	return nil
}
