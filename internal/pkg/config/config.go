package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig           `yaml:"server"`
	Logging   LoggingConfig          `yaml:"logging"`
	Odds      OddsConfig             `yaml:"odds"`
	Sheets    SheetsConfig           `yaml:"sheets"`
	Browser   BrowserConfig          `yaml:"browser"`
	Sports    map[string]SportConfig `yaml:"sports"`
	Cache     CacheConfig            `yaml:"cache"`
	Postgres  PostgresConfig         `yaml:"postgres"`
	Telegram  TelegramConfig         `yaml:"telegram"`
	Reconcile ReconcileConfig        `yaml:"reconcile"`
}

type ServerConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

type OddsConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Regions string        `yaml:"regions"`
	Markets string        `yaml:"markets"`
	Timeout time.Duration `yaml:"timeout"`
}

type SheetsConfig struct {
	BaseURL    string        `yaml:"base_url"` // published sheet CSV URL, gid is appended
	TeamColumn string        `yaml:"team_column"`
	Timeout    time.Duration `yaml:"timeout"`
}

type BrowserConfig struct {
	Enabled bool          `yaml:"enabled"`
	Wait    time.Duration `yaml:"wait"`    // settle time after navigation
	Timeout time.Duration `yaml:"timeout"`
}

// Stats source formats.
const (
	FormatCSV    = "csv"
	FormatHTML   = "html"
	FormatHTMLJS = "html_js" // rendered in a headless browser first
)

type SportConfig struct {
	OddsKey       string `yaml:"odds_key"`
	GID           string `yaml:"gid"`
	StatsURL      string `yaml:"stats_url"` // overrides sheets.base_url + gid
	StatsFormat   string `yaml:"stats_format"`
	TableSelector string `yaml:"table_selector"`
	TeamColumn    string `yaml:"team_column"` // overrides sheets.team_column
}

type CacheConfig struct {
	Backend string        `yaml:"backend"` // memory or redis
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type ReconcileConfig struct {
	ExactOnly       bool          `yaml:"exact_only"`       // disable mascot-suffix fallback
	RefreshInterval time.Duration `yaml:"refresh_interval"` // zero disables background refresh
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config and fills defaults.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		c.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Odds.BaseURL == "" {
		c.Odds.BaseURL = "https://api.the-odds-api.com"
	}
	if c.Odds.Regions == "" {
		c.Odds.Regions = "us"
	}
	if c.Odds.Markets == "" {
		c.Odds.Markets = "h2h"
	}
	if c.Odds.Timeout <= 0 {
		c.Odds.Timeout = 15 * time.Second
	}
	if c.Sheets.TeamColumn == "" {
		c.Sheets.TeamColumn = "Team"
	}
	if c.Sheets.Timeout <= 0 {
		c.Sheets.Timeout = 15 * time.Second
	}
	if c.Browser.Wait <= 0 {
		c.Browser.Wait = 3 * time.Second
	}
	if c.Browser.Timeout <= 0 {
		c.Browser.Timeout = 30 * time.Second
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 10 * time.Minute
	}
	for name, s := range c.Sports {
		if s.StatsFormat == "" {
			s.StatsFormat = FormatCSV
		}
		c.Sports[name] = s
	}
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if len(c.Sports) == 0 {
		return fmt.Errorf("at least one sport must be configured")
	}
	for name, s := range c.Sports {
		if s.OddsKey == "" {
			return fmt.Errorf("sport %s: odds_key is required", name)
		}
		if s.StatsURL == "" && (c.Sheets.BaseURL == "" || s.GID == "") {
			return fmt.Errorf("sport %s: stats_url or sheets.base_url with gid is required", name)
		}
		switch s.StatsFormat {
		case FormatCSV, FormatHTML:
		case FormatHTMLJS:
			if !c.Browser.Enabled {
				return fmt.Errorf("sport %s: stats_format html_js requires browser.enabled", name)
			}
		default:
			return fmt.Errorf("sport %s: unknown stats_format %q", name, s.StatsFormat)
		}
	}
	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required for redis backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// Sport looks up a sport by name, case-insensitively.
func (c *Config) Sport(name string) (string, SportConfig, bool) {
	if s, ok := c.Sports[name]; ok {
		return name, s, true
	}
	for k, s := range c.Sports {
		if strings.EqualFold(k, name) {
			return k, s, true
		}
	}
	return "", SportConfig{}, false
}

// SportNames returns configured sport names in sorted order.
func (c *Config) SportNames() []string {
	names := make([]string, 0, len(c.Sports))
	for k := range c.Sports {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// StatsURL returns the stats source URL for a sport.
func (c *Config) StatsURL(s SportConfig) string {
	if s.StatsURL != "" {
		return s.StatsURL
	}
	return c.Sheets.BaseURL + s.GID
}

// TeamColumn returns the team-name column for a sport.
func (c *Config) TeamColumn(s SportConfig) string {
	if s.TeamColumn != "" {
		return s.TeamColumn
	}
	return c.Sheets.TeamColumn
}
