package config

import (
	"bytes"
	"fmt"
	"net"
	neturl "net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort        = 2444
	defaultEnv         = "development"
	defaultDBHost      = "127.0.0.1"
	defaultDBPort      = 3306
	defaultDBUser      = "root"
	defaultDBPassword  = "password"
	defaultDBName      = "conflict_atlas"
	defaultDBCharset   = "utf8mb4"
	defaultDBLoc       = "Local"
	defaultRedisHost   = "localhost"
	defaultRedisPort   = 6379
	defaultRedisDB     = 0
	defaultSummaryTTL  = 30 // days
	defaultMaxTokens   = 600
	defaultTemperature = 1.0
	defaultUNHCRAPI    = "https://api.unhcr.org/population/v1/population/"
	defaultUCDPAPI     = "https://ucdpapi.pcr.uu.se/api"
	defaultGEDVersion  = "24.1"
	defaultMaxPages    = 5
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int
	Env            string // "development" | "production"
	DSN            string // assembled MySQL DSN
	RedisURL       string
	Database       DatabaseConfig
	Redis          RedisConfig
	AllowedOrigins []string
	JWTSecret      string
	AI             AIConfig
	Summary        SummaryConfig
	UNHCR          UNHCRConfig
	UCDP           UCDPConfig
	Geo            GeoConfig
}

type DatabaseConfig struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Charset  string
	Loc      string
}

type RedisConfig struct {
	URL      string
	Host     string
	Port     int
	Username string
	Password string
	DB       int
	TLS      bool
}

// AIProvider describes one configured text-generation backend.
type AIProvider struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"` // OpenAI | OpenAI-Compatible | Anthropic
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}

type AIConfig struct {
	Providers       []AIProvider
	MaxOutputTokens int
	Temperature     float64
}

// SummaryConfig tunes the summary cache. Prompt wording and decoding
// parameters are configuration, not contract.
type SummaryConfig struct {
	TTLDays    int
	ProviderID string // empty = first enabled provider
}

func (s SummaryConfig) TTL() time.Duration {
	return time.Duration(s.TTLDays) * 24 * time.Hour
}

type UNHCRConfig struct {
	Endpoint     string
	CacheTTLMins int
}

type UCDPConfig struct {
	Endpoint     string
	GEDVersion   string
	MaxPages     int
	CacheTTLMins int
}

type GeoConfig struct {
	// BoundariesPath points at a GeoJSON FeatureCollection of world country
	// boundaries. Empty disables polygon resolution (static map only).
	BoundariesPath string
}

type rawAppConfig struct {
	Port           int         `yaml:"port"`
	Env            string      `yaml:"env"`
	NodeEnv        string      `yaml:"node_env"`
	DSN            string      `yaml:"dsn"`
	DatabaseURL    string      `yaml:"database_url"`
	RedisURL       string      `yaml:"redis_url"`
	Database       rawDatabase `yaml:"database"`
	Redis          rawRedis    `yaml:"redis"`
	AllowedOrigins []string    `yaml:"allowed_origins"`
	CORSOrigins    []string    `yaml:"cors_allowed_origins"`
	JWTSecret      string      `yaml:"jwt_secret"`
	AI             rawAI       `yaml:"ai"`
	Summary        rawSummary  `yaml:"summary"`
	UNHCR          rawUNHCR    `yaml:"unhcr"`
	UCDP           rawUCDP     `yaml:"ucdp"`
	Geo            rawGeo      `yaml:"geo"`
	OpenAIAPIKey   string      `yaml:"openai_api_key"` // shorthand for a single OpenAI provider
}

type rawDatabase struct {
	DSN      string `yaml:"dsn"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	DBName   string `yaml:"db_name"`
	Charset  string `yaml:"charset"`
	Loc      string `yaml:"loc"`
}

type rawRedis struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       *int   `yaml:"db"`
	TLS      *bool  `yaml:"tls"`
}

type rawAI struct {
	Providers       []AIProvider `yaml:"providers"`
	MaxOutputTokens int          `yaml:"max_output_tokens"`
	Temperature     *float64     `yaml:"temperature"`
}

type rawSummary struct {
	TTLDays    int    `yaml:"ttl_days"`
	ProviderID string `yaml:"provider_id"`
}

type rawUNHCR struct {
	Endpoint     string `yaml:"endpoint"`
	CacheTTLMins int    `yaml:"cache_ttl_minutes"`
}

type rawUCDP struct {
	Endpoint     string `yaml:"endpoint"`
	GEDVersion   string `yaml:"ged_version"`
	MaxPages     int    `yaml:"max_pages"`
	CacheTTLMins int    `yaml:"cache_ttl_minutes"`
}

type rawGeo struct {
	BoundariesPath string `yaml:"boundaries_path"`
	BoundariesFile string `yaml:"boundaries_file"`
}

// Load reads and validates the YAML config at path.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg := defaultAppConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	raw := rawAppConfig{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}

	applyRaw(&cfg, raw)
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d in %q, expected 1-65535", cfg.Port, path)
	}
	if cfg.Database.Port < 1 || cfg.Database.Port > 65535 {
		return nil, fmt.Errorf("invalid database.port %d in %q, expected 1-65535", cfg.Database.Port, path)
	}
	if cfg.Redis.Port < 1 || cfg.Redis.Port > 65535 {
		return nil, fmt.Errorf("invalid redis.port %d in %q, expected 1-65535", cfg.Redis.Port, path)
	}
	if cfg.Summary.TTLDays < 1 {
		return nil, fmt.Errorf("invalid summary.ttl_days %d in %q, expected >= 1", cfg.Summary.TTLDays, path)
	}
	if cfg.UCDP.MaxPages < 1 {
		return nil, fmt.Errorf("invalid ucdp.max_pages %d in %q, expected >= 1", cfg.UCDP.MaxPages, path)
	}

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	cfg := AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseConfig{
			Host:     defaultDBHost,
			Port:     defaultDBPort,
			User:     defaultDBUser,
			Password: defaultDBPassword,
			Name:     defaultDBName,
			Charset:  defaultDBCharset,
			Loc:      defaultDBLoc,
		},
		Redis: RedisConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		AI: AIConfig{
			MaxOutputTokens: defaultMaxTokens,
			Temperature:     defaultTemperature,
		},
		Summary: SummaryConfig{TTLDays: defaultSummaryTTL},
		UNHCR:   UNHCRConfig{Endpoint: defaultUNHCRAPI, CacheTTLMins: 60},
		UCDP: UCDPConfig{
			Endpoint:     defaultUCDPAPI,
			GEDVersion:   defaultGEDVersion,
			MaxPages:     defaultMaxPages,
			CacheTTLMins: 15,
		},
	}
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	return cfg
}

func applyRaw(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.NodeEnv); v != "" {
		cfg.Env = v
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))

	cfg.Database = applyRawDatabase(cfg.Database, raw)
	cfg.Redis = applyRawRedis(cfg.Redis, raw)
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()

	switch {
	case raw.AllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	case raw.CORSOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.CORSOrigins)
	}
	if v := strings.TrimSpace(raw.JWTSecret); v != "" {
		cfg.JWTSecret = v
	}

	if raw.AI.Providers != nil {
		cfg.AI.Providers = normalizeProviders(raw.AI.Providers)
	}
	if raw.AI.MaxOutputTokens > 0 {
		cfg.AI.MaxOutputTokens = raw.AI.MaxOutputTokens
	}
	if raw.AI.Temperature != nil {
		cfg.AI.Temperature = *raw.AI.Temperature
	}
	if key := strings.TrimSpace(raw.OpenAIAPIKey); key != "" && len(cfg.AI.Providers) == 0 {
		cfg.AI.Providers = []AIProvider{{
			ID:           "openai",
			Name:         "OpenAI",
			Type:         "OpenAI",
			APIKey:       key,
			DefaultModel: "gpt-4o-mini",
			Enabled:      true,
		}}
	}

	if raw.Summary.TTLDays > 0 {
		cfg.Summary.TTLDays = raw.Summary.TTLDays
	}
	if v := strings.TrimSpace(raw.Summary.ProviderID); v != "" {
		cfg.Summary.ProviderID = v
	}

	if v := strings.TrimSpace(raw.UNHCR.Endpoint); v != "" {
		cfg.UNHCR.Endpoint = v
	}
	if raw.UNHCR.CacheTTLMins > 0 {
		cfg.UNHCR.CacheTTLMins = raw.UNHCR.CacheTTLMins
	}

	if v := strings.TrimSpace(raw.UCDP.Endpoint); v != "" {
		cfg.UCDP.Endpoint = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(raw.UCDP.GEDVersion); v != "" {
		cfg.UCDP.GEDVersion = v
	}
	if raw.UCDP.MaxPages > 0 {
		cfg.UCDP.MaxPages = raw.UCDP.MaxPages
	}
	if raw.UCDP.CacheTTLMins > 0 {
		cfg.UCDP.CacheTTLMins = raw.UCDP.CacheTTLMins
	}

	if v := strings.TrimSpace(raw.Geo.BoundariesPath); v != "" {
		cfg.Geo.BoundariesPath = v
	}
	if v := strings.TrimSpace(raw.Geo.BoundariesFile); v != "" {
		cfg.Geo.BoundariesPath = v
	}
}

func applyRawDatabase(current DatabaseConfig, raw rawAppConfig) DatabaseConfig {
	cfg := current

	for _, v := range []string{raw.Database.DSN, raw.Database.URL, raw.DSN, raw.DatabaseURL} {
		if t := strings.TrimSpace(v); t != "" {
			cfg.DSN = t
		}
	}
	if v := strings.TrimSpace(raw.Database.Host); v != "" {
		cfg.Host = v
	}
	if raw.Database.Port != 0 {
		cfg.Port = raw.Database.Port
	}
	if v := strings.TrimSpace(raw.Database.User); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.Database.Username); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.Database.Password); v != "" {
		cfg.Password = v
	}
	if v := strings.TrimSpace(raw.Database.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(raw.Database.DBName); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(raw.Database.Charset); v != "" {
		cfg.Charset = v
	}
	if v := strings.TrimSpace(raw.Database.Loc); v != "" {
		cfg.Loc = v
	}
	return cfg
}

func applyRawRedis(current RedisConfig, raw rawAppConfig) RedisConfig {
	cfg := current

	if v := strings.TrimSpace(raw.Redis.URL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.Redis.Host); v != "" {
		cfg.Host = v
	}
	if raw.Redis.Port != 0 {
		cfg.Port = raw.Redis.Port
	}
	if v := strings.TrimSpace(raw.Redis.Username); v != "" {
		cfg.Username = v
	}
	if v := strings.TrimSpace(raw.Redis.Password); v != "" {
		cfg.Password = v
	}
	if raw.Redis.DB != nil {
		cfg.DB = *raw.Redis.DB
	}
	if raw.Redis.TLS != nil {
		cfg.TLS = *raw.Redis.TLS
	}
	return cfg
}

// DSNValue assembles the MySQL DSN, preferring an explicit dsn/url.
func (c DatabaseConfig) DSNValue() string {
	if v := strings.TrimSpace(c.DSN); v != "" {
		return v
	}

	params := neturl.Values{}
	params.Set("charset", c.Charset)
	params.Set("parseTime", "true")
	params.Set("loc", c.Loc)

	auth := c.User
	if c.Password != "" {
		auth += ":" + c.Password
	}
	return fmt.Sprintf("%s@tcp(%s)/%s?%s",
		auth, net.JoinHostPort(c.Host, strconv.Itoa(c.Port)), c.Name, params.Encode())
}

// URLValue assembles the redis URL, preferring an explicit url.
func (c RedisConfig) URLValue() string {
	if u := strings.TrimSpace(c.URL); u != "" {
		if strings.HasPrefix(u, "redis://") || strings.HasPrefix(u, "rediss://") {
			return u
		}
		return "redis://" + u
	}

	scheme := "redis"
	if c.TLS {
		scheme = "rediss"
	}
	u := &neturl.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + strconv.Itoa(c.DB),
	}
	if c.Username != "" {
		if c.Password != "" {
			u.User = neturl.UserPassword(c.Username, c.Password)
		} else {
			u.User = neturl.User(c.Username)
		}
	} else if c.Password != "" {
		u.User = neturl.UserPassword("", c.Password)
	}
	return u.String()
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeProviders(providers []AIProvider) []AIProvider {
	out := make([]AIProvider, 0, len(providers))
	for _, p := range providers {
		p.ID = strings.TrimSpace(p.ID)
		p.Name = strings.TrimSpace(p.Name)
		p.Type = strings.TrimSpace(p.Type)
		p.APIKey = strings.TrimSpace(p.APIKey)
		p.Endpoint = strings.TrimSpace(p.Endpoint)
		p.DefaultModel = strings.TrimSpace(p.DefaultModel)
		out = append(out, p)
	}
	return out
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}
