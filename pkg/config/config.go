package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/curricula/config"
	ConfigFileName    = "platform.yml"
)

// PlatformConfig holds all platform configuration settings. Secrets
// (PLATFORM_DATA_KEY, DATABASE_URL) are environment-only and never read
// from the config file.
type PlatformConfig struct {
	// BindAddress is the address the API server listens on
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the API server port
	Port int `yaml:"port" json:"port"`

	// AccessTokenTTL is the access token lifetime in seconds
	AccessTokenTTL int `yaml:"access_token_ttl" json:"access_token_ttl"`

	// RefreshTokenTTL is the refresh token lifetime in seconds
	RefreshTokenTTL int `yaml:"refresh_token_ttl" json:"refresh_token_ttl"`

	// KBRoot is the root directory of the knowledge base file tree
	KBRoot string `yaml:"kb_root" json:"kb_root"`

	// DefaultTenantID is the tenant assigned to self-registered users
	DefaultTenantID string `yaml:"default_tenant_id" json:"default_tenant_id"`

	// DefaultOrgID is the organization assigned to self-registered users
	DefaultOrgID string `yaml:"default_org_id" json:"default_org_id"`

	// DefaultRole is the role assigned to self-registered users
	DefaultRole string `yaml:"default_role" json:"default_role"`

	// APIListLimitMax is the maximum number of results for listing requests
	APIListLimitMax int `yaml:"api_list_limit_max" json:"api_list_limit_max"`

	// SecretVisibleChars is how many leading/trailing characters masked
	// secrets reveal
	SecretVisibleChars int `yaml:"secret_visible_chars" json:"secret_visible_chars"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *PlatformConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *PlatformConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *PlatformConfig {
	return &PlatformConfig{
		BindAddress:        "0.0.0.0",
		Port:               8080,
		AccessTokenTTL:     900,
		RefreshTokenTTL:    604800,
		KBRoot:             "./kb",
		DefaultTenantID:    "default-tenant",
		DefaultOrgID:       "default-org",
		DefaultRole:        "teacher",
		APIListLimitMax:    1000,
		SecretVisibleChars: 4,
		sources:            make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*PlatformConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("PLATFORM_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig PlatformConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"bind_address", "port", "access_token_ttl", "refresh_token_ttl",
		"kb_root", "default_tenant_id", "default_org_id", "default_role",
		"api_list_limit_max", "secret_visible_chars",
	}
}

func (c *PlatformConfig) applyFileConfig(file *PlatformConfig) {
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.Port != 0 {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
	if file.AccessTokenTTL != 0 {
		c.AccessTokenTTL = file.AccessTokenTTL
		c.sources["access_token_ttl"] = "file"
	}
	if file.RefreshTokenTTL != 0 {
		c.RefreshTokenTTL = file.RefreshTokenTTL
		c.sources["refresh_token_ttl"] = "file"
	}
	if file.KBRoot != "" {
		c.KBRoot = file.KBRoot
		c.sources["kb_root"] = "file"
	}
	if file.DefaultTenantID != "" {
		c.DefaultTenantID = file.DefaultTenantID
		c.sources["default_tenant_id"] = "file"
	}
	if file.DefaultOrgID != "" {
		c.DefaultOrgID = file.DefaultOrgID
		c.sources["default_org_id"] = "file"
	}
	if file.DefaultRole != "" {
		c.DefaultRole = file.DefaultRole
		c.sources["default_role"] = "file"
	}
	if file.APIListLimitMax != 0 {
		c.APIListLimitMax = file.APIListLimitMax
		c.sources["api_list_limit_max"] = "file"
	}
	if file.SecretVisibleChars != 0 {
		c.SecretVisibleChars = file.SecretVisibleChars
		c.sources["secret_visible_chars"] = "file"
	}
}

func (c *PlatformConfig) applyEnvConfig() {
	if val := os.Getenv("PLATFORM_BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	if val := os.Getenv("PLATFORM_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Port = i
			c.sources["port"] = "environment"
		}
	}
	if val := os.Getenv("PLATFORM_ACCESS_TOKEN_TTL"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.AccessTokenTTL = i
			c.sources["access_token_ttl"] = "environment"
		}
	}
	if val := os.Getenv("PLATFORM_REFRESH_TOKEN_TTL"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.RefreshTokenTTL = i
			c.sources["refresh_token_ttl"] = "environment"
		}
	}
	if val := os.Getenv("KB_ROOT"); val != "" {
		c.KBRoot = val
		c.sources["kb_root"] = "environment"
	}
	if val := os.Getenv("PLATFORM_DEFAULT_TENANT_ID"); val != "" {
		c.DefaultTenantID = val
		c.sources["default_tenant_id"] = "environment"
	}
	if val := os.Getenv("PLATFORM_DEFAULT_ORG_ID"); val != "" {
		c.DefaultOrgID = val
		c.sources["default_org_id"] = "environment"
	}
	if val := os.Getenv("PLATFORM_DEFAULT_ROLE"); val != "" {
		c.DefaultRole = val
		c.sources["default_role"] = "environment"
	}
	if val := os.Getenv("PLATFORM_API_LIST_LIMIT_MAX"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.APIListLimitMax = i
			c.sources["api_list_limit_max"] = "environment"
		}
	}
	if val := os.Getenv("PLATFORM_SECRET_VISIBLE_CHARS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.SecretVisibleChars = i
			c.sources["secret_visible_chars"] = "environment"
		}
	}
}

// ConfigFilePath returns the path to the config file
func (c *PlatformConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *PlatformConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// ListenAddr returns the bind address and port joined for net.Listen
func (c *PlatformConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.BindAddress, c.Port)
}

// AccessTTL returns the access token TTL as a duration
func (c *PlatformConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTokenTTL) * time.Second
}

// RefreshTTL returns the refresh token TTL as a duration
func (c *PlatformConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTokenTTL) * time.Second
}

// Validate validates the configuration
func (c *PlatformConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("access_token_ttl must be positive, got %d", c.AccessTokenTTL)
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		return fmt.Errorf("refresh_token_ttl (%d) must exceed access_token_ttl (%d)",
			c.RefreshTokenTTL, c.AccessTokenTTL)
	}
	if c.SecretVisibleChars < 0 {
		return fmt.Errorf("secret_visible_chars must not be negative, got %d", c.SecretVisibleChars)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *PlatformConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
		{Name: "access_token_ttl", Value: strconv.Itoa(c.AccessTokenTTL), Source: c.Source("access_token_ttl")},
		{Name: "refresh_token_ttl", Value: strconv.Itoa(c.RefreshTokenTTL), Source: c.Source("refresh_token_ttl")},
		{Name: "kb_root", Value: c.KBRoot, Source: c.Source("kb_root")},
		{Name: "default_tenant_id", Value: c.DefaultTenantID, Source: c.Source("default_tenant_id")},
		{Name: "default_org_id", Value: c.DefaultOrgID, Source: c.Source("default_org_id")},
		{Name: "default_role", Value: c.DefaultRole, Source: c.Source("default_role")},
		{Name: "api_list_limit_max", Value: strconv.Itoa(c.APIListLimitMax), Source: c.Source("api_list_limit_max")},
		{Name: "secret_visible_chars", Value: strconv.Itoa(c.SecretVisibleChars), Source: c.Source("secret_visible_chars")},
	}
}

// FormatText returns a text representation of the configuration
func (c *PlatformConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-25s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-25s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-25s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *PlatformConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
