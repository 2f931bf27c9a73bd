package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the base configuration directory name
	DefaultBaseDir = ".blobkv"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.yaml"
)

// Store backend kinds accepted in a context.
const (
	StoreFS     = "fs"
	StoreWeb    = "web"
	StoreS3     = "s3"
	StoreBadger = "badger"
	StoreMemory = "memory"
)

// Config represents the CLI configuration: a set of named store
// contexts plus the currently active one.
type Config struct {
	// CurrentContext is the name of the currently active context
	CurrentContext string `yaml:"current_context,omitempty"`

	// Contexts is a map of context name to context configuration
	Contexts map[string]*Context `yaml:"contexts,omitempty"`

	// configPath is the path to the config file
	configPath string
}

// Context describes one store backend and everything needed to
// reconstruct it. Only configuration lives here — never live handles —
// so a context round-trips through yaml unchanged.
type Context struct {
	// Name is the context name
	Name string `yaml:"name"`

	// Store is the backend kind: fs, web, s3, badger or memory
	Store string `yaml:"store"`

	// Root is the root directory - used by fs and web
	Root string `yaml:"root,omitempty"`

	// URLPrefix is the URL prefix for derived locators - used by web
	// (required) and s3 (optional). Used verbatim.
	URLPrefix string `yaml:"url_prefix,omitempty"`

	// Bucket is the bucket name - used by s3
	Bucket string `yaml:"bucket,omitempty"`

	// Prefix is the object key prefix - used by s3 (optional)
	Prefix string `yaml:"prefix,omitempty"`

	// Region is the AWS region - used by s3 (optional)
	Region string `yaml:"region,omitempty"`

	// Endpoint is a custom S3 endpoint for MinIO/R2 - used by s3
	// (optional)
	Endpoint string `yaml:"endpoint,omitempty"`

	// AccessKey and SecretKey are static credentials - used by s3
	// (optional; the default AWS credential chain applies when empty)
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`

	// DataDir is the database directory - used by badger
	// (default: ~/.blobkv/data/<context>)
	DataDir string `yaml:"data_dir,omitempty"`
}

// Validate checks that the context names a known backend and carries
// the parameters that backend requires.
func (ctx *Context) Validate() error {
	switch ctx.Store {
	case StoreFS:
		if ctx.Root == "" {
			return fmt.Errorf("context %q: fs store requires root", ctx.Name)
		}
	case StoreWeb:
		if ctx.Root == "" {
			return fmt.Errorf("context %q: web store requires root", ctx.Name)
		}
		if ctx.URLPrefix == "" {
			return fmt.Errorf("context %q: web store requires url_prefix", ctx.Name)
		}
	case StoreS3:
		if ctx.Bucket == "" {
			return fmt.Errorf("context %q: s3 store requires bucket", ctx.Name)
		}
	case StoreBadger, StoreMemory:
	default:
		return fmt.Errorf("context %q: unknown store kind %q", ctx.Name, ctx.Store)
	}
	return nil
}

// LoadConfig loads the configuration, creating an empty one on first
// use. customPath overrides the default ~/.blobkv/config.yaml.
func LoadConfig(customPath string) (*Config, error) {
	var configPath string

	if customPath != "" {
		configPath = customPath
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, DefaultBaseDir, DefaultConfigFile)
	}

	// Ensure config directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{
		Contexts:   make(map[string]*Context),
		configPath: configPath,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Create empty config file
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Ensure contexts map is initialized
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}

	cfg.configPath = configPath

	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Path returns the config file path
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the config directory path
func (c *Config) Dir() string {
	return filepath.Dir(c.configPath)
}

// AddContext validates and adds a new context
func (c *Config) AddContext(name string, ctx *Context) error {
	ctx.Name = name
	if err := ctx.Validate(); err != nil {
		return err
	}
	c.Contexts[name] = ctx
	return c.Save()
}

// DeleteContext removes a context
func (c *Config) DeleteContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	delete(c.Contexts, name)
	if c.CurrentContext == name {
		c.CurrentContext = ""
	}
	return c.Save()
}

// UseContext sets the current context
func (c *Config) UseContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return c.Save()
}

// GetContext returns a specific context
func (c *Config) GetContext(name string) (*Context, error) {
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

// GetCurrentContext returns the current context
func (c *Config) GetCurrentContext() (*Context, error) {
	if c.CurrentContext == "" {
		return nil, fmt.Errorf("no current context set")
	}
	return c.GetContext(c.CurrentContext)
}

// ResolveContext returns the context by name, or current context if name is empty
func (c *Config) ResolveContext(name string) (*Context, error) {
	if name == "" {
		return c.GetCurrentContext()
	}
	return c.GetContext(name)
}

// ListContexts returns all context names
func (c *Config) ListContexts() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	return names
}

// MaskSecret masks a credential for display
func MaskSecret(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
