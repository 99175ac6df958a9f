package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/3-lines-studio/prerender/internal/adapters/jsvm"
	"github.com/3-lines-studio/prerender/internal/core"
)

const (
	FileName  = "prerender"
	EnvPrefix = "PRERENDER"

	DefaultStats    = "dist/stats.json"
	DefaultLogLevel = "info"
	DefaultDebounce = 300 * time.Millisecond
)

var ErrNoPages = errors.New("no pages configured")

type Page struct {
	Template  string `mapstructure:"template"`
	Output    string `mapstructure:"output"`
	Prerender any    `mapstructure:"prerender"`
}

type Watch struct {
	Debounce time.Duration `mapstructure:"debounce"`
	Ignore   []string      `mapstructure:"ignore"`
}

type Config struct {
	Stats              string   `mapstructure:"stats"`
	OutDir             string   `mapstructure:"out_dir"`
	Namespace          string   `mapstructure:"namespace"`
	ExportName         string   `mapstructure:"export_name"`
	PlaceholderGlobals []string `mapstructure:"placeholder_globals"`
	Concurrency        int      `mapstructure:"concurrency"`
	LogLevel           string   `mapstructure:"log_level"`
	Pages              []Page   `mapstructure:"pages"`
	Watch              Watch    `mapstructure:"watch"`

	// Path is the config file that was read, empty when running on defaults.
	Path string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("stats", DefaultStats)
	v.SetDefault("namespace", core.DefaultNamespace)
	v.SetDefault("placeholder_globals", jsvm.DefaultPlaceholderGlobals)
	v.SetDefault("concurrency", runtime.NumCPU())
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("watch.debounce", DefaultDebounce)
	v.SetDefault("watch.ignore", []string{})
}

// Load reads the config file at path, or prerender.{yaml,json,toml} from
// dir when path is empty. PRERENDER_* environment variables override
// scalar keys. Relative paths in the file are resolved against the file's
// directory.
func Load(path, dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Path = v.ConfigFileUsed()

	if cfg.Path != "" {
		if err := cfg.loadPageOptions(); err != nil {
			return nil, err
		}
	}

	base := dir
	if cfg.Path != "" {
		base = filepath.Dir(cfg.Path)
	}
	cfg.resolve(base)

	return &cfg, nil
}

// loadPageOptions re-reads pages[].prerender straight from the config file.
// viper folds map keys to lower case; option keys must reach the page as
// written.
func (c *Config) loadPageOptions() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var doc struct {
		Pages []struct {
			Prerender any `yaml:"prerender" json:"prerender" toml:"prerender"`
		} `yaml:"pages" json:"pages" toml:"pages"`
	}

	switch strings.ToLower(filepath.Ext(c.Path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to parse page options: %w", err)
	}

	if len(doc.Pages) != len(c.Pages) {
		return nil
	}
	for i, page := range doc.Pages {
		c.Pages[i].Prerender = page.Prerender
	}
	return nil
}

func (c *Config) resolve(base string) {
	c.Stats = resolvePath(base, c.Stats)
	if c.OutDir == "" {
		c.OutDir = filepath.Dir(c.Stats)
	} else {
		c.OutDir = resolvePath(base, c.OutDir)
	}

	for i := range c.Pages {
		page := &c.Pages[i]
		if page.Template == "" {
			continue
		}
		page.Template = resolvePath(base, page.Template)
		if page.Output == "" {
			page.Output = filepath.Join(c.OutDir, filepath.Base(page.Template))
		} else {
			page.Output = resolvePath(base, page.Output)
		}
	}

	if c.Namespace == "" {
		c.Namespace = core.DefaultNamespace
	}
	if c.Concurrency <= 0 {
		c.Concurrency = runtime.NumCPU()
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = DefaultDebounce
	}
}

func resolvePath(base, path string) string {
	if path == "" || filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(base, path)
}

// Validate checks what a build needs: at least one page, each with a
// template.
func (c *Config) Validate() error {
	if len(c.Pages) == 0 {
		return ErrNoPages
	}
	var errs []error
	for i, page := range c.Pages {
		if page.Template == "" {
			errs = append(errs, fmt.Errorf("pages[%d]: template is required", i))
		}
	}
	return errors.Join(errs...)
}
