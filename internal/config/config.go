package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/samber/lo"

	"github.com/janekbaraniewski/tokencost/internal/core"
)

const (
	defaultRefreshIntervalSeconds = 30
	defaultCacheTTLSeconds        = 60

	envPrefix = "TOKENCOST"
)

type Config struct {
	RefreshIntervalSeconds int           `json:"refresh_interval_seconds"`
	CacheTTLSeconds        int           `json:"cache_ttl_seconds"`
	HistoryDB              string        `json:"history_db,omitempty"`
	PricingOverrides       string        `json:"pricing_overrides,omitempty"`
	Sources                []core.Source `json:"sources,omitempty"`
	CodexSessionsRoot      string        `json:"codex_sessions_root,omitempty"`
	ClaudeProjectsRoots    []string      `json:"claude_projects_roots,omitempty"`
}

// Env holds TOKENCOST_* process overrides. Source root variables
// (CODEX_HOME, CLAUDE_CONFIG_DIR) are read by the resolvers instead.
type Env struct {
	Debug     bool   `envconfig:"DEBUG" default:"false"`
	Config    string `envconfig:"CONFIG"`
	HistoryDB string `envconfig:"HISTORY_DB"`
	Pricing   string `envconfig:"PRICING"`
}

func DefaultConfig() Config {
	return Config{
		RefreshIntervalSeconds: defaultRefreshIntervalSeconds,
		CacheTTLSeconds:        defaultCacheTTLSeconds,
		Sources:                []core.Source{core.SourceCodex, core.SourceClaudeCode},
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "tokencost")
	}
	if base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); base != "" {
		return filepath.Join(base, "tokencost")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tokencost")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return Env{}, fmt.Errorf("reading %s_* environment: %w", envPrefix, err)
	}
	return env, nil
}

// Load reads the environment, then the settings file it points at (or the
// default path), and applies env overrides on top.
func Load() (Config, Env, error) {
	env, err := LoadEnv()
	if err != nil {
		return DefaultConfig(), Env{}, err
	}
	path := env.Config
	if path == "" {
		path = ConfigPath()
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		return cfg, env, err
	}
	cfg.ApplyEnv(env)
	return cfg, env, nil
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.RefreshIntervalSeconds <= 0 {
		c.RefreshIntervalSeconds = defaultRefreshIntervalSeconds
	}
	if c.CacheTTLSeconds <= 0 {
		c.CacheTTLSeconds = defaultCacheTTLSeconds
	}
	c.Sources = lo.Uniq(lo.FilterMap(c.Sources, func(s core.Source, _ int) (core.Source, bool) {
		id := core.Source(strings.ToLower(strings.TrimSpace(string(s))))
		return id, id != ""
	}))
	if len(c.Sources) == 0 {
		c.Sources = DefaultConfig().Sources
	}
	c.ClaudeProjectsRoots = lo.Compact(lo.Map(c.ClaudeProjectsRoots, func(r string, _ int) string {
		return strings.TrimSpace(r)
	}))
}

// ApplyEnv overlays non-empty env values.
func (c *Config) ApplyEnv(env Env) {
	if env.HistoryDB != "" {
		c.HistoryDB = env.HistoryDB
	}
	if env.Pricing != "" {
		c.PricingOverrides = env.Pricing
	}
}

func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// ScanOptions maps configured root overrides onto scan options.
func (c Config) ScanOptions() core.ScanOptions {
	return core.ScanOptions{
		CodexSessionsRoot:   c.CodexSessionsRoot,
		ClaudeProjectsRoots: append([]string(nil), c.ClaudeProjectsRoots...),
	}
}

// saveMu guards read-modify-write cycles on the config file.
var saveMu sync.Mutex

func SaveTo(path string, cfg Config) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
