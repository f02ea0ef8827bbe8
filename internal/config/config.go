// Package config handles loading smarttodo.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/amonks/smarttodo/internal/paths"
	internalstrings "github.com/amonks/smarttodo/internal/strings"
)

// ProjectFile is the per-directory config file name.
const ProjectFile = "smarttodo.toml"

// Backends for task persistence.
const (
	BackendLocal    = "local"
	BackendSupabase = "supabase"
)

// DefaultPort is used when no server port is configured.
const DefaultPort = 8089

// DefaultAnalysisTimeout bounds remote analysis calls.
const DefaultAnalysisTimeout = 30 * time.Second

// DefaultGeminiKeyEnv names the variable holding the Gemini API key.
const DefaultGeminiKeyEnv = "GEMINI_API_KEY"

// Environment overrides.
const (
	EnvSupabaseKey = "TODO_SUPABASE_KEY"
	EnvAnalysisKey = "TODO_ANALYSIS_KEY"
	EnvLogLevel    = "TODO_LOG_LEVEL"
)

// Config represents the smarttodo.toml configuration file.
type Config struct {
	Store    Store    `toml:"store"`
	Supabase Supabase `toml:"supabase"`
	Analysis Analysis `toml:"analysis"`
	Server   Server   `toml:"server"`
	Calendar Calendar `toml:"calendar"`
	Log      Log      `toml:"log"`
}

// Store selects where tasks are kept.
type Store struct {
	// Backend is "local" or "supabase". Defaults to local.
	Backend string `toml:"backend"`
	// Dir holds the local store. Defaults to ~/.local/state/smarttodo.
	Dir string `toml:"dir"`
	// SeedSamples loads the sample tasks into an empty local store.
	SeedSamples bool `toml:"seed-samples"`
}

// Supabase configures the hosted task table.
type Supabase struct {
	URL string `toml:"url"`
	Key string `toml:"key"`
	// Owner is the user id whose rows are read and written.
	Owner string `toml:"owner"`
}

// Analysis configures the remote analysis endpoint and, for `todo serve`,
// the generator behind the locally hosted endpoint.
type Analysis struct {
	Endpoint     string        `toml:"endpoint"`
	Key          string        `toml:"key"`
	Timeout      time.Duration `toml:"timeout"`
	GeminiModel  string        `toml:"gemini-model"`
	GeminiKeyEnv string        `toml:"gemini-key-env"`
}

// GeminiKey returns the Gemini API key from the configured variable.
func (a Analysis) GeminiKey() string {
	return strings.TrimSpace(os.Getenv(a.GeminiKeyEnv))
}

// Server configures `todo serve`.
type Server struct {
	Port int `toml:"port"`
}

// Calendar configures Google Calendar sync.
type Calendar struct {
	Credentials string `toml:"credentials"`
	Token       string `toml:"token"`
	// Name is the calendar summary to sync into. Defaults to primary.
	Name string `toml:"name"`
}

// Log configures diagnostics.
type Log struct {
	Level string `toml:"level"`
}

// Load loads configuration from the project directory and the global
// config file, then applies defaults and environment overrides. Returns a
// default config if no config files exist.
func Load(projectDir string) (*Config, error) {
	configDir, err := paths.DefaultConfigDir()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(filepath.Join(configDir, "config.toml"))
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(projectDir, ProjectFile))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)
	applyEnv(merged)
	if err := applyDefaults(merged, configDir); err != nil {
		return nil, err
	}
	if err := validate(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: unknown key %q", path, undecoded[0].String())
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Store.Backend = mergeString(projectMeta.IsDefined("store", "backend"), projectCfg.Store.Backend, globalCfg.Store.Backend)
	merged.Store.Dir = mergeString(projectMeta.IsDefined("store", "dir"), projectCfg.Store.Dir, globalCfg.Store.Dir)
	merged.Store.SeedSamples = true
	if projectMeta.IsDefined("store", "seed-samples") {
		merged.Store.SeedSamples = projectCfg.Store.SeedSamples
	} else if globalMeta.IsDefined("store", "seed-samples") {
		merged.Store.SeedSamples = globalCfg.Store.SeedSamples
	}

	merged.Supabase.URL = mergeString(projectMeta.IsDefined("supabase", "url"), projectCfg.Supabase.URL, globalCfg.Supabase.URL)
	merged.Supabase.Key = mergeString(projectMeta.IsDefined("supabase", "key"), projectCfg.Supabase.Key, globalCfg.Supabase.Key)
	merged.Supabase.Owner = mergeString(projectMeta.IsDefined("supabase", "owner"), projectCfg.Supabase.Owner, globalCfg.Supabase.Owner)

	merged.Analysis.Endpoint = mergeString(projectMeta.IsDefined("analysis", "endpoint"), projectCfg.Analysis.Endpoint, globalCfg.Analysis.Endpoint)
	merged.Analysis.Key = mergeString(projectMeta.IsDefined("analysis", "key"), projectCfg.Analysis.Key, globalCfg.Analysis.Key)
	merged.Analysis.GeminiModel = mergeString(projectMeta.IsDefined("analysis", "gemini-model"), projectCfg.Analysis.GeminiModel, globalCfg.Analysis.GeminiModel)
	merged.Analysis.GeminiKeyEnv = mergeString(projectMeta.IsDefined("analysis", "gemini-key-env"), projectCfg.Analysis.GeminiKeyEnv, globalCfg.Analysis.GeminiKeyEnv)
	merged.Analysis.Timeout = globalCfg.Analysis.Timeout
	if projectMeta.IsDefined("analysis", "timeout") {
		merged.Analysis.Timeout = projectCfg.Analysis.Timeout
	}

	merged.Server.Port = globalCfg.Server.Port
	if projectMeta.IsDefined("server", "port") {
		merged.Server.Port = projectCfg.Server.Port
	}

	merged.Calendar.Credentials = mergeString(projectMeta.IsDefined("calendar", "credentials"), projectCfg.Calendar.Credentials, globalCfg.Calendar.Credentials)
	merged.Calendar.Token = mergeString(projectMeta.IsDefined("calendar", "token"), projectCfg.Calendar.Token, globalCfg.Calendar.Token)
	merged.Calendar.Name = mergeString(projectMeta.IsDefined("calendar", "name"), projectCfg.Calendar.Name, globalCfg.Calendar.Name)

	merged.Log.Level = mergeString(projectMeta.IsDefined("log", "level"), projectCfg.Log.Level, globalCfg.Log.Level)

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}

func applyEnv(cfg *Config) {
	if value := strings.TrimSpace(os.Getenv(EnvSupabaseKey)); value != "" {
		cfg.Supabase.Key = value
	}
	if value := strings.TrimSpace(os.Getenv(EnvAnalysisKey)); value != "" {
		cfg.Analysis.Key = value
	}
	if value := strings.TrimSpace(os.Getenv(EnvLogLevel)); value != "" {
		cfg.Log.Level = value
	}
	if value := strings.TrimSpace(os.Getenv(paths.EnvStateDir)); value != "" {
		cfg.Store.Dir = value
	}
}

func applyDefaults(cfg *Config, configDir string) error {
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendLocal
	}
	cfg.Store.Backend = strings.ToLower(cfg.Store.Backend)

	dir, err := paths.StateDir(cfg.Store.Dir)
	if err != nil {
		return err
	}
	if cfg.Store.Dir, err = paths.ExpandHome(dir); err != nil {
		return err
	}

	if cfg.Analysis.Timeout <= 0 {
		cfg.Analysis.Timeout = DefaultAnalysisTimeout
	}
	if cfg.Analysis.GeminiKeyEnv == "" {
		cfg.Analysis.GeminiKeyEnv = DefaultGeminiKeyEnv
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}

	if cfg.Calendar.Credentials == "" {
		cfg.Calendar.Credentials = filepath.Join(configDir, "credentials.json")
	}
	if cfg.Calendar.Token == "" {
		cfg.Calendar.Token = filepath.Join(configDir, "token.json")
	}
	for _, p := range []*string{&cfg.Calendar.Credentials, &cfg.Calendar.Token} {
		expanded, err := paths.ExpandHome(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	if cfg.Calendar.Name == "" {
		cfg.Calendar.Name = "primary"
	}
	return nil
}

func validate(cfg *Config) error {
	switch cfg.Store.Backend {
	case BackendLocal:
	case BackendSupabase:
		if internalstrings.IsBlank(cfg.Supabase.URL) {
			return fmt.Errorf("config: [supabase] url is required for the supabase backend")
		}
		if internalstrings.IsBlank(cfg.Supabase.Owner) {
			return fmt.Errorf("config: [supabase] owner is required for the supabase backend")
		}
	default:
		return fmt.Errorf("config: unknown store backend %q", cfg.Store.Backend)
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("config: port out of range: %d", cfg.Server.Port)
	}
	return nil
}

// ResolveAddr returns the address to serve on. An explicit addr may be a
// port number or host:port; otherwise the configured port on loopback is
// used.
func (c *Config) ResolveAddr(addr string) (string, error) {
	if !internalstrings.IsBlank(addr) {
		return normalizeAddr(addr)
	}
	port := c.Server.Port
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("127.0.0.1:%d", port), nil
}

func normalizeAddr(addr string) (string, error) {
	trimmed := strings.TrimSpace(addr)
	if strings.Contains(trimmed, ":") {
		return trimmed, nil
	}
	port, err := strconv.Atoi(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid port %q", trimmed)
	}
	if port <= 0 || port > 65535 {
		return "", fmt.Errorf("port out of range: %d", port)
	}
	return fmt.Sprintf("127.0.0.1:%d", port), nil
}
