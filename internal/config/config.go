package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bindEnhance/internal/signature"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	HashTool       string
	CastPath       string
	EmitSignatures bool
	RegistryOut    string
	PGDSN          string
	// RegistryRetries and RegistryBackoff apply to Postgres registry writes.
	RegistryRetries int
	RegistryBackoff time.Duration
	LogLevel        string
}

// WatchConfig extends Config with the watch command's settings.
type WatchConfig struct {
	Config
	Patterns    []string
	Debounce    time.Duration
	Recursive   bool
	InitialScan bool
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := load(cfgFile, flags)
	if err != nil {
		return Config{}, err
	}
	return fromViper(v)
}

// LoadWatch merges config file, environment variables, and flags into
// WatchConfig.
func LoadWatch(cfgFile string, flags *pflag.FlagSet) (WatchConfig, error) {
	v, err := load(cfgFile, flags)
	if err != nil {
		return WatchConfig{}, err
	}
	base, err := fromViper(v)
	if err != nil {
		return WatchConfig{}, err
	}

	cfg := WatchConfig{
		Config:      base,
		Patterns:    getStringSlice(v, "pattern"),
		Debounce:    v.GetDuration("debounce"),
		Recursive:   v.GetBool("recursive"),
		InitialScan: v.GetBool("initial-scan"),
	}
	if len(cfg.Patterns) == 0 {
		return WatchConfig{}, fmt.Errorf("at least one pattern is required")
	}
	if cfg.Debounce < 0 {
		return WatchConfig{}, fmt.Errorf("debounce must not be negative")
	}
	return cfg, nil
}

func load(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("ENHANCER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("hash-tool", signature.ToolCast)
	v.SetDefault("cast-path", "cast")
	v.SetDefault("emit-signatures", false)
	v.SetDefault("registry-retries", 3)
	v.SetDefault("registry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")
	v.SetDefault("pattern", []string{"*Pack.go"})
	v.SetDefault("debounce", 300*time.Millisecond)
	v.SetDefault("recursive", false)
	v.SetDefault("initial-scan", true)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("enhancer")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		HashTool:        strings.ToLower(strings.TrimSpace(v.GetString("hash-tool"))),
		CastPath:        v.GetString("cast-path"),
		EmitSignatures:  v.GetBool("emit-signatures"),
		RegistryOut:     v.GetString("registry-out"),
		PGDSN:           v.GetString("pg-dsn"),
		RegistryRetries: v.GetInt("registry-retries"),
		RegistryBackoff: v.GetDuration("registry-backoff"),
		LogLevel:        v.GetString("log-level"),
	}
	if cfg.HashTool != signature.ToolCast && cfg.HashTool != signature.ToolBuiltin {
		return Config{}, fmt.Errorf("unsupported hash tool: %s", cfg.HashTool)
	}
	return cfg, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
