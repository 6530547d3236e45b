package config

import (
	"fmt"
	"strings"

	types "ClipForge/pkg"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type ConfigLoader struct {
	logger *zap.Logger
	v      *viper.Viper
}

func NewConfigLoader(logger *zap.Logger) *ConfigLoader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("indexing.reuse_indexes", true)
	v.SetDefault("indexing.input_range", "limited")
	return &ConfigLoader{
		logger: logger,
		v:      v,
	}
}

// Default returns a configuration equivalent to loading an empty file:
// tools resolved via PATH, indexes written next to sources and reused,
// built-in plugin map.
func Default() *Config {
	cfg := &Config{}
	cfg.Indexing.ReuseIndexes = true
	cfg.Indexing.InputRange = "limited"
	cfg.Plugins = types.DefaultPluginMap
	cfg.Logging.Level = "info"
	cfg.Logging.Output = "console"
	return cfg
}

func (cl *ConfigLoader) Load(filePath string) (*Config, error) {
	cl.v.SetConfigFile(filePath)
	if err := cl.v.ReadInConfig(); err != nil {
		cl.logger.Error("Failed to read config file", zap.String("file", filePath), zap.Error(err))
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := cl.v.Unmarshal(&cfg); err != nil {
		cl.logger.Error("Failed to unmarshal config", zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cl.validate(&cfg); err != nil {
		cl.logger.Error("Config validation failed", zap.Error(err))
		return nil, err
	}

	cl.logger.Info("Config loaded successfully", zap.String("file", filePath))
	return &cfg, nil
}

func (cl *ConfigLoader) validate(cfg *Config) error {
	switch strings.ToLower(cfg.Indexing.InputRange) {
	case "":
		cfg.Indexing.InputRange = "limited"
	case "limited", "full":
		cfg.Indexing.InputRange = strings.ToLower(cfg.Indexing.InputRange)
	default:
		return fmt.Errorf("invalid indexing.input_range: %s", cfg.Indexing.InputRange)
	}

	if len(cfg.Plugins) == 0 {
		cfg.Plugins = types.DefaultPluginMap
	}
	for i := range cfg.Plugins {
		entry := &cfg.Plugins[i]
		if entry.Plugin == "" {
			return fmt.Errorf("plugin name required for plugin map entry %d", i)
		}
		if !isValidKind(entry.Kind) {
			return fmt.Errorf("invalid source kind %q for plugin %s", entry.Kind, entry.Plugin)
		}
		for j, ext := range entry.Extensions {
			entry.Extensions[j] = strings.ToLower(strings.TrimPrefix(ext, "."))
		}
	}

	storeType := strings.ToLower(cfg.Store.Type)
	switch storeType {
	case "s3":
		if cfg.Store.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket required")
		}
		if cfg.Store.S3.Region == "" {
			return fmt.Errorf("s3 region required")
		}
		if cfg.Store.S3.AccessKeyID == "" || cfg.Store.S3.SecretAccessKey == "" {
			return fmt.Errorf("s3 access_key and secret_key required")
		}
	case "local":
		if cfg.Store.Local.BasePath == "" {
			return fmt.Errorf("base_path required for local store")
		}
	case "":
		// No shared index store configured.
	default:
		return fmt.Errorf("invalid store backend: %s", cfg.Store.Type)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if !isValidLogLevel(cfg.Logging.Level) {
		return fmt.Errorf("invalid log level: %s", cfg.Logging.Level)
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "console"
	}
	if cfg.Logging.Output == "file" && cfg.Logging.FilePath == "" {
		return fmt.Errorf("file_path required for file logging")
	}

	return nil
}

func isValidKind(kind types.SourceKind) bool {
	supported := []types.SourceKind{
		types.KindScript, types.KindMpeg2, types.KindFfms2,
		types.KindNative, types.KindImage,
	}
	for _, k := range supported {
		if kind == k {
			return true
		}
	}
	return false
}

func isValidLogLevel(level string) bool {
	levels := []string{"debug", "info", "warn", "error"}
	for _, l := range levels {
		if strings.ToLower(level) == l {
			return true
		}
	}
	return false
}
