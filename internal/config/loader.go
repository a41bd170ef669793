package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "SDS"

// envKeys lists every leaf key so AutomaticEnv can populate fields that the
// config file does not mention.  Viper only consults the environment for
// keys it already knows about.
var envKeys = []string{
	"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
	"server.max_body_size", "server.shutdown_timeout",
	"grpc.port",
	"database.host", "database.port", "database.user", "database.password",
	"database.db_name", "database.ssl_mode", "database.max_conns", "database.migration_path",
	"database.auto_migrate",
	"redis.addr", "redis.password", "redis.db", "redis.key_prefix",
	"session.store", "session.ttl",
	"pubchem.base_url", "pubchem.timeout", "pubchem.max_retries", "pubchem.rate_limit",
	"pubchem.burst", "pubchem.concurrency", "pubchem.cache_ttl",
	"kafka.enabled", "kafka.brokers", "kafka.group_id", "kafka.topic",
	"minio.enabled", "minio.endpoint", "minio.access_key", "minio.secret_key",
	"minio.bucket", "minio.use_ssl", "minio.presign_expiry",
	"render.enabled", "render.exec_path", "render.timeout", "render.no_sandbox",
	"log.level", "log.format",
	"metrics.enabled", "metrics.namespace", "metrics.path",
}

// newViper builds a pre-configured Viper instance: YAML file type, SDS_ env
// prefix, automatic env binding, and a key replacer that maps "." → "_" so
// that nested keys like "database.host" resolve to "SDS_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}
	return v
}

// Load reads the YAML file at configPath, merges any SDS_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.  An empty configPath loads from the environment only.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from SDS_* environment variables,
// with no config file required.
//
// Environment variable naming convention:
//
//	SDS_<SECTION>_<FIELD>   e.g.  SDS_DATABASE_HOST, SDS_PUBCHEM_TIMEOUT
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed
// Config whenever the file is written.  Only settings that are safe to swap
// at runtime, such as the log level, should be applied by the callback.
//
// Watch is non-blocking.  A change that fails to parse or validate is
// reported to onError, when set, and onChange is not called.
func Watch(configPath string, onChange func(*Config), onError func(error)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read; callers should call Load first.
	_ = v.ReadInConfig()

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// It is intended for use in main() where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
