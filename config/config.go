// Package config loads the YAML configuration shared by every deptree command.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/deptree/decoder"
	"github.com/katalvlaran/deptree/relations"
)

// ErrInvalidConf indicates a configuration that cannot be used.
var ErrInvalidConf = errors.New("config: invalid configuration")

// Dictionary store backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

const (
	dfltLogLevel          = "info"
	dfltListenAddress     = "127.0.0.1"
	dfltListenPort        = 8090
	dfltReadTimeoutSecs   = 30
	dfltWriteTimeoutSecs  = 60
	dfltMaxSentenceTokens = 200
	dfltRedisHost         = "localhost"
	dfltRedisPort         = 6379
	redisPingTimeout      = 5 * time.Second
)

// RedisConf addresses the Redis instance holding the relation dictionary.
type RedisConf struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DB       int    `yaml:"db"`
	Password string `yaml:"password"`
	Key      string `yaml:"key"`
}

// DictionaryConf selects where the relation dictionary is persisted.
type DictionaryConf struct {
	Backend string     `yaml:"backend"`
	Path    string     `yaml:"path"`
	Redis   *RedisConf `yaml:"redis"`
}

// ServerConf configures the HTTP decoding service.
type ServerConf struct {
	ListenAddress     string `yaml:"listenAddress"`
	ListenPort        int    `yaml:"listenPort"`
	ReadTimeoutSecs   int    `yaml:"readTimeoutSecs"`
	WriteTimeoutSecs  int    `yaml:"writeTimeoutSecs"`
	MaxSentenceTokens int    `yaml:"maxSentenceTokens"`
}

// Conf is the application configuration.
type Conf struct {
	LogFile      string           `yaml:"logFile"`
	LogLevel     logging.LogLevel `yaml:"logLevel"`
	Workers      int              `yaml:"workers"`
	WeightsPath  string           `yaml:"weightsPath"`
	RootStrategy string           `yaml:"rootStrategy"`
	Dictionary   DictionaryConf   `yaml:"dictionary"`
	Server       ServerConf       `yaml:"server"`

	srcPath string
}

// IsDebugMode reports whether debug logging is configured.
func (conf *Conf) IsDebugMode() bool {
	return conf.LogLevel == "debug"
}

// SourcePath returns the absolute path the configuration was loaded from.
func (conf *Conf) SourcePath() string {
	if conf.srcPath == "" || filepath.IsAbs(conf.srcPath) {
		return conf.srcPath
	}
	cwd, err := os.Getwd()
	if err != nil {
		return conf.srcPath
	}

	return filepath.Join(cwd, conf.srcPath)
}

// LoadConfig reads a YAML file. Call ValidateAndDefaults before use.
func LoadConfig(path string) (*Conf, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: config path not specified", ErrInvalidConf)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var conf Conf
	if err := yaml.Unmarshal(raw, &conf); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConf, path, err)
	}
	conf.srcPath = path

	return &conf, nil
}

// Default returns a configuration with a file-backed dictionary at dictPath
// and every other value defaulted.
func Default(dictPath string) *Conf {
	conf := &Conf{Dictionary: DictionaryConf{Backend: BackendFile, Path: dictPath}}
	_ = ValidateAndDefaults(conf)

	return conf
}

// ValidateAndDefaults fills unset values and rejects unusable ones.
// Every returned error wraps ErrInvalidConf.
func ValidateAndDefaults(conf *Conf) error {
	if conf.LogLevel == "" {
		conf.LogLevel = dfltLogLevel
	}
	if conf.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConf)
	}
	if _, err := decoder.StrategyByName(conf.RootStrategy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConf, err)
	}
	if conf.RootStrategy == "" {
		conf.RootStrategy = decoder.Greedy
	}
	if conf.WeightsPath != "" {
		if ok, err := fs.IsFile(conf.WeightsPath); err != nil || !ok {
			log.Warn().Str("path", conf.WeightsPath).Msg("weights file not found")
		}
	}

	switch conf.Dictionary.Backend {
	case "":
		conf.Dictionary.Backend = BackendFile
		log.Warn().Msg("dictionary backend not specified, using file")
		fallthrough
	case BackendFile:
		if conf.Dictionary.Path == "" {
			return fmt.Errorf("%w: dictionary.path required for the file backend", ErrInvalidConf)
		}
	case BackendRedis:
		if conf.Dictionary.Redis == nil {
			conf.Dictionary.Redis = &RedisConf{}
		}
		rc := conf.Dictionary.Redis
		if rc.Host == "" {
			rc.Host = dfltRedisHost
			log.Warn().Str("host", rc.Host).Msg("redis host not specified, using default")
		}
		if rc.Port == 0 {
			rc.Port = dfltRedisPort
		}
		if rc.Key == "" {
			rc.Key = relations.DefaultRedisKey
		}
	default:
		return fmt.Errorf("%w: unknown dictionary backend %q", ErrInvalidConf, conf.Dictionary.Backend)
	}

	srv := &conf.Server
	if srv.ListenAddress == "" {
		srv.ListenAddress = dfltListenAddress
	}
	if srv.ListenPort == 0 {
		srv.ListenPort = dfltListenPort
	}
	if srv.ReadTimeoutSecs == 0 {
		srv.ReadTimeoutSecs = dfltReadTimeoutSecs
	}
	if srv.WriteTimeoutSecs == 0 {
		srv.WriteTimeoutSecs = dfltWriteTimeoutSecs
		log.Debug().
			Int("writeTimeoutSecs", srv.WriteTimeoutSecs).
			Msg("server write timeout not specified, using default")
	}
	if srv.MaxSentenceTokens == 0 {
		srv.MaxSentenceTokens = dfltMaxSentenceTokens
	}
	if srv.ListenPort < 0 || srv.ListenPort > 65535 || srv.MaxSentenceTokens < 0 {
		return fmt.Errorf("%w: server section out of range", ErrInvalidConf)
	}

	return nil
}

// Strategy returns the configured root strategy.
func (conf *Conf) Strategy() decoder.RootStrategy {
	rs, err := decoder.StrategyByName(conf.RootStrategy)
	if err != nil {
		return decoder.GreedyRoot{}
	}

	return rs
}

// OpenStore returns the configured dictionary store and a function releasing
// its resources. A Redis backend is pinged before it is returned.
func (conf *Conf) OpenStore(ctx context.Context) (relations.Store, func(), error) {
	switch conf.Dictionary.Backend {
	case BackendFile:
		return relations.FileStore{Path: conf.Dictionary.Path}, func() {}, nil
	case BackendRedis:
		rc := conf.Dictionary.Redis
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", rc.Host, rc.Port),
			Password: rc.Password,
			DB:       rc.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("config: connect to redis %s:%d: %w", rc.Host, rc.Port, err)
		}
		release := func() {
			if err := client.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close redis client")
			}
		}

		return relations.NewRedisStore(client, rc.Key), release, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown dictionary backend %q", ErrInvalidConf, conf.Dictionary.Backend)
	}
}
