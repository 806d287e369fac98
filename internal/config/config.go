package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cards    CardsConfig    `mapstructure:"cards"`
	Game     GameConfig     `mapstructure:"game"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig configures the HTTP and websocket listener.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig configures the optional postgres card repository.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// CardsConfig selects where card templates are loaded from.
type CardsConfig struct {
	// Source is "yaml" or "postgres".
	Source string `mapstructure:"source"`
	// Dir holds card set YAML files when Source is "yaml".
	Dir string `mapstructure:"dir"`
}

// GameConfig holds the rules parameters.
type GameConfig struct {
	BenchSize   int `mapstructure:"bench_size"`
	PointsToWin int `mapstructure:"points_to_win"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given YAML file, with environment
// variable overrides prefixed POCKETBATTLE_ (e.g. POCKETBATTLE_SERVER_ADDRESS).
// A missing file is not an error; defaults and environment apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("cards.source", "yaml")
	v.SetDefault("cards.dir", "data/sets")
	v.SetDefault("game.bench_size", 3)
	v.SetDefault("game.points_to_win", 3)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetEnvPrefix("POCKETBATTLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !strings.Contains(err.Error(), "no such file") {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Cards.Source {
	case "yaml":
		if c.Cards.Dir == "" {
			return fmt.Errorf("cards.dir is required when cards.source is yaml")
		}
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required when cards.source is postgres")
		}
	default:
		return fmt.Errorf("unknown cards.source %q", c.Cards.Source)
	}
	if c.Game.BenchSize < 1 {
		return fmt.Errorf("game.bench_size must be positive")
	}
	if c.Game.PointsToWin < 1 {
		return fmt.Errorf("game.points_to_win must be positive")
	}
	return nil
}
