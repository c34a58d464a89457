package config

import (
	"errors"
	"fmt"
	"strings"

	internal "github.com/ZanzyTHEbar/finddd/finddd"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/match"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/options"
	"github.com/ZanzyTHEbar/finddd/finddd/logger"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Search SearchConfig  `mapstructure:"search"`
	Log    logger.Config `mapstructure:"log"`
}

// SearchConfig stores the Finder's instance defaults
type SearchConfig struct {
	Mode            string   `mapstructure:"mode"`
	Hidden          bool     `mapstructure:"hidden"`
	Follow          bool     `mapstructure:"follow"`
	IgnoreCase      bool     `mapstructure:"ignoreCase"`
	IgnoreFiles     bool     `mapstructure:"ignoreFiles"`
	IgnoreFileNames []string `mapstructure:"ignoreFileNames"`
	Exclude         []string `mapstructure:"exclude"`
	Threads         int      `mapstructure:"threads"`
	MaxResults      int      `mapstructure:"maxResults"`
	Dispatch        string   `mapstructure:"dispatch"`
}

// LoadConfig reads configuration from file or environment variables. An
// empty configPath searches the working directory and the user config
// directory for config.yaml; a missing file leaves the defaults in place.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(internal.ConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix(internal.DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // search.maxResults -> FINDDD_SEARCH_MAXRESULTS
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := options.DefaultSearchOptions()
	logDefaults := logger.DefaultConfig()

	v.SetDefault("search.mode", defaults.PatternMode.String())
	v.SetDefault("search.hidden", defaults.Hidden)
	v.SetDefault("search.follow", defaults.FollowSymlinks)
	v.SetDefault("search.ignoreCase", defaults.IgnoreCase)
	v.SetDefault("search.ignoreFiles", defaults.IgnoreFiles)
	v.SetDefault("search.ignoreFileNames", defaults.IgnoreFileNames)
	v.SetDefault("search.exclude", []string{})
	v.SetDefault("search.threads", 0) // 0 = one worker per CPU
	v.SetDefault("search.maxResults", defaults.MaxResults)
	v.SetDefault("search.dispatch", string(defaults.Dispatch))

	v.SetDefault("log.level", logDefaults.Level)
	v.SetDefault("log.format", logDefaults.Format)
	v.SetDefault("log.file.path", "")
	v.SetDefault("log.file.maxSizeMB", logDefaults.File.MaxSizeMB)
	v.SetDefault("log.file.maxBackups", logDefaults.File.MaxBackups)
	v.SetDefault("log.file.maxAgeDays", logDefaults.File.MaxAgeDays)
	v.SetDefault("log.file.compress", logDefaults.File.Compress)
}

// SearchDefaults converts the search section into Finder defaults
func (c *Config) SearchDefaults() (options.SearchOptions, error) {
	opts := options.DefaultSearchOptions()

	mode, err := match.ParseFilenameMode(c.Search.Mode)
	if err != nil {
		return opts, err
	}
	policy, err := options.ParseDispatchPolicy(c.Search.Dispatch)
	if err != nil {
		return opts, err
	}

	opts.PatternMode = mode
	opts.Hidden = c.Search.Hidden
	opts.FollowSymlinks = c.Search.Follow
	opts.IgnoreCase = c.Search.IgnoreCase
	opts.IgnoreFiles = c.Search.IgnoreFiles
	if len(c.Search.IgnoreFileNames) > 0 {
		opts.IgnoreFileNames = append([]string(nil), c.Search.IgnoreFileNames...)
	}
	opts.Exclude = append([]string(nil), c.Search.Exclude...)
	if c.Search.Threads > 0 {
		opts.Workers = c.Search.Threads
	}
	opts.MaxResults = c.Search.MaxResults
	opts.Dispatch = policy

	return opts, opts.Validate()
}
