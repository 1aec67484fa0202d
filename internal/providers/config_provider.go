package providers

import (
	"commitblock/internal/structures"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("hosts.filePath", structures.DefaultHostsPath())
	v.SetDefault("hosts.backupDir", "tmp/backups")
	v.SetDefault("hosts.backupKeep", 20)

	v.SetDefault("threshold.stateFile", "tmp/state_file.json")
	v.SetDefault("threshold.goalFile", "config.toml")
	v.SetDefault("threshold.pollInterval", 5*time.Second)
	v.SetDefault("threshold.metInterval", 30*time.Second)

	v.SetDefault("github.endpoint", "https://api.github.com/graphql")
	v.SetDefault("github.token", "")
	v.SetDefault("github.userAgent", "CommitBlock/1.0")
	v.SetDefault("github.timeout", 10*time.Second)

	v.SetDefault("webServer.enabled", false)
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8093)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", "")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 1)
	v.SetDefault("cache.ttl", 2)

	v.SetDefault("metrics.enabled", false)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)

	if flags.ConfigPath != "" {
		filename := filepath.Base(flags.ConfigPath)
		v.AddConfigPath(filepath.Dir(flags.ConfigPath))
		v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
		v.SetConfigType("yaml")
	}

	v.BindEnv("logger.level", "COMMITBLOCK_LOG_LEVEL")
	v.BindEnv("hosts.filePath", "COMMITBLOCK_HOSTS_FILE")
	v.BindEnv("threshold.stateFile", "COMMITBLOCK_STATE_FILE")
	v.BindEnv("threshold.goalFile", "COMMITBLOCK_GOAL_FILE")
	v.BindEnv("threshold.pollInterval", "COMMITBLOCK_POLL_INTERVAL")
	v.BindEnv("threshold.metInterval", "COMMITBLOCK_MET_INTERVAL")
	v.BindEnv("github.token", "GITHUB_TOKEN")

	if flags.ConfigPath != "" {
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		if err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", flags.ConfigPath, err)
		}
	}

	err := v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "CommitBlock"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
