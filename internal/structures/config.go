package structures

import "time"

type HostsConfig struct {
	FilePath   string `yaml:"filePath" validate:"required"`
	BackupDir  string `yaml:"backupDir"`
	BackupKeep int    `yaml:"backupKeep" validate:"min:0"`
}

type ThresholdConfig struct {
	StateFile    string        `yaml:"stateFile" validate:"required"`
	GoalFile     string        `yaml:"goalFile" validate:"required"`
	PollInterval time.Duration `yaml:"pollInterval" validate:"required|min:1"`
	MetInterval  time.Duration `yaml:"metInterval" validate:"required|min:1"`
}

type GithubConfig struct {
	Endpoint  string        `yaml:"endpoint" validate:"required|fullUrl"`
	Token     string        `yaml:"token"`
	UserAgent string        `yaml:"userAgent" validate:"required"`
	Timeout   time.Duration `yaml:"timeout" validate:"required|min:1"`
}

type Server struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host" validate:"required"`
	Port    int    `yaml:"port" validate:"required|uint|min:1|max:65535"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	Hosts     HostsConfig     `yaml:"hosts"`
	Threshold ThresholdConfig `yaml:"threshold"`
	Github    GithubConfig    `yaml:"github"`
	WebServer Server          `yaml:"webServer"`
	Logger    LoggerConfig    `yaml:"logger"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}
