package providers

import (
	"commitblock/internal/structures"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeEngine
	TypeHosts
	TypeGet
	TypePost
)

func (t TypeEnum) String() string {
	switch t {
	case TypeEngine:
		return "engine"
	case TypeHosts:
		return "hosts"
	case TypeGet, TypePost:
		return "http"
	default:
		return "app"
	}
}

func GetLogTypeByRequestType(method string) TypeEnum {
	if method == "POST" || method == "PUT" {
		return TypePost
	}
	return TypeGet
}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

type LogProvider struct {
	loggers map[string]zerolog.Logger
	files   []*os.File
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logger.Level, err)
	}

	lp := &LogProvider{loggers: make(map[string]zerolog.Logger)}
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}

	for _, t := range []TypeEnum{TypeApp, TypeEngine, TypeHosts, TypeGet} {
		name := t.String()
		var out io.Writer = console
		if conf.Logger.Dir != "" {
			path := filepath.Join(conf.Logger.Dir, name+".log")
			f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, os.FileMode(conf.Logger.Mode))
			if err != nil {
				lp.Close()
				return nil, fmt.Errorf("open log file %s: %w", path, err)
			}
			lp.files = append(lp.files, f)
			out = f
			if conf.Debug {
				out = zerolog.MultiLevelWriter(f, console)
			}
		}
		lp.loggers[name] = zerolog.New(out).Level(level).With().Timestamp().Str("type", name).Logger()
	}

	return lp, nil
}

func (lp *LogProvider) get(t TypeEnum) *zerolog.Logger {
	l := lp.loggers[t.String()]
	return &l
}

func (lp *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Error().Msgf(format, args...)
}

func (lp *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Warn().Msgf(format, args...)
}

func (lp *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Debug().Msgf(format, args...)
}

func (lp *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Info().Msgf(format, args...)
}

func (lp *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Fatal().Msgf(format, args...)
}

func (lp *LogProvider) Close() {
	for _, f := range lp.files {
		_ = f.Close()
	}
	lp.files = nil
}
