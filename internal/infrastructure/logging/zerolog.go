package logging

import (
	"os"
	"path/filepath"

	"github.com/dmelnic/teamchat/internal/infrastructure/configs"
	"github.com/rs/zerolog"
)

var zeroLevelMap = map[string]zerolog.Level{
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
	"fatal": zerolog.FatalLevel,
}

type zeroLogger struct {
	cfg    configs.LoggerConfig
	logger zerolog.Logger
}

func newZeroLogger(cfg configs.LoggerConfig) *zeroLogger {
	l := &zeroLogger{cfg: cfg}
	l.Init()
	return l
}

func (l *zeroLogger) level() zerolog.Level {
	if lvl, ok := zeroLevelMap[l.cfg.Level]; ok {
		return lvl
	}
	return zerolog.DebugLevel
}

func (l *zeroLogger) Init() {
	var out *os.File

	if err := os.MkdirAll(l.cfg.FilePath, 0o755); err == nil {
		f, err := os.OpenFile(
			filepath.Join(l.cfg.FilePath, "teamchat.log"),
			os.O_CREATE|os.O_APPEND|os.O_WRONLY,
			0o644,
		)
		if err == nil {
			out = f
		}
	}

	var w zerolog.LevelWriter
	if out != nil {
		w = zerolog.MultiLevelWriter(out, os.Stdout)
	} else {
		w = zerolog.MultiLevelWriter(os.Stdout)
	}

	l.logger = zerolog.New(w).
		Level(l.level()).
		With().
		Timestamp().
		Str(string(AppName), "teamchat").
		Str(string(LoggerName), "zerolog").
		Logger()
}

func (l *zeroLogger) emit(ev *zerolog.Event, cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	ev.Str("Category", string(cat)).
		Str("SubCategory", string(sub)).
		Fields(logParamsToZeroParams(extra)).
		Msg(msg)
}

func (l *zeroLogger) Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.emit(l.logger.Debug(), cat, sub, msg, extra)
}

func (l *zeroLogger) Debugf(template string, args ...any) {
	l.logger.Debug().Msgf(template, args...)
}

func (l *zeroLogger) Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.emit(l.logger.Info(), cat, sub, msg, extra)
}

func (l *zeroLogger) Infof(template string, args ...any) {
	l.logger.Info().Msgf(template, args...)
}

func (l *zeroLogger) Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.emit(l.logger.Warn(), cat, sub, msg, extra)
}

func (l *zeroLogger) Warnf(template string, args ...any) {
	l.logger.Warn().Msgf(template, args...)
}

func (l *zeroLogger) Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.emit(l.logger.Error(), cat, sub, msg, extra)
}

func (l *zeroLogger) Errorf(template string, args ...any) {
	l.logger.Error().Msgf(template, args...)
}

func (l *zeroLogger) Fatal(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.emit(l.logger.Fatal(), cat, sub, msg, extra)
}

func (l *zeroLogger) Fatalf(template string, args ...any) {
	l.logger.Fatal().Msgf(template, args...)
}
