/*
NAME
  logger.go

AUTHOR
  Alan Noble <alan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package fpvlog provides the logger used by cmd/fpvenc and
// cmd/fpvdec: leveled, key/value structured logging backed by
// go.uber.org/zap, writing to a size- and age-rotated file via
// gopkg.in/natefinch/lumberjack.v2.
package fpvlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the interface both CLI drivers log through: a verb naming
// the level, followed by a message and an optional sequence of
// alternating key/value pairs.
type Logger interface {
	Debug(msg string, kv ...interface{})
	Info(msg string, kv ...interface{})
	Warn(msg string, kv ...interface{})
	Error(msg string, kv ...interface{})
	// SetLevel changes the minimum level logged, 0 (debug) to 3 (error).
	SetLevel(level int8)
}

// Config controls file rotation for New.
type Config struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type zapLogger struct {
	z     *zap.SugaredLogger
	level zap.AtomicLevel
}

// New returns a Logger that writes JSON-structured entries to a
// rotating file at cfg.Filename.
func New(cfg Config) Logger {
	rotate := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(rotate), level)
	return &zapLogger{z: zap.New(core).Sugar(), level: level}
}

func (l *zapLogger) Debug(msg string, kv ...interface{}) { l.z.Debugw(msg, kv...) }
func (l *zapLogger) Info(msg string, kv ...interface{})  { l.z.Infow(msg, kv...) }
func (l *zapLogger) Warn(msg string, kv ...interface{})  { l.z.Warnw(msg, kv...) }
func (l *zapLogger) Error(msg string, kv ...interface{}) { l.z.Errorw(msg, kv...) }

// SetLevel maps 0..3 (debug, info, warn, error) onto zap's levels.
func (l *zapLogger) SetLevel(level int8) {
	switch {
	case level <= 0:
		l.level.SetLevel(zap.DebugLevel)
	case level == 1:
		l.level.SetLevel(zap.InfoLevel)
	case level == 2:
		l.level.SetLevel(zap.WarnLevel)
	default:
		l.level.SetLevel(zap.ErrorLevel)
	}
}
