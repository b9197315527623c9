package logging

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// StructuredLogger implements Logger on top of logrus
type StructuredLogger struct {
	config *LoggerConfig
	logger *logrus.Logger
}

// NewStructuredLogger validates config and builds the logrus backend
func NewStructuredLogger(config *LoggerConfig) (*StructuredLogger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	l := logrus.New()
	l.SetOutput(config.Output)
	l.SetLevel(toLogrusLevel(config.Level))

	fieldMap := logrus.FieldMap{
		logrus.FieldKeyTime: "timestamp",
		logrus.FieldKeyMsg:  "message",
	}
	switch config.Format {
	case FormatText:
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
			FieldMap:        fieldMap,
			DisableColors:   true,
		})
	default:
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap:        fieldMap,
		})
	}

	return &StructuredLogger{config: config, logger: l}, nil
}

func toLogrusLevel(level LogLevel) logrus.Level {
	switch level {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func (sl *StructuredLogger) log(ctx context.Context, level LogLevel, message string, fields Fields) {
	lvl := toLogrusLevel(level)
	if !sl.logger.IsLevelEnabled(lvl) {
		return
	}

	entryFields := make(logrus.Fields, len(fields)+6)
	for k, v := range fields {
		entryFields[k] = v
	}
	entryFields[FieldService] = sl.config.Service
	if sl.config.Version != "" {
		entryFields[FieldVersion] = sl.config.Version
	}
	if sl.config.Environment != "" {
		entryFields[FieldEnv] = sl.config.Environment
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		entryFields[FieldRequestID] = requestID
	}
	if startTime := GetStartTime(ctx); !startTime.IsZero() {
		if _, ok := entryFields[FieldDuration]; !ok {
			entryFields[FieldDuration] = float64(time.Since(startTime).Nanoseconds()) / 1e6
		}
	}
	if sl.config.AddSource {
		if source := callerName(); source != "" {
			entryFields[FieldSource] = source
		}
	}

	sl.logger.WithFields(entryFields).Log(lvl, message)
}

// callerName reports the function that called the public logging method
func callerName() string {
	// runtime.Callers, callerName, log, public method
	pcs := make([]uintptr, 8)
	n := runtime.Callers(4, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.Function, "/infrastructure/logging.") {
			name := frame.Function
			if idx := strings.LastIndex(name, "/"); idx != -1 {
				name = name[idx+1:]
			}
			return name
		}
		if !more {
			return ""
		}
	}
}

func (sl *StructuredLogger) Debug(ctx context.Context, message string, fields Fields) {
	sl.log(ctx, LevelDebug, message, fields)
}

func (sl *StructuredLogger) Info(ctx context.Context, message string, fields Fields) {
	sl.log(ctx, LevelInfo, message, fields)
}

func (sl *StructuredLogger) Warn(ctx context.Context, message string, fields Fields) {
	sl.log(ctx, LevelWarn, message, fields)
}

func (sl *StructuredLogger) Error(ctx context.Context, message string, fields Fields) {
	sl.log(ctx, LevelError, message, fields)
}

func (sl *StructuredLogger) InfoWithError(ctx context.Context, message string, err error, fields Fields) {
	sl.log(ctx, LevelInfo, message, withError(fields, err))
}

func (sl *StructuredLogger) WarnWithError(ctx context.Context, message string, err error, fields Fields) {
	sl.log(ctx, LevelWarn, message, withError(fields, err))
}

func (sl *StructuredLogger) ErrorWithError(ctx context.Context, message string, err error, fields Fields) {
	sl.log(ctx, LevelError, message, withError(fields, err))
}

// withError copies fields and adds the error description
func withError(fields Fields, err error) Fields {
	if err == nil {
		return fields
	}
	enriched := make(Fields, len(fields)+2)
	for k, v := range fields {
		enriched[k] = v
	}
	enriched[FieldError] = err.Error()
	enriched[FieldErrorType] = errorType(err)
	return enriched
}

func (sl *StructuredLogger) SetLevel(level LogLevel) {
	sl.config.Level = level
	sl.logger.SetLevel(toLogrusLevel(level))
}

func (sl *StructuredLogger) GetLevel() LogLevel {
	return sl.config.Level
}
