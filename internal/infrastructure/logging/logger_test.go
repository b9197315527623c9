package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T, level LogLevel, format LogFormat) (*StructuredLogger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	cfg := NewConfig("test-service", "test", "testing").
		WithLevel(level).
		WithFormat(format).
		WithOutput(buf)
	logger, err := NewStructuredLogger(cfg)
	require.NoError(t, err)
	return logger, buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &decoded))
		lines = append(lines, decoded)
	}
	return lines
}

func TestStructuredLogger_JSONOutput(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelDebug, FormatJSON)
	ctx := WithRequestID(context.Background(), "req_123")

	logger.Info(ctx, "price served", Fields{FieldSymbol: "BTC"})

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "price served", lines[0]["message"])
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "req_123", lines[0][FieldRequestID])
	assert.Equal(t, "test-service", lines[0][FieldService])
	assert.Equal(t, "BTC", lines[0][FieldSymbol])
}

func TestStructuredLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelWarn, FormatJSON)
	ctx := context.Background()

	logger.Debug(ctx, "debug", nil)
	logger.Info(ctx, "info", nil)
	logger.Warn(ctx, "warn", nil)
	logger.Error(ctx, "error", nil)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "warn", lines[0]["message"])
	assert.Equal(t, "error", lines[1]["message"])

	buf.Reset()
	logger.SetLevel(LevelDebug)
	logger.Debug(ctx, "now visible", nil)
	assert.Contains(t, buf.String(), "now visible")
	assert.Equal(t, LevelDebug, logger.GetLevel())
}

func TestStructuredLogger_WithErrorDoesNotMutateFields(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelInfo, FormatJSON)
	fields := Fields{"k": "v"}

	logger.ErrorWithError(context.Background(), "failed", errors.New("boom"), fields)

	_, mutated := fields[FieldError]
	assert.False(t, mutated)
	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "boom", lines[0][FieldError])
}

func TestStructuredLogger_TextFormat(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelInfo, FormatText)
	logger.Info(context.Background(), "hello", Fields{"symbol": "ETH"})

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "symbol=ETH")
}

func TestDomainLogger_AddsDomain(t *testing.T) {
	base, buf := newBufferLogger(t, LevelDebug, FormatJSON)
	cacheLogger := NewCacheLogger(base)

	cacheLogger.Hit(context.Background(), "price_current_crypto_BTC", CacheOpGet)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "cache", lines[0][FieldDomain])
	assert.Equal(t, true, lines[0][FieldCacheHit])
	assert.Equal(t, "cache", cacheLogger.Domain())
}

func TestLoggerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*LoggerConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(c *LoggerConfig) {}},
		{name: "bad level", mutate: func(c *LoggerConfig) { c.Level = "TRACE" }, wantErr: "level"},
		{name: "bad format", mutate: func(c *LoggerConfig) { c.Format = "xml" }, wantErr: "format"},
		{name: "nil output", mutate: func(c *LoggerConfig) { c.Output = nil }, wantErr: "output"},
		{name: "empty service", mutate: func(c *LoggerConfig) { c.Service = "" }, wantErr: "service"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantErr, cfgErr.Field)
		})
	}
}

func TestLogLevelFromString(t *testing.T) {
	assert.Equal(t, LevelDebug, LogLevelFromString("debug"))
	assert.Equal(t, LevelWarn, LogLevelFromString("WARNING"))
	assert.Equal(t, LevelError, LogLevelFromString("Error"))
	assert.Equal(t, LevelInfo, LogLevelFromString("nonsense"))
	assert.Equal(t, FormatText, LogFormatFromString("TEXT"))
	assert.Equal(t, FormatJSON, LogFormatFromString(""))
}

func TestGenerateRequestID(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()
	assert.True(t, strings.HasPrefix(a, "req_"))
	assert.NotEqual(t, a, b)
	assert.Len(t, a, len("req_")+32)
}
