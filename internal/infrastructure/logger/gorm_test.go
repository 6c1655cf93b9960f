package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func queryFunc(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestNewGormLogger_Defaults(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info)

	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, 200*time.Millisecond, gl.slowThreshold)
	assert.False(t, gl.reportNotFound)
}

func TestNewGormLogger_Options(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithRecordNotFoundLogging(),
	)

	assert.Equal(t, 500*time.Millisecond, gl.slowThreshold)
	assert.True(t, gl.reportNotFound)
}

func TestGormLogger_LogModeReturnsClone(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info)

	clone, ok := gl.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)

	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, gormlogger.Warn, clone.logLevel)
}

func TestGormLogger_LevelGating(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Silent)
	gl.Info(context.Background(), "suppressed")
	gl.Warn(context.Background(), "suppressed")
	gl.Error(context.Background(), "suppressed")
	assert.Empty(t, recorded.All())

	gl, recorded = newObservedGormLogger(gormlogger.Info)
	gl.Info(context.Background(), "lease count %d", 3)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "lease count 3")
}

func TestGormLogger_Trace_Error(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), queryFunc("SELECT * FROM leases", 0), errors.New("connection reset"))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "SQL Error", logs[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
}

func TestGormLogger_Trace_RecordNotFoundSilentByDefault(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), queryFunc("SELECT * FROM leases WHERE id = ?", 0), gormlogger.ErrRecordNotFound)

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_RecordNotFoundReportedWhenOptedIn(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Error, WithRecordNotFoundLogging())

	gl.Trace(context.Background(), time.Now(), queryFunc("SELECT * FROM leases WHERE id = ?", 0), gormlogger.ErrRecordNotFound)

	require.Len(t, recorded.All(), 1)
}

func TestGormLogger_Trace_SlowQuery(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Nanosecond))

	begin := time.Now().Add(-time.Second)
	gl.Trace(context.Background(), begin, queryFunc("SELECT * FROM payment_entries", 10), nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "SLOW SQL", logs[0].Message)
	assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
}

func TestGormLogger_Trace_NormalQuery(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Info)

	gl.Trace(context.Background(), time.Now(), queryFunc("SELECT * FROM leases", 5), nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "SQL Query", logs[0].Message)
}

func TestGormLogger_Trace_Silent(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), queryFunc("SELECT * FROM leases", 5), nil)

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_CarriesRequestID(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Info)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")
	gl.Trace(ctx, time.Now(), queryFunc("SELECT * FROM leases", 5), nil)

	logs := recorded.All()
	require.Len(t, logs, 1)

	found := false
	for _, field := range logs[0].Context {
		if field.Key == "request_id" {
			found = true
			assert.Equal(t, "req-42", field.String)
		}
	}
	assert.True(t, found)
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.level))
		})
	}
}
