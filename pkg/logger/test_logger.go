package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger records every entry so tests can assert on what was logged.
type TestLogger struct {
	*Logger
	t        *testing.T
	observed *observer.ObservedLogs
}

func NewTestLogger(t *testing.T) *TestLogger {
	core, observed := observer.New(zapcore.DebugLevel)
	return &TestLogger{
		Logger:   &Logger{Logger: zap.New(core).Named(loggerName), verbose: true},
		t:        t,
		observed: observed,
	}
}

// GetLogs returns the captured messages in order.
func (tl *TestLogger) GetLogs() []string {
	entries := tl.observed.All()
	logs := make([]string, 0, len(entries))
	for _, e := range entries {
		logs = append(logs, e.Message)
	}
	return logs
}

// PrintLogs prints all captured logs to the test output
func (tl *TestLogger) PrintLogs() {
	tl.t.Log("Captured logs:")
	for i, msg := range tl.GetLogs() {
		tl.t.Logf("[%d] %s", i, msg)
	}
}
