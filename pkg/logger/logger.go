package logger

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LogFilePermissions = 0600
	InfoLogLevel       = "info"
	DefaultLogPath     = "/tmp/azvm.log"

	loggerName = "azvm"
)

var (
	globalLogger *Logger
	loggerMutex  sync.RWMutex
	logFile      *os.File
)

// Logger wraps zap with the printf-style helpers used across the commands.
type Logger struct {
	*zap.Logger
	verbose bool
}

func (l *Logger) IsVerbose() bool {
	return l.verbose
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Logger.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Logger.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Logger.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Logger.Error(fmt.Sprintf(format, args...))
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...), verbose: l.verbose}
}

// Get returns the global logger, a no-op logger until Initialize runs.
func Get() *Logger {
	loggerMutex.RLock()
	l := globalLogger
	loggerMutex.RUnlock()
	if l != nil {
		return l
	}

	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	if globalLogger == nil {
		globalLogger = NewNopLogger()
	}
	return globalLogger
}

func SetGlobalLogger(l *Logger) {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	globalLogger = l
}

func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Sync flushes the global logger and closes the log file.
func Sync() {
	_ = Get().Sync()
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	closeLogFile()
}

func closeLogFile() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// LogAzureAPIStart and LogAzureAPIEnd bracket a remote call in the debug log.
func LogAzureAPIStart(apiName string) {
	Get().Debugf("Azure API call started: %s", apiName)
}

func LogAzureAPIEnd(apiName string, err error) {
	if err != nil {
		Get().Debugf("Azure API call failed: %s - Error: %v", apiName, err)
		return
	}
	Get().Debugf("Azure API call completed: %s", apiName)
}

func LogPanic(rec interface{}) {
	Get().Error("PANIC",
		zap.Any("recovered", rec),
		zap.String("stack", string(debug.Stack())),
	)
	_ = Get().Sync()
}

func RecoverAndLog(f func()) {
	defer func() {
		if r := recover(); r != nil {
			LogPanic(r)
			panic(r)
		}
	}()
	f()
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(fmt.Sprintf("[%s]", t.Format("2006-01-02 15:04:05")))
}

func getZapLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
