/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package utils

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

type Logger = logrus.Logger

const timestampFormat = "2006-01-02 15:04:05.000"

// LogOptions configures console and rotating file output of every logger
// created by NewLogger.
type LogOptions struct {
	Level         string
	ConsoleFormat string
	FileEnabled   bool
	FileDir       string
	FileFormat    string
	FileName      string
	MaxSizeMB     int
	MaxBackups    int
	MaxAgeDays    int
	Compress      bool
}

// DefaultLogOptions reads the defaults from the environment.
func DefaultLogOptions() LogOptions {
	return LogOptions{
		Level:         EnvDefaultString("LOG_LEVEL", "info"),
		ConsoleFormat: EnvDefaultString("CONSOLE_LOG_FORMAT", "text"),
		FileEnabled:   EnvDefaultBool("FILE_LOG_ENABLED", false),
		FileDir:       EnvDefaultString("FILE_LOG_DIR", "logs"),
		FileFormat:    EnvDefaultString("FILE_LOG_FORMAT", "text"),
		FileName:      "roster",
		MaxSizeMB:     100,
		MaxBackups:    7,
		MaxAgeDays:    30,
	}
}

var (
	optionsMu        sync.RWMutex
	options          = DefaultLogOptions()
	consoleOut       io.Writer = os.Stdout
	loggerRegistryMu sync.RWMutex
	loggerRegistry   = map[string]*logrus.Logger{}
	fileWriters      *rotatingWriters
)

type rotatingWriters struct {
	all    *lumberjack.Logger
	errors *lumberjack.Logger
}

func newRotatingWriters(o LogOptions) *rotatingWriters {
	mk := func(suffix string) *lumberjack.Logger {
		return &lumberjack.Logger{
			Filename:   filepath.Join(o.FileDir, o.FileName+suffix+".log"),
			MaxSize:    o.MaxSizeMB,
			MaxBackups: o.MaxBackups,
			MaxAge:     o.MaxAgeDays,
			Compress:   o.Compress,
		}
	}
	return &rotatingWriters{all: mk(""), errors: mk("-error")}
}

func (w *rotatingWriters) Close() error {
	err := w.all.Close()
	if errErr := w.errors.Close(); err == nil {
		err = errErr
	}
	return err
}

// ConfigureLogging replaces the logging options and applies the level and
// formats to loggers that already exist.
func ConfigureLogging(o LogOptions) error {
	if o.FileEnabled {
		if o.FileDir == "" {
			o.FileDir = "logs"
		}
		if o.FileName == "" {
			o.FileName = "roster"
		}
		if err := os.MkdirAll(o.FileDir, 0o755); err != nil {
			return err
		}
	}

	optionsMu.Lock()
	options = o
	if fileWriters != nil {
		_ = fileWriters.Close()
		fileWriters = nil
	}
	if o.FileEnabled {
		fileWriters = newRotatingWriters(o)
	}
	optionsMu.Unlock()

	loggerRegistryMu.RLock()
	defer loggerRegistryMu.RUnlock()
	for name, l := range loggerRegistry {
		configureLogger(name, l)
	}
	logrus.SetLevel(ParseLogLevel(o.Level))
	return nil
}

// SetConsoleOutput redirects console output of all loggers, mainly for tests.
func SetConsoleOutput(w io.Writer) {
	optionsMu.Lock()
	consoleOut = w
	optionsMu.Unlock()
}

// CloseLogFiles flushes and closes rotating log files.
func CloseLogFiles() error {
	optionsMu.Lock()
	defer optionsMu.Unlock()
	if fileWriters == nil {
		return nil
	}
	err := fileWriters.Close()
	fileWriters = nil
	return err
}

type consoleWriterHook struct {
	formatter logrus.Formatter
}

func (h *consoleWriterHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *consoleWriterHook) Fire(e *logrus.Entry) error {
	b, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	optionsMu.RLock()
	w := consoleOut
	optionsMu.RUnlock()
	_, err = w.Write(b)
	return err
}

type fileWriterHook struct {
	formatter logrus.Formatter
}

func (h *fileWriterHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *fileWriterHook) Fire(e *logrus.Entry) error {
	optionsMu.RLock()
	w := fileWriters
	optionsMu.RUnlock()
	if w == nil {
		return nil
	}
	b, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	if _, err = w.all.Write(b); err != nil {
		return err
	}
	if e.Level <= logrus.ErrorLevel {
		_, err = w.errors.Write(b)
	}
	return err
}

func newFormatter(name, format string, console bool) logrus.Formatter {
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return &JSONLogFormatter{LoggerName: name, TimestampFormat: timestampFormat}
	}
	f := &Log4jColorFormatter{
		LoggerName:      name,
		TimestampFormat: timestampFormat,
		NameWidth:       10,
		Colored:         console,
	}
	if console {
		f.CallerWidth = 25
	}
	return f
}

func configureLogger(name string, l *logrus.Logger) {
	optionsMu.RLock()
	o := options
	optionsMu.RUnlock()

	l.SetLevel(ParseLogLevel(o.Level))
	console := newFormatter(name, o.ConsoleFormat, true)
	l.SetFormatter(console)
	hooks := make(logrus.LevelHooks)
	hooks.Add(&consoleWriterHook{formatter: console})
	hooks.Add(&fileWriterHook{formatter: newFormatter(name, o.FileFormat, false)})
	l.ReplaceHooks(hooks)
}

// NewLogger returns the named logger, creating and registering it on first use.
func NewLogger(name string) *logrus.Logger {
	loggerRegistryMu.Lock()
	defer loggerRegistryMu.Unlock()
	if l, ok := loggerRegistry[name]; ok {
		return l
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetReportCaller(true)
	configureLogger(name, l)
	loggerRegistry[name] = l
	return l
}

func ParseLogLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info", "":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.InfoLevel
	}
}

// SetLoggerLevel changes the level of one registered logger.
func SetLoggerLevel(name string, lvlStr string) bool {
	loggerRegistryMu.RLock()
	lg, ok := loggerRegistry[name]
	loggerRegistryMu.RUnlock()
	if !ok {
		return false
	}
	lg.SetLevel(ParseLogLevel(lvlStr))
	return true
}

func SetAllLoggersLevel(lvl logrus.Level) {
	loggerRegistryMu.RLock()
	for _, lg := range loggerRegistry {
		lg.SetLevel(lvl)
	}
	loggerRegistryMu.RUnlock()
	logrus.SetLevel(lvl)
}
