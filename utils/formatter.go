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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	ansiReset   = "\x1b[0m"
	ansiFaint   = "\x1b[2m"
	ansiRed     = "\x1b[31m"
	ansiYellow  = "\x1b[33m"
	ansiGreen   = "\x1b[32m"
	ansiBlue    = "\x1b[34m"
	ansiMagenta = "\x1b[35m"
	ansiCyan    = "\x1b[36m"
)

// Log4jColorFormatter renders entries in a log4j-like single line layout:
// time, level, pid, logger name, caller and message followed by fields.
type Log4jColorFormatter struct {
	LoggerName      string
	TimestampFormat string
	NameWidth       int
	CallerWidth     int
	Colored         bool
}

func (f *Log4jColorFormatter) paint(s, code string) string {
	if !f.Colored {
		return s
	}
	return code + s + ansiReset
}

func (f *Log4jColorFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	ts := entry.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	format := f.TimestampFormat
	if format == "" {
		format = timestampFormat
	}

	var b strings.Builder
	b.WriteString(ts.Format(format))
	b.WriteByte(' ')
	b.WriteString(f.paint(fmt.Sprintf("%7s", strings.ToUpper(entry.Level.String())), levelColor(entry.Level)))
	b.WriteByte(' ')
	b.WriteString(f.paint(fmt.Sprintf("%-6d", os.Getpid()), ansiMagenta))
	b.WriteString(" --- ")
	b.WriteString(f.paint(padLeftRunes(limitRunes(f.LoggerName, f.NameWidth), f.NameWidth), ansiCyan))
	if entry.Caller != nil {
		caller := callerString(entry.Caller.File, entry.Caller.Line, f.CallerWidth)
		b.WriteByte(' ')
		b.WriteString(f.paint(caller, ansiFaint))
	}
	b.WriteString(" : ")
	b.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
		}
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// JSONLogFormatter renders one JSON object per entry. HTTP request fields
// are lifted to top level keys.
type JSONLogFormatter struct {
	LoggerName      string
	TimestampFormat string
}

type jsonLogRecord struct {
	Time       string                 `json:"time"`
	Level      string                 `json:"level"`
	Logger     string                 `json:"logger"`
	Caller     string                 `json:"caller,omitempty"`
	Message    string                 `json:"message"`
	RequestID  string                 `json:"request_id,omitempty"`
	ClientIP   string                 `json:"client_ip,omitempty"`
	Method     string                 `json:"method,omitempty"`
	Path       string                 `json:"path,omitempty"`
	Status     int                    `json:"status,omitempty"`
	DurationMS int64                  `json:"duration_ms,omitempty"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

func (f *JSONLogFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	ts := entry.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	format := f.TimestampFormat
	if format == "" {
		format = timestampFormat
	}
	rec := jsonLogRecord{
		Time:    ts.Format(format),
		Level:   strings.ToLower(entry.Level.String()),
		Logger:  f.LoggerName,
		Message: entry.Message,
	}
	if entry.Caller != nil {
		rec.Caller = callerString(entry.Caller.File, entry.Caller.Line, 0)
	}

	extra := make(map[string]interface{}, len(entry.Data))
	for k, v := range entry.Data {
		switch k {
		case "request_id":
			rec.RequestID = fmt.Sprint(v)
		case "client_ip":
			rec.ClientIP = fmt.Sprint(v)
		case "method":
			rec.Method = fmt.Sprint(v)
		case "path":
			rec.Path = fmt.Sprint(v)
		case "status":
			if n, ok := toInt64(v); ok {
				rec.Status = int(n)
			} else {
				extra[k] = v
			}
		case "duration_ms":
			if n, ok := toInt64(v); ok {
				rec.DurationMS = n
			} else {
				extra[k] = v
			}
		default:
			if err, ok := v.(error); ok {
				extra[k] = err.Error()
			} else {
				extra[k] = v
			}
		}
	}
	if len(extra) > 0 {
		rec.Fields = extra
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func levelColor(level logrus.Level) string {
	switch level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return ansiRed
	case logrus.WarnLevel:
		return ansiYellow
	case logrus.InfoLevel:
		return ansiGreen
	case logrus.DebugLevel:
		return ansiBlue
	default:
		return ansiMagenta
	}
}

// callerString keeps the parent directory and file name. A positive width
// compacts directories to dotted initials and pads the result.
func callerString(file string, line int, width int) string {
	p := filepath.ToSlash(file)
	parts := strings.Split(p, "/")
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	out := strings.Join(parts, "/") + ":" + strconv.Itoa(line)
	if width <= 0 {
		return out
	}
	if len([]rune(out)) > width && len(parts) == 2 {
		out = string([]rune(parts[0])[:1]) + "." + parts[1] + ":" + strconv.Itoa(line)
	}
	if r := []rune(out); len(r) > width {
		out = string(r[len(r)-width:])
	}
	return padLeftRunes(out, width)
}

func limitRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func padLeftRunes(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(r)) + s
}
