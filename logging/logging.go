// Package logging provides a small leveled logger for the isobox CLI and
// watch daemon. It has no cloud-reporting concern, unlike the netsender-
// backed logger it is modeled on, so it is just a level filter in front of
// a rotating file (via lumberjack).
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Verbosity levels, ordered least to most severe.
const (
	Debug int8 = iota
	Info
	Warning
	Error
	Fatal
)

var levelNames = map[int8]string{
	Debug:   "DEBUG",
	Info:    "INFO",
	Warning: "WARNING",
	Error:   "ERROR",
	Fatal:   "FATAL",
}

// Logger is a minimal leveled logger interface, so callers can substitute a
// test double without pulling in a rotating file.
type Logger interface {
	SetLevel(l int8)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warning(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// FileLogger writes leveled, timestamped lines to a rotating log file and
// optionally echoes them to an additional writer (e.g. os.Stderr).
type FileLogger struct {
	level int8
	file  *lumberjack.Logger
	out   io.Writer
}

// New constructs a FileLogger rotating through path, keeping at most
// maxBackups old files no older than maxAgeDays, each capped at maxSizeMB.
// Lines at or above level are also written to echo, if non-nil.
func New(path string, maxSizeMB, maxBackups, maxAgeDays int, level int8, echo io.Writer) *FileLogger {
	fl := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	return &FileLogger{level: level, file: fl, out: echo}
}

func (l *FileLogger) SetLevel(lv int8) { l.level = lv }

func (l *FileLogger) log(lv int8, msg string, args ...interface{}) {
	if lv < l.level {
		return
	}
	line := fmt.Sprintf("%s [%s] %s", time.Now().Format(time.RFC3339), levelNames[lv], msg)
	for i := 0; i+1 < len(args); i += 2 {
		line += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	line += "\n"
	fmt.Fprint(l.file, line)
	if l.out != nil {
		fmt.Fprint(l.out, line)
	}
	if lv == Fatal {
		os.Exit(1)
	}
}

func (l *FileLogger) Debug(msg string, args ...interface{})   { l.log(Debug, msg, args...) }
func (l *FileLogger) Info(msg string, args ...interface{})    { l.log(Info, msg, args...) }
func (l *FileLogger) Warning(msg string, args ...interface{}) { l.log(Warning, msg, args...) }
func (l *FileLogger) Error(msg string, args ...interface{})   { l.log(Error, msg, args...) }
func (l *FileLogger) Fatal(msg string, args ...interface{})   { l.log(Fatal, msg, args...) }
