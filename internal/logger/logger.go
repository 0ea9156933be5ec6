package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level       string
	Environment string
	// File enables a rotating JSON sink next to stdout.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New builds the process logger. Development gets console output, anything
// else gets JSON. The returned closer flushes the file sink, if any.
func New(opts Options) (zerolog.Logger, io.Closer) {
	return newWithStdout(opts, os.Stdout)
}

func newWithStdout(opts Options, stdout io.Writer) (zerolog.Logger, io.Closer) {
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = stdout
	if strings.EqualFold(opts.Environment, "development") {
		out = zerolog.ConsoleWriter{Out: stdout, TimeFormat: "15:04:05"}
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(out, file)
		closer = file
	}

	ctx := zerolog.New(out).Level(ParseLevel(opts.Level)).With().Timestamp()
	if strings.EqualFold(opts.Environment, "development") {
		ctx = ctx.Caller()
	}

	return ctx.Logger(), closer
}

// ParseLevel falls back to info on unknown input.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
