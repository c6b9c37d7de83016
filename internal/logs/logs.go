// Package logs builds the zap logger used across the CLI. Logs always go to
// stderr so command output on stdout stays clean.
package logs

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger at level. Pretty selects the console encoder used in
// development; otherwise entries are JSON.
func New(level string, pretty bool) (*zap.Logger, error) {
	return NewWithWriter(level, pretty, os.Stderr)
}

func NewWithWriter(level string, pretty bool, w io.Writer) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	var encCfg zapcore.EncoderConfig
	var enc zapcore.Encoder
	if pretty {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
	return zap.New(core, zap.AddCaller()), nil
}

// ParseLevel accepts zap level names; empty means warn.
func ParseLevel(level string) (zap.AtomicLevel, error) {
	level = strings.TrimSpace(strings.ToLower(level))
	if level == "" {
		level = "warn"
	}
	return zap.ParseAtomicLevel(level)
}
