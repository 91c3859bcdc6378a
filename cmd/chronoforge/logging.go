package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// maxLogSize rotates the debug log once it crosses this size, keeping a
// single .1 backup. Small by design; this is a demo, not a service with
// a retention policy.
const maxLogSize = 5 * 1024 * 1024

// setupLogging builds a SugaredLogger. With debug off, it discards every
// record at every level so normal runs never touch stdout/stderr (which
// the tcell screen owns). With debug on, it writes JSON lines to
// logPath, rotating once the file crosses maxLogSize.
func setupLogging(debug bool, logPath string) (*zap.SugaredLogger, func(), error) {
	if !debug {
		logger := zap.New(zapcore.NewNopCore())
		return logger.Sugar(), func() {}, nil
	}

	if err := rotateIfOversized(logPath); err != nil {
		return nil, nil, fmt.Errorf("rotate log: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zapcore.DebugLevel)
	logger := zap.New(core)

	return logger.Sugar(), func() { _ = f.Close() }, nil
}

func rotateIfOversized(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Size() < maxLogSize {
		return nil
	}
	backup := filepath.Clean(path) + ".1"
	return os.Rename(path, backup)
}
