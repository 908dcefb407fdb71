//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type recordingLogger struct {
	calls []string
}

func (r *recordingLogger) record(name string) { r.calls = append(r.calls, name) }

func (r *recordingLogger) Debug(args ...any)                 { r.record("Debug") }
func (r *recordingLogger) Debugf(format string, args ...any) { r.record("Debugf") }
func (r *recordingLogger) Info(args ...any)                  { r.record("Info") }
func (r *recordingLogger) Infof(format string, args ...any)  { r.record("Infof") }
func (r *recordingLogger) Warn(args ...any)                  { r.record("Warn") }
func (r *recordingLogger) Warnf(format string, args ...any)  { r.record("Warnf") }
func (r *recordingLogger) Error(args ...any)                 { r.record("Error") }
func (r *recordingLogger) Errorf(format string, args ...any) { r.record("Errorf") }
func (r *recordingLogger) Fatal(args ...any)                 { r.record("Fatal") }
func (r *recordingLogger) Fatalf(format string, args ...any) { r.record("Fatalf") }

func TestPackageHelpersDelegateToDefault(t *testing.T) {
	original := Default
	defer func() { Default = original }()

	rec := &recordingLogger{}
	Default = rec

	Debug("d")
	Debugf("%s", "d")
	Info("i")
	Infof("%s", "i")
	Warn("w")
	Warnf("%s", "w")
	Error("e")
	Errorf("%s", "e")

	require.Equal(t, []string{
		"Debug", "Debugf", "Info", "Infof", "Warn", "Warnf", "Error", "Errorf",
	}, rec.calls)
}

func TestSetLevel(t *testing.T) {
	defer SetLevel(LevelInfo)

	cases := []struct {
		level string
		want  zapcore.Level
	}{
		{LevelDebug, zapcore.DebugLevel},
		{LevelInfo, zapcore.InfoLevel},
		{LevelWarn, zapcore.WarnLevel},
		{LevelError, zapcore.ErrorLevel},
		{LevelFatal, zapcore.FatalLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		SetLevel(tc.level)
		assert.Equal(t, tc.want, zapLevel.Level(), "level %q", tc.level)
	}
}
