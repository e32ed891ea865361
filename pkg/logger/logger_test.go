// SPDX-FileCopyrightText: Copyright 2017-2025 Michael R Sweet
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setSingletonForTest temporarily replaces the singleton logger and restores
// the original when the test completes.
func setSingletonForTest(t *testing.T, l *slog.Logger) {
	t.Helper()
	prev := singleton.Load()
	singleton.Store(l)
	t.Cleanup(func() { singleton.Store(prev) })
}

func TestLogLevels(t *testing.T) { //nolint:paralleltest // mutates singleton
	tests := []struct {
		name     string
		logFn    func()
		contains string
	}{
		{"Debug", func() { Debug("debug msg") }, "debug msg"},
		{"Debugf", func() { Debugf("debug %s", "formatted") }, "debug formatted"},
		{"Debugw", func() { Debugw("debug kv", "key", "val") }, "debug kv"},
		{"Info", func() { Info("info msg") }, "info msg"},
		{"Infof", func() { Infof("info %s", "formatted") }, "info formatted"},
		{"Infow", func() { Infow("info kv", "key", "val") }, "info kv"},
		{"Warn", func() { Warn("warn msg") }, "warn msg"},
		{"Warnf", func() { Warnf("warn %s", "formatted") }, "warn formatted"},
		{"Warnw", func() { Warnw("warn kv", "key", "val") }, "warn kv"},
		{"Error", func() { Error("error msg") }, "error msg"},
		{"Errorf", func() { Errorf("error %s", "formatted") }, "error formatted"},
		{"Errorw", func() { Errorw("error kv", "key", "val") }, "error kv"},
	}

	for _, tc := range tests { //nolint:paralleltest // mutates singleton
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			setSingletonForTest(t, l)

			tc.logFn()

			assert.Contains(t, buf.String(), tc.contains)
		})
	}
}

func TestGet(t *testing.T) { //nolint:paralleltest // mutates singleton
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	setSingletonForTest(t, l)

	got := Get()
	require.NotNil(t, got)

	got.Info("get test")
	assert.Contains(t, buf.String(), "get test")
}

func TestInitializeNoneSink(t *testing.T) { //nolint:paralleltest // mutates singleton
	prev := singleton.Load()
	t.Cleanup(func() { singleton.Store(prev) })

	require.NoError(t, Initialize(Sink{Destination: "none"}, LevelDebug))
	// Must not panic and must be usable, even though output is discarded.
	Info("swallowed")
}

func TestInitializeFileSink(t *testing.T) { //nolint:paralleltest // mutates singleton
	prev := singleton.Load()
	t.Cleanup(func() { singleton.Store(prev) })

	path := filepath.Join(t.TempDir(), "moauthd.log")
	require.NoError(t, Initialize(Sink{Destination: path}, LevelInfo))

	Info("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestInitializeRejectsLevelBelowThreshold(t *testing.T) { //nolint:paralleltest // mutates singleton
	prev := singleton.Load()
	t.Cleanup(func() { singleton.Store(prev) })

	path := filepath.Join(t.TempDir(), "moauthd.log")
	require.NoError(t, Initialize(Sink{Destination: path}, LevelError))

	Debug("should not appear")
	Error("should appear")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "should not appear")
	assert.Contains(t, string(data), "should appear")
}
