package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/SirBarnaby/moyb/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("debug"))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("ERROR"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warn"))
	assert.Equal(t, logrus.InfoLevel, GetLevel(" info "))
	assert.Equal(t, logrus.TraceLevel, GetLevel(""))
	assert.Equal(t, logrus.TraceLevel, GetLevel("whatever"))
}

func TestSetup_StdoutOnly(t *testing.T) {
	out := Setup(LoggerSetupParams{LogLevel: "info"})
	assert.Equal(t, os.Stdout, out)
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}

func TestSetup_FileAndStdout(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "service")
	out := Setup(LoggerSetupParams{
		LogFileName:   logFile,
		LogToStdout:   true,
		LogLevel:      "debug",
		LogFormatJSON: true,
	})
	t.Cleanup(func() {
		logrus.SetOutput(os.Stdout)
		logrus.SetFormatter(&logrus.TextFormatter{})
	})

	cw, ok := out.(*pkg.CombinedWriter)
	require.True(t, ok)
	assert.Len(t, cw.Writers, 2)

	logrus.Info("hello file")
	content, err := os.ReadFile(logFile + ".log")
	require.NoError(t, err)
	assert.Contains(t, string(content), "hello file")
}

func TestSentryHook_Fire(t *testing.T) {
	var captured *sentry.Event
	hook := NewSentryHook([]logrus.Level{logrus.ErrorLevel})
	hook.capture = func(event *sentry.Event) {
		captured = event
	}

	assert.Equal(t, []logrus.Level{logrus.ErrorLevel}, hook.Levels())

	entry := logrus.NewEntry(logrus.StandardLogger()).
		WithField("plan_id", "abc").
		WithError(errors.New("boom"))
	entry.Message = "recompute failed"
	entry.Level = logrus.ErrorLevel

	require.NoError(t, hook.Fire(entry))
	require.NotNil(t, captured)
	assert.Equal(t, sentry.LevelError, captured.Level)
	assert.Equal(t, "recompute failed", captured.Message)
	assert.Equal(t, "abc", captured.Extra["plan_id"])
	require.Len(t, captured.Exception, 1)
	assert.Equal(t, "boom", captured.Exception[0].Value)
}
