package logging

import (
	"strings"
	"testing"
)

func TestTestLoggerCapturesOutput(t *testing.T) {
	logger, buf := NewTestLogger()

	logger.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Errorf("expected log output to contain message, got %q", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("expected log output to contain keyvals, got %q", out)
	}
}

func TestDebugSuppressedWhenDisabled(t *testing.T) {
	logger, buf := NewTestLogger()
	logger.debug = false

	logger.Debug("should not appear")

	if strings.Contains(buf.String(), "should not appear") {
		t.Error("debug output emitted with debug disabled")
	}
}

func TestStateTransitionLogging(t *testing.T) {
	logger, buf := NewTestLogger()

	logger.LogStateTransition("MainModel", "welcome", "workspace")

	out := buf.String()
	for _, want := range []string{"MainModel", "welcome", "workspace"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected transition log to contain %q, got %q", want, out)
		}
	}
}
