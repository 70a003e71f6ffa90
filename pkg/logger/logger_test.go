package logger

import (
	"testing"
)

func TestLogger(t *testing.T) {
	// Test default logger creation
	logger := NewDefault()
	if logger == nil {
		t.Fatal("Failed to create default logger")
	}

	// Test logging with structured fields
	logger.Info("test message",
		"chainId", 412346,
		"state", "deploy",
	)

	// Test with additional context
	contextLogger := logger.With(
		"component", "orchestrator",
		"runID", "abc",
	)
	contextLogger.Info("test with context")

	// Test different log levels
	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warning message")
	logger.Error("error message")
}

func TestLoggerInvalidLevelFallsBack(t *testing.T) {
	logger, err := New(&Config{Level: "nonsense", OutputPath: "stdout", Format: "json"})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	logger.Info("still works")
}
