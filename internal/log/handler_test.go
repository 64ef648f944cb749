package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestSanitizeHandler_MasksSensitiveKeys tests that credential keys are masked.
func TestSanitizeHandler_MasksSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantMask bool
	}{
		{
			name:     "cookie key is masked",
			key:      "cookie",
			value:    "session=abc123",
			wantMask: true,
		},
		{
			name:     "Cookie key (uppercase) is masked",
			key:      "Cookie",
			value:    "session=abc123",
			wantMask: true,
		},
		{
			name:     "authorization key is masked",
			key:      "authorization",
			value:    "Bearer token123",
			wantMask: true,
		},
		{
			name:     "api_key key is masked",
			key:      "api_key",
			value:    "sk_live_123456789",
			wantMask: true,
		},
		{
			name:     "geocoder_token key is masked by keyword",
			key:      "geocoder_token",
			value:    "tok_987654",
			wantMask: true,
		},
		{
			name:     "proxy-authorization header is masked",
			key:      "proxy-authorization",
			value:    "Basic dXNlcjpwYXNz",
			wantMask: true,
		},
		{
			name:     "url key is NOT masked",
			key:      "url",
			value:    "https://scholar.google.com/citations?user=abc",
			wantMask: false,
		},
		{
			name:     "scholar_id key is NOT masked",
			key:      "scholar_id",
			value:    "abc123",
			wantMask: false,
		},
		{
			name:     "primary_key key is NOT masked",
			key:      "primary_key",
			value:    "42",
			wantMask: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewLogger(&buf, true)

			logger.Info("test message", tt.key, tt.value)

			output := buf.String()

			if tt.wantMask {
				if strings.Contains(output, tt.value) {
					t.Errorf("expected value %q to be masked, but found in output: %s", tt.value, output)
				}
				if !strings.Contains(output, MaskValue) {
					t.Errorf("expected mask value %q in output, but not found: %s", MaskValue, output)
				}
			} else {
				if !strings.Contains(output, tt.value) {
					t.Errorf("expected value %q to be present in output, but not found: %s", tt.value, output)
				}
			}
		})
	}
}

// TestSanitizeHandler_TruncatesBodyAttrs tests page-snippet truncation.
func TestSanitizeHandler_TruncatesBodyAttrs(t *testing.T) {
	t.Parallel()

	t.Run("long body is truncated with a dropped-byte count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		long := strings.Repeat("x", maxBodyAttrLen+100)
		logger.Info("fetched page", "body", long)

		output := buf.String()
		if strings.Contains(output, long) {
			t.Error("expected body to be truncated")
		}
		if !strings.Contains(output, "(100 more bytes)") {
			t.Errorf("expected dropped-byte count in output: %s", output)
		}
	})

	t.Run("short body passes through unchanged", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Info("fetched page", "html", "<html></html>")

		if !strings.Contains(buf.String(), "<html></html>") {
			t.Errorf("expected short body to pass through: %s", buf.String())
		}
	})
}

// TestSanitizeHandler_Groups tests that nested groups are sanitized.
func TestSanitizeHandler_Groups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, true)

	logger.Info("request sent",
		slog.Group("headers",
			slog.String("authorization", "Bearer secret123"),
			slog.String("user-agent", "citemap/1.0"),
		),
	)

	output := buf.String()
	if strings.Contains(output, "Bearer secret123") {
		t.Errorf("expected grouped credential to be masked: %s", output)
	}
	if !strings.Contains(output, "citemap/1.0") {
		t.Errorf("expected non-sensitive group attr to pass through: %s", output)
	}
}

// TestSanitizeHandler_WithAttrs tests that pre-bound attributes are sanitized.
func TestSanitizeHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, true).With("token", "jwt.token.here")

	logger.Info("test message")

	output := buf.String()
	if strings.Contains(output, "jwt.token.here") {
		t.Errorf("expected bound credential to be masked: %s", output)
	}
	if !strings.Contains(output, MaskValue) {
		t.Errorf("expected mask value in output: %s", output)
	}
}

// TestLoggerLevels tests the verbose switch.
func TestLoggerLevels(t *testing.T) {
	t.Parallel()

	t.Run("default level suppresses info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Info("should be suppressed")
		logger.Warn("should appear")

		output := buf.String()
		if strings.Contains(output, "should be suppressed") {
			t.Error("info record leaked at warn level")
		}
		if !strings.Contains(output, "should appear") {
			t.Error("warn record missing")
		}
	})

	t.Run("verbose level passes debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Debug("debug detail")

		if !strings.Contains(buf.String(), "debug detail") {
			t.Error("debug record missing at verbose level")
		}
	})
}

// TestNewJSONLogger tests structured output with sanitization.
func TestNewJSONLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, true)

	logger.Info("test message", "password", "hunter2", "scholar_id", "abc123")

	output := buf.String()
	if !strings.Contains(output, `"msg":"test message"`) {
		t.Errorf("expected JSON output: %s", output)
	}
	if strings.Contains(output, "hunter2") {
		t.Errorf("expected password to be masked: %s", output)
	}
	if !strings.Contains(output, "abc123") {
		t.Errorf("expected scholar_id to pass through: %s", output)
	}
}
