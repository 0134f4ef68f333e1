package ldapboot

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// Subsystem is the tflog subsystem name used by this package.
const Subsystem = "bootstrap"

// LogOperation wraps a bootstrap operation with entry/exit logging and
// timing. Each invocation is tagged with a fresh correlation id so
// interleaved bootstrap calls can be told apart in the log stream.
func LogOperation(ctx context.Context, operation string, fields map[string]any, fn func() error) error {
	start := time.Now()

	if fields == nil {
		fields = make(map[string]any)
	}
	fields["operation"] = operation
	fields["op_id"] = uuid.NewString()

	tflog.SubsystemDebug(ctx, Subsystem, "Starting operation", SanitizeFields(fields))

	err := fn()

	fields["duration_ms"] = time.Since(start).Milliseconds()

	if err != nil {
		fields["error"] = err.Error()
		fields["status"] = StatusOf(err).String()
		tflog.SubsystemError(ctx, Subsystem, "Operation failed", SanitizeFields(fields))
	} else {
		tflog.SubsystemDebug(ctx, Subsystem, "Operation completed successfully", SanitizeFields(fields))
	}

	return err
}

// LogResult logs the Result record an operation produced.
func LogResult(ctx context.Context, operation string, res *Result, fields map[string]any) {
	if fields == nil {
		fields = make(map[string]any)
	}

	fields["operation"] = operation
	fields["result_kind"] = res.Kind.String()
	if res.Kind != KindConfiguration {
		fields["native_code"] = res.Code
	}
	if res.Message != "" {
		fields["vendor_message"] = res.Message
	}
	if res.Reason != "" {
		fields["reason"] = res.Reason
	}

	if res.OK() {
		tflog.SubsystemDebug(ctx, Subsystem, "Bootstrap result", fields)
	} else {
		tflog.SubsystemError(ctx, Subsystem, "Bootstrap result", fields)
	}
}

// SanitizeFields removes sensitive information from log fields.
func SanitizeFields(fields map[string]any) map[string]any {
	sanitized := make(map[string]any, len(fields))

	sensitiveKeys := map[string]bool{
		"password":    true,
		"passwd":      true,
		"secret":      true,
		"token":       true,
		"key":         true,
		"private_key": true,
		"credential":  true,
		"credentials": true,
	}

	for k, v := range fields {
		if sensitiveKeys[k] {
			sanitized[k] = "[REDACTED]"
		} else if str, ok := v.(string); ok && containsSensitivePattern(str) {
			sanitized[k] = "[REDACTED]"
		} else {
			sanitized[k] = v
		}
	}

	return sanitized
}

// containsSensitivePattern checks if a string contains patterns that might be sensitive.
func containsSensitivePattern(s string) bool {
	patterns := []string{
		"password=",
		"passwd=",
		"secret=",
		"token=",
		"key=",
	}

	lower := strings.ToLower(s)
	for _, pattern := range patterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}

	return false
}
