package storage

import "fmt"

// ConfigError reports invalid or incomplete Router configuration. It
// is returned synchronously, before any backend I/O is attempted, and
// is never worth retrying.
type ConfigError struct {
	Field string // configuration field at fault
	Value string // offending value, if any
}

func (e *ConfigError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("storage config: %s %q is invalid, the only supported remote kind is %q", e.Field, e.Value, KindS3)
	}
	return fmt.Sprintf("storage config: %s must be set", e.Field)
}

func errUnsupportedKind(kind string) *ConfigError {
	return &ConfigError{Field: "kind", Value: kind}
}

func errMissingBasePath() *ConfigError {
	return &ConfigError{Field: "base path"}
}

func errMissingStaticRoot() *ConfigError {
	return &ConfigError{Field: "static root parent"}
}
