package dram

import "fmt"

// A ConfigurationError reports an invalid or inconsistent device geometry or
// traffic request. It is always detected before any traffic directive is
// produced.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

// NewConfigurationError creates a ConfigurationError for the named field.
func NewConfigurationError(
	field string,
	value any,
	reason string,
) *ConfigurationError {
	return &ConfigurationError{
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s = %v, %s",
		e.Field, e.Value, e.Reason)
}
