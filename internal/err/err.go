package err

import "encoding/json"

// ConfigurationError represents errors that are a result of bad flags,
// combinations of flags, configuration settings, environment values, or
// other command usage issues.
type ConfigurationError struct {
	Err error
}

// ExecutionError represents errors that occur after a command has been
// validated and an unsuccessful result occurs. Network errors, server side
// errors, invalid credentials or responses are examples.
type ExecutionError struct {
	// friendly error message to display to the user
	Msg string
	// Err is the error that occurred during execution
	Err error
	// Optional attributes that can be used to provide additional context to the error
	Attrs []any
}

func (e *ConfigurationError) Error() string {
	return e.Err.Error()
}

func (e *ExecutionError) Error() string {
	return e.Err.Error()
}

// TryConvertErrorToAttrs tries to json unmarshal an error string into a
// slice that matches the slog convention for variadic parameters
// (alternating key value pairs).
func TryConvertErrorToAttrs(err error) []any {
	var result map[string]any
	umError := json.Unmarshal([]byte(err.Error()), &result)
	if umError != nil {
		return nil
	}
	attrs := make([]any, 0, len(result)*2)
	for k, v := range result {
		attrs = append(attrs, k, v)
	}
	return attrs
}
