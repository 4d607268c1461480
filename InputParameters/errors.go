package InputParameters

import (
	"errors"
	"fmt"
)

// ErrConfiguration matches every *ConfigError through errors.Is.
var ErrConfiguration = errors.New("configuration error")

// ConfigError reports a parameter that is missing, malformed or physically
// meaningless. Runs never start with one of these outstanding.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Reason
	}
	return fmt.Sprintf("configuration error: %s = %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}
