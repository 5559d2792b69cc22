/*package errs contains the error taxonomy shared by every stage of the halo
population pipeline. Callers distinguish the fatal classes with errors.As.*/
package errs

import (
	"fmt"
)

// Config is returned when a run is configured in a way no input can satisfy:
// mismatched bin counts, a neighbor count larger than the particle set, an
// invalid padding width, a non-unimodular remap basis, and so on.
type Config struct {
	Msg string
}

func (e *Config) Error() string { return "configuration error: " + e.Msg }

// Shape is returned when input arrays have inconsistent shapes or lengths.
type Shape struct {
	Msg string
}

func (e *Shape) Error() string { return "data shape error: " + e.Msg }

// Configf creates a *Config error with a printf-style message.
func Configf(format string, args ...interface{}) error {
	return &Config{fmt.Sprintf(format, args...)}
}

// Shapef creates a *Shape error with a printf-style message.
func Shapef(format string, args ...interface{}) error {
	return &Shape{fmt.Sprintf(format, args...)}
}
