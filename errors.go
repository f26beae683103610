package opencc

import (
	"errors"
	"fmt"
)

// ErrUnknownBuiltin is wrapped by the ConfigError returned for a built-in
// configuration selector out of range.
var ErrUnknownBuiltin = errors.New("unknown built-in configuration")

// ConfigError reports a failure to construct a pipeline. Op names the
// failing step, Name the configuration or file concerned. Err is the cause,
// typically one of the dictionary package's error types.
type ConfigError struct {
	Op   string
	Name string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("opencc: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("opencc: %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configError(op, name string, err error) error {
	var cerr *ConfigError
	if errors.As(err, &cerr) {
		return err
	}
	return &ConfigError{Op: op, Name: name, Err: err}
}
