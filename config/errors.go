package config

import "errors"

var (
	// ErrUnknownKeys is returned when a config file sets keys this version does not know.
	ErrUnknownKeys = errors.New("unknown config keys")

	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid config")
)
