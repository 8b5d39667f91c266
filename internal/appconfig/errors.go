package appconfig

import "errors"

var (
	// ErrNotFound indicates the settings document has not been created yet.
	ErrNotFound = errors.New("configuration not found")
)
