package plugin

import "errors"

// Errors returned by plugins and the composer.
var (
	// ErrAlreadyMounted is returned by Mount on a composer already in use.
	ErrAlreadyMounted = errors.New("plugins already mounted")

	// ErrNoScriptHook is returned when a script defines no on_change function.
	ErrNoScriptHook = errors.New("script defines no on_change function")

	// ErrScriptMounted is returned when a script is registered while it is
	// still registered with a document.
	ErrScriptMounted = errors.New("script already registered")
)
