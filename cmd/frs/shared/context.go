// Package shared holds the context passed to all CLI commands.
package shared

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// StateHome overrides the directory holding named contexts.
	// When empty, resolution falls through to FRS_STATE_DIR env →
	// config.yaml → ~/.config/frs/context.
	StateHome string
}
