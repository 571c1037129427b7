// Package logging builds the slog loggers used across cmforge and provides
// small attribute helpers so call sites stay terse.
package logging
