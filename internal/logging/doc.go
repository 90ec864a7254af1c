// Package logging configures the process-wide slog logger.
//
// By default logs go to stderr as text at warn level, so ordinary command
// output stays clean. With a log file configured (or APPCLI_DEBUG set),
// structured JSON logs are written to a size-rotated file under the XDG
// state directory.
package logging
