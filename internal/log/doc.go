// Package log builds the slog loggers used by csvinspect.
//
// Loggers write to stderr through a RedactHandler. Pipeline steps log column
// names and sample values (for example the most frequent value of a text
// column), so the handler masks any attribute whose key looks like a
// personal or secret column name, or whose value looks like a credential,
// a card number or an e-mail address.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("top value", "email", "jane@example.com") // email=***REDACTED***
package log
